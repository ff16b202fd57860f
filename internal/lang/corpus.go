// Package lang provides reference letter-frequency distributions.
package lang

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"rotcrack/internal/freq"
)

// maxCorpusBytes caps remote corpus downloads.
const maxCorpusBytes = 16 << 20

// BuildFromCorpus derives a reference distribution from sample text in the
// target language. The corpus must contain at least one letter.
func BuildFromCorpus(name, corpus string) (Reference, error) {
	shares, err := freq.Count(corpus).Proportions()
	if err != nil {
		return Reference{}, fmt.Errorf("failed to profile corpus: %w", err)
	}
	return Reference{Name: name, Freqs: shares}, nil
}

// FetchCorpus downloads corpus text, for example a public-domain book, so
// a reference can be built from it.
func FetchCorpus(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected corpus status: %s", resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxCorpusBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read corpus: %w", err)
	}
	return string(data), nil
}
