// Package freq tallies letter frequencies in arbitrary text.
package freq

import (
	"errors"

	"rotcrack/internal/alphabet"
)

// ErrNoSignal reports text with no letters at all, so no frequency
// distribution can be derived from it.
var ErrNoSignal = errors.New("freq: text contains no letters")

// Table holds raw letter counts over the full alphabet. Letters that never
// occur keep an explicit zero so a Table always reads as a 26-long vector.
type Table struct {
	counts  [alphabet.Size]int
	letters int
}

// Count scans text and tallies every letter case-insensitively. Digits,
// punctuation, whitespace and any other non-letter runes are skipped.
func Count(text string) Table {
	var t Table
	for _, r := range text {
		ord, err := alphabet.Ordinal(r)
		if err != nil {
			continue
		}
		t.counts[ord]++
		t.letters++
	}
	return t
}

// Letters returns how many letter runes were counted.
func (t Table) Letters() int {
	return t.letters
}

// Count returns the tally for one letter. Non-letters count zero.
func (t Table) Count(r rune) int {
	ord, err := alphabet.Ordinal(r)
	if err != nil {
		return 0
	}
	return t.counts[ord]
}

// Counts returns the raw tally vector indexed by alphabet ordinal.
func (t Table) Counts() [alphabet.Size]int {
	return t.counts
}

// Proportion returns one letter's share of all counted letters.
func (t Table) Proportion(r rune) (float64, error) {
	if t.letters == 0 {
		return 0, ErrNoSignal
	}
	return float64(t.Count(r)) / float64(t.letters), nil
}

// Proportions normalizes the table into shares summing to one. It returns
// ErrNoSignal when nothing was counted rather than inventing a uniform
// distribution.
func (t Table) Proportions() ([alphabet.Size]float64, error) {
	var p [alphabet.Size]float64
	if t.letters == 0 {
		return p, ErrNoSignal
	}
	total := float64(t.letters)
	for i, c := range t.counts {
		p[i] = float64(c) / total
	}
	return p, nil
}
