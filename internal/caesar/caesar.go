// Package caesar implements the shift cipher and frequency-analysis key
// recovery for it.
package caesar

import (
	"errors"
	"math/rand"
	"strings"
	"time"
	"unicode"

	"rotcrack/internal/alphabet"
)

// ErrKeyRange reports a shift key outside [0, 26).
var ErrKeyRange = errors.New("caesar: key out of range")

// Encrypt shifts every letter of text forward by key. Case is preserved
// and non-letter characters pass through unchanged.
func Encrypt(text string, key int) (string, error) {
	if key < 0 || key >= alphabet.Size {
		return "", ErrKeyRange
	}
	return shiftText(text, key), nil
}

// Decrypt reverses Encrypt for the same key.
func Decrypt(text string, key int) (string, error) {
	if key < 0 || key >= alphabet.Size {
		return "", ErrKeyRange
	}
	return shiftText(text, alphabet.Size-key), nil
}

// RandomKey returns a uniformly random non-identity key, for producing
// practice ciphertexts.
func RandomKey() int {
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	return 1 + rnd.Intn(alphabet.Size-1)
}

func shiftText(text string, shift int) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		b.WriteRune(shiftRune(r, shift))
	}
	return b.String()
}

func shiftRune(r rune, shift int) rune {
	ord, err := alphabet.Ordinal(r)
	if err != nil {
		return r
	}
	// The rotated ordinal stays inside the alphabet, so the lookup
	// cannot fail.
	out, _ := alphabet.Letter((ord+shift)%alphabet.Size, unicode.IsUpper(r))
	return out
}
