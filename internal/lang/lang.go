// Package lang provides reference letter-frequency distributions.
package lang

import (
	"errors"
	"fmt"
	"math"

	"rotcrack/internal/alphabet"
)

// sumTolerance bounds how far a distribution may drift from summing to one.
const sumTolerance = 1e-3

var (
	// ErrBadDistribution reports a reference whose shares are out of range
	// or do not sum to one.
	ErrBadDistribution = errors.New("lang: invalid distribution")
	// ErrIncomplete reports a reference file that does not cover all letters.
	ErrIncomplete = errors.New("lang: reference is missing letters")
	// ErrNotFound reports an unknown reference name.
	ErrNotFound = errors.New("lang: reference not found")
)

// Reference is an expected letter-frequency distribution for a source
// language. Shares are indexed by alphabet ordinal and sum to one.
type Reference struct {
	Name  string
	Freqs [alphabet.Size]float64
}

// English returns the built-in English reference distribution, following
// Lewand's tabulation of relative letter frequencies.
// source: https://en.wikipedia.org/wiki/Letter_frequency
func English() Reference {
	return Reference{
		Name: "english",
		Freqs: [alphabet.Size]float64{
			0.08167, 0.01492, 0.02782, 0.04253, 0.12702, 0.02228, 0.02015,
			0.06094, 0.06966, 0.00153, 0.00772, 0.04025, 0.02406, 0.06749,
			0.07507, 0.01929, 0.00095, 0.05987, 0.06327, 0.09056, 0.02758,
			0.00978, 0.02360, 0.00150, 0.01974, 0.00074,
		},
	}
}

// Rotated returns the distribution under a forward shift: entry i holds the
// share of the plaintext letter that becomes ciphertext letter i.
func (r Reference) Rotated(shift int) [alphabet.Size]float64 {
	var out [alphabet.Size]float64
	for i := range out {
		out[i] = r.Freqs[((i-shift)%alphabet.Size+alphabet.Size)%alphabet.Size]
	}
	return out
}

// Validate checks that the distribution is usable for scoring.
func (r Reference) Validate() error {
	sum := 0.0
	for i, f := range r.Freqs {
		if f < 0 || f > 1 {
			return fmt.Errorf("%w: letter %c has share %v", ErrBadDistribution, 'a'+rune(i), f)
		}
		sum += f
	}
	if math.Abs(sum-1) > sumTolerance {
		return fmt.Errorf("%w: shares sum to %v", ErrBadDistribution, sum)
	}
	return nil
}
