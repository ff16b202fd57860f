// Package caesar implements the shift cipher and frequency-analysis key
// recovery for it.
package caesar

import (
	"errors"
	"sort"

	"rotcrack/internal/alphabet"
	"rotcrack/internal/freq"
	"rotcrack/internal/lang"
)

// expectedFloor keeps the chi-squared denominator positive when a sparse
// reference assigns a letter no probability at all.
const expectedFloor = 1e-6

// ErrBadTolerance reports a negative ambiguity tolerance.
var ErrBadTolerance = errors.New("caesar: tolerance must not be negative")

// Options tunes key recovery.
type Options struct {
	// Tolerance is the score distance within which a losing shift still
	// counts as a near-tie worth surfacing. Zero keeps exact ties only.
	Tolerance float64
}

// DefaultOptions returns the recovery settings used when the caller has no
// opinion.
func DefaultOptions() Options {
	return Options{Tolerance: 0.05}
}

// Result describes a recovered key and the evidence behind it.
type Result struct {
	// Key is the winning shift under the smallest-shift tie-break.
	Key int
	// Plaintext is the ciphertext decrypted with Key.
	Plaintext string
	// Scores holds the dissimilarity of every candidate shift.
	Scores [alphabet.Size]float64
	// Letters counts the letter runes that carried the analysis.
	Letters int
	// Ambiguous is set when another shift scored within Tolerance of the
	// winner. The winner is still returned; callers decide whether to warn.
	Ambiguous bool
	// Candidates lists the shifts scoring within Tolerance of the winner,
	// ordered by score and then by shift. The winner comes first.
	Candidates []int
}

// ChiSquared measures how far the observed letter shares sit from the
// reference rotated by shift. Lower is a better match.
func ChiSquared(observed [alphabet.Size]float64, ref lang.Reference, shift int) float64 {
	expected := ref.Rotated(shift)
	sum := 0.0
	for i, obs := range observed {
		exp := expected[i]
		if exp < expectedFloor {
			exp = expectedFloor
		}
		d := obs - exp
		sum += d * d / exp
	}
	return sum
}

// Crack recovers the most plausible key for ciphertext by scoring its
// letter distribution against ref under all 26 shifts. Ties go to the
// smallest shift; near-ties within opts.Tolerance are reported through
// Ambiguous and Candidates. Text without a single letter yields
// freq.ErrNoSignal.
func Crack(ciphertext string, ref lang.Reference, opts Options) (Result, error) {
	if opts.Tolerance < 0 {
		return Result{}, ErrBadTolerance
	}
	table := freq.Count(ciphertext)
	observed, err := table.Proportions()
	if err != nil {
		return Result{}, err
	}

	res := Result{Letters: table.Letters()}
	for shift := 0; shift < alphabet.Size; shift++ {
		res.Scores[shift] = ChiSquared(observed, ref, shift)
		if res.Scores[shift] < res.Scores[res.Key] {
			res.Key = shift
		}
	}
	for shift := 0; shift < alphabet.Size; shift++ {
		if res.Scores[shift]-res.Scores[res.Key] <= opts.Tolerance {
			res.Candidates = append(res.Candidates, shift)
		}
	}
	sort.SliceStable(res.Candidates, func(i, j int) bool {
		return res.Scores[res.Candidates[i]] < res.Scores[res.Candidates[j]]
	})
	res.Ambiguous = len(res.Candidates) > 1

	res.Plaintext, err = Decrypt(ciphertext, res.Key)
	if err != nil {
		return Result{}, err
	}
	return res, nil
}
