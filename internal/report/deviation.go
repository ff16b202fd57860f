// Package report renders crack results as tables and terminal plots.
package report

import (
	"fmt"
	"io"
	"math"
	"sort"

	"rotcrack/internal/alphabet"
	"rotcrack/internal/lang"
)

// Deviation describes how far one letter's observed share sits from the
// expectation under a shift.
type Deviation struct {
	Letter   rune
	Observed float64
	Expected float64
}

// Delta returns observed minus expected.
func (d Deviation) Delta() float64 {
	return d.Observed - d.Expected
}

// TopDeviations returns the n letters whose observed shares stray furthest
// from the reference rotated by shift, strongest first; ties break on the
// letter.
func TopDeviations(observed [alphabet.Size]float64, ref lang.Reference, shift, n int) []Deviation {
	if n <= 0 {
		return nil
	}
	expected := ref.Rotated(shift)
	devs := make([]Deviation, 0, alphabet.Size)
	for ord := 0; ord < alphabet.Size; ord++ {
		devs = append(devs, Deviation{
			Letter:   'a' + rune(ord),
			Observed: observed[ord],
			Expected: expected[ord],
		})
	}
	sort.Slice(devs, func(i, j int) bool {
		di := math.Abs(devs[i].Delta())
		dj := math.Abs(devs[j].Delta())
		if di == dj {
			return devs[i].Letter < devs[j].Letter
		}
		return di > dj
	})
	if n > len(devs) {
		n = len(devs)
	}
	return devs[:n]
}

// RenderDeviations prints the letters driving the score.
func RenderDeviations(w io.Writer, devs []Deviation) error {
	if len(devs) == 0 {
		return nil
	}
	headers := []string{"Letter", "Observed", "Expected", "Delta"}
	rows := make([][]string, 0, len(devs))
	for _, dev := range devs {
		rows = append(rows, []string{
			string(dev.Letter),
			fmt.Sprintf("%.2f%%", dev.Observed*100),
			fmt.Sprintf("%.2f%%", dev.Expected*100),
			fmt.Sprintf("%+.2f%%", dev.Delta()*100),
		})
	}
	aligns := []Align{AlignLeft, AlignRight, AlignRight, AlignRight}
	for _, line := range FormatTable(headers, rows, aligns) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
