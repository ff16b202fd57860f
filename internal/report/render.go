// Package report renders crack results as tables and terminal plots.
package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"rotcrack/internal/caesar"
	"rotcrack/internal/freq"
	"rotcrack/internal/lang"
	"rotcrack/internal/model"
)

const historyTimeFormat = "2006-01-02 15:04"

// RenderCrackSummary prints the recovered key and the evidence behind it.
func RenderCrackSummary(w io.Writer, res caesar.Result, ref lang.Reference) error {
	if _, err := fmt.Fprintf(w, "Key: %d (reference %s)\n", res.Key, ref.Name); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Score: %.4f (chi-squared, lower is better)\n", res.Scores[res.Key]); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Letters: %d\n", res.Letters); err != nil {
		return err
	}
	if res.Ambiguous {
		parts := make([]string, 0, len(res.Candidates))
		for _, shift := range res.Candidates {
			parts = append(parts, strconv.Itoa(shift))
		}
		if _, err := fmt.Fprintf(w, "Near ties: shifts %s\n", strings.Join(parts, ", ")); err != nil {
			return err
		}
	}
	return nil
}

// RenderScores prints the per-shift score table with decrypted previews,
// followed by a sparkline of the score shape across all shifts.
func RenderScores(w io.Writer, ciphertext string, res caesar.Result, preview int) error {
	if preview <= 0 {
		preview = 32
	}
	near := make(map[int]bool, len(res.Candidates))
	for _, shift := range res.Candidates {
		near[shift] = true
	}
	headers := []string{"Shift", "Score", "Note", "Preview"}
	rows := make([][]string, 0, len(res.Scores))
	for shift, score := range res.Scores {
		plain, err := caesar.Decrypt(ciphertext, shift)
		if err != nil {
			return err
		}
		note := ""
		switch {
		case shift == res.Key:
			note = "best"
		case near[shift]:
			note = "tie"
		}
		rows = append(rows, []string{
			strconv.Itoa(shift),
			fmt.Sprintf("%.4f", score),
			note,
			runewidth.Truncate(firstLine(plain), preview, "…"),
		})
	}
	aligns := []Align{AlignRight, AlignRight, AlignLeft, AlignLeft}
	for _, line := range FormatTable(headers, rows, aligns) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Shape: %s (by shift, lower is better)\n", Sparkline(res.Scores[:]))
	return err
}

// RenderCounts prints observed letter counts and shares.
func RenderCounts(w io.Writer, table freq.Table) error {
	if table.Letters() == 0 {
		_, err := fmt.Fprintln(w, "No letters found.")
		return err
	}
	if _, err := fmt.Fprintf(w, "Letters: %d\n", table.Letters()); err != nil {
		return err
	}
	headers := []string{"Letter", "Count", "Share"}
	rows := make([][]string, 0, len(table.Counts()))
	total := float64(table.Letters())
	for ord, count := range table.Counts() {
		rows = append(rows, []string{
			string(rune('a' + ord)),
			strconv.Itoa(count),
			fmt.Sprintf("%.2f%%", float64(count)/total*100),
		})
	}
	aligns := []Align{AlignLeft, AlignRight, AlignRight}
	for _, line := range FormatTable(headers, rows, aligns) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderDistribution plots observed shares against the reference rotated by
// the given shift. Shift zero compares against the plain reference.
func RenderDistribution(w io.Writer, table freq.Table, ref lang.Reference, shift, height int, forceColor bool) error {
	observed, err := table.Proportions()
	if err != nil {
		return err
	}
	expected := ref.Rotated(shift)
	title := fmt.Sprintf("Observed vs %s", ref.Name)
	if shift != 0 {
		title = fmt.Sprintf("Observed vs %s (shift %d)", ref.Name, shift)
	}
	left := Series{Name: "observed", Values: observed[:]}
	right := Series{Name: "expected", Values: expected[:]}
	return PlotBars(w, title, left, right, height, forceColor)
}

// RenderHistory prints a summary block and the stored crack table.
func RenderHistory(w io.Writer, hist History) error {
	if len(hist.Records) == 0 {
		_, err := fmt.Fprintln(w, "No cracks recorded.")
		return err
	}
	var scoreSum float64
	var letterSum, ambiguous int
	for _, rec := range hist.Records {
		scoreSum += rec.Score
		letterSum += rec.Letters
		if rec.Ambiguous {
			ambiguous++
		}
	}
	count := len(hist.Records)
	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Cracks: %d\n", count); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg score: %.4f\n", scoreSum/float64(count)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg letters: %.1f\n", float64(letterSum)/float64(count)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Ambiguous: %d of %d\n", ambiguous, count); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}

	headers := []string{"ID", "When", "Lang", "Key", "Score", "Letters", "Tie", "Ciphertext"}
	rows := make([][]string, 0, count)
	for _, rec := range hist.Records {
		tie := ""
		if rec.Ambiguous {
			tie = "~"
		}
		rows = append(rows, []string{
			strconv.FormatInt(rec.ID, 10),
			rec.CreatedAt.Format(historyTimeFormat),
			rec.Lang,
			strconv.Itoa(rec.Key),
			fmt.Sprintf("%.4f", rec.Score),
			strconv.Itoa(rec.Letters),
			tie,
			rec.CiphertextHead,
		})
	}
	aligns := []Align{AlignRight, AlignLeft, AlignLeft, AlignRight, AlignRight, AlignRight, AlignLeft, AlignLeft}
	for _, line := range FormatTable(headers, rows, aligns) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderHistoryCurve plots score and input-size trends across saved cracks.
func RenderHistoryCurve(w io.Writer, records []model.CrackRecord, window, totalWidth, height int, useColor bool) error {
	if len(records) == 0 {
		return nil
	}
	scores := make([]float64, len(records))
	letters := make([]float64, len(records))
	for i, rec := range records {
		scores[i] = rec.Score
		letters[i] = float64(rec.Letters)
	}
	scores = MovingAverage(scores, window)
	letters = MovingAverage(letters, window)

	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return PlotSeriesWithColor(w, "Crack History", []Series{
		{Name: "score", Values: scores},
		{Name: "letters", Values: letters},
	}, width, height, useColor)
}

// RenderLetterTotals prints aggregate letter tallies across saved cracks,
// most frequent first.
func RenderLetterTotals(w io.Writer, aggs []model.LetterAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No letter tallies recorded.")
		return err
	}
	sorted := make([]model.LetterAggregate, len(aggs))
	copy(sorted, aggs)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Count == sorted[j].Count {
			return sorted[i].Letter < sorted[j].Letter
		}
		return sorted[i].Count > sorted[j].Count
	})
	var total int64
	for _, agg := range sorted {
		total += agg.Count
	}

	headers := []string{"Letter", "Count", "Share"}
	rows := make([][]string, 0, len(sorted))
	for _, agg := range sorted {
		share := 0.0
		if total > 0 {
			share = float64(agg.Count) / float64(total) * 100
		}
		rows = append(rows, []string{
			agg.Letter,
			strconv.FormatInt(agg.Count, 10),
			fmt.Sprintf("%.2f%%", share),
		})
	}
	aligns := []Align{AlignLeft, AlignRight, AlignRight}
	for _, line := range FormatTable(headers, rows, aligns) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		return s[:i]
	}
	return s
}
