// Package report renders crack results as tables and terminal plots.
package report

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Align selects how a table column is padded.
type Align int

// Column alignments.
const (
	AlignLeft Align = iota
	AlignRight
)

// FormatTable lays the rows out as space-padded columns under the headers.
// Columns beyond the aligns slice fall back to left alignment.
func FormatTable(headers []string, rows [][]string, aligns []Align) []string {
	colCount := len(headers)
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	if colCount == 0 {
		return nil
	}

	widths := make([]int, colCount)
	for i, header := range headers {
		widths[i] = runewidth.StringWidth(header)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := make([]string, 0, len(rows)+1)
	if len(headers) > 0 {
		lines = append(lines, formatRow(headers, widths, aligns))
	}
	for _, row := range rows {
		lines = append(lines, formatRow(row, widths, aligns))
	}
	return lines
}

func formatRow(row []string, widths []int, aligns []Align) string {
	var b strings.Builder
	for i, width := range widths {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		align := AlignLeft
		if i < len(aligns) {
			align = aligns[i]
		}
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(padCell(cell, width, align))
	}
	return strings.TrimRight(b.String(), " ")
}

func padCell(value string, width int, align Align) string {
	padding := width - runewidth.StringWidth(value)
	if padding <= 0 {
		return value
	}
	if align == AlignRight {
		return strings.Repeat(" ", padding) + value
	}
	return value + strings.Repeat(" ", padding)
}
