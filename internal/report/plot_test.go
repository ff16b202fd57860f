package report

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"rotcrack/internal/alphabet"
)

func TestPlotSeries(t *testing.T) {
	var buf bytes.Buffer
	err := PlotSeries(&buf, "Test Plot", []Series{
		{Name: "A", Values: []float64{1, 2, 3, 2, 1}},
		{Name: "B", Values: []float64{1, 1, 2, 3, 4}},
	}, 5, 4)
	if err != nil {
		t.Fatalf("PlotSeries failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Test Plot") {
		t.Fatalf("expected title in output")
	}
	if !strings.Contains(out, "Scaled per series") {
		t.Fatalf("expected scale note in output")
	}
	if !strings.Contains(out, "Legend:") {
		t.Fatalf("expected legend in output")
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	expectedMin := 1 + 1 + 2 + 4 + 1
	if len(lines) < expectedMin {
		t.Fatalf("expected at least %d lines of output, got %d", expectedMin, len(lines))
	}
}

func TestPlotBars(t *testing.T) {
	left := Series{Name: "observed", Values: make([]float64, alphabet.Size)}
	right := Series{Name: "expected", Values: make([]float64, alphabet.Size)}
	left.Values[0] = 0.5
	left.Values[1] = 0.25
	for i := range right.Values {
		right.Values[i] = 1.0 / float64(alphabet.Size)
	}

	var buf bytes.Buffer
	if err := PlotBars(&buf, "Distribution", left, right, 4, false); err != nil {
		t.Fatalf("PlotBars failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Distribution") {
		t.Fatalf("expected title in output")
	}
	if !strings.Contains(out, "50.0%") {
		t.Fatalf("expected top axis label in output:\n%s", out)
	}
	if !strings.Contains(out, "abcdefghijklmnopqrstuvwxyz") {
		t.Fatalf("expected letter ruler in output:\n%s", out)
	}
	if !strings.Contains(out, "observed") || !strings.Contains(out, "expected") {
		t.Fatalf("expected legend names in output:\n%s", out)
	}

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// title + height rows + ruler + legend
	if len(lines) != 1+4+1+1 {
		t.Fatalf("expected 7 lines, got %d:\n%s", len(lines), out)
	}
	axisWidth := utf8.RuneCountInString("50.0%")
	for _, line := range lines[1 : 1+4] {
		if got := utf8.RuneCountInString(line); got != axisWidth+utf8.RuneCountInString(axisSeparator)+alphabet.Size {
			t.Fatalf("unexpected plot row width %d: %q", got, line)
		}
	}
}

func TestPlotBarsRejectsWrongLength(t *testing.T) {
	short := Series{Name: "short", Values: make([]float64, alphabet.Size-1)}
	full := Series{Name: "full", Values: make([]float64, alphabet.Size)}
	var buf bytes.Buffer
	if err := PlotBars(&buf, "", short, full, 4, false); err == nil {
		t.Fatalf("expected error for short series")
	}
}

func TestPlotBarsEmpty(t *testing.T) {
	flat := Series{Name: "flat", Values: make([]float64, alphabet.Size)}
	var buf bytes.Buffer
	if err := PlotBars(&buf, "", flat, flat, 4, false); err != nil {
		t.Fatalf("PlotBars failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Nothing to plot.") {
		t.Fatalf("expected empty notice, got %q", buf.String())
	}
}
