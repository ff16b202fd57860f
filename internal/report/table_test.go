package report

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Letter", "Count", "Share"}
	rows := [][]string{
		{"a", "12", "6.38%"},
		{"z", "3", "1.60%"},
	}
	aligns := []Align{AlignLeft, AlignRight, AlignRight}

	lines := FormatTable(headers, rows, aligns)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Letter  Count  Share" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "a          12  6.38%" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "z           3  1.60%" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableTrimsTrailingPadding(t *testing.T) {
	lines := FormatTable([]string{"Key", "Note"}, [][]string{{"15", ""}}, nil)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[1] != "15" {
		t.Fatalf("expected trailing padding trimmed, got %q", lines[1])
	}
}

func TestFormatTableHandlesRaggedRows(t *testing.T) {
	lines := FormatTable([]string{"A"}, [][]string{{"x", "extra"}}, nil)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[1] != "x  extra" {
		t.Fatalf("unexpected ragged row: %q", lines[1])
	}
}
