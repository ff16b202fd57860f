package tui

import "testing"

func TestWrapTextBreaksAtSpaces(t *testing.T) {
	got := wrapText("one two three", 8)
	want := "one two\nthree"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestWrapTextHardBreaksLongWords(t *testing.T) {
	got := wrapText("abcdefghij", 4)
	want := "abcd\nefgh\nij"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestWrapTextCountsWideRunes(t *testing.T) {
	got := wrapText("日本 語学", 5)
	want := "日本\n語学"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestWrapTextPreservesNewlines(t *testing.T) {
	got := wrapText("a\nb", 10)
	if got != "a\nb" {
		t.Fatalf("expected newlines preserved, got %q", got)
	}
}

func TestWrapTextZeroWidth(t *testing.T) {
	got := wrapText("anything at all", 0)
	if got != "anything at all" {
		t.Fatalf("expected input unchanged, got %q", got)
	}
}
