package alphabet

import (
	"errors"
	"testing"
)

func TestOrdinalIgnoresCase(t *testing.T) {
	cases := []struct {
		r    rune
		want int
	}{
		{'a', 0},
		{'A', 0},
		{'e', 4},
		{'E', 4},
		{'z', 25},
		{'Z', 25},
	}
	for _, c := range cases {
		got, err := Ordinal(c.r)
		if err != nil {
			t.Fatalf("Ordinal(%q) failed: %v", c.r, err)
		}
		if got != c.want {
			t.Fatalf("Ordinal(%q) = %d, want %d", c.r, got, c.want)
		}
	}
}

func TestOrdinalRejectsNonLetters(t *testing.T) {
	for _, r := range []rune{' ', '3', '.', '\n', 'é', 'ß', '@'} {
		if _, err := Ordinal(r); !errors.Is(err, ErrInvalidSymbol) {
			t.Fatalf("Ordinal(%q) error = %v, want ErrInvalidSymbol", r, err)
		}
	}
}

func TestLetterRoundTrip(t *testing.T) {
	for ord := 0; ord < Size; ord++ {
		lower, err := Letter(ord, false)
		if err != nil {
			t.Fatalf("Letter(%d, false) failed: %v", ord, err)
		}
		upper, err := Letter(ord, true)
		if err != nil {
			t.Fatalf("Letter(%d, true) failed: %v", ord, err)
		}
		if lower != 'a'+rune(ord) || upper != 'A'+rune(ord) {
			t.Fatalf("Letter(%d) = %q/%q", ord, lower, upper)
		}
		back, err := Ordinal(lower)
		if err != nil || back != ord {
			t.Fatalf("Ordinal(%q) = %d, %v, want %d", lower, back, err, ord)
		}
	}
}

func TestLetterRange(t *testing.T) {
	for _, ord := range []int{-1, Size, 100} {
		if _, err := Letter(ord, false); !errors.Is(err, ErrOrdinalRange) {
			t.Fatalf("Letter(%d) error = %v, want ErrOrdinalRange", ord, err)
		}
	}
}

func TestIsLetter(t *testing.T) {
	cases := []struct {
		r    rune
		want bool
	}{
		{'a', true},
		{'Z', true},
		{'m', true},
		{'0', false},
		{' ', false},
		{'-', false},
		{'é', false},
	}
	for _, c := range cases {
		if got := IsLetter(c.r); got != c.want {
			t.Fatalf("IsLetter(%q) = %v, want %v", c.r, got, c.want)
		}
	}
}
