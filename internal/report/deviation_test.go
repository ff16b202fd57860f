package report

import (
	"testing"

	"rotcrack/internal/alphabet"
	"rotcrack/internal/lang"
)

func TestTopDeviations(t *testing.T) {
	var observed [alphabet.Size]float64
	for i := range observed {
		observed[i] = 1.0 / float64(alphabet.Size)
	}
	devs := TopDeviations(observed, lang.English(), 0, 3)
	if len(devs) != 3 {
		t.Fatalf("expected 3 deviations, got %d", len(devs))
	}
	// Against a uniform observation the most frequent English letter is
	// also the most underrepresented one.
	if devs[0].Letter != 'e' {
		t.Fatalf("strongest deviation = %c, want e", devs[0].Letter)
	}
	if devs[0].Delta() >= 0 {
		t.Fatalf("expected e to be underrepresented, delta %v", devs[0].Delta())
	}
}

func TestTopDeviationsTieBreaksOnLetter(t *testing.T) {
	// Offsets are powers of two so both deltas are exactly equal in
	// magnitude.
	var observed [alphabet.Size]float64
	ref := lang.Reference{Name: "crafted"}
	for i := range observed {
		observed[i] = 1.0 / 32.0
		ref.Freqs[i] = 1.0 / 32.0
	}
	ref.Freqs[7] += 1.0 / 64.0
	ref.Freqs[2] -= 1.0 / 64.0

	devs := TopDeviations(observed, ref, 0, 2)
	if len(devs) != 2 {
		t.Fatalf("expected 2 deviations, got %d", len(devs))
	}
	if devs[0].Letter != 'c' || devs[1].Letter != 'h' {
		t.Fatalf("unexpected tie order: %c, %c", devs[0].Letter, devs[1].Letter)
	}
}

func TestTopDeviationsBounds(t *testing.T) {
	var observed [alphabet.Size]float64
	if devs := TopDeviations(observed, lang.English(), 0, 0); devs != nil {
		t.Fatalf("expected nil for n=0, got %v", devs)
	}
	if devs := TopDeviations(observed, lang.English(), 0, 100); len(devs) != alphabet.Size {
		t.Fatalf("expected %d deviations, got %d", alphabet.Size, len(devs))
	}
}
