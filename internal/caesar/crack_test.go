package caesar

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"rotcrack/internal/alphabet"
	"rotcrack/internal/freq"
	"rotcrack/internal/lang"
)

// tutorialCiphertext is a shift-15 encryption of a description of a
// programming language, 188 letters long.
const tutorialCiphertext = "radyjgtxhpsncpbxrvtctgpaejgedhtegdvgpbbxcvapcvjpvtrdbqxcxcviwtpeegdprwpqxaxinpcsxcitgprixktstktadebtciduphrgxeixcvapcvjpvtlxiwpctuuxrxtcipcsgdqjhixcugphigjrijgtudgbjaixiwgtpstsegdvgpbbxcvo"

const englishParagraph = "The quick brown fox jumps over the lazy dog while the patient " +
	"cryptographer counts every letter that passes through her hands. " +
	"Frequency analysis works because natural language is stubbornly uneven: " +
	"the letter e appears far more often than q or z, and no amount of " +
	"shifting can hide that shape. When a message is long enough, the " +
	"observed distribution settles toward the familiar English profile, and " +
	"the correct shift snaps into place like a key turning in a lock. " +
	"Shorter notes are riskier, of course, yet even a few sentences usually " +
	"carry enough signal to separate the true key from its nearest rivals. " +
	"Given patience and a decent reference table, the whole attack reduces " +
	"to simple counting followed by a short search over twenty six shifts."

func TestCrackTutorialCiphertext(t *testing.T) {
	res, err := Crack(tutorialCiphertext, lang.English(), DefaultOptions())
	if err != nil {
		t.Fatalf("Crack failed: %v", err)
	}
	if res.Key != 15 {
		t.Fatalf("expected key 15, got %d", res.Key)
	}
	if res.Letters != 188 {
		t.Fatalf("expected 188 letters, got %d", res.Letters)
	}
	if !strings.HasPrefix(res.Plaintext, "clojureisadynamic") {
		t.Fatalf("unexpected plaintext prefix: %q", res.Plaintext[:20])
	}
	if res.Ambiguous {
		t.Fatalf("expected unambiguous result, candidates %v", res.Candidates)
	}
	if len(res.Candidates) != 1 || res.Candidates[0] != 15 {
		t.Fatalf("unexpected candidates: %v", res.Candidates)
	}
	for shift := 0; shift < alphabet.Size; shift++ {
		if shift != res.Key && res.Scores[shift] <= res.Scores[res.Key] {
			t.Fatalf("shift %d scored %v, not above winner %v", shift, res.Scores[shift], res.Scores[res.Key])
		}
	}
}

func TestCrackRecoversEveryKey(t *testing.T) {
	for key := 0; key < alphabet.Size; key++ {
		enc, err := Encrypt(englishParagraph, key)
		if err != nil {
			t.Fatalf("Encrypt key %d failed: %v", key, err)
		}
		res, err := Crack(enc, lang.English(), DefaultOptions())
		if err != nil {
			t.Fatalf("Crack key %d failed: %v", key, err)
		}
		if res.Key != key {
			t.Fatalf("expected key %d, got %d", key, res.Key)
		}
		if res.Plaintext != englishParagraph {
			t.Fatalf("key %d: plaintext mismatch", key)
		}
	}
}

func TestCrackNoSignal(t *testing.T) {
	for _, text := range []string{"", "?!.,;:", "0123 4567", " \t\n"} {
		if _, err := Crack(text, lang.English(), DefaultOptions()); !errors.Is(err, freq.ErrNoSignal) {
			t.Fatalf("%q: error = %v, want ErrNoSignal", text, err)
		}
	}
}

func TestCrackRejectsNegativeTolerance(t *testing.T) {
	_, err := Crack("abc", lang.English(), Options{Tolerance: -0.1})
	if !errors.Is(err, ErrBadTolerance) {
		t.Fatalf("error = %v, want ErrBadTolerance", err)
	}
}

func TestCrackIsDeterministic(t *testing.T) {
	first, err := Crack(tutorialCiphertext, lang.English(), DefaultOptions())
	if err != nil {
		t.Fatalf("Crack failed: %v", err)
	}
	second, err := Crack(tutorialCiphertext, lang.English(), DefaultOptions())
	if err != nil {
		t.Fatalf("Crack failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated cracks differ:\n%+v\n%+v", first, second)
	}
}

// tieText repeats every letter base times except d and j, which get spiked
// so that shifts 3 and 9 score identically against a reference weighted
// only at letter a.
func tieText(base, spiked int) string {
	var b strings.Builder
	for ord := 0; ord < alphabet.Size; ord++ {
		n := base
		if ord == 3 || ord == 9 {
			n = spiked
		}
		b.WriteString(strings.Repeat(string(rune('a'+ord)), n))
	}
	return b.String()
}

func TestCrackTieBreaksToSmallestShift(t *testing.T) {
	ref1 := lang.Reference{Name: "spike-seven"}
	for i := range ref1.Freqs {
		ref1.Freqs[i] = 1.0 / 32.0
	}
	ref1.Freqs[0] = 7.0 / 32.0

	ref2 := lang.Reference{Name: "spike-thirtynine"}
	for i := range ref2.Freqs {
		ref2.Freqs[i] = 1.0 / 64.0
	}
	ref2.Freqs[0] = 39.0 / 64.0

	cases := []struct {
		name string
		text string
		ref  lang.Reference
	}{
		{"shallow spike", tieText(2, 8), ref1},
		{"steep spike", tieText(1, 20), ref2},
	}
	for _, c := range cases {
		if err := c.ref.Validate(); err != nil {
			t.Fatalf("%s: crafted reference invalid: %v", c.name, err)
		}
		res, err := Crack(c.text, c.ref, DefaultOptions())
		if err != nil {
			t.Fatalf("%s: Crack failed: %v", c.name, err)
		}
		if res.Scores[3] != res.Scores[9] {
			t.Fatalf("%s: scores differ: %v vs %v", c.name, res.Scores[3], res.Scores[9])
		}
		if res.Key != 3 {
			t.Fatalf("%s: expected smallest tied shift 3, got %d", c.name, res.Key)
		}
		if !res.Ambiguous {
			t.Fatalf("%s: expected ambiguous result", c.name)
		}
		want := []int{3, 9}
		if !reflect.DeepEqual(res.Candidates, want) {
			t.Fatalf("%s: candidates = %v, want %v", c.name, res.Candidates, want)
		}
	}
}

func TestChiSquaredRotation(t *testing.T) {
	// An observation equal to the reference rotated by 5 must score best
	// at shift 5 and exactly zero there.
	ref := lang.English()
	observed := ref.Rotated(5)
	if got := ChiSquared(observed, ref, 5); got != 0 {
		t.Fatalf("aligned shift scored %v, want 0", got)
	}
	for shift := 0; shift < alphabet.Size; shift++ {
		if shift == 5 {
			continue
		}
		if got := ChiSquared(observed, ref, shift); got <= 0 {
			t.Fatalf("misaligned shift %d scored %v, want > 0", shift, got)
		}
	}
}
