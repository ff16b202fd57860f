package caesar

import (
	"errors"
	"strings"
	"testing"

	"rotcrack/internal/alphabet"
)

func TestEncryptKnownVector(t *testing.T) {
	got, err := Encrypt("Hello, World!", 3)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if got != "Khoor, Zruog!" {
		t.Fatalf("unexpected ciphertext: %q", got)
	}
}

func TestDecryptKnownVector(t *testing.T) {
	got, err := Decrypt("Khoor, Zruog!", 3)
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if got != "Hello, World!" {
		t.Fatalf("unexpected plaintext: %q", got)
	}
}

func TestRoundTripAllKeys(t *testing.T) {
	plain := "Attack at dawn, 0400 sharp; bring the 2nd map!\nSigned: HQ."
	for key := 0; key < alphabet.Size; key++ {
		enc, err := Encrypt(plain, key)
		if err != nil {
			t.Fatalf("Encrypt key %d failed: %v", key, err)
		}
		dec, err := Decrypt(enc, key)
		if err != nil {
			t.Fatalf("Decrypt key %d failed: %v", key, err)
		}
		if dec != plain {
			t.Fatalf("key %d round trip: got %q", key, dec)
		}
	}
}

func TestShiftPreservesCaseAndWrapsAlphabet(t *testing.T) {
	got, err := Encrypt("AbC xYz", 1)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if got != "BcD yZa" {
		t.Fatalf("unexpected ciphertext: %q", got)
	}
}

func TestNonLettersPassThrough(t *testing.T) {
	text := "1234 ?!.,;: \t\n résumé-Ж"
	enc, err := Encrypt(text, 13)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	orig := []rune(text)
	for i, r := range []rune(enc) {
		if alphabet.IsLetter(orig[i]) {
			continue
		}
		if r != orig[i] {
			t.Fatalf("non-letter %q changed to %q", orig[i], r)
		}
	}
}

func TestKeyRange(t *testing.T) {
	for _, key := range []int{-1, alphabet.Size, 99} {
		if _, err := Encrypt("abc", key); !errors.Is(err, ErrKeyRange) {
			t.Fatalf("Encrypt(%d) error = %v, want ErrKeyRange", key, err)
		}
		if _, err := Decrypt("abc", key); !errors.Is(err, ErrKeyRange) {
			t.Fatalf("Decrypt(%d) error = %v, want ErrKeyRange", key, err)
		}
	}
}

func TestIdentityKey(t *testing.T) {
	plain := "identity shift leaves text alone"
	enc, err := Encrypt(plain, 0)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if enc != plain {
		t.Fatalf("key 0 changed text: %q", enc)
	}
}

func TestRandomKeyRange(t *testing.T) {
	for i := 0; i < 100; i++ {
		key := RandomKey()
		if key < 1 || key >= alphabet.Size {
			t.Fatalf("RandomKey() = %d, want [1, %d)", key, alphabet.Size)
		}
	}
}

func TestDecryptTutorialCiphertext(t *testing.T) {
	plain, err := Decrypt(tutorialCiphertext, 15)
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if !strings.HasPrefix(plain, "clojureisadynamicgeneralpurposeprogramminglanguage") {
		t.Fatalf("unexpected plaintext prefix: %q", plain[:50])
	}
}
