// Package alphabet defines the 26-letter cipher alphabet.
package alphabet

import "errors"

// Size is the number of letters in the alphabet.
const Size = 26

var (
	// ErrInvalidSymbol reports a rune outside the a-z/A-Z alphabet.
	ErrInvalidSymbol = errors.New("alphabet: symbol outside alphabet")
	// ErrOrdinalRange reports an ordinal outside [0, Size).
	ErrOrdinalRange = errors.New("alphabet: ordinal out of range")
)

// IsLetter reports whether r belongs to the alphabet in either case.
func IsLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// Ordinal maps a letter to its zero-based position, ignoring case.
func Ordinal(r rune) (int, error) {
	switch {
	case r >= 'a' && r <= 'z':
		return int(r - 'a'), nil
	case r >= 'A' && r <= 'Z':
		return int(r - 'A'), nil
	default:
		return 0, ErrInvalidSymbol
	}
}

// Letter maps an ordinal back to its letter, upper-case when upper is set.
func Letter(ord int, upper bool) (rune, error) {
	if ord < 0 || ord >= Size {
		return 0, ErrOrdinalRange
	}
	if upper {
		return 'A' + rune(ord), nil
	}
	return 'a' + rune(ord), nil
}
