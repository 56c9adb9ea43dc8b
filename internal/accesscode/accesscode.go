// Package accesscode generates the short human-typed codes students use to
// locate a published quiz. The generator is stateless; uniqueness against
// the quiz catalog is the caller's responsibility.
package accesscode

import (
	"math/rand"
	"strings"
)

// Alphabet excludes visually ambiguous characters: I, O, 0 and 1.
const Alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Length is the fixed size of generated codes.
const Length = 6

// Generate returns a random code of Length drawn uniformly from Alphabet.
func Generate() string {
	var b strings.Builder
	b.Grow(Length)
	for i := 0; i < Length; i++ {
		b.WriteByte(Alphabet[rand.Intn(len(Alphabet))])
	}
	return b.String()
}

// Normalize uppercases and trims a user-entered code so lookups are
// case-insensitive.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Valid reports whether a (normalized) code has an acceptable length and is
// composed only of Alphabet characters. Manually edited codes may be 4-6
// characters; generated ones are always Length.
func Valid(code string) bool {
	if len(code) < 4 || len(code) > Length {
		return false
	}
	for i := 0; i < len(code); i++ {
		if !strings.ContainsRune(Alphabet, rune(code[i])) {
			return false
		}
	}
	return true
}
