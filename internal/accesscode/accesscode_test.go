package accesscode

import (
	"strings"
	"testing"
)

func TestGenerateLengthAndAlphabet(t *testing.T) {
	for i := 0; i < 1000; i++ {
		code := Generate()
		if len(code) != Length {
			t.Fatalf("code %q has length %d, want %d", code, len(code), Length)
		}
		for _, r := range code {
			if !strings.ContainsRune(Alphabet, r) {
				t.Fatalf("code %q contains %q outside the alphabet", code, r)
			}
		}
	}
}

func TestGenerateVaries(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		seen[Generate()] = true
	}
	// 100 draws from a 32^6 space colliding down to one value would mean
	// the generator is not random at all.
	if len(seen) < 2 {
		t.Fatalf("generator produced %d distinct codes out of 100", len(seen))
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"math2x", "MATH2X"},
		{"MATH2X", "MATH2X"},
		{"  abc234 ", "ABC234"},
		{"MiXeD9", "MIXED9"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"ABCDEF", true},
		{"AB23", true},
		{"ABC", false},     // too short
		{"ABCDEFG", false}, // too long
		{"ABC1EF", false},  // 1 is ambiguous, excluded
		{"ABC0EF", false},  // 0 is ambiguous, excluded
		{"ABCIEF", false},  // I is ambiguous, excluded
		{"ABCOEF", false},  // O is ambiguous, excluded
		{"abc234", false},  // lowercase must be normalized first
		{"", false},
	}
	for _, tt := range tests {
		if got := Valid(tt.code); got != tt.want {
			t.Errorf("Valid(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}
