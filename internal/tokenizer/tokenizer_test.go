package tokenizer

import (
	"reflect"
	"strings"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"simple sentence", "ghar ke liye", []string{"ghar", "ke", "liye"}},
		{"case folded", "Namaste Ji", []string{"namaste", "ji"}},
		{"boundary punctuation stripped", "kaise ho?", []string{"kaise", "ho"}},
		{"comma and period", "haan, thik cha.", []string{"haan", "thik", "cha"}},
		{"internal hyphen kept", "thik-thak cha", []string{"thik-thak", "cha"}},
		{"internal apostrophe kept", "ma'alum nahi", []string{"ma'alum", "nahi"}},
		{"leading hyphen dropped", "-ghar", []string{"ghar"}},
		{"trailing hyphen dropped", "ghar-", []string{"ghar"}},
		{"double punctuation", "kya?! sach", []string{"kya", "sach"}},
		{"diacritics preserved", "pahāṛ", []string{"pahāṛ"}},
		{"empty", "", nil},
		{"whitespace only", "   \t ", nil},
		{"punctuation only", "?!...", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.input)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSplitRoundTrip(t *testing.T) {
	// Rebuilding from raw tokens and separators must reproduce the input
	// (modulo NFC composition, which these inputs already are).
	inputs := []string{
		"ghar ke liye kaisa cha",
		"  namaste!  kaise ho? ",
		"thik-thak, bado balo.",
		"",
		"   ",
		"xyz",
	}

	for _, in := range inputs {
		tx := Split(in)
		if len(tx.Seps) != len(tx.Tokens)+1 {
			t.Fatalf("Split(%q): %d seps for %d tokens", in, len(tx.Seps), len(tx.Tokens))
		}
		var b strings.Builder
		for i, tok := range tx.Tokens {
			b.WriteString(tx.Seps[i])
			b.WriteString(tok.Raw)
		}
		b.WriteString(tx.Seps[len(tx.Tokens)])
		if b.String() != in {
			t.Errorf("Split(%q) round-trip = %q", in, b.String())
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Ghar", "ghar"},
		{"NAMASTE", "namaste"},
		{"pahāṛ", "pahāṛ"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Normalize(tt.input); got != tt.expected {
			t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestKey(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Kaisa  Cha", "kaisa cha"},
		{" ke liye ", "ke liye"},
		{"kaise ho?", "kaise ho"},
		{"", ""},
		{"?!", ""},
	}

	for _, tt := range tests {
		if got := Key(tt.input); got != tt.expected {
			t.Errorf("Key(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func BenchmarkSplit(b *testing.B) {
	text := "ghar ke liye kaisa cha, thik-thak? bado balo!"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Split(text)
	}
}
