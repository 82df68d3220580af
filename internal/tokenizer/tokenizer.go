// Package tokenizer splits Latin-transliterated text into normalized tokens.
package tokenizer

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Token is a single word-like unit. Norm is the case-folded matching form,
// Raw is the original slice of the input text.
type Token struct {
	Norm string
	Raw  string
}

// Text is a tokenized string together with the inter-token separators
// needed to rebuild a human-readable sentence. Seps always has exactly
// len(Tokens)+1 elements: Seps[i] precedes Tokens[i], the last element is
// the trailing separator.
type Text struct {
	Tokens []Token
	Seps   []string
}

// isJoiner reports whether r may appear inside a token when surrounded by
// word runes. Boundary hyphens and apostrophes stay in the separators.
func isJoiner(r rune) bool {
	return r == '-' || r == '\'' || r == '’'
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

// Normalize case-folds a string to its matchable form. Diacritics are
// preserved; the string is NFC-composed first so equivalent byte sequences
// produce identical keys.
func Normalize(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}

// Split tokenizes text, keeping the separators for reconstruction.
// Deterministic and stateless; whitespace-only input yields no tokens.
func Split(text string) Text {
	runes := []rune(norm.NFC.String(text))
	n := len(runes)

	var tokens []Token
	var seps []string
	var sep strings.Builder

	i := 0
	for i < n {
		r := runes[i]
		if !isWordRune(r) {
			sep.WriteRune(r)
			i++
			continue
		}

		start := i
		for i < n {
			if isWordRune(runes[i]) {
				i++
				continue
			}
			if isJoiner(runes[i]) && i+1 < n && isWordRune(runes[i+1]) {
				i++
				continue
			}
			break
		}

		raw := string(runes[start:i])
		tokens = append(tokens, Token{Norm: strings.ToLower(raw), Raw: raw})
		seps = append(seps, sep.String())
		sep.Reset()
	}

	seps = append(seps, sep.String())
	return Text{Tokens: tokens, Seps: seps}
}

// Tokenize returns only the normalized token sequence.
func Tokenize(text string) []string {
	return Split(text).Norms()
}

// Norms returns the normalized forms of all tokens, nil when there are none.
func (t Text) Norms() []string {
	if len(t.Tokens) == 0 {
		return nil
	}
	out := make([]string, len(t.Tokens))
	for i, tok := range t.Tokens {
		out[i] = tok.Norm
	}
	return out
}

// Key normalizes a word or phrase to its knowledge-base key: tokenized and
// re-joined with single spaces. Returns "" for input with no tokens.
func Key(s string) string {
	return strings.Join(Tokenize(s), " ")
}
