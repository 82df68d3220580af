// Package grammar applies ordered morphological and syntactic
// transformation rules to spans the phrase matcher could not resolve.
package grammar

import (
	"strings"

	"github.com/getthecodeoutofit/KumaoniTrans/internal/kb"
)

// Fragment is the outcome for one rule-application step. Rule is nil when
// the text passed through untransformed; Tokens is how many input tokens
// the fragment consumed.
type Fragment struct {
	Text   string
	Rule   *kb.GrammarRule
	Tokens int
}

// Transformed reports whether a rule fired for this fragment.
func (f Fragment) Transformed() bool {
	return f.Rule != nil
}

// ApplyRun transforms a run of adjacent unmatched tokens. Categories are
// tried in fixed order (pronoun, question word, postposition, verb ending,
// sentence structure); within a category rules go in ascending priority
// and the first match wins, after which no further category is tried for
// that position. Multi-token rule patterns may consume several adjacent
// tokens. Tokens no rule touches pass through unchanged.
func ApplyRun(tokens []string, snap *kb.Snapshot, dir kb.Direction) []Fragment {
	out := make([]Fragment, 0, len(tokens))
	for i := 0; i < len(tokens); {
		frag := applyAt(tokens, i, snap, dir)
		out = append(out, frag)
		i += frag.Tokens
	}
	return out
}

// Apply transforms a single token, ignoring multi-token patterns.
func Apply(token string, snap *kb.Snapshot, dir kb.Direction) Fragment {
	return applyAt([]string{token}, 0, snap, dir)
}

func applyAt(tokens []string, i int, snap *kb.Snapshot, dir kb.Direction) Fragment {
	for _, cat := range kb.CategoryOrder {
		for _, rule := range snap.Rules(cat) {
			pattern, replacement := ruleSides(rule, dir)
			if text, consumed, ok := matchRule(tokens, i, pattern, replacement); ok {
				return Fragment{Text: text, Rule: rule, Tokens: consumed}
			}
		}
	}
	return Fragment{Text: tokens[i], Tokens: 1}
}

// ruleSides orients a rule for the translation direction: rules are stored
// source-side Hinglish, so the reverse direction matches the replacement
// and emits the pattern.
func ruleSides(rule *kb.GrammarRule, dir kb.Direction) (pattern, replacement string) {
	if dir == kb.KumaoniToHinglish {
		return rule.Replacement, rule.Pattern
	}
	return rule.Pattern, rule.Replacement
}

// matchRule tries a whole-token, suffix, then prefix match at position i.
// Multi-token patterns only match an exact window of adjacent tokens.
func matchRule(tokens []string, i int, pattern, replacement string) (string, int, bool) {
	if pattern == "" {
		return "", 0, false
	}

	if strings.Contains(pattern, " ") {
		parts := strings.Split(pattern, " ")
		if i+len(parts) > len(tokens) {
			return "", 0, false
		}
		window := strings.Join(tokens[i:i+len(parts)], " ")
		if window == pattern {
			return replacement, len(parts), true
		}
		return "", 0, false
	}

	token := tokens[i]
	if token == pattern {
		return replacement, 1, true
	}
	if strings.HasSuffix(token, pattern) && len(token) > len(pattern) {
		return token[:len(token)-len(pattern)] + replacement, 1, true
	}
	if strings.HasPrefix(token, pattern) && len(token) > len(pattern) {
		return replacement + token[len(pattern):], 1, true
	}
	return "", 0, false
}
