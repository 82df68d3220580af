// Package matcher resolves token sequences against known phrases and
// vocabulary using longest-match scanning.
package matcher

import (
	"strings"

	"github.com/getthecodeoutofit/KumaoniTrans/internal/kb"
)

// Kind tells how a span was resolved.
type Kind string

const (
	KindPhrase    Kind = "phrase"
	KindWord      Kind = "word"
	KindUnmatched Kind = "unmatched"
)

// Span is a contiguous token run with a single match outcome.
// Start is inclusive, End exclusive. Target is the translated fragment for
// phrase and word spans; for unmatched spans it is the original token.
type Span struct {
	Start  int
	End    int
	Kind   Kind
	Source string
	Target string
}

// Match scans tokens left to right. At each position the longest phrase
// window wins, then a single-token vocabulary match, then an unmatched
// span of one token. Equal-length phrase candidates cannot collide here
// because phrase keys are unique; cross-entry ties are settled at snapshot
// time, first registered wins. The returned spans partition the input with
// no gaps or overlaps.
func Match(tokens []string, snap *kb.Snapshot, dir kb.Direction) []Span {
	spans := make([]Span, 0, len(tokens))

	maxLen := snap.MaxPhraseLen()
	for i := 0; i < len(tokens); {
		if span, ok := longestPhrase(tokens, i, maxLen, snap, dir); ok {
			spans = append(spans, span)
			i = span.End
			continue
		}

		if _, target, ok := snap.LookupWord(tokens[i], dir); ok {
			spans = append(spans, Span{
				Start:  i,
				End:    i + 1,
				Kind:   KindWord,
				Source: tokens[i],
				Target: target,
			})
			i++
			continue
		}

		spans = append(spans, Span{
			Start:  i,
			End:    i + 1,
			Kind:   KindUnmatched,
			Source: tokens[i],
			Target: tokens[i],
		})
		i++
	}

	return spans
}

func longestPhrase(tokens []string, start, maxLen int, snap *kb.Snapshot, dir kb.Direction) (Span, bool) {
	limit := len(tokens) - start
	if maxLen < limit {
		limit = maxLen
	}
	for n := limit; n >= 2; n-- {
		key := strings.Join(tokens[start:start+n], " ")
		if _, target, ok := snap.LookupPhrase(key, dir); ok {
			return Span{
				Start:  start,
				End:    start + n,
				Kind:   KindPhrase,
				Source: key,
				Target: target,
			}, true
		}
	}
	return Span{}, false
}
