// Package pattern detects idioms, collocations, and functional phrases in
// token sequences using n-gram lookups with confidence scores.
package pattern

import (
	"sort"
	"strings"

	"github.com/getthecodeoutofit/KumaoniTrans/internal/kb"
)

// DefaultThreshold is the confidence above which the translation engine
// prefers an idiomatic substitution over a literal one. Tunable, not
// calibrated.
const DefaultThreshold = 0.6

// Match is one recognized pattern occurrence. Start inclusive, End
// exclusive, in token positions.
type Match struct {
	Start      int
	End        int
	Entry      *kb.IdiomEntry
	Category   kb.IdiomCategory
	Confidence float64
}

// Len returns the match length in tokens.
func (m Match) Len() int {
	return m.End - m.Start
}

// Recognize scans every n-gram window up to the longest idiom length and
// reports all hits, ordered by confidence descending, then span length
// descending, then position. Overlapping matches are reported as-is: this
// component annotates, it does not consume spans.
func Recognize(tokens []string, snap *kb.Snapshot) []Match {
	maxLen := snap.MaxIdiomLen()
	if maxLen > len(tokens) {
		maxLen = len(tokens)
	}

	var out []Match
	for n := 1; n <= maxLen; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			key := strings.Join(tokens[i:i+n], " ")
			if e, ok := snap.LookupIdiom(key); ok {
				out = append(out, Match{
					Start:      i,
					End:        i + n,
					Entry:      e,
					Category:   e.Category,
					Confidence: e.Confidence,
				})
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		if out[i].Len() != out[j].Len() {
			return out[i].Len() > out[j].Len()
		}
		return out[i].Start < out[j].Start
	})
	return out
}

// SelectConfident picks non-overlapping matches whose confidence exceeds
// the threshold, in the order Recognize ranked them. Confidence exactly at
// the threshold is not enough. The engine substitutes these wholesale.
func SelectConfident(matches []Match, threshold float64) []Match {
	var picked []Match
	taken := make(map[int]bool)

	for _, m := range matches {
		if m.Confidence <= threshold {
			continue
		}
		overlap := false
		for i := m.Start; i < m.End; i++ {
			if taken[i] {
				overlap = true
				break
			}
		}
		if overlap {
			continue
		}
		for i := m.Start; i < m.End; i++ {
			taken[i] = true
		}
		picked = append(picked, m)
	}

	sort.Slice(picked, func(i, j int) bool { return picked[i].Start < picked[j].Start })
	return picked
}
