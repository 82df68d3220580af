package similarity

import (
	"sort"

	"github.com/getthecodeoutofit/KumaoniTrans/internal/kb"
)

// Suggester proposes known source-side terms near an unknown token.
type Suggester struct {
	tree *Tree
}

// NewSuggester indexes all source-side terms of the snapshot for the
// given direction.
func NewSuggester(snap *kb.Snapshot, dir kb.Direction) *Suggester {
	return &Suggester{tree: NewTree(snap.Terms(dir))}
}

// Suggest returns up to limit nearby terms, closest first, ties in
// lexical order for determinism. The token itself is never suggested,
// so a known term yields only its neighbors.
func (s *Suggester) Suggest(token string, maxDistance, limit int) []string {
	candidates := s.tree.Lookup(token, maxDistance)
	kept := candidates[:0]
	for _, c := range candidates {
		if c.Distance > 0 {
			kept = append(kept, c)
		}
	}
	candidates = kept
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Distance != candidates[j].Distance {
			return candidates[i].Distance < candidates[j].Distance
		}
		return candidates[i].Term < candidates[j].Term
	})

	out := make([]string, 0, limit)
	for _, c := range candidates {
		if len(out) == limit {
			break
		}
		out = append(out, c.Term)
	}
	return out
}
