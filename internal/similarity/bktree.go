// Package similarity finds knowledge-base terms close to unknown tokens,
// using a BK-tree over edit distance. Suggestions only annotate
// translation results; they never substitute for a token.
package similarity

// Tree is a BK-tree over normalized terms.
type Tree struct {
	root *node
	size int
}

type node struct {
	term     string
	children map[int]*node
}

// NewTree builds a tree from the given terms.
func NewTree(terms []string) *Tree {
	t := &Tree{}
	for _, term := range terms {
		t.Add(term)
	}
	return t
}

// Add inserts a term. Duplicates and empty strings are ignored.
func (t *Tree) Add(term string) {
	if term == "" {
		return
	}
	if t.root == nil {
		t.root = &node{term: term, children: make(map[int]*node)}
		t.size++
		return
	}

	cur := t.root
	for {
		d := EditDistance(term, cur.term)
		if d == 0 {
			return
		}
		next, ok := cur.children[d]
		if !ok {
			cur.children[d] = &node{term: term, children: make(map[int]*node)}
			t.size++
			return
		}
		cur = next
	}
}

// Candidate is a nearby term with its edit distance from the query.
type Candidate struct {
	Term     string
	Distance int
}

// Lookup returns all terms within maxDistance of the query.
func (t *Tree) Lookup(query string, maxDistance int) []Candidate {
	if t.root == nil || query == "" {
		return nil
	}
	var out []Candidate
	t.walk(t.root, query, maxDistance, &out)
	return out
}

func (t *Tree) walk(n *node, query string, maxDistance int, out *[]Candidate) {
	d := EditDistance(query, n.term)
	if d <= maxDistance {
		*out = append(*out, Candidate{Term: n.term, Distance: d})
	}

	// The triangle inequality bounds which subtrees can still hold hits.
	for childDist, child := range n.children {
		if childDist >= d-maxDistance && childDist <= d+maxDistance {
			t.walk(child, query, maxDistance, out)
		}
	}
}

// Size returns the number of distinct terms in the tree.
func (t *Tree) Size() int {
	return t.size
}

// EditDistance is the Levenshtein distance between two strings, computed
// rune-wise with a two-row matrix.
func EditDistance(a, b string) int {
	if a == b {
		return 0
	}

	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}

	prev := make([]int, len(ra)+1)
	cur := make([]int, len(ra)+1)
	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(rb); j++ {
		cur[0] = j
		for i := 1; i <= len(ra); i++ {
			cost := 0
			if ra[i-1] != rb[j-1] {
				cost = 1
			}
			cur[i] = min(prev[i]+1, cur[i-1]+1, prev[i-1]+cost)
		}
		prev, cur = cur, prev
	}

	return prev[len(ra)]
}
