// kumaonitrans-suggest - Nearby-term lookup over the knowledge base.
// Usage: suggest [options] <query>
//
// Combines bounded edit-distance search over a BK-tree with fuzzy
// subsequence ranking, so both typos and partial recollections find
// their term.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/getthecodeoutofit/KumaoniTrans/internal/config"
	"github.com/getthecodeoutofit/KumaoniTrans/internal/kb"
	"github.com/getthecodeoutofit/KumaoniTrans/internal/similarity"
	"github.com/getthecodeoutofit/KumaoniTrans/internal/tokenizer"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/spf13/pflag"
)

type match struct {
	Term     string `json:"term"`
	Distance int    `json:"distance"`
	Kind     string `json:"kind"`
}

func main() {
	dataDir := pflag.StringP("data-dir", "d", config.DefaultDataDir(), "Knowledge base directory")
	direction := pflag.String("direction", string(kb.HinglishToKumaoni), "Which side to search (hinglish_to_kumaoni searches Hinglish terms)")
	maxDistance := pflag.IntP("distance", "n", config.DefaultSuggestDistance(), "Maximum edit distance")
	limit := pflag.IntP("limit", "l", 10, "Maximum results to show")
	jsonOutput := pflag.BoolP("json", "j", false, "Output as JSON")

	pflag.Parse()

	if pflag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: suggest [options] <query>")
		fmt.Fprintln(os.Stderr, "\nOptions:")
		pflag.PrintDefaults()
		os.Exit(1)
	}
	query := tokenizer.Key(strings.Join(pflag.Args(), " "))

	dir, err := kb.ParseDirection(*direction)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	base, err := kb.Load(*dataDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	snap := base.Snapshot()
	terms := snap.Terms(dir)
	if len(terms) == 0 {
		fmt.Fprintln(os.Stderr, "Knowledge base has no terms on that side")
		os.Exit(1)
	}

	results := collect(query, terms, *maxDistance)
	if *limit > 0 && len(results) > *limit {
		results = results[:*limit]
	}

	if *jsonOutput {
		output := struct {
			Query   string  `json:"query"`
			MaxDist int     `json:"max_distance"`
			Count   int     `json:"count"`
			Results []match `json:"results"`
		}{
			Query:   query,
			MaxDist: *maxDistance,
			Count:   len(results),
			Results: results,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(output)
		return
	}

	if len(results) == 0 {
		fmt.Printf("No matches found for %q within distance %d\n", query, *maxDistance)
		return
	}

	fmt.Printf("Suggestions for %q:\n\n", query)
	for _, r := range results {
		fmt.Printf("  %s (distance: %d, %s)\n", r.Term, r.Distance, r.Kind)
	}
	fmt.Printf("\n%d result(s) found\n", len(results))
}

// collect merges edit-distance candidates with fuzzy subsequence hits.
// Edit-distance matches sort first by distance; subsequence hits that the
// tree missed follow, ordered by their Levenshtein rank.
func collect(query string, terms []string, maxDistance int) []match {
	tree := similarity.NewTree(terms)
	candidates := tree.Lookup(query, maxDistance)
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Distance != candidates[j].Distance {
			return candidates[i].Distance < candidates[j].Distance
		}
		return candidates[i].Term < candidates[j].Term
	})

	seen := make(map[string]bool)
	var results []match
	for _, c := range candidates {
		seen[c.Term] = true
		results = append(results, match{Term: c.Term, Distance: c.Distance, Kind: "edit"})
	}

	ranks := fuzzy.RankFindNormalizedFold(query, terms)
	sort.Sort(ranks)
	for _, r := range ranks {
		if seen[r.Target] {
			continue
		}
		seen[r.Target] = true
		results = append(results, match{Term: r.Target, Distance: r.Distance, Kind: "fuzzy"})
	}

	return results
}
