package analyze

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/getthecodeoutofit/KumaoniTrans/internal/kb"
	"github.com/getthecodeoutofit/KumaoniTrans/internal/tokenizer"
)

const (
	// idiomMinOccurrences is how often an n-gram must recur before it is
	// considered a fixed expression rather than chance.
	idiomMinOccurrences = 3

	// idiomMinConsistency is the share of occurrences the dominant
	// translation must cover.
	idiomMinConsistency = 0.7

	idiomMinLen = 2
	idiomMaxLen = 4
)

// ExtractIdioms finds Kumaoni n-grams that recur with a consistent
// Hinglish rendering. Confidence is the consistency ratio itself.
func ExtractIdioms(examples []Example) []*kb.IdiomEntry {
	occurrences := make(map[string]*counter)
	var order []string

	for _, ex := range examples {
		words := tokenizer.Tokenize(ex.Kumaoni)
		meaning := tokenizer.Key(ex.Hinglish)
		for n := idiomMinLen; n <= idiomMaxLen; n++ {
			for i := 0; i+n <= len(words); i++ {
				phrase := strings.Join(words[i:i+n], " ")
				if occurrences[phrase] == nil {
					occurrences[phrase] = newCounter()
					order = append(order, phrase)
				}
				occurrences[phrase].add(meaning)
			}
		}
	}

	var idioms []*kb.IdiomEntry
	for _, phrase := range order {
		c := occurrences[phrase]
		total := c.total()
		if total < idiomMinOccurrences {
			continue
		}
		meaning, n := c.best()
		ratio := float64(n) / float64(total)
		if ratio < idiomMinConsistency {
			continue
		}
		idioms = append(idioms, &kb.IdiomEntry{
			Pattern:    phrase,
			Meaning:    meaning,
			Category:   kb.CategoryIdiom,
			Confidence: ratio,
		})
	}
	return idioms
}

const (
	// collocationMinFollowers keeps only words seen before at least this
	// many distinct successors.
	collocationMinFollowers = 2

	// collocationMinCount is the minimum pair frequency.
	collocationMinCount = 2

	collocationTopN = 3
)

// ExtractCollocations finds Kumaoni word pairs that habitually appear
// together. They are recorded with the pair as its own meaning: the
// engine never substitutes them, but they inform pattern annotation.
func ExtractCollocations(examples []Example) []*kb.IdiomEntry {
	followers := make(map[string]*counter)
	var order []string

	for _, ex := range examples {
		words := tokenizer.Tokenize(ex.Kumaoni)
		for i := 0; i+1 < len(words); i++ {
			if followers[words[i]] == nil {
				followers[words[i]] = newCounter()
				order = append(order, words[i])
			}
			followers[words[i]].add(words[i+1])
		}
	}

	var out []*kb.IdiomEntry
	for _, word := range order {
		c := followers[word]
		if len(c.counts) < collocationMinFollowers {
			continue
		}
		top := make([]string, len(c.order))
		copy(top, c.order)
		sort.SliceStable(top, func(i, j int) bool {
			return c.counts[top[i]] > c.counts[top[j]]
		})
		if len(top) > collocationTopN {
			top = top[:collocationTopN]
		}
		total := c.total()
		for _, next := range top {
			n := c.counts[next]
			if n < collocationMinCount {
				continue
			}
			pair := word + " " + next
			out = append(out, &kb.IdiomEntry{
				Pattern:    pair,
				Meaning:    pair,
				Category:   kb.CategoryCollocation,
				Confidence: float64(n) / float64(total),
			})
		}
	}
	return out
}

// phraseClass keywords, checked in order; the first class whose keyword
// appears on either side wins.
var phraseClasses = []struct {
	name     string
	keywords []string
}{
	{"greeting", []string{"namaste", "namaskar", "hello", "hi", "kaise", "kas", "shubh"}},
	{"farewell", []string{"alvida", "phir", "milenge", "bhetula", "shubh", "ratri", "rati"}},
	{"thanks", []string{"dhanyavaad", "shukriya", "thanks"}},
	{"apology", []string{"maaf", "maph", "sorry", "kshama"}},
	{"question", []string{"kya", "kaun", "kahan", "kaise", "kyun", "kitna", "kitne", "kitni", "kab"}},
	{"affirmation", []string{"haan", "ho", "yes", "theek", "thik", "sahi"}},
	{"negation", []string{"nahi", "na", "no", "mat"}},
}

func classify(hinglish, kumaoni []string) string {
	has := func(words []string, kw string) bool {
		for _, w := range words {
			if w == kw {
				return true
			}
		}
		return false
	}
	for _, class := range phraseClasses {
		for _, kw := range class.keywords {
			if has(hinglish, kw) || has(kumaoni, kw) {
				return class.name
			}
		}
	}
	return ""
}

// ExtractFunctionalPhrases turns classifiable multi-token sentence pairs
// into phrase entries, tagging each with its functional class.
func ExtractFunctionalPhrases(examples []Example) []*kb.PhraseEntry {
	seen := make(map[string]bool)
	var out []*kb.PhraseEntry

	for _, ex := range examples {
		h := tokenizer.Tokenize(ex.Hinglish)
		k := tokenizer.Tokenize(ex.Kumaoni)
		if len(h) < 2 || len(k) == 0 {
			continue
		}
		class := classify(h, k)
		if class == "" {
			continue
		}
		key := strings.Join(h, " ")
		if seen[key] {
			continue
		}
		seen[key] = true

		tag, _ := json.Marshal(class)
		out = append(out, &kb.PhraseEntry{
			Source: h,
			Target: k,
			Extra:  map[string]json.RawMessage{"function": tag},
		})
	}
	return out
}
