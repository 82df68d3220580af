// Package analyze mines a parallel Hinglish-Kumaoni corpus for grammar
// rules, idioms, collocations, and functional phrases that can seed or
// grow the knowledge base.
package analyze

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/getthecodeoutofit/KumaoniTrans/internal/kb"
	"github.com/getthecodeoutofit/KumaoniTrans/internal/tokenizer"
)

// Example is one aligned sentence pair of the training corpus.
type Example struct {
	Hinglish string `json:"hinglish"`
	Kumaoni  string `json:"kumaoni"`
}

// LoadExamples reads a JSON array of sentence pairs.
func LoadExamples(path string) ([]Example, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kb.ErrPersistence, err)
	}
	var examples []Example
	if err := json.Unmarshal(data, &examples); err != nil {
		return nil, fmt.Errorf("%w: %v", kb.ErrMalformedPayload, err)
	}
	return examples, nil
}

// Report holds everything extracted from one corpus pass.
type Report struct {
	Rules   []*kb.GrammarRule
	Idioms  []*kb.IdiomEntry
	Phrases []*kb.PhraseEntry
}

// Apply adds the report to a knowledge base under one update. Entries
// that conflict with existing ones are skipped and counted; identical
// re-adds count as applied.
func (r *Report) Apply(base *kb.KnowledgeBase) (applied, skipped int) {
	_ = base.Update(func(tx *kb.Tx) error {
		count := func(err error) {
			if err != nil {
				skipped++
			} else {
				applied++
			}
		}
		for _, rule := range r.Rules {
			count(tx.AddRule(rule))
		}
		for _, e := range r.Idioms {
			count(tx.AddIdiom(e))
		}
		for _, p := range r.Phrases {
			count(tx.AddPhrase(p))
		}
		return nil
	})
	return applied, skipped
}

// Analyze runs every extraction over the corpus. When the same pattern
// surfaces both as an idiom and a collocation, the idiom wins: it carries
// an actual meaning.
func Analyze(examples []Example) *Report {
	idioms := ExtractIdioms(examples)
	seen := make(map[string]bool, len(idioms))
	for _, e := range idioms {
		seen[e.Pattern] = true
	}
	for _, e := range ExtractCollocations(examples) {
		if !seen[e.Pattern] {
			seen[e.Pattern] = true
			idioms = append(idioms, e)
		}
	}
	return &Report{
		Rules:   ExtractRules(examples),
		Idioms:  idioms,
		Phrases: ExtractFunctionalPhrases(examples),
	}
}

// Word inventories that drive rule extraction.
var (
	hinglishVerbEndings = []string{"na", "ta", "te", "ti", "ya", "ye", "yi", "a", "e", "i", "o", "u"}
	kumaoniVerbEndings  = []string{"no", "to", "ta", "ti", "yo", "ya", "yi", "o", "a", "i", "u"}

	hinglishPostpositions = []string{"ka", "ke", "ki", "ko", "se", "me", "par", "tak"}

	hinglishPronouns = []string{
		"main", "mujhe", "mera", "meri", "hum", "hamara", "tu", "tum", "tumhara",
		"aap", "aapka", "woh", "uska", "uski", "ye", "iska", "iski",
	}

	hinglishQuestionWords = []string{
		"kya", "kaun", "kahan", "kaise", "kyun", "kitna", "kitne", "kitni", "kab",
	}
)

// counter counts string occurrences, remembering first-seen order so that
// ties resolve deterministically.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(key string) {
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

// best returns the most frequent key, earliest-seen on ties.
func (c *counter) best() (string, int) {
	var bestKey string
	var bestN int
	for _, key := range c.order {
		if n := c.counts[key]; n > bestN {
			bestKey, bestN = key, n
		}
	}
	return bestKey, bestN
}

func (c *counter) total() int {
	n := 0
	for _, v := range c.counts {
		n += v
	}
	return n
}

// alignedPairs yields token pairs from examples whose two sides have the
// same token count, the only case where positional alignment is sound.
func alignedPairs(examples []Example, fn func(h, k string)) {
	for _, ex := range examples {
		h := tokenizer.Tokenize(ex.Hinglish)
		k := tokenizer.Tokenize(ex.Kumaoni)
		if len(h) != len(k) {
			continue
		}
		for i := range h {
			fn(h[i], k[i])
		}
	}
}

// ExtractRules mines verb endings, postpositions, pronouns, and question
// words from positionally aligned pairs. Within each category rules get
// ascending priorities by descending evidence count, so better-attested
// rules apply first.
func ExtractRules(examples []Example) []*kb.GrammarRule {
	endings := make(map[string]*counter)
	categories := map[kb.RuleCategory]struct {
		words    []string
		observed map[string]*counter
	}{
		kb.CategoryPostposition: {words: hinglishPostpositions, observed: make(map[string]*counter)},
		kb.CategoryPronoun:      {words: hinglishPronouns, observed: make(map[string]*counter)},
		kb.CategoryQuestionWord: {words: hinglishQuestionWords, observed: make(map[string]*counter)},
	}

	alignedPairs(examples, func(h, k string) {
		for _, he := range hinglishVerbEndings {
			if !strings.HasSuffix(h, he) || len(h) <= len(he) {
				continue
			}
			for _, ke := range kumaoniVerbEndings {
				if strings.HasSuffix(k, ke) && len(k) > len(ke) {
					if endings[he] == nil {
						endings[he] = newCounter()
					}
					endings[he].add(ke)
				}
			}
		}
		for _, cat := range categories {
			for _, w := range cat.words {
				if h == w {
					if cat.observed[w] == nil {
						cat.observed[w] = newCounter()
					}
					cat.observed[w].add(k)
				}
			}
		}
	})

	var rules []*kb.GrammarRule
	rules = append(rules, rankRules(kb.CategoryVerbEnding, endings)...)
	for _, cat := range []kb.RuleCategory{kb.CategoryPostposition, kb.CategoryPronoun, kb.CategoryQuestionWord} {
		rules = append(rules, rankRules(cat, categories[cat].observed)...)
	}
	return rules
}

// rankRules turns per-pattern counters into rules prioritized by evidence.
func rankRules(cat kb.RuleCategory, observed map[string]*counter) []*kb.GrammarRule {
	type cand struct {
		pattern     string
		replacement string
		count       int
	}
	cands := make([]cand, 0, len(observed))
	for pattern, c := range observed {
		replacement, n := c.best()
		if replacement == "" || replacement == pattern {
			continue
		}
		cands = append(cands, cand{pattern, replacement, n})
	}
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].count != cands[j].count {
			return cands[i].count > cands[j].count
		}
		return cands[i].pattern < cands[j].pattern
	})

	rules := make([]*kb.GrammarRule, len(cands))
	for i, c := range cands {
		rules[i] = &kb.GrammarRule{
			Category:    cat,
			Pattern:     c.pattern,
			Replacement: c.replacement,
			Priority:    i + 1,
		}
	}
	return rules
}
