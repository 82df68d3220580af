package learn

import (
	"sort"
	"strings"

	"github.com/getthecodeoutofit/KumaoniTrans/internal/kb"
	"github.com/getthecodeoutofit/KumaoniTrans/internal/tokenizer"
)

// HitKind labels what kind of entry a search hit is.
type HitKind string

const (
	HitWord   HitKind = "word"
	HitPhrase HitKind = "phrase"
	HitRule   HitKind = "rule"
	HitIdiom  HitKind = "idiom"
)

// Hit is one search result: the entry key and its translated side.
type Hit struct {
	Kind  HitKind `json:"kind"`
	Key   string  `json:"key"`
	Value string  `json:"value"`
}

// Search finds entries whose key or translated side contains the query as
// a substring, case-insensitive. Results come back words first, then
// phrases, rules, and idioms; within a kind, vocabulary and phrases keep
// insertion order and the rest sort by key.
func (l *Learner) Search(query string) []Hit {
	q := tokenizer.Key(query)
	if q == "" {
		return nil
	}
	snap := l.base.Snapshot()
	var hits []Hit

	match := func(kind HitKind, key, value string) {
		if strings.Contains(key, q) || strings.Contains(value, q) {
			hits = append(hits, Hit{Kind: kind, Key: key, Value: value})
		}
	}

	for _, key := range snap.VocabKeys() {
		e, _ := snap.Vocab(key)
		match(HitWord, key, e.Target)
	}
	for _, key := range snap.PhraseKeys() {
		e, _ := snap.Phrase(key)
		match(HitPhrase, key, e.TargetText())
	}

	var rules []Hit
	snap.EachRule(func(r *kb.GrammarRule) {
		if strings.Contains(r.Pattern, q) || strings.Contains(r.Replacement, q) {
			rules = append(rules, Hit{Kind: HitRule, Key: r.Key(), Value: r.Replacement})
		}
	})
	sort.Slice(rules, func(i, j int) bool { return rules[i].Key < rules[j].Key })
	hits = append(hits, rules...)

	var idioms []Hit
	snap.EachIdiom(func(e *kb.IdiomEntry) {
		if strings.Contains(e.Pattern, q) || strings.Contains(strings.ToLower(e.Meaning), q) {
			idioms = append(idioms, Hit{Kind: HitIdiom, Key: e.Pattern, Value: e.Meaning})
		}
	})
	sort.Slice(idioms, func(i, j int) bool { return idioms[i].Key < idioms[j].Key })
	hits = append(hits, idioms...)

	return hits
}
