package kb

import "strings"

// Snapshot is an immutable read view of the knowledge base taken at call
// start. Translation components only ever see snapshots.
type Snapshot struct {
	vocab      map[string]*VocabEntry
	vocabRev   map[string]*VocabEntry
	vocabKeys  []string
	phrases    map[string]*PhraseEntry
	phraseRev  map[string]*PhraseEntry
	phraseKeys []string
	idioms     map[string]*IdiomEntry
	rulesByCat map[RuleCategory][]*GrammarRule

	maxPhraseLen int
	maxIdiomLen  int
	stats        Stats
}

func tokenCount(key string) int {
	if key == "" {
		return 0
	}
	return strings.Count(key, " ") + 1
}

// LookupWord resolves a single-token key in the given direction.
func (s *Snapshot) LookupWord(key string, dir Direction) (*VocabEntry, string, bool) {
	if dir == KumaoniToHinglish {
		if e, ok := s.vocabRev[key]; ok {
			return e, e.Source, true
		}
		return nil, "", false
	}
	if e, ok := s.vocab[key]; ok {
		return e, e.Target, true
	}
	return nil, "", false
}

// LookupPhrase resolves a space-joined token window in the given direction.
func (s *Snapshot) LookupPhrase(key string, dir Direction) (*PhraseEntry, string, bool) {
	if dir == KumaoniToHinglish {
		if e, ok := s.phraseRev[key]; ok {
			return e, e.Key(), true
		}
		return nil, "", false
	}
	if e, ok := s.phrases[key]; ok {
		return e, e.TargetText(), true
	}
	return nil, "", false
}

// LookupIdiom resolves an idiom pattern.
func (s *Snapshot) LookupIdiom(key string) (*IdiomEntry, bool) {
	e, ok := s.idioms[key]
	return e, ok
}

// Rules returns the rules of one category, ascending priority, ties in
// insertion order.
func (s *Snapshot) Rules(cat RuleCategory) []*GrammarRule {
	return s.rulesByCat[cat]
}

// MaxPhraseLen is the longest phrase length present, in tokens, over both
// sides. Bounds the matcher's window scan.
func (s *Snapshot) MaxPhraseLen() int {
	return s.maxPhraseLen
}

// MaxIdiomLen is the longest idiom pattern length present, in tokens.
func (s *Snapshot) MaxIdiomLen() int {
	return s.maxIdiomLen
}

// Stats returns the counts frozen at snapshot time.
func (s *Snapshot) Stats() Stats {
	return s.stats
}

// Terms returns all source-side terms for the given direction, vocabulary
// first then phrases, in insertion order. Used to seed suggestion indexes.
func (s *Snapshot) Terms(dir Direction) []string {
	out := make([]string, 0, len(s.vocabKeys)+len(s.phraseKeys))
	for _, key := range s.vocabKeys {
		if dir == KumaoniToHinglish {
			out = append(out, s.vocab[key].Target)
		} else {
			out = append(out, key)
		}
	}
	for _, key := range s.phraseKeys {
		if dir == KumaoniToHinglish {
			out = append(out, s.phrases[key].TargetText())
		} else {
			out = append(out, key)
		}
	}
	return out
}

// VocabKeys returns vocabulary keys in insertion order.
func (s *Snapshot) VocabKeys() []string { return s.vocabKeys }

// PhraseKeys returns phrase keys in insertion order.
func (s *Snapshot) PhraseKeys() []string { return s.phraseKeys }

// Vocab returns the entry for a vocabulary key.
func (s *Snapshot) Vocab(key string) (*VocabEntry, bool) {
	e, ok := s.vocab[key]
	return e, ok
}

// Phrase returns the entry for a phrase key.
func (s *Snapshot) Phrase(key string) (*PhraseEntry, bool) {
	e, ok := s.phrases[key]
	return e, ok
}

// EachIdiom calls fn for every idiom entry.
func (s *Snapshot) EachIdiom(fn func(*IdiomEntry)) {
	for _, e := range s.idioms {
		fn(e)
	}
}

// EachRule calls fn for every rule, category by category in application
// order, rules in priority order.
func (s *Snapshot) EachRule(fn func(*GrammarRule)) {
	for _, cat := range CategoryOrder {
		for _, r := range s.rulesByCat[cat] {
			fn(r)
		}
	}
}
