// Package kb holds the persisted linguistic knowledge base: vocabulary,
// phrases, grammar rules, and idioms, each keyed by normalized text.
package kb

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// Stats summarizes knowledge-base contents.
type Stats struct {
	VocabCount   int       `json:"vocab_count"`
	PhraseCount  int       `json:"phrase_count"`
	RuleCount    int       `json:"rule_count"`
	IdiomCount   int       `json:"idiom_count"`
	LastModified time.Time `json:"last_modified"`
}

// KnowledgeBase is the single mutable linguistic state of a session.
// Reads go through immutable snapshots; mutations are serialized through
// Update, so no snapshot ever observes a half-applied change.
type KnowledgeBase struct {
	mu sync.RWMutex

	vocab      map[string]*VocabEntry
	vocabOrder []string

	phrases     map[string]*PhraseEntry
	phraseOrder []string

	rules     map[string]*GrammarRule
	ruleOrder []string

	idioms     map[string]*IdiomEntry
	idiomOrder []string

	lastModified time.Time
}

// New creates an empty knowledge base.
func New() *KnowledgeBase {
	return &KnowledgeBase{
		vocab:   make(map[string]*VocabEntry),
		phrases: make(map[string]*PhraseEntry),
		rules:   make(map[string]*GrammarRule),
		idioms:  make(map[string]*IdiomEntry),
	}
}

// Tx is a mutation scope passed to Update callbacks. All adds inside one
// Update apply before any later snapshot is taken.
type Tx struct {
	b       *KnowledgeBase
	changed bool
}

// Update runs fn while holding the write lock. If fn returns an error the
// error is passed through; entries already added by fn remain applied, so
// callers wanting all-or-nothing must validate before adding.
func (b *KnowledgeBase) Update(fn func(tx *Tx) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	tx := &Tx{b: b}
	err := fn(tx)
	if tx.changed {
		b.lastModified = time.Now()
	}
	return err
}

// AddVocab adds a word mapping. Re-adding an identical entry is a no-op;
// a same-key entry with a different value fails with ErrDuplicateKey.
func (tx *Tx) AddVocab(e *VocabEntry) error {
	if e.Source == "" {
		return fmt.Errorf("%w: empty source term", ErrMalformedPayload)
	}
	if existing, ok := tx.b.vocab[e.Source]; ok {
		if existing.Equal(e) {
			return nil
		}
		return fmt.Errorf("%w: word %q", ErrDuplicateKey, e.Source)
	}
	tx.b.vocab[e.Source] = e
	tx.b.vocabOrder = append(tx.b.vocabOrder, e.Source)
	tx.changed = true
	return nil
}

// AddPhrase adds a phrase mapping with the same duplicate policy as AddVocab.
func (tx *Tx) AddPhrase(e *PhraseEntry) error {
	key := e.Key()
	if key == "" {
		return fmt.Errorf("%w: empty source phrase", ErrMalformedPayload)
	}
	if existing, ok := tx.b.phrases[key]; ok {
		if existing.Equal(e) {
			return nil
		}
		return fmt.Errorf("%w: phrase %q", ErrDuplicateKey, key)
	}
	tx.b.phrases[key] = e
	tx.b.phraseOrder = append(tx.b.phraseOrder, key)
	tx.changed = true
	return nil
}

// AddRule adds a grammar rule, keyed by category and pattern.
func (tx *Tx) AddRule(r *GrammarRule) error {
	if r.Pattern == "" {
		return fmt.Errorf("%w: empty rule pattern", ErrMalformedPayload)
	}
	key := r.Key()
	if existing, ok := tx.b.rules[key]; ok {
		if existing.Equal(r) {
			return nil
		}
		return fmt.Errorf("%w: rule %q", ErrDuplicateKey, key)
	}
	tx.b.rules[key] = r
	tx.b.ruleOrder = append(tx.b.ruleOrder, key)
	tx.changed = true
	return nil
}

// AddIdiom adds an idiom, collocation, or functional phrase.
func (tx *Tx) AddIdiom(e *IdiomEntry) error {
	if e.Pattern == "" {
		return fmt.Errorf("%w: empty idiom pattern", ErrMalformedPayload)
	}
	if existing, ok := tx.b.idioms[e.Pattern]; ok {
		if existing.Equal(e) {
			return nil
		}
		return fmt.Errorf("%w: idiom %q", ErrDuplicateKey, e.Pattern)
	}
	tx.b.idioms[e.Pattern] = e
	tx.b.idiomOrder = append(tx.b.idiomOrder, e.Pattern)
	tx.changed = true
	return nil
}

// Stats returns current entry counts and the last mutation time.
func (b *KnowledgeBase) Stats() Stats {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return Stats{
		VocabCount:   len(b.vocab),
		PhraseCount:  len(b.phrases),
		RuleCount:    len(b.rules),
		IdiomCount:   len(b.idioms),
		LastModified: b.lastModified,
	}
}

// Snapshot takes an immutable view for translation reads. The returned
// value shares entry pointers with the base; entries are never mutated in
// place, so concurrent use is safe and order-independent.
func (b *KnowledgeBase) Snapshot() *Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	s := &Snapshot{
		vocab:      make(map[string]*VocabEntry, len(b.vocab)),
		vocabRev:   make(map[string]*VocabEntry, len(b.vocab)),
		phrases:    make(map[string]*PhraseEntry, len(b.phrases)),
		phraseRev:  make(map[string]*PhraseEntry, len(b.phrases)),
		idioms:     make(map[string]*IdiomEntry, len(b.idioms)),
		rulesByCat: make(map[RuleCategory][]*GrammarRule),
		stats: Stats{
			VocabCount:   len(b.vocab),
			PhraseCount:  len(b.phrases),
			RuleCount:    len(b.rules),
			IdiomCount:   len(b.idioms),
			LastModified: b.lastModified,
		},
	}

	for _, key := range b.vocabOrder {
		e := b.vocab[key]
		s.vocab[key] = e
		s.vocabKeys = append(s.vocabKeys, key)
		// First registered wins on reverse collisions.
		if _, ok := s.vocabRev[e.Target]; !ok {
			s.vocabRev[e.Target] = e
		}
	}

	for _, key := range b.phraseOrder {
		e := b.phrases[key]
		s.phrases[key] = e
		s.phraseKeys = append(s.phraseKeys, key)
		if n := len(e.Source); n > s.maxPhraseLen {
			s.maxPhraseLen = n
		}
		if n := len(e.Target); n > s.maxPhraseLen {
			s.maxPhraseLen = n
		}
		target := e.TargetText()
		if _, ok := s.phraseRev[target]; !ok {
			s.phraseRev[target] = e
		}
	}

	for _, pattern := range b.idiomOrder {
		e := b.idioms[pattern]
		s.idioms[pattern] = e
		if n := tokenCount(pattern); n > s.maxIdiomLen {
			s.maxIdiomLen = n
		}
	}

	for _, key := range b.ruleOrder {
		r := b.rules[key]
		s.rulesByCat[r.Category] = append(s.rulesByCat[r.Category], r)
	}
	for cat := range s.rulesByCat {
		rules := s.rulesByCat[cat]
		// Stable keeps insertion order for equal priorities.
		sort.SliceStable(rules, func(i, j int) bool {
			return rules[i].Priority < rules[j].Priority
		})
	}

	return s
}
