package learn

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/getthecodeoutofit/KumaoniTrans/internal/kb"
	"github.com/getthecodeoutofit/KumaoniTrans/internal/tokenizer"
)

// Payload is the bulk import and export document. Each section maps the
// entry key to its JSON body; sections may be absent.
type Payload struct {
	Vocabulary   map[string]json.RawMessage `json:"vocabulary,omitempty"`
	Phrases      map[string]json.RawMessage `json:"phrases,omitempty"`
	GrammarRules map[string]json.RawMessage `json:"grammar_rules,omitempty"`
	Idioms       map[string]json.RawMessage `json:"idioms,omitempty"`
}

// SkippedEntry records one rejected import entry and why.
type SkippedEntry struct {
	Section string `json:"section"`
	Key     string `json:"key"`
	Reason  string `json:"reason"`
}

// ImportReport summarizes a bulk import: how many entries applied and
// which were skipped.
type ImportReport struct {
	Applied int            `json:"applied"`
	Skipped []SkippedEntry `json:"skipped,omitempty"`
}

// Import applies a bulk payload. A structurally invalid document fails
// with ErrMalformedPayload and changes nothing. Individual entries that
// fail validation or conflict with existing entries are skipped with a
// reason; the rest apply atomically with respect to concurrent readers.
func (l *Learner) Import(data []byte) (*ImportReport, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", kb.ErrMalformedPayload, err)
	}

	report := &ImportReport{}
	err := l.base.Update(func(tx *kb.Tx) error {
		for _, key := range sortedKeys(p.Vocabulary) {
			var e kb.VocabEntry
			l.importOne(report, "vocabulary", key, p.Vocabulary[key], &e,
				func() string { return e.Source },
				func() error { return tx.AddVocab(&e) })
		}
		for _, key := range sortedKeys(p.Phrases) {
			var e kb.PhraseEntry
			l.importOne(report, "phrases", key, p.Phrases[key], &e,
				func() string { return e.Key() },
				func() error { return tx.AddPhrase(&e) })
		}
		for _, key := range sortedKeys(p.GrammarRules) {
			var r kb.GrammarRule
			l.importOne(report, "grammar_rules", key, p.GrammarRules[key], &r,
				func() string { return r.Key() },
				func() error { return tx.AddRule(&r) })
		}
		for _, key := range sortedKeys(p.Idioms) {
			var e kb.IdiomEntry
			l.importOne(report, "idioms", key, p.Idioms[key], &e,
				func() string { return e.Pattern },
				func() error { return tx.AddIdiom(&e) })
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// importOne decodes and applies one entry, recording a skip on any
// failure. The document key must agree, after normalization, with the key
// derived from the decoded entry.
func (l *Learner) importOne(report *ImportReport, section, key string, raw json.RawMessage, dst any, derive func() string, add func() error) {
	skip := func(reason string) {
		report.Skipped = append(report.Skipped, SkippedEntry{Section: section, Key: key, Reason: reason})
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		skip(err.Error())
		return
	}
	if derived := derive(); key != derived && tokenizer.Key(key) != derived {
		skip(fmt.Sprintf("key %q does not match entry %q", key, derived))
		return
	}
	if err := add(); err != nil {
		skip(err.Error())
		return
	}
	report.Applied++
}

// Export renders the full knowledge base as an import payload. Unknown
// fields loaded from disk are preserved in the output.
func (l *Learner) Export() ([]byte, error) {
	snap := l.base.Snapshot()
	p := Payload{
		Vocabulary:   make(map[string]json.RawMessage),
		Phrases:      make(map[string]json.RawMessage),
		GrammarRules: make(map[string]json.RawMessage),
		Idioms:       make(map[string]json.RawMessage),
	}

	var err error
	put := func(m map[string]json.RawMessage, key string, v any) {
		if err != nil {
			return
		}
		var raw []byte
		if raw, err = json.Marshal(v); err == nil {
			m[key] = raw
		}
	}
	for _, key := range snap.VocabKeys() {
		e, _ := snap.Vocab(key)
		put(p.Vocabulary, key, e)
	}
	for _, key := range snap.PhraseKeys() {
		e, _ := snap.Phrase(key)
		put(p.Phrases, key, e)
	}
	snap.EachRule(func(r *kb.GrammarRule) {
		put(p.GrammarRules, r.Key(), r)
	})
	snap.EachIdiom(func(e *kb.IdiomEntry) {
		put(p.Idioms, e.Pattern, e)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kb.ErrPersistence, err)
	}
	return json.MarshalIndent(p, "", "  ")
}

func sortedKeys(m map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
