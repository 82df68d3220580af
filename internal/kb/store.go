package kb

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/getthecodeoutofit/KumaoniTrans/internal/tokenizer"
)

// Persisted document names, one JSON file per entry kind.
const (
	VocabFile   = "vocab.json"
	PhrasesFile = "phrases.json"
	RulesFile   = "grammar_rules.json"
	IdiomsFile  = "idioms.json"
)

type keyedRaw struct {
	key string
	raw json.RawMessage
}

// decodeKeyed reads a key->record JSON document preserving file order and
// rejecting duplicate keys. A missing file yields no entries.
func decodeKeyed(path string) ([]keyedRaw, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrPersistence, path, err)
	}
	defer f.Close()

	name := filepath.Base(path)
	dec := json.NewDecoder(f)

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrPersistence, name, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("%w: %s: top level must be an object", ErrMalformedPayload, name)
	}

	var out []keyedRaw
	seen := make(map[string]bool)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrPersistence, name, err)
		}
		key := keyTok.(string)
		if seen[key] {
			return nil, fmt.Errorf("%w: %s: duplicate key %q", ErrMalformedPayload, name, key)
		}
		seen[key] = true

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: %s: key %q: %v", ErrMalformedPayload, name, key, err)
		}
		out = append(out, keyedRaw{key: key, raw: raw})
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrPersistence, name, err)
	}
	return out, nil
}

// Load reads the four knowledge-base documents from dir. Missing files are
// treated as empty. Keys are validated against the tokenizer so every
// stored key matches what lookups will produce.
func Load(dir string) (*KnowledgeBase, error) {
	b := New()

	vocab, err := decodeKeyed(filepath.Join(dir, VocabFile))
	if err != nil {
		return nil, err
	}
	for _, kr := range vocab {
		if tokenizer.Key(kr.key) != kr.key {
			return nil, fmt.Errorf("%w: %s: key %q is not normalized", ErrMalformedPayload, VocabFile, kr.key)
		}
		e := &VocabEntry{}
		if err := json.Unmarshal(kr.raw, e); err != nil {
			return nil, fmt.Errorf("%w: %s: key %q: %v", ErrMalformedPayload, VocabFile, kr.key, err)
		}
		if e.Source == "" {
			e.Source = kr.key
		}
		if e.Source != kr.key {
			return nil, fmt.Errorf("%w: %s: key %q does not match source term %q", ErrMalformedPayload, VocabFile, kr.key, e.Source)
		}
		if tokenizer.Key(e.Target) != e.Target {
			return nil, fmt.Errorf("%w: %s: key %q: target %q is not normalized", ErrMalformedPayload, VocabFile, kr.key, e.Target)
		}
		b.vocab[kr.key] = e
		b.vocabOrder = append(b.vocabOrder, kr.key)
	}

	phrases, err := decodeKeyed(filepath.Join(dir, PhrasesFile))
	if err != nil {
		return nil, err
	}
	for _, kr := range phrases {
		if tokenizer.Key(kr.key) != kr.key {
			return nil, fmt.Errorf("%w: %s: key %q is not normalized", ErrMalformedPayload, PhrasesFile, kr.key)
		}
		e := &PhraseEntry{}
		if err := json.Unmarshal(kr.raw, e); err != nil {
			return nil, fmt.Errorf("%w: %s: key %q: %v", ErrMalformedPayload, PhrasesFile, kr.key, err)
		}
		if len(e.Source) == 0 {
			e.Source = strings.Fields(kr.key)
		}
		if e.Key() != kr.key {
			return nil, fmt.Errorf("%w: %s: key %q does not match source phrase %q", ErrMalformedPayload, PhrasesFile, kr.key, e.Key())
		}
		if target := e.TargetText(); tokenizer.Key(target) != target {
			return nil, fmt.Errorf("%w: %s: key %q: target %q is not normalized", ErrMalformedPayload, PhrasesFile, kr.key, target)
		}
		b.phrases[kr.key] = e
		b.phraseOrder = append(b.phraseOrder, kr.key)
	}

	rules, err := decodeKeyed(filepath.Join(dir, RulesFile))
	if err != nil {
		return nil, err
	}
	for _, kr := range rules {
		r := &GrammarRule{}
		if err := json.Unmarshal(kr.raw, r); err != nil {
			return nil, fmt.Errorf("%w: %s: key %q: %v", ErrMalformedPayload, RulesFile, kr.key, err)
		}
		if r.Key() != kr.key {
			return nil, fmt.Errorf("%w: %s: key %q does not match rule %q", ErrMalformedPayload, RulesFile, kr.key, r.Key())
		}
		if tokenizer.Key(r.Pattern) != r.Pattern {
			return nil, fmt.Errorf("%w: %s: key %q: pattern %q is not normalized", ErrMalformedPayload, RulesFile, kr.key, r.Pattern)
		}
		if r.Replacement != "" && tokenizer.Key(r.Replacement) != r.Replacement {
			return nil, fmt.Errorf("%w: %s: key %q: replacement %q is not normalized", ErrMalformedPayload, RulesFile, kr.key, r.Replacement)
		}
		b.rules[kr.key] = r
		b.ruleOrder = append(b.ruleOrder, kr.key)
	}

	idioms, err := decodeKeyed(filepath.Join(dir, IdiomsFile))
	if err != nil {
		return nil, err
	}
	for _, kr := range idioms {
		if tokenizer.Key(kr.key) != kr.key {
			return nil, fmt.Errorf("%w: %s: key %q is not normalized", ErrMalformedPayload, IdiomsFile, kr.key)
		}
		e := &IdiomEntry{}
		if err := json.Unmarshal(kr.raw, e); err != nil {
			return nil, fmt.Errorf("%w: %s: key %q: %v", ErrMalformedPayload, IdiomsFile, kr.key, err)
		}
		if e.Pattern == "" {
			e.Pattern = kr.key
		}
		if e.Pattern != kr.key {
			return nil, fmt.Errorf("%w: %s: key %q does not match pattern %q", ErrMalformedPayload, IdiomsFile, kr.key, e.Pattern)
		}
		b.idioms[kr.key] = e
		b.idiomOrder = append(b.idiomOrder, kr.key)
	}

	for _, name := range []string{VocabFile, PhrasesFile, RulesFile, IdiomsFile} {
		if info, err := os.Stat(filepath.Join(dir, name)); err == nil {
			if info.ModTime().After(b.lastModified) {
				b.lastModified = info.ModTime()
			}
		}
	}

	return b, nil
}

// Save writes the four documents to dir. Each file is synced before close
// so a completed export survives later failures.
func (b *KnowledgeBase) Save(dir string) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: create %s: %v", ErrPersistence, dir, err)
	}

	if err := writeDoc(filepath.Join(dir, VocabFile), b.vocab); err != nil {
		return err
	}
	if err := writeDoc(filepath.Join(dir, PhrasesFile), b.phrases); err != nil {
		return err
	}
	if err := writeDoc(filepath.Join(dir, RulesFile), b.rules); err != nil {
		return err
	}
	return writeDoc(filepath.Join(dir, IdiomsFile), b.idioms)
}

func writeDoc[E any](path string, doc map[string]E) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: create %s: %v", ErrPersistence, path, err)
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		f.Close()
		return fmt.Errorf("%w: encode %s: %v", ErrPersistence, path, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("%w: sync %s: %v", ErrPersistence, path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", ErrPersistence, path, err)
	}
	return nil
}
