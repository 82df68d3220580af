package kb

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func addWord(t *testing.T, b *KnowledgeBase, source, target string) {
	t.Helper()
	err := b.Update(func(tx *Tx) error {
		return tx.AddVocab(&VocabEntry{Source: source, Target: target})
	})
	if err != nil {
		t.Fatalf("AddVocab(%q, %q): %v", source, target, err)
	}
}

func TestAddVocabDuplicatePolicy(t *testing.T) {
	b := New()
	addWord(t, b, "ghar", "ghar")

	// Identical re-add is a no-op success.
	if err := b.Update(func(tx *Tx) error {
		return tx.AddVocab(&VocabEntry{Source: "ghar", Target: "ghar"})
	}); err != nil {
		t.Fatalf("identical re-add: %v", err)
	}
	if got := b.Stats().VocabCount; got != 1 {
		t.Errorf("vocab count after re-add = %d, want 1", got)
	}

	// Conflicting value fails with ErrDuplicateKey.
	err := b.Update(func(tx *Tx) error {
		return tx.AddVocab(&VocabEntry{Source: "ghar", Target: "kuri"})
	})
	if !errors.Is(err, ErrDuplicateKey) {
		t.Errorf("conflicting add = %v, want ErrDuplicateKey", err)
	}
}

func TestAddRuleDuplicatePolicy(t *testing.T) {
	b := New()
	rule := &GrammarRule{Category: CategoryPostposition, Pattern: "ke liye", Replacement: "khatir", Priority: 1}
	if err := b.Update(func(tx *Tx) error { return tx.AddRule(rule) }); err != nil {
		t.Fatalf("AddRule: %v", err)
	}
	if err := b.Update(func(tx *Tx) error {
		return tx.AddRule(&GrammarRule{Category: CategoryPostposition, Pattern: "ke liye", Replacement: "khatir", Priority: 1})
	}); err != nil {
		t.Fatalf("identical rule re-add: %v", err)
	}
	err := b.Update(func(tx *Tx) error {
		return tx.AddRule(&GrammarRule{Category: CategoryPostposition, Pattern: "ke liye", Replacement: "lijij", Priority: 2})
	})
	if !errors.Is(err, ErrDuplicateKey) {
		t.Errorf("conflicting rule = %v, want ErrDuplicateKey", err)
	}

	// Same pattern in a different category is a distinct key.
	if err := b.Update(func(tx *Tx) error {
		return tx.AddRule(&GrammarRule{Category: CategoryVerbEnding, Pattern: "ke liye", Replacement: "x", Priority: 1})
	}); err != nil {
		t.Errorf("same pattern, other category: %v", err)
	}
}

func TestSnapshotReverseFirstInsertedWins(t *testing.T) {
	b := New()
	addWord(t, b, "achha", "balo")
	addWord(t, b, "sundar", "balo") // same target, registered later

	s := b.Snapshot()
	e, target, ok := s.LookupWord("balo", KumaoniToHinglish)
	if !ok {
		t.Fatal("reverse lookup of balo failed")
	}
	if target != "achha" || e.Source != "achha" {
		t.Errorf("reverse lookup = %q, want first-registered %q", target, "achha")
	}
}

func TestSnapshotRuleOrdering(t *testing.T) {
	b := New()
	err := b.Update(func(tx *Tx) error {
		if err := tx.AddRule(&GrammarRule{Category: CategoryVerbEnding, Pattern: "ta", Replacement: "to", Priority: 5}); err != nil {
			return err
		}
		if err := tx.AddRule(&GrammarRule{Category: CategoryVerbEnding, Pattern: "na", Replacement: "no", Priority: 1}); err != nil {
			return err
		}
		return tx.AddRule(&GrammarRule{Category: CategoryVerbEnding, Pattern: "ya", Replacement: "yo", Priority: 5})
	})
	if err != nil {
		t.Fatal(err)
	}

	rules := b.Snapshot().Rules(CategoryVerbEnding)
	if len(rules) != 3 {
		t.Fatalf("got %d rules, want 3", len(rules))
	}
	if rules[0].Pattern != "na" {
		t.Errorf("first rule = %q, want lowest priority %q", rules[0].Pattern, "na")
	}
	// Equal priorities keep insertion order.
	if rules[1].Pattern != "ta" || rules[2].Pattern != "ya" {
		t.Errorf("equal-priority order = %q, %q, want ta, ya", rules[1].Pattern, rules[2].Pattern)
	}
}

func TestSnapshotIsolatedFromLaterMutations(t *testing.T) {
	b := New()
	addWord(t, b, "pani", "pani")
	s := b.Snapshot()
	addWord(t, b, "ghar", "ghar")

	if _, _, ok := s.LookupWord("ghar", HinglishToKumaoni); ok {
		t.Error("snapshot observed a mutation applied after it was taken")
	}
	if s.Stats().VocabCount != 1 {
		t.Errorf("snapshot vocab count = %d, want 1", s.Stats().VocabCount)
	}
}

func TestStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()

	b := New()
	err := b.Update(func(tx *Tx) error {
		if err := tx.AddVocab(&VocabEntry{Source: "ghar", Target: "ghar", PartOfSpeech: "noun"}); err != nil {
			return err
		}
		if err := tx.AddPhrase(&PhraseEntry{Source: []string{"kaisa", "cha"}, Target: []string{"kasi", "chha"}}); err != nil {
			return err
		}
		if err := tx.AddRule(&GrammarRule{Category: CategoryPostposition, Pattern: "ke liye", Replacement: "khatir", Priority: 1}); err != nil {
			return err
		}
		return tx.AddIdiom(&IdiomEntry{Pattern: "bado balo", Meaning: "very good", Category: CategoryIdiom, Confidence: 0.9})
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := b.Save(dir); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	s := loaded.Snapshot()
	if _, target, ok := s.LookupWord("ghar", HinglishToKumaoni); !ok || target != "ghar" {
		t.Errorf("word lookup after reload = %q, %v", target, ok)
	}
	if _, target, ok := s.LookupPhrase("kaisa cha", HinglishToKumaoni); !ok || target != "kasi chha" {
		t.Errorf("phrase lookup after reload = %q, %v", target, ok)
	}
	if rules := s.Rules(CategoryPostposition); len(rules) != 1 || rules[0].Replacement != "khatir" {
		t.Errorf("rules after reload = %+v", rules)
	}
	if e, ok := s.LookupIdiom("bado balo"); !ok || e.Confidence != 0.9 {
		t.Errorf("idiom after reload = %+v, %v", e, ok)
	}
}

func TestLoadPreservesUnknownFields(t *testing.T) {
	dir := t.TempDir()
	doc := `{"ghar": {"source_term": "ghar", "target_term": "ghar", "dialect": "almora"}}`
	if err := os.WriteFile(filepath.Join(dir, VocabFile), []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	b, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := b.Save(dir); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, VocabFile))
	if err != nil {
		t.Fatal(err)
	}
	var round map[string]map[string]json.RawMessage
	if err := json.Unmarshal(data, &round); err != nil {
		t.Fatal(err)
	}
	if string(round["ghar"]["dialect"]) != `"almora"` {
		t.Errorf("unknown field dropped on round-trip: %s", round["ghar"]["dialect"])
	}
}

func TestLoadRejectsDuplicateKeys(t *testing.T) {
	dir := t.TempDir()
	doc := `{"ghar": {"target_term": "a"}, "ghar": {"target_term": "b"}}`
	if err := os.WriteFile(filepath.Join(dir, VocabFile), []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(dir); !errors.Is(err, ErrMalformedPayload) {
		t.Errorf("Load with duplicate keys = %v, want ErrMalformedPayload", err)
	}
}

func TestLoadRejectsUnnormalizedKeys(t *testing.T) {
	dir := t.TempDir()
	doc := `{"Ghar ": {"target_term": "ghar"}}`
	if err := os.WriteFile(filepath.Join(dir, VocabFile), []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(dir); !errors.Is(err, ErrMalformedPayload) {
		t.Errorf("Load with unnormalized key = %v, want ErrMalformedPayload", err)
	}
}

func TestLoadRejectsUnnormalizedTargets(t *testing.T) {
	tests := []struct {
		name string
		file string
		doc  string
	}{
		{"vocab target", VocabFile, `{"ghar": {"target_term": "Kuri"}}`},
		{"phrase target", PhrasesFile, `{"kaisa cha": {"source_phrase": ["kaisa", "cha"], "target_phrase": ["Kasi", "chha"]}}`},
		{"rule pattern", RulesFile, `{"verb_ending:Na": {"category": "verb_ending", "pattern": "Na", "replacement": "no", "priority": 1}}`},
		{"rule replacement", RulesFile, `{"verb_ending:na": {"category": "verb_ending", "pattern": "na", "replacement": "No", "priority": 1}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if err := os.WriteFile(filepath.Join(dir, tt.file), []byte(tt.doc), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(dir); !errors.Is(err, ErrMalformedPayload) {
				t.Errorf("Load = %v, want ErrMalformedPayload", err)
			}
		})
	}
}

func TestLoadMissingDirIsEmpty(t *testing.T) {
	b, err := Load(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("Load of missing dir: %v", err)
	}
	if got := b.Stats(); got.VocabCount != 0 || got.PhraseCount != 0 {
		t.Errorf("missing dir stats = %+v, want empty", got)
	}
}

func TestParseDirection(t *testing.T) {
	if _, err := ParseDirection("hinglish_to_kumaoni"); err != nil {
		t.Errorf("valid direction rejected: %v", err)
	}
	if _, err := ParseDirection("sideways"); !errors.Is(err, ErrUnknownDirection) {
		t.Errorf("invalid direction = %v, want ErrUnknownDirection", err)
	}
	if _, err := ParsePreference("mixed"); err != nil {
		t.Errorf("valid preference rejected: %v", err)
	}
	if _, err := ParsePreference("latin"); !errors.Is(err, ErrUnknownDirection) {
		t.Errorf("invalid preference = %v, want ErrUnknownDirection", err)
	}
}
