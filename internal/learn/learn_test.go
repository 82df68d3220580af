package learn

import (
	"errors"
	"testing"

	"github.com/getthecodeoutofit/KumaoniTrans/internal/kb"
)

func TestAddWordNormalizes(t *testing.T) {
	b := kb.New()
	l := New(b)

	if err := l.AddWord("  Ghar ", "GHAR", "noun"); err != nil {
		t.Fatal(err)
	}
	snap := b.Snapshot()
	e, ok := snap.Vocab("ghar")
	if !ok {
		t.Fatal("normalized key not found")
	}
	if e.Target != "ghar" || e.PartOfSpeech != "noun" {
		t.Errorf("entry = %+v", e)
	}
}

func TestAddWordRejectsMultiToken(t *testing.T) {
	l := New(kb.New())
	if err := l.AddWord("ke liye", "khatir", ""); !errors.Is(err, kb.ErrMalformedPayload) {
		t.Errorf("err = %v, want ErrMalformedPayload", err)
	}
}

func TestAddPhraseNeedsTwoTokens(t *testing.T) {
	l := New(kb.New())
	if err := l.AddPhrase("ghar", "ghar"); !errors.Is(err, kb.ErrMalformedPayload) {
		t.Errorf("err = %v, want ErrMalformedPayload", err)
	}
	if err := l.AddPhrase("kaisa cha", "kasi chha"); err != nil {
		t.Fatal(err)
	}
}

func TestAddRuleValidatesCategory(t *testing.T) {
	l := New(kb.New())
	if err := l.AddRule("interjection", "na", "no", 1); !errors.Is(err, kb.ErrMalformedPayload) {
		t.Errorf("err = %v, want ErrMalformedPayload", err)
	}
	if err := l.AddRule("verb_ending", "na", "no", 1); err != nil {
		t.Fatal(err)
	}
}

func TestAddIdiomValidatesConfidence(t *testing.T) {
	l := New(kb.New())
	if err := l.AddIdiom("ram ram", "pranam", "idiom", 1.5); !errors.Is(err, kb.ErrMalformedPayload) {
		t.Errorf("err = %v, want ErrMalformedPayload", err)
	}
	if err := l.AddIdiom("ram ram", "pranam", "idiom", 0.8); err != nil {
		t.Fatal(err)
	}
}

func TestAddDuplicateConflicts(t *testing.T) {
	l := New(kb.New())
	if err := l.AddWord("ghar", "ghar", ""); err != nil {
		t.Fatal(err)
	}
	// Identical re-add is a no-op, a different target is a conflict.
	if err := l.AddWord("ghar", "ghar", ""); err != nil {
		t.Errorf("identical re-add: %v", err)
	}
	if err := l.AddWord("ghar", "makaan", ""); !errors.Is(err, kb.ErrDuplicateKey) {
		t.Errorf("err = %v, want ErrDuplicateKey", err)
	}
}

const importDoc = `{
  "vocabulary": {
    "ghar": {"source_term": "ghar", "target_term": "ghar"},
    "pani": {"source_term": "pani", "target_term": "pani"},
    "main": {"source_term": "main", "target_term": "mi"},
    "tum": {"source_term": "tum", "target_term": "tumi"},
    "khana": {"source_term": "khana", "target_term": "khano"},
    "bad": {"source_term": "mismatched", "target_term": "x"}
  },
  "phrases": {
    "kaisa cha": {"source_phrase": ["kaisa", "cha"], "target_phrase": ["kasi", "chha"]}
  },
  "grammar_rules": {
    "postposition:ke liye": {"category": "postposition", "pattern": "ke liye", "replacement": "khatir", "priority": 1}
  },
  "idioms": {
    "ram ram": {"pattern": "ram ram", "meaning": "pranam", "category": "idiom", "confidence": 0.9},
    "thanda pani": {"pattern": "thanda pani", "meaning": "sheetal jal", "category": "collocation", "confidence": 0.7}
  }
}`

func TestImportSkipsBadEntries(t *testing.T) {
	b := kb.New()
	l := New(b)

	report, err := l.Import([]byte(importDoc))
	if err != nil {
		t.Fatal(err)
	}
	if report.Applied != 9 {
		t.Errorf("applied = %d, want 9", report.Applied)
	}
	if len(report.Skipped) != 1 {
		t.Fatalf("skipped = %+v, want 1 entry", report.Skipped)
	}
	if report.Skipped[0].Key != "bad" {
		t.Errorf("skipped key = %q", report.Skipped[0].Key)
	}

	stats := b.Stats()
	if stats.VocabCount != 5 || stats.PhraseCount != 1 || stats.RuleCount != 1 || stats.IdiomCount != 2 {
		t.Errorf("stats after import = %+v", stats)
	}
}

func TestImportRejectsMalformedDocument(t *testing.T) {
	l := New(kb.New())
	if _, err := l.Import([]byte(`{"vocabulary": [`)); !errors.Is(err, kb.ErrMalformedPayload) {
		t.Errorf("err = %v, want ErrMalformedPayload", err)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	b := kb.New()
	l := New(b)
	if _, err := l.Import([]byte(importDoc)); err != nil {
		t.Fatal(err)
	}

	out, err := l.Export()
	if err != nil {
		t.Fatal(err)
	}

	b2 := kb.New()
	report, err := New(b2).Import(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Skipped) != 0 {
		t.Errorf("round-trip skipped %+v", report.Skipped)
	}

	s1, s2 := b.Stats(), b2.Stats()
	if s1.VocabCount != s2.VocabCount || s1.PhraseCount != s2.PhraseCount ||
		s1.RuleCount != s2.RuleCount || s1.IdiomCount != s2.IdiomCount {
		t.Errorf("round-trip stats differ: %+v vs %+v", s1, s2)
	}

	e1, _ := b.Snapshot().Vocab("main")
	e2, _ := b2.Snapshot().Vocab("main")
	if !e1.Equal(e2) {
		t.Errorf("entry drift after round-trip: %+v vs %+v", e1, e2)
	}
}

func TestSearchOrdersByKind(t *testing.T) {
	b := kb.New()
	l := New(b)
	if _, err := l.Import([]byte(importDoc)); err != nil {
		t.Fatal(err)
	}

	hits := l.Search("PANI")
	if len(hits) != 2 {
		t.Fatalf("hits = %+v, want word then idiom", hits)
	}
	if hits[0].Kind != HitWord || hits[0].Key != "pani" {
		t.Errorf("first hit = %+v", hits[0])
	}
	if hits[1].Kind != HitIdiom || hits[1].Key != "thanda pani" {
		t.Errorf("second hit = %+v", hits[1])
	}

	if got := l.Search("no match anywhere at all"); len(got) != 0 {
		t.Errorf("unexpected hits %+v", got)
	}
}
