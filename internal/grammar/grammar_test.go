package grammar

import (
	"testing"

	"github.com/getthecodeoutofit/KumaoniTrans/internal/kb"
)

func ruleBase(t *testing.T, rules ...*kb.GrammarRule) *kb.Snapshot {
	t.Helper()
	b := kb.New()
	err := b.Update(func(tx *kb.Tx) error {
		for _, r := range rules {
			if err := tx.AddRule(r); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return b.Snapshot()
}

func TestApplyWholeSuffixPrefix(t *testing.T) {
	snap := ruleBase(t,
		&kb.GrammarRule{Category: kb.CategoryPronoun, Pattern: "main", Replacement: "ma", Priority: 1},
		&kb.GrammarRule{Category: kb.CategoryVerbEnding, Pattern: "na", Replacement: "no", Priority: 1},
		&kb.GrammarRule{Category: kb.CategorySentenceStructure, Pattern: "maha", Replacement: "mah", Priority: 1},
	)

	tests := []struct {
		name     string
		token    string
		expected string
		fired    bool
	}{
		{"whole token pronoun", "main", "ma", true},
		{"suffix verb ending", "khana", "khano", true},
		{"whole token verb ending", "na", "no", true},
		{"prefix match", "mahadev", "mahdev", true},
		{"no rule", "xyz", "xyz", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frag := Apply(tt.token, snap, kb.HinglishToKumaoni)
			if frag.Text != tt.expected {
				t.Errorf("Apply(%q) = %q, want %q", tt.token, frag.Text, tt.expected)
			}
			if frag.Transformed() != tt.fired {
				t.Errorf("Apply(%q) transformed = %v, want %v", tt.token, frag.Transformed(), tt.fired)
			}
		})
	}
}

func TestPriorityDeterminism(t *testing.T) {
	// Two rules in the same category match "khana"; the lower priority
	// number must always win.
	snap := ruleBase(t,
		&kb.GrammarRule{Category: kb.CategoryVerbEnding, Pattern: "a", Replacement: "o", Priority: 9},
		&kb.GrammarRule{Category: kb.CategoryVerbEnding, Pattern: "na", Replacement: "no", Priority: 1},
	)

	for i := 0; i < 50; i++ {
		frag := Apply("khana", snap, kb.HinglishToKumaoni)
		if frag.Text != "khano" {
			t.Fatalf("run %d: Apply(khana) = %q, want khano (priority 1 rule)", i, frag.Text)
		}
	}
}

func TestCategoryOrder(t *testing.T) {
	// A pronoun rule outranks a verb-ending rule even when the verb-ending
	// rule was added first and has a lower priority number.
	snap := ruleBase(t,
		&kb.GrammarRule{Category: kb.CategoryVerbEnding, Pattern: "main", Replacement: "moin", Priority: 1},
		&kb.GrammarRule{Category: kb.CategoryPronoun, Pattern: "main", Replacement: "ma", Priority: 5},
	)

	frag := Apply("main", snap, kb.HinglishToKumaoni)
	if frag.Text != "ma" {
		t.Errorf("Apply(main) = %q, want pronoun substitution ma", frag.Text)
	}
	if frag.Rule == nil || frag.Rule.Category != kb.CategoryPronoun {
		t.Errorf("winning rule = %+v, want pronoun category", frag.Rule)
	}
}

func TestMultiTokenPattern(t *testing.T) {
	snap := ruleBase(t,
		&kb.GrammarRule{Category: kb.CategoryPostposition, Pattern: "ke liye", Replacement: "khatir", Priority: 1},
	)

	frags := ApplyRun([]string{"ke", "liye"}, snap, kb.HinglishToKumaoni)
	if len(frags) != 1 {
		t.Fatalf("got %d fragments, want 1", len(frags))
	}
	if frags[0].Text != "khatir" || frags[0].Tokens != 2 {
		t.Errorf("fragment = %+v, want khatir consuming 2 tokens", frags[0])
	}

	// A partial window must not fire.
	frags = ApplyRun([]string{"ke"}, snap, kb.HinglishToKumaoni)
	if frags[0].Transformed() {
		t.Errorf("single token ke fired multi-token rule: %+v", frags[0])
	}
}

func TestApplyReverseDirection(t *testing.T) {
	snap := ruleBase(t,
		&kb.GrammarRule{Category: kb.CategoryPronoun, Pattern: "main", Replacement: "ma", Priority: 1},
		&kb.GrammarRule{Category: kb.CategoryPostposition, Pattern: "se", Replacement: "le", Priority: 1},
	)

	frag := Apply("ma", snap, kb.KumaoniToHinglish)
	if frag.Text != "main" {
		t.Errorf("reverse Apply(ma) = %q, want main", frag.Text)
	}
	frag = Apply("le", snap, kb.KumaoniToHinglish)
	if frag.Text != "se" {
		t.Errorf("reverse Apply(le) = %q, want se", frag.Text)
	}
}

func TestApplyRunPassThrough(t *testing.T) {
	snap := ruleBase(t)
	frags := ApplyRun([]string{"xyz", "abc"}, snap, kb.HinglishToKumaoni)
	if len(frags) != 2 {
		t.Fatalf("got %d fragments, want 2", len(frags))
	}
	for i, f := range frags {
		if f.Transformed() {
			t.Errorf("fragment %d unexpectedly transformed: %+v", i, f)
		}
	}
}
