package similarity

import (
	"reflect"
	"testing"

	"github.com/getthecodeoutofit/KumaoniTrans/internal/kb"
)

func TestEditDistance(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"", "", 0},
		{"ghar", "ghar", 0},
		{"ghar", "ghar", 0},
		{"ghar", "ghara", 1},
		{"ghar", "char", 1},
		{"ghar", "", 4},
		{"kaisa", "kasi", 2},
		{"pahāṛ", "pahar", 2},
	}

	for _, tt := range tests {
		if got := EditDistance(tt.a, tt.b); got != tt.expected {
			t.Errorf("EditDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.expected)
		}
		// Symmetric.
		if got := EditDistance(tt.b, tt.a); got != tt.expected {
			t.Errorf("EditDistance(%q, %q) = %d, want %d", tt.b, tt.a, got, tt.expected)
		}
	}
}

func TestTreeLookup(t *testing.T) {
	tree := NewTree([]string{"ghar", "pani", "khana", "gharwala", "char"})

	if tree.Size() != 5 {
		t.Errorf("size = %d, want 5", tree.Size())
	}

	results := tree.Lookup("ghar", 1)
	found := map[string]int{}
	for _, r := range results {
		found[r.Term] = r.Distance
	}
	if found["ghar"] != 0 {
		t.Errorf("exact match distance = %d, want 0", found["ghar"])
	}
	if d, ok := found["char"]; !ok || d != 1 {
		t.Errorf("char = %d, %v, want distance 1", d, ok)
	}
	if _, ok := found["pani"]; ok {
		t.Error("pani within distance 1 of ghar")
	}
}

func TestTreeDuplicatesIgnored(t *testing.T) {
	tree := NewTree([]string{"ghar", "ghar", ""})
	if tree.Size() != 1 {
		t.Errorf("size = %d, want 1", tree.Size())
	}
}

func TestSuggester(t *testing.T) {
	b := kb.New()
	err := b.Update(func(tx *kb.Tx) error {
		for _, w := range []string{"ghar", "char", "chaar", "pani"} {
			if err := tx.AddVocab(&kb.VocabEntry{Source: w, Target: w}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	s := NewSuggester(b.Snapshot(), kb.HinglishToKumaoni)

	// A known term suggests only its neighbors, never itself.
	got := s.Suggest("ghar", 1, 3)
	want := []string{"char"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Suggest(ghar) = %v, want %v", got, want)
	}

	got = s.Suggest("gar", 1, 3)
	want = []string{"ghar"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Suggest(gar) = %v, want %v", got, want)
	}

	if got := s.Suggest("zzzzzz", 1, 3); len(got) != 0 {
		t.Errorf("Suggest(zzzzzz) = %v, want none", got)
	}
}
