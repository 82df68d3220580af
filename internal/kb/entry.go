package kb

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RuleCategory classifies a grammar rule.
type RuleCategory string

const (
	CategoryVerbEnding        RuleCategory = "verb_ending"
	CategoryPostposition      RuleCategory = "postposition"
	CategoryPronoun           RuleCategory = "pronoun"
	CategoryQuestionWord      RuleCategory = "question_word"
	CategorySentenceStructure RuleCategory = "sentence_structure"
)

// CategoryOrder is the order in which rule categories are tried for a span.
var CategoryOrder = []RuleCategory{
	CategoryPronoun,
	CategoryQuestionWord,
	CategoryPostposition,
	CategoryVerbEnding,
	CategorySentenceStructure,
}

// ParseRuleCategory validates a rule category value.
func ParseRuleCategory(s string) (RuleCategory, error) {
	switch RuleCategory(s) {
	case CategoryVerbEnding, CategoryPostposition, CategoryPronoun,
		CategoryQuestionWord, CategorySentenceStructure:
		return RuleCategory(s), nil
	}
	return "", fmt.Errorf("%w: rule category %q", ErrMalformedPayload, s)
}

// IdiomCategory classifies a recognized pattern.
type IdiomCategory string

const (
	CategoryIdiom            IdiomCategory = "idiom"
	CategoryCollocation      IdiomCategory = "collocation"
	CategoryFunctionalPhrase IdiomCategory = "functional_phrase"
)

// ParseIdiomCategory validates an idiom category value.
func ParseIdiomCategory(s string) (IdiomCategory, error) {
	switch IdiomCategory(s) {
	case CategoryIdiom, CategoryCollocation, CategoryFunctionalPhrase:
		return IdiomCategory(s), nil
	}
	return "", fmt.Errorf("%w: idiom category %q", ErrMalformedPayload, s)
}

// VocabEntry is a single word mapping. Extra carries any unknown JSON
// fields so they survive a round-trip untouched.
type VocabEntry struct {
	Source       string
	Target       string
	PartOfSpeech string
	Extra        map[string]json.RawMessage
}

// Equal reports whether two entries carry the same mapping.
func (e *VocabEntry) Equal(o *VocabEntry) bool {
	return e.Source == o.Source && e.Target == o.Target && e.PartOfSpeech == o.PartOfSpeech
}

func (e *VocabEntry) UnmarshalJSON(data []byte) error {
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if err := takeString(raw, "source_term", &e.Source); err != nil {
		return err
	}
	if err := takeString(raw, "target_term", &e.Target); err != nil {
		return err
	}
	if err := takeString(raw, "part_of_speech", &e.PartOfSpeech); err != nil {
		return err
	}
	e.Extra = remainder(raw)
	return nil
}

func (e *VocabEntry) MarshalJSON() ([]byte, error) {
	out := cloneExtra(e.Extra)
	putString(out, "source_term", e.Source)
	putString(out, "target_term", e.Target)
	if e.PartOfSpeech != "" {
		putString(out, "part_of_speech", e.PartOfSpeech)
	}
	return json.Marshal(out)
}

// PhraseEntry is a multi-token fixed expression with its own mapping.
type PhraseEntry struct {
	Source []string
	Target []string
	Extra  map[string]json.RawMessage
}

// Key returns the phrase's knowledge-base key.
func (e *PhraseEntry) Key() string {
	return strings.Join(e.Source, " ")
}

// TargetText returns the target side as a single fragment.
func (e *PhraseEntry) TargetText() string {
	return strings.Join(e.Target, " ")
}

// Equal reports whether two phrase entries carry the same mapping.
func (e *PhraseEntry) Equal(o *PhraseEntry) bool {
	return e.Key() == o.Key() && e.TargetText() == o.TargetText()
}

func (e *PhraseEntry) UnmarshalJSON(data []byte) error {
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if err := takeStrings(raw, "source_phrase", &e.Source); err != nil {
		return err
	}
	if err := takeStrings(raw, "target_phrase", &e.Target); err != nil {
		return err
	}
	e.Extra = remainder(raw)
	return nil
}

func (e *PhraseEntry) MarshalJSON() ([]byte, error) {
	out := cloneExtra(e.Extra)
	putValue(out, "source_phrase", e.Source)
	putValue(out, "target_phrase", e.Target)
	return json.Marshal(out)
}

// GrammarRule is a morphological or syntactic transformation. Pattern
// matches a whole token, a suffix, or a prefix; Replacement substitutes
// the matched part. Lower Priority applies first within a category.
type GrammarRule struct {
	Category    RuleCategory
	Pattern     string
	Replacement string
	Priority    int
	Extra       map[string]json.RawMessage
}

// Key returns the rule's knowledge-base key. Category is part of the key
// so the same pattern may appear in different categories.
func (r *GrammarRule) Key() string {
	return string(r.Category) + ":" + r.Pattern
}

// Equal reports whether two rules carry the same transformation.
func (r *GrammarRule) Equal(o *GrammarRule) bool {
	return r.Category == o.Category && r.Pattern == o.Pattern &&
		r.Replacement == o.Replacement && r.Priority == o.Priority
}

func (r *GrammarRule) UnmarshalJSON(data []byte) error {
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var cat string
	if err := takeString(raw, "category", &cat); err != nil {
		return err
	}
	category, err := ParseRuleCategory(cat)
	if err != nil {
		return err
	}
	r.Category = category
	if err := takeString(raw, "pattern", &r.Pattern); err != nil {
		return err
	}
	if err := takeString(raw, "replacement", &r.Replacement); err != nil {
		return err
	}
	if err := takeInt(raw, "priority", &r.Priority); err != nil {
		return err
	}
	r.Extra = remainder(raw)
	return nil
}

func (r *GrammarRule) MarshalJSON() ([]byte, error) {
	out := cloneExtra(r.Extra)
	putString(out, "category", string(r.Category))
	putString(out, "pattern", r.Pattern)
	putString(out, "replacement", r.Replacement)
	putValue(out, "priority", r.Priority)
	return json.Marshal(out)
}

// IdiomEntry is a non-compositional or conventionalized expression.
type IdiomEntry struct {
	Pattern    string
	Meaning    string
	Category   IdiomCategory
	Confidence float64
	Extra      map[string]json.RawMessage
}

// Equal reports whether two idiom entries carry the same mapping.
func (e *IdiomEntry) Equal(o *IdiomEntry) bool {
	return e.Pattern == o.Pattern && e.Meaning == o.Meaning &&
		e.Category == o.Category && e.Confidence == o.Confidence
}

func (e *IdiomEntry) UnmarshalJSON(data []byte) error {
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if err := takeString(raw, "pattern", &e.Pattern); err != nil {
		return err
	}
	if err := takeString(raw, "meaning", &e.Meaning); err != nil {
		return err
	}
	var cat string
	if err := takeString(raw, "category", &cat); err != nil {
		return err
	}
	if cat != "" {
		category, err := ParseIdiomCategory(cat)
		if err != nil {
			return err
		}
		e.Category = category
	} else {
		e.Category = CategoryIdiom
	}
	if err := takeFloat(raw, "confidence", &e.Confidence); err != nil {
		return err
	}
	if e.Confidence < 0 || e.Confidence > 1 {
		return fmt.Errorf("%w: confidence %v out of range", ErrMalformedPayload, e.Confidence)
	}
	e.Extra = remainder(raw)
	return nil
}

func (e *IdiomEntry) MarshalJSON() ([]byte, error) {
	out := cloneExtra(e.Extra)
	putString(out, "pattern", e.Pattern)
	putString(out, "meaning", e.Meaning)
	putString(out, "category", string(e.Category))
	putValue(out, "confidence", e.Confidence)
	return json.Marshal(out)
}

func takeString(raw map[string]json.RawMessage, key string, dst *string) error {
	v, ok := raw[key]
	if !ok {
		return nil
	}
	delete(raw, key)
	return json.Unmarshal(v, dst)
}

func takeStrings(raw map[string]json.RawMessage, key string, dst *[]string) error {
	v, ok := raw[key]
	if !ok {
		return nil
	}
	delete(raw, key)
	return json.Unmarshal(v, dst)
}

func takeInt(raw map[string]json.RawMessage, key string, dst *int) error {
	v, ok := raw[key]
	if !ok {
		return nil
	}
	delete(raw, key)
	return json.Unmarshal(v, dst)
}

func takeFloat(raw map[string]json.RawMessage, key string, dst *float64) error {
	v, ok := raw[key]
	if !ok {
		return nil
	}
	delete(raw, key)
	return json.Unmarshal(v, dst)
}

func remainder(raw map[string]json.RawMessage) map[string]json.RawMessage {
	if len(raw) == 0 {
		return nil
	}
	return raw
}

func cloneExtra(extra map[string]json.RawMessage) map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(extra)+4)
	for k, v := range extra {
		out[k] = v
	}
	return out
}

func putString(out map[string]json.RawMessage, key, value string) {
	putValue(out, key, value)
}

func putValue(out map[string]json.RawMessage, key string, value interface{}) {
	b, err := json.Marshal(value)
	if err != nil {
		return
	}
	out[key] = b
}
