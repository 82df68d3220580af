// Package engine orchestrates pattern recognition, phrase matching, and
// grammar rules into whole-text translation.
package engine

import (
	"fmt"
	"strings"

	"github.com/getthecodeoutofit/KumaoniTrans/internal/grammar"
	"github.com/getthecodeoutofit/KumaoniTrans/internal/kb"
	"github.com/getthecodeoutofit/KumaoniTrans/internal/matcher"
	"github.com/getthecodeoutofit/KumaoniTrans/internal/pattern"
	"github.com/getthecodeoutofit/KumaoniTrans/internal/similarity"
	"github.com/getthecodeoutofit/KumaoniTrans/internal/tokenizer"
)

// Provenance tells which stage produced a translated fragment.
type Provenance string

const (
	ProvIdiom       Provenance = "idiom"
	ProvPhrase      Provenance = "phrase"
	ProvWord        Provenance = "word"
	ProvRule        Provenance = "rule"
	ProvPassthrough Provenance = "passthrough"
)

// SpanResult is the provenance record for one output fragment.
type SpanResult struct {
	Start  int        `json:"start"`
	End    int        `json:"end"`
	Kind   Provenance `json:"kind"`
	Source string     `json:"source"`
	Target string     `json:"target"`
	Rule   string     `json:"rule,omitempty"`
}

// Result is a completed translation. UnknownCount is the number of spans
// that reached pass-through with no match at any stage, the primary
// quality signal. Suggestions maps each unknown token to nearby known
// terms when suggestions are enabled.
type Result struct {
	Output       string              `json:"output"`
	Spans        []SpanResult        `json:"spans"`
	UnknownCount int                 `json:"unknown_count"`
	Direction    kb.Direction        `json:"direction"`
	Suggestions  map[string][]string `json:"suggestions,omitempty"`
}

// Engine translates text against a knowledge base. Every call reads from
// a snapshot taken at call start, so concurrent translations are safe.
type Engine struct {
	base *kb.KnowledgeBase

	// Threshold is the idiom confidence above which the idiomatic
	// rendering replaces the literal one.
	Threshold float64

	// SuggestDistance enables nearby-term suggestions for unknown tokens
	// when > 0. SuggestLimit caps suggestions per token.
	SuggestDistance int
	SuggestLimit    int
}

// New creates an engine with the default idiom threshold.
func New(base *kb.KnowledgeBase) *Engine {
	return &Engine{
		base:         base,
		Threshold:    pattern.DefaultThreshold,
		SuggestLimit: 3,
	}
}

// Translate converts text in the given direction. The language preference
// only affects direction choice (see DirectionFor); fallback behavior is
// identical for all preferences: unmatched fragments pass through
// verbatim and are counted.
func (e *Engine) Translate(text string, dir kb.Direction, pref kb.Preference) (*Result, error) {
	if _, err := kb.ParseDirection(string(dir)); err != nil {
		return nil, err
	}
	if _, err := kb.ParsePreference(string(pref)); err != nil {
		return nil, err
	}

	snap := e.base.Snapshot()
	tx := tokenizer.Split(text)
	tokens := tx.Norms()

	res := &Result{Direction: dir}

	// Idioms first: confident hits are substituted wholesale and excluded
	// from phrase and word matching.
	idioms := pattern.SelectConfident(pattern.Recognize(tokens, snap), e.Threshold)

	var unknownTokens []string
	pos := 0
	for _, m := range idioms {
		e.translateRange(tx, pos, m.Start, snap, dir, res, &unknownTokens)
		res.Spans = append(res.Spans, SpanResult{
			Start:  m.Start,
			End:    m.End,
			Kind:   ProvIdiom,
			Source: m.Entry.Pattern,
			Target: m.Entry.Meaning,
		})
		pos = m.End
	}
	e.translateRange(tx, pos, len(tokens), snap, dir, res, &unknownTokens)

	res.Output = e.rebuild(tx, res.Spans)

	if e.SuggestDistance > 0 && len(unknownTokens) > 0 {
		suggester := similarity.NewSuggester(snap, dir)
		res.Suggestions = make(map[string][]string)
		for _, tok := range unknownTokens {
			if hits := suggester.Suggest(tok, e.SuggestDistance, e.SuggestLimit); len(hits) > 0 {
				res.Suggestions[tok] = hits
			}
		}
	}

	return res, nil
}

// translateRange matches and transforms tokens in [start, end), appending
// provenance spans to res.
func (e *Engine) translateRange(tx tokenizer.Text, start, end int, snap *kb.Snapshot, dir kb.Direction, res *Result, unknown *[]string) {
	if start >= end {
		return
	}
	tokens := make([]string, 0, end-start)
	for _, tok := range tx.Tokens[start:end] {
		tokens = append(tokens, tok.Norm)
	}

	spans := matcher.Match(tokens, snap, dir)
	for i := 0; i < len(spans); {
		s := spans[i]
		if s.Kind != matcher.KindUnmatched {
			kind := ProvPhrase
			if s.Kind == matcher.KindWord {
				kind = ProvWord
			}
			res.Spans = append(res.Spans, SpanResult{
				Start:  start + s.Start,
				End:    start + s.End,
				Kind:   kind,
				Source: s.Source,
				Target: s.Target,
			})
			i++
			continue
		}

		// Coalesce adjacent unmatched spans so multi-token grammar
		// patterns can fire across them.
		runStart := i
		for i < len(spans) && spans[i].Kind == matcher.KindUnmatched {
			i++
		}
		runTokens := tokens[spans[runStart].Start:spans[i-1].End]
		frags := grammar.ApplyRun(runTokens, snap, dir)

		tokPos := start + spans[runStart].Start
		off := 0
		for _, frag := range frags {
			span := SpanResult{
				Start:  tokPos,
				End:    tokPos + frag.Tokens,
				Source: strings.Join(runTokens[off:off+frag.Tokens], " "),
			}
			if frag.Transformed() {
				span.Kind = ProvRule
				span.Target = frag.Text
				span.Rule = frag.Rule.Key()
			} else {
				span.Kind = ProvPassthrough
				// Pass-through keeps the original raw token.
				span.Target = tx.Tokens[tokPos].Raw
				res.UnknownCount++
				*unknown = append(*unknown, frag.Text)
			}
			res.Spans = append(res.Spans, span)
			tokPos += frag.Tokens
			off += frag.Tokens
		}
	}
}

// rebuild concatenates fragments, keeping each span's leading separator
// and the trailing separator of the input.
func (e *Engine) rebuild(tx tokenizer.Text, spans []SpanResult) string {
	var b strings.Builder
	for _, s := range spans {
		b.WriteString(tx.Seps[s.Start])
		b.WriteString(s.Target)
	}
	b.WriteString(tx.Seps[len(tx.Tokens)])
	return b.String()
}

// DirectionFor resolves a language preference to a translation direction:
// a kumaoni preference translates into Kumaoni, a hinglish preference into
// Hinglish, and mixed follows language detection of the input.
func (e *Engine) DirectionFor(pref kb.Preference, text string) (kb.Direction, error) {
	switch pref {
	case kb.PreferKumaoni:
		return kb.HinglishToKumaoni, nil
	case kb.PreferHinglish:
		return kb.KumaoniToHinglish, nil
	case kb.PreferMixed:
		return e.DetectDirection(text), nil
	}
	return "", fmt.Errorf("%w: preference %q", kb.ErrUnknownDirection, pref)
}
