// Package learn is the interactive and bulk teaching surface of the
// knowledge base: single-entry adds, JSON import and export, and search.
package learn

import (
	"fmt"
	"strings"

	"github.com/getthecodeoutofit/KumaoniTrans/internal/kb"
	"github.com/getthecodeoutofit/KumaoniTrans/internal/tokenizer"
)

// Learner wraps a knowledge base with input normalization and validation.
type Learner struct {
	base *kb.KnowledgeBase
}

// New creates a learner over the given base.
func New(base *kb.KnowledgeBase) *Learner {
	return &Learner{base: base}
}

// AddWord teaches a single-token vocabulary mapping. Both sides are
// normalized; the source must be exactly one token.
func (l *Learner) AddWord(source, target, partOfSpeech string) error {
	src := tokenizer.Key(source)
	tgt := tokenizer.Key(target)
	if src == "" || tgt == "" {
		return fmt.Errorf("%w: word needs both sides", kb.ErrMalformedPayload)
	}
	if strings.Contains(src, " ") {
		return fmt.Errorf("%w: %q is multi-token, add it as a phrase", kb.ErrMalformedPayload, src)
	}
	return l.base.Update(func(tx *kb.Tx) error {
		return tx.AddVocab(&kb.VocabEntry{
			Source:       src,
			Target:       tgt,
			PartOfSpeech: strings.TrimSpace(partOfSpeech),
		})
	})
}

// AddPhrase teaches a multi-token phrase mapping. The source must contain
// at least two tokens.
func (l *Learner) AddPhrase(source, target string) error {
	src := tokenizer.Tokenize(source)
	tgt := tokenizer.Tokenize(target)
	if len(src) < 2 {
		return fmt.Errorf("%w: phrase %q needs at least two tokens", kb.ErrMalformedPayload, source)
	}
	if len(tgt) == 0 {
		return fmt.Errorf("%w: phrase needs a translation", kb.ErrMalformedPayload)
	}
	return l.base.Update(func(tx *kb.Tx) error {
		return tx.AddPhrase(&kb.PhraseEntry{Source: src, Target: tgt})
	})
}

// AddRule teaches a grammar transformation rule.
func (l *Learner) AddRule(category, pattern, replacement string, priority int) error {
	cat, err := kb.ParseRuleCategory(category)
	if err != nil {
		return err
	}
	pat := tokenizer.Key(pattern)
	rep := tokenizer.Key(replacement)
	if pat == "" || rep == "" {
		return fmt.Errorf("%w: rule needs pattern and replacement", kb.ErrMalformedPayload)
	}
	return l.base.Update(func(tx *kb.Tx) error {
		return tx.AddRule(&kb.GrammarRule{
			Category:    cat,
			Pattern:     pat,
			Replacement: rep,
			Priority:    priority,
		})
	})
}

// AddIdiom teaches an idiom, collocation, or functional phrase with a
// confidence in [0, 1].
func (l *Learner) AddIdiom(pattern, meaning, category string, confidence float64) error {
	cat, err := kb.ParseIdiomCategory(category)
	if err != nil {
		return err
	}
	pat := tokenizer.Key(pattern)
	if pat == "" || strings.TrimSpace(meaning) == "" {
		return fmt.Errorf("%w: idiom needs pattern and meaning", kb.ErrMalformedPayload)
	}
	if confidence < 0 || confidence > 1 {
		return fmt.Errorf("%w: confidence %v out of range", kb.ErrMalformedPayload, confidence)
	}
	return l.base.Update(func(tx *kb.Tx) error {
		return tx.AddIdiom(&kb.IdiomEntry{
			Pattern:    pat,
			Meaning:    strings.TrimSpace(meaning),
			Category:   cat,
			Confidence: confidence,
		})
	})
}
