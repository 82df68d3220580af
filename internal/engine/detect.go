package engine

import (
	"strings"

	"github.com/getthecodeoutofit/KumaoniTrans/internal/kb"
	"github.com/getthecodeoutofit/KumaoniTrans/internal/tokenizer"
)

// Lang labels a detected input language.
type Lang string

const (
	LangHinglish Lang = "hinglish"
	LangKumaoni  Lang = "kumaoni"
)

// DetectLanguage guesses which language the text is written in.
// Vocabulary hits score one point per side, known phrases three. Ties,
// including the no-evidence case, resolve to Hinglish.
func (e *Engine) DetectLanguage(text string) Lang {
	snap := e.base.Snapshot()
	norm := tokenizer.Key(text)

	var h, k int
	for _, tok := range strings.Fields(norm) {
		if _, _, ok := snap.LookupWord(tok, kb.HinglishToKumaoni); ok {
			h++
		} else if _, _, ok := snap.LookupWord(tok, kb.KumaoniToHinglish); ok {
			k++
		}
	}
	for _, key := range snap.PhraseKeys() {
		if strings.Contains(norm, key) {
			h += 3
		}
		p, _ := snap.Phrase(key)
		if strings.Contains(norm, p.TargetText()) {
			k += 3
		}
	}

	if k > h {
		return LangKumaoni
	}
	return LangHinglish
}

// DetectDirection returns the direction translating out of the detected
// input language.
func (e *Engine) DetectDirection(text string) kb.Direction {
	if e.DetectLanguage(text) == LangKumaoni {
		return kb.KumaoniToHinglish
	}
	return kb.HinglishToKumaoni
}
