// Package chat layers a small intent-driven conversation surface over the
// translation engine, with bilingual canned responses.
package chat

import (
	"math/rand"
	"strings"
	"time"

	"github.com/getthecodeoutofit/KumaoniTrans/internal/engine"
	"github.com/getthecodeoutofit/KumaoniTrans/internal/kb"
)

// Intent classifies what the user is asking about.
type Intent string

const (
	IntentGreeting     Intent = "greeting"
	IntentIntroduction Intent = "introduction"
	IntentWeather      Intent = "weather"
	IntentFood         Intent = "food"
	IntentCulture      Intent = "culture"
	IntentUnknown      Intent = "unknown"
)

// Response is one canned reply, carried in both languages so the bot can
// answer in whichever the caller prefers.
type Response struct {
	Hinglish string `json:"hinglish"`
	Kumaoni  string `json:"kumaoni"`
}

// Reply is what the bot says back: the chosen text, which language it is
// in, the detected intent, and the counter-translation into the other
// language.
type Reply struct {
	Text        string      `json:"text"`
	Language    engine.Lang `json:"language"`
	Intent      Intent      `json:"intent"`
	Translation string      `json:"translation"`
}

// Bot picks responses by intent. Responses can be replaced wholesale to
// customize the repertoire; the zero map falls back to IntentUnknown.
type Bot struct {
	eng       *engine.Engine
	rng       *rand.Rand
	Responses map[Intent][]Response
}

// New creates a bot over the engine. rng may be nil, in which case a
// time-seeded source is used.
func New(eng *engine.Engine, rng *rand.Rand) *Bot {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Bot{eng: eng, rng: rng, Responses: DefaultResponses()}
}

var greetingMarkers = []string{
	"namaste", "namaskar", "hello", "hi", "hey",
	"good morning", "good evening", "kaise ho", "kas cha",
}

var intentMarkers = []struct {
	intent Intent
	words  []string
}{
	{IntentWeather, []string{"mausam", "barish", "dhoop", "garmi", "sardi", "barf"}},
	{IntentFood, []string{"khana", "khano", "bhojan", "vyanjan", "pakwan", "recipe", "swad"}},
	{IntentCulture, []string{"sanskriti", "tyohar", "parv", "lok", "geet", "nritya", "parampara"}},
}

// DetectIntent classifies the input by marker substrings. Greetings win
// over everything; a who-or-what question aimed at the bot counts as an
// introduction request.
func DetectIntent(text string) Intent {
	lower := strings.ToLower(text)

	for _, marker := range greetingMarkers {
		if strings.Contains(lower, marker) {
			return IntentGreeting
		}
	}
	if strings.Contains(lower, "kaun") || strings.Contains(lower, "kya") || strings.Contains(lower, "ke") {
		if strings.Contains(lower, "tum") || strings.Contains(lower, "aap") || strings.Contains(lower, "tu") {
			return IntentIntroduction
		}
	}
	for _, group := range intentMarkers {
		for _, w := range group.words {
			if strings.Contains(lower, w) {
				return group.intent
			}
		}
	}
	return IntentUnknown
}

// Reply answers the input. The response language follows the preference;
// a mixed preference mirrors the language the input was written in. The
// counter-translation runs through the full engine pipeline.
func (b *Bot) Reply(input string, pref kb.Preference) (*Reply, error) {
	if _, err := kb.ParsePreference(string(pref)); err != nil {
		return nil, err
	}

	intent := DetectIntent(input)
	choices := b.Responses[intent]
	if len(choices) == 0 {
		intent = IntentUnknown
		choices = b.Responses[IntentUnknown]
	}
	if len(choices) == 0 {
		return &Reply{Intent: intent}, nil
	}
	resp := choices[b.rng.Intn(len(choices))]

	lang := engine.LangHinglish
	switch pref {
	case kb.PreferKumaoni:
		lang = engine.LangKumaoni
	case kb.PreferHinglish:
		lang = engine.LangHinglish
	case kb.PreferMixed:
		lang = b.eng.DetectLanguage(input)
	}

	reply := &Reply{Intent: intent, Language: lang}
	dir := kb.KumaoniToHinglish
	if lang == engine.LangKumaoni {
		reply.Text = resp.Kumaoni
	} else {
		reply.Text = resp.Hinglish
		dir = kb.HinglishToKumaoni
	}

	res, err := b.eng.Translate(reply.Text, dir, kb.PreferMixed)
	if err != nil {
		return nil, err
	}
	reply.Translation = res.Output
	return reply, nil
}
