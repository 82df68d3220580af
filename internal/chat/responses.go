package chat

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/getthecodeoutofit/KumaoniTrans/internal/kb"
)

// DefaultResponses is the built-in bilingual repertoire, used when no
// response file is configured.
func DefaultResponses() map[Intent][]Response {
	return map[Intent][]Response{
		IntentGreeting: {
			{Hinglish: "Namaste! Kaise hain aap?", Kumaoni: "Namaskar! Kas cha tum?"},
			{Hinglish: "Namaste! Main Kumaoni chatbot hoon.", Kumaoni: "Namaskar! Ma Kumaoni chatbot chun."},
		},
		IntentIntroduction: {
			{
				Hinglish: "Mera naam Kumaoni Chatbot hai. Main Kumaoni bhasha mein baat kar sakta hoon.",
				Kumaoni:  "Mero nau Kumaoni Chatbot cha. Ma Kumaoni bhasha ma bat kar sakun.",
			},
			{
				Hinglish: "Main ek assistant hoon jo Kumaoni bhasha mein madad karta hai.",
				Kumaoni:  "Ma ek assistant chun jo Kumaoni bhasha ma madad karun.",
			},
		},
		IntentWeather: {
			{Hinglish: "Kumaon mein mausam bahut suhana hota hai.", Kumaoni: "Kumaon ma mausam bado suhano huncha."},
			{Hinglish: "Pahaadon mein mausam bahut achha hai.", Kumaoni: "Pahadan ma mausam bado balo cha."},
		},
		IntentFood: {
			{Hinglish: "Kumaoni khana bahut swaadisht hota hai.", Kumaoni: "Kumaoni khano bado swadisht huncha."},
			{
				Hinglish: "Aloo ke gutke, bhatt ki churkani, aur kafuli bahut mashoor hain.",
				Kumaoni:  "Aloo ka gutka, bhatt ki churkani, aur kafuli bado mashoor cha.",
			},
		},
		IntentCulture: {
			{Hinglish: "Kumaon ki sanskriti bahut samriddh hai.", Kumaoni: "Kumaon ki sanskriti bado samriddh cha."},
			{
				Hinglish: "Kumaon ke lok geet aur nritya bahut prasiddh hain.",
				Kumaoni:  "Kumaon ka lok geet aur nritya bado prasiddh cha.",
			},
		},
		IntentUnknown: {
			{
				Hinglish: "Mujhe samajh nahi aaya. Kya aap dobara keh sakte hain?",
				Kumaoni:  "Mik samajh nai ayi. Ke tum dobara koi sakta?",
			},
			{Hinglish: "Maaf kijiye, mujhe samajh nahi aaya.", Kumaoni: "Maph karya, mik samajh nai ayi."},
		},
	}
}

// LoadResponses reads a response repertoire from a JSON file keyed by
// intent. A missing file yields the defaults.
func LoadResponses(path string) (map[Intent][]Response, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultResponses(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kb.ErrPersistence, err)
	}
	var out map[Intent][]Response
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", kb.ErrMalformedPayload, err)
	}
	return out, nil
}
