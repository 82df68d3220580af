package kb

import "fmt"

// Direction selects which side of the knowledge base is treated as source.
type Direction string

const (
	HinglishToKumaoni Direction = "hinglish_to_kumaoni"
	KumaoniToHinglish Direction = "kumaoni_to_hinglish"
)

// ParseDirection validates a direction value.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case HinglishToKumaoni, KumaoniToHinglish:
		return Direction(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDirection, s)
}

// Reverse returns the opposite direction.
func (d Direction) Reverse() Direction {
	if d == HinglishToKumaoni {
		return KumaoniToHinglish
	}
	return HinglishToKumaoni
}

// Preference is the caller's output-language preference. It only selects
// the translation direction; fallback behavior is the same for all values.
type Preference string

const (
	PreferKumaoni  Preference = "kumaoni"
	PreferHinglish Preference = "hinglish"
	PreferMixed    Preference = "mixed"
)

// ParsePreference validates a language-preference value.
func ParsePreference(s string) (Preference, error) {
	switch Preference(s) {
	case PreferKumaoni, PreferHinglish, PreferMixed:
		return Preference(s), nil
	}
	return "", fmt.Errorf("%w: preference %q", ErrUnknownDirection, s)
}
