package vocab

import (
	"errors"
	"fmt"
	"strings"
)

// Tier is a JLPT level. N5 is the easiest.
type Tier string

const (
	N5 Tier = "N5"
	N4 Tier = "N4"
	N3 Tier = "N3"
	N2 Tier = "N2"
	N1 Tier = "N1"
)

var tiers = []Tier{N5, N4, N3, N2, N1}

var (
	ErrUnknownTier = errors.New("unknown tier")
	ErrNoEntry     = errors.New("no eligible vocabulary entry")
)

// Tiers returns every tier from easiest to hardest.
func Tiers() []Tier {
	out := make([]Tier, len(tiers))
	copy(out, tiers)
	return out
}

func ParseTier(s string) (Tier, error) {
	t := Tier(strings.ToUpper(strings.TrimSpace(s)))
	if t.Rank() < 0 {
		return "", fmt.Errorf("%w: %q", ErrUnknownTier, s)
	}
	return t, nil
}

// Rank is 0 for N5 up to 4 for N1, or -1 for an unknown tier.
func (t Tier) Rank() int {
	for i, v := range tiers {
		if v == t {
			return i
		}
	}
	return -1
}

func (t Tier) Valid() bool { return t.Rank() >= 0 }

const PartOfSpeechNoun = "noun"

type Entry struct {
	Word         string `json:"word"`
	Meaning      string `json:"meaning"`
	Tier         Tier   `json:"tier"`
	PartOfSpeech string `json:"type"`
	Eligible     bool   `json:"aki"` // usable as an akinator secret
}
