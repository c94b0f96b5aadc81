package akinator

import (
	"maps"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/width"
)

// Normalize folds width, maps katakana to hiragana, lowercases and drops
// everything that is not a letter or digit.
func Normalize(s string) string {
	s = width.Fold.String(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= 'ァ' && r <= 'ヶ' {
			r -= 'ァ' - 'ぁ'
		}
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

var honorifics = []string{"お", "ご"}

// forms expands s into every normalized spelling we accept for it: the
// word itself, its readings, and the same without an honorific prefix.
func forms(s string) map[string]struct{} {
	n := Normalize(s)
	set := map[string]struct{}{}
	if n == "" {
		return set
	}
	add := func(f string) {
		set[f] = struct{}{}
		for _, r := range readings[f] {
			set[r] = struct{}{}
		}
	}
	add(n)
	for _, f := range slices.Collect(maps.Keys(set)) {
		for _, h := range honorifics {
			bare, ok := strings.CutPrefix(f, h)
			if !ok || bare == "" {
				continue
			}
			if _, known := readings[bare]; known || hasHan(bare) {
				add(bare)
			}
		}
	}
	return set
}

func hasHan(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}

// IsCorrectAnswer reports whether guess names the same word as target,
// allowing for script, width, punctuation and honorific differences.
func IsCorrectAnswer(guess, target string) bool {
	g, t := forms(guess), forms(target)
	if len(g) == 0 || len(t) == 0 {
		return false
	}
	for f := range g {
		if _, ok := t[f]; ok {
			return true
		}
	}
	return false
}

func runeLen(s string) int { return utf8.RuneCountInString(s) }
