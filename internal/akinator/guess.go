package akinator

import (
	"regexp"
	"strings"
	"unicode"
)

const maxGuessRunes = 12

var (
	guessEndings  = []string{"なんですか", "なのですか", "でしょうか", "ですかね", "ですか", "かな", "なの"}
	guessPrefixes = []string{"もしかして", "ひょっとして", "答えは", "正解は", "それは", "これは"}
	guessFrames   = []string{"が答え", "が正解"}
	guessQuotes   = "「」『』\"'“”"

	// A kanji or katakana followed by a particle reads as a phrase, not a noun.
	particleAfterContent = regexp.MustCompile(`[\p{Han}\p{Katakana}ー][はがにをでとへもや]|より`)
	// 大きい, 新しい
	iAdjective = regexp.MustCompile(`\p{Han}\p{Hiragana}*い$`)
	// おおきい, あかい; checked against known noun readings before use
	kanaIAdjective = regexp.MustCompile(`^\p{Hiragana}+い$`)

	predicateMarkers = []string{"ます", "ません", "ない", "たい", "られ", "できる", "ある", "いる", "くらい", "ぐらい", "みたい", "ような"}
	questionWords    = []string{"何", "なに", "どこ", "いつ", "誰", "だれ", "どうして", "どうやって", "どんな", "どれ", "いくら"}
)

// ParseGuess extracts the candidate word from a message shaped like
// "Xですか？". It reports false for anything that is not a short, single
// token question.
func ParseGuess(text string) (string, bool) {
	s := strings.TrimSpace(text)
	if !strings.HasSuffix(s, "?") && !strings.HasSuffix(s, "？") {
		return "", false
	}
	s = strings.TrimRight(s, "?？!！ 　")
	for _, e := range guessEndings {
		if v, ok := strings.CutSuffix(s, e); ok {
			s = v
			break
		}
	}
	s = strings.TrimSpace(s)
	for _, p := range guessPrefixes {
		s = strings.TrimSpace(strings.TrimLeft(strings.TrimPrefix(s, p), "、,"))
	}
	for _, f := range guessFrames {
		s = strings.TrimSuffix(s, f)
	}
	s = strings.Trim(s, guessQuotes+"、。,. 　")
	if s == "" || runeLen(s) > maxGuessRunes || strings.IndexFunc(s, unicode.IsSpace) >= 0 {
		return "", false
	}
	return s, true
}

// IsQuestionPhrase reports whether a guess-shaped stem is really a
// classification question ("動物ですか？", "大きいですか？") that the oracle
// should answer.
func IsQuestionPhrase(stem string) bool {
	if _, ok := categoryLabels[Normalize(stem)]; ok {
		return true
	}
	if particleAfterContent.MatchString(stem) || iAdjective.MatchString(stem) || isKanaAdjective(stem) {
		return true
	}
	for _, m := range predicateMarkers {
		if strings.Contains(stem, m) {
			return true
		}
	}
	for _, w := range questionWords {
		if strings.HasPrefix(stem, w) {
			return true
		}
	}
	return false
}

// isKanaAdjective matches a hiragana stem ending in い that is not the
// reading of a known noun (せんせい, とけい).
func isKanaAdjective(stem string) bool {
	if runeLen(stem) < 2 || !kanaIAdjective.MatchString(stem) {
		return false
	}
	_, noun := readings[Normalize(stem)]
	return !noun
}

// categoryLabels holds every accepted spelling of every label, readings
// included.
var categoryLabels = func() map[string]struct{} {
	m := map[string]struct{}{}
	for _, c := range append(append([]string{}, abstractCategories...), classificationLabels...) {
		for f := range forms(c) {
			m[f] = struct{}{}
		}
	}
	return m
}()

// classificationLabels are broad kinds a noun can belong to. Asking about
// one is a question, never a guess.
var classificationLabels = []string{
	"動物", "生き物", "植物", "人", "人間", "食べ物", "飲み物", "果物", "野菜", "お菓子",
	"道具", "機械", "乗り物", "家具", "家電", "電化製品", "文房具", "服", "楽器", "建物",
	"場所", "自然", "天気", "スポーツ", "ゲーム", "おもちゃ", "液体", "金属", "鳥", "魚",
	"虫", "花", "木", "料理", "日用品", "容器", "入れ物", "部品", "物", "もの",
	"生物", "無生物", "人工物", "食品", "衣類", "アクセサリー", "電子機器", "工具", "乗りもの", "食器",
}
