package akinator

import (
	"fmt"
	"strings"
)

// Answer is the closed vocabulary for yes/no style replies.
type Answer int

const (
	AnswerYes Answer = iota + 1
	AnswerNo
	AnswerDontKnow
	AnswerSometimes
	AnswerInvalid // ill-formed, multi-part or answer-seeking question
)

func Answers() []Answer {
	return []Answer{AnswerYes, AnswerNo, AnswerDontKnow, AnswerSometimes, AnswerInvalid}
}

// Control is a recognised command typed by the player.
type Control int

const (
	ControlNone Control = iota
	ControlHint
	ControlGiveUp
	ControlCorrect
)

type Message int

const (
	MsgThanks         Message = iota // user confirmed the oracle's guess
	MsgCongrats                      // user guessed the oracle's word
	MsgOracleWon                     // oracle affirmed a direct guess; arg: word
	MsgConcede                       // turn budget exhausted
	MsgReveal                        // give-up; args: word, meaning
	MsgHint                          // arg: hint text
	MsgDirectGuess                   // user turn for a direct guess; arg: word
	MsgGuessConfirmed                // suffix for an affirmed この単語は… guess
	MsgConfirmed                     // suffix for any other affirmed guess
	MsgFallbackQuestion              // used when the oracle returns nothing usable
)

// Locale maps tokens to display strings and trigger phrases. Behaviour only
// ever depends on the tokens.
type Locale struct {
	Answers map[Answer]string
	// exact triggers, compared after trimming and ASCII lower-casing
	Triggers map[Control][]string
	// substring triggers for give-up
	GiveUpContains []string
	Messages       map[Message]string
}

var Japanese = Locale{
	Answers: map[Answer]string{
		AnswerYes:       "はい",
		AnswerNo:        "いいえ",
		AnswerDontKnow:  "わからない",
		AnswerSometimes: "ときどき",
		AnswerInvalid:   "無効な質問",
	},
	Triggers: map[Control][]string{
		ControlHint:    {"ヒント", "hint", "/hint"},
		ControlGiveUp:  {"答え", "こたえ", "ans", "answer"},
		ControlCorrect: {"正解！", "正解!", "正解"},
	},
	GiveUpContains: []string{"/giveup", "降参", "ギブアップ", "give up"},
	Messages: map[Message]string{
		MsgThanks:           "やった！遊んでくれてありがとう！",
		MsgCongrats:         "おめでとうございます！正解です！",
		MsgOracleWon:        "おめでとうございます！「%s」で正解です！遊んでくれてありがとう！",
		MsgConcede:          "私の負けです。正解は何でしたか？",
		MsgReveal:           "正解は「%s」（%s）でした！",
		MsgHint:             "ヒント: %s",
		MsgDirectGuess:      "答えは「%s」です。",
		MsgGuessConfirmed:   "\n（アキネーターの推測が正解です！）",
		MsgConfirmed:        "\n（正解です！）",
		MsgFallbackQuestion: "それは生き物ですか？",
	},
}

func (l Locale) Answer(a Answer) string {
	if s, ok := l.Answers[a]; ok {
		return s
	}
	return l.Answers[AnswerDontKnow]
}

// ParseAnswer matches text against the closed vocabulary after trimming
// whitespace, quotes and terminal punctuation.
func (l Locale) ParseAnswer(text string) (Answer, bool) {
	t := strings.Trim(strings.TrimSpace(text), "「」『』\"'。.！!")
	for _, a := range Answers() {
		if l.Answers[a] == t {
			return a, true
		}
	}
	return 0, false
}

func (l Locale) ParseControl(text string) Control {
	t := strings.ToLower(strings.TrimSpace(text))
	for _, c := range []Control{ControlHint, ControlCorrect, ControlGiveUp} {
		for _, trig := range l.Triggers[c] {
			if t == strings.ToLower(trig) {
				return c
			}
		}
	}
	for _, trig := range l.GiveUpContains {
		if strings.Contains(t, strings.ToLower(trig)) {
			return ControlGiveUp
		}
	}
	return ControlNone
}

func (l Locale) Message(m Message, args ...any) string {
	f := l.Messages[m]
	if len(args) == 0 {
		return f
	}
	return fmt.Sprintf(f, args...)
}
