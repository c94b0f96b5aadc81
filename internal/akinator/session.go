package akinator

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/juuwaah/kotoba-akinator/internal/vocab"
)

// Role says who is trying to identify the secret word.
type Role string

const (
	RoleOracleGuesses Role = "gpt"  // the user holds the word, the oracle asks
	RoleUserGuesses   Role = "user" // the oracle holds the word, the user asks
)

func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleOracleGuesses, RoleUserGuesses:
		return r, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
}

type Speaker string

const (
	SpeakerUser   Speaker = "user"
	SpeakerOracle Speaker = "gpt"
)

type Turn struct {
	Speaker Speaker `json:"speaker"`
	Text    string  `json:"text"`
}

type State string

const (
	StateSelecting  State = "selecting"
	StateInProgress State = "in_progress"
	StateOver       State = "over"
)

// Session is one play-through. It is a plain value: the Controller returns
// an updated copy and the caller persists it.
type Session struct {
	ID            string     `json:"id"`
	Role          Role       `json:"role,omitempty"`
	Tier          vocab.Tier `json:"tier,omitempty"`
	SecretWord    string     `json:"secretWord,omitempty"`
	SecretMeaning string     `json:"secretMeaning,omitempty"`
	History       []Turn     `json:"history"`
	Over          bool       `json:"over"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func (s Session) State() State {
	switch {
	case s.Role == "":
		return StateSelecting
	case s.Over:
		return StateOver
	default:
		return StateInProgress
	}
}

// Clone returns a copy that shares no history storage with s.
func (s Session) Clone() Session {
	s.History = slices.Clone(s.History)
	return s
}

// OracleTurns counts the turns spoken by the oracle.
func (s Session) OracleTurns() int {
	return countOracle(s.History)
}

func (s *Session) say(sp Speaker, text string) {
	s.History = append(s.History, Turn{Speaker: sp, Text: text})
}

type Secret struct {
	Word    string `json:"word"`
	Meaning string `json:"meaning"`
}

// View is what the presentation layer gets back after every action.
type View struct {
	ID             string     `json:"id"`
	Role           Role       `json:"role,omitempty"`
	Tier           vocab.Tier `json:"tier,omitempty"`
	State          State      `json:"state"`
	History        []Turn     `json:"history"`
	IsOver         bool       `json:"isOver"`
	RevealedSecret *Secret    `json:"revealedSecret,omitempty"`
}

func (s Session) View() View {
	v := View{
		ID:      s.ID,
		Role:    s.Role,
		Tier:    s.Tier,
		State:   s.State(),
		History: slices.Clone(s.History),
		IsOver:  s.Over,
	}
	if v.History == nil {
		v.History = []Turn{}
	}
	if s.Over && s.Role == RoleUserGuesses && s.SecretWord != "" {
		v.RevealedSecret = &Secret{Word: s.SecretWord, Meaning: s.SecretMeaning}
	}
	return v
}
