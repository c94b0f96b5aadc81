package akinator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/juuwaah/kotoba-akinator/internal/vocab"
)

// DefaultTurnBudget is how many turns the oracle gets before conceding.
const DefaultTurnBudget = 40

// Action is one of StartGame, Restart, SubmitMessage or SubmitDirectGuess.
type Action interface{ action() }

type StartGame struct {
	Role Role
	Tier vocab.Tier
}

// Restart starts over with the current role and tier.
type Restart struct{}

type SubmitMessage struct{ Text string }

// SubmitDirectGuess names a word outright. In RoleUserGuesses it is a guess
// at the oracle's secret. In RoleOracleGuesses it tells the oracle what the
// user was thinking of.
type SubmitDirectGuess struct{ Candidate string }

func (StartGame) action()         {}
func (Restart) action()           {}
func (SubmitMessage) action()     {}
func (SubmitDirectGuess) action() {}

type EndReason string

const (
	EndConfirmed EndReason = "confirmed" // 正解！ typed by the user
	EndGuessed   EndReason = "guessed"   // oracle affirmed a direct guess
	EndGaveUp    EndReason = "gave_up"
	EndConceded  EndReason = "conceded"
)

// Effects describes what a step did beyond the new session value.
type Effects struct {
	Ended    bool
	Reason   EndReason
	Revealed *Secret
	// Local is set when the reply was decided without the oracle.
	Local bool
}

// SecretSource draws the word the oracle holds.
type SecretSource interface {
	Draw(ctx context.Context, tier vocab.Tier) (vocab.Entry, error)
}

type Controller struct {
	oracle  *Oracle
	secrets SecretSource

	TurnBudget int
	Locale     Locale
	Now        func() time.Time
}

func NewController(oracle *Oracle, secrets SecretSource) *Controller {
	return &Controller{
		oracle:     oracle,
		secrets:    secrets,
		TurnBudget: DefaultTurnBudget,
		Locale:     Japanese,
		Now:        time.Now,
	}
}

// Step applies a to s. On error the input session is returned untouched.
func (c *Controller) Step(ctx context.Context, s Session, a Action) (Session, Effects, error) {
	next := s.Clone()
	var eff Effects
	var err error
	switch a := a.(type) {
	case StartGame:
		err = c.start(ctx, &next, a.Role, a.Tier)
	case Restart:
		if s.State() == StateSelecting {
			err = ErrNotStarted
			break
		}
		err = c.start(ctx, &next, s.Role, s.Tier)
	case SubmitMessage:
		if err = playable(s); err == nil {
			err = c.message(ctx, &next, a.Text, &eff)
		}
	case SubmitDirectGuess:
		if err = playable(s); err == nil {
			err = c.directGuess(ctx, &next, a.Candidate, &eff)
		}
	default:
		err = fmt.Errorf("%w: %T", ErrUnknownAction, a)
	}
	if err != nil {
		return s, Effects{}, err
	}
	next.UpdatedAt = c.Now()
	if next.Over && !s.Over {
		eff.Ended = true
		if next.Role == RoleUserGuesses {
			eff.Revealed = &Secret{Word: next.SecretWord, Meaning: next.SecretMeaning}
		}
	}
	return next, eff, nil
}

func playable(s Session) error {
	switch s.State() {
	case StateSelecting:
		return ErrNotStarted
	case StateOver:
		return ErrGameOver
	}
	return nil
}

func (c *Controller) start(ctx context.Context, s *Session, role Role, tier vocab.Tier) error {
	role, err := ParseRole(string(role))
	if err != nil {
		return err
	}
	if !tier.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidTier, tier)
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = c.Now()
	}
	s.Role, s.Tier = role, tier
	s.History = []Turn{}
	s.Over = false
	s.SecretWord, s.SecretMeaning = "", ""

	switch role {
	case RoleUserGuesses:
		e, err := c.secrets.Draw(ctx, tier)
		if errors.Is(err, vocab.ErrNoEntry) {
			return fmt.Errorf("%w: %w", ErrVocabularyExhausted, err)
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrVocabularyUnavailable, err)
		}
		s.SecretWord, s.SecretMeaning = e.Word, e.Meaning
		return nil
	case RoleOracleGuesses:
		return c.advance(ctx, s, nil)
	}
	return nil
}

func (c *Controller) message(ctx context.Context, s *Session, text string, eff *Effects) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}
	switch s.Role {
	case RoleOracleGuesses:
		return c.replyToOracle(ctx, s, text, eff)
	case RoleUserGuesses:
		return c.askOracle(ctx, s, text, eff)
	}
	return ErrNotStarted
}

func (c *Controller) directGuess(ctx context.Context, s *Session, candidate string, eff *Effects) error {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return ErrEmptyMessage
	}
	switch s.Role {
	case RoleOracleGuesses:
		ok, err := c.oracle.Judge(ctx, s.History, s.Tier, candidate)
		if err != nil {
			return err
		}
		s.say(SpeakerUser, c.Locale.Message(MsgDirectGuess, candidate))
		if ok {
			s.say(SpeakerOracle, c.Locale.Message(MsgOracleWon, candidate))
			s.Over = true
			eff.Reason = EndGuessed
			return nil
		}
		return c.advance(ctx, s, eff)
	case RoleUserGuesses:
		s.say(SpeakerUser, candidate+"ですか？")
		s.say(SpeakerOracle, c.Locale.Answer(c.compare(candidate, s.SecretWord)))
		eff.Local = true
		return nil
	}
	return ErrNotStarted
}

func (c *Controller) compare(candidate, secret string) Answer {
	if IsCorrectAnswer(candidate, secret) {
		return AnswerYes
	}
	return AnswerNo
}

// replyToOracle handles the user's answer when the oracle is guessing.
func (c *Controller) replyToOracle(ctx context.Context, s *Session, text string, eff *Effects) error {
	if c.Locale.ParseControl(text) == ControlCorrect {
		s.say(SpeakerUser, text)
		s.say(SpeakerOracle, c.Locale.Message(MsgThanks))
		s.Over = true
		eff.Reason = EndConfirmed
		return nil
	}
	if a, ok := c.Locale.ParseAnswer(text); ok && a == AnswerYes && len(s.History) > 0 {
		last := &s.History[len(s.History)-1]
		if last.Speaker == SpeakerOracle && looksLikeGuess(last.Text) && !annotated(c.Locale, last.Text) {
			last.Text += c.annotation(last.Text)
			s.say(SpeakerUser, text)
			eff.Local = true
			return nil
		}
	}
	s.say(SpeakerUser, text)
	return c.advance(ctx, s, eff)
}

// advance appends the oracle's next turn, or its concession once the turn
// budget is spent.
func (c *Controller) advance(ctx context.Context, s *Session, eff *Effects) error {
	if s.OracleTurns() >= c.TurnBudget {
		s.say(SpeakerOracle, c.Locale.Message(MsgConcede))
		s.Over = true
		if eff != nil {
			eff.Reason = EndConceded
		}
		return nil
	}
	next, err := c.oracle.NextTurn(ctx, s.History, s.Tier, c.TurnBudget)
	if err != nil {
		return err
	}
	s.say(SpeakerOracle, next)
	return nil
}

func looksLikeGuess(text string) bool {
	return strings.Contains(text, "この単語は") || strings.Contains(text, "正解？") ||
		(strings.Contains(text, "『") && strings.Contains(text, "』"))
}

func annotated(l Locale, text string) bool {
	return strings.HasSuffix(text, l.Message(MsgGuessConfirmed)) || strings.HasSuffix(text, l.Message(MsgConfirmed))
}

func (c *Controller) annotation(guess string) string {
	if strings.Contains(guess, "この単語は") {
		return c.Locale.Message(MsgGuessConfirmed)
	}
	return c.Locale.Message(MsgConfirmed)
}

// askOracle handles a message when the user is guessing. Controls win over
// guesses, and guesses are judged locally before the oracle is consulted.
func (c *Controller) askOracle(ctx context.Context, s *Session, text string, eff *Effects) error {
	switch c.Locale.ParseControl(text) {
	case ControlHint:
		hint, err := c.oracle.Hint(ctx, s.History, s.Tier, s.SecretWord, s.SecretMeaning)
		if err != nil {
			return err
		}
		s.say(SpeakerUser, text)
		s.say(SpeakerOracle, c.Locale.Message(MsgHint, hint))
		return nil
	case ControlGiveUp:
		s.say(SpeakerUser, text)
		s.say(SpeakerOracle, c.Locale.Message(MsgReveal, s.SecretWord, s.SecretMeaning))
		s.Over = true
		eff.Reason = EndGaveUp
		return nil
	case ControlCorrect:
		s.say(SpeakerUser, text)
		s.say(SpeakerOracle, c.Locale.Message(MsgCongrats))
		s.Over = true
		eff.Reason = EndConfirmed
		return nil
	}

	if stem, ok := ParseGuess(text); ok {
		if IsCorrectAnswer(stem, s.SecretWord) || !IsQuestionPhrase(stem) {
			s.say(SpeakerUser, text)
			s.say(SpeakerOracle, c.Locale.Answer(c.compare(stem, s.SecretWord)))
			eff.Local = true
			return nil
		}
	}

	a, err := c.oracle.Answer(ctx, s.History, s.Tier, s.SecretWord, s.SecretMeaning, text)
	if err != nil {
		return err
	}
	s.say(SpeakerUser, text)
	s.say(SpeakerOracle, c.Locale.Answer(a))
	return nil
}
