package akinator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/juuwaah/kotoba-akinator/internal/ai"
	"github.com/juuwaah/kotoba-akinator/internal/vocab"
)

const (
	temperatureCreative = 0.5
	temperatureAnswer   = 0.0
)

var hintBanned = []string{"⎝", "( ᐛ )", "(੭", "Ҩ", "╭☞", "ʕ˒", "!", "！", "?", "？", "only output", "output only"}

const minHintRunes = 6

// ValidHint rejects clues that are too short, are questions, contain
// decorative noise or give the word away.
func ValidHint(hint, word string) bool {
	h := strings.TrimSpace(hint)
	if runeLen(h) < minHintRunes {
		return false
	}
	lower := strings.ToLower(h)
	for _, b := range hintBanned {
		if strings.Contains(lower, b) {
			return false
		}
	}
	if w := Normalize(word); w != "" && strings.Contains(Normalize(h), w) {
		return false
	}
	return true
}

// Oracle puts game semantics on top of a completion provider.
type Oracle struct {
	provider ai.Provider
	model    string
	timeout  time.Duration
	locale   Locale

	HintAttempts     int
	QuestionAttempts int
}

func NewOracle(p ai.Provider, model string, timeout time.Duration) *Oracle {
	return &Oracle{
		provider:         p,
		model:            model,
		timeout:          timeout,
		locale:           Japanese,
		HintAttempts:     3,
		QuestionAttempts: 2,
	}
}

func (o *Oracle) complete(ctx context.Context, prompt string, temperature float64) (string, error) {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}
	start := time.Now()
	out, err := o.provider.Complete(ctx, o.model, prompt, temperature)
	if err != nil {
		log.Error().Err(err).Str("model", o.model).Dur("elapsed", time.Since(start)).Msg("oracle call failed")
		return "", fmt.Errorf("%w: %w", ErrOracleUnavailable, err)
	}
	log.Debug().Str("model", o.model).Dur("elapsed", time.Since(start)).Int("chars", len(out)).Msg("oracle call")
	return strings.TrimSpace(out), nil
}

// firstLine keeps a single utterance from a reply.
func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

// NextTurn produces the oracle's next question or guess.
func (o *Oracle) NextTurn(ctx context.Context, history []Turn, tier vocab.Tier, budget int) (string, error) {
	prompt := questionPrompt(o.locale, history, tier, budget)
	policy := RetryPolicy[string]{
		MaxAttempts: o.QuestionAttempts,
		Valid:       func(s string) bool { return s != "" },
	}
	text, _, err := policy.Do(ctx, func(ctx context.Context) (string, error) {
		out, err := o.complete(ctx, prompt, temperatureCreative)
		return firstLine(out), err
	})
	if err != nil {
		return "", err
	}
	if text == "" {
		return o.locale.Message(MsgFallbackQuestion), nil
	}
	return text, nil
}

// Answer replies to a question about the secret. Anything outside the
// closed vocabulary is coerced to AnswerDontKnow.
func (o *Oracle) Answer(ctx context.Context, history []Turn, tier vocab.Tier, word, meaning, question string) (Answer, error) {
	out, err := o.complete(ctx, answerPrompt(o.locale, history, tier, word, meaning, question), temperatureAnswer)
	if err != nil {
		return 0, err
	}
	a, ok := o.locale.ParseAnswer(out)
	if !ok {
		log.Warn().Str("reply", out).Msg("oracle answer outside vocabulary, coercing")
		return AnswerDontKnow, nil
	}
	return a, nil
}

// Hint generates a clue, retrying rejected ones.
func (o *Oracle) Hint(ctx context.Context, history []Turn, tier vocab.Tier, word, meaning string) (string, error) {
	prompt := hintPrompt(history, tier, word, meaning)
	policy := RetryPolicy[string]{
		MaxAttempts: o.HintAttempts,
		Valid:       func(s string) bool { return ValidHint(s, word) },
	}
	hint, attempts, err := policy.Do(ctx, func(ctx context.Context) (string, error) {
		out, err := o.complete(ctx, prompt, temperatureCreative)
		return firstLine(out), err
	})
	if err != nil {
		return "", err
	}
	if !ValidHint(hint, word) {
		log.Warn().Int("attempts", attempts).Str("hint", hint).Msg("no acceptable hint, using last attempt")
	}
	return hint, nil
}

// Judge decides whether a word the user says they were thinking of is
// consistent with the dialogue.
func (o *Oracle) Judge(ctx context.Context, history []Turn, tier vocab.Tier, candidate string) (bool, error) {
	out, err := o.complete(ctx, judgePrompt(o.locale, history, tier, candidate), temperatureAnswer)
	if err != nil {
		return false, err
	}
	return strings.HasPrefix(strings.TrimLeft(out, "「『\"' "), o.locale.Answer(AnswerYes)), nil
}
