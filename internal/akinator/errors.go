package akinator

import "errors"

var (
	ErrGameOver      = errors.New("game is over")
	ErrNotStarted    = errors.New("game not started")
	ErrEmptyMessage  = errors.New("empty message")
	ErrInvalidRole   = errors.New("invalid role")
	ErrInvalidTier   = errors.New("invalid tier")
	ErrUnknownAction = errors.New("unknown action")

	ErrVocabularyExhausted   = errors.New("no eligible vocabulary for tier")
	ErrVocabularyUnavailable = errors.New("vocabulary source unavailable")

	ErrOracleUnavailable = errors.New("oracle unavailable")
)

// IsValidation reports whether err rejects the player's action itself, as
// opposed to a failure of a collaborator.
func IsValidation(err error) bool {
	for _, target := range []error{ErrGameOver, ErrNotStarted, ErrEmptyMessage, ErrInvalidRole, ErrInvalidTier, ErrUnknownAction} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
