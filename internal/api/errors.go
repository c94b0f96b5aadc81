package api

import (
	"errors"
	"net/http"

	"github.com/juuwaah/kotoba-akinator/internal/akinator"
)

// Failure is the wire shape of an error returned to clients.
type Failure struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Retry   bool   `json:"retry,omitempty"`
}

// Classify maps a domain error onto a status and a stable error code.
func Classify(err error) Failure {
	switch {
	case errors.Is(err, akinator.ErrGameOver):
		return Failure{Status: http.StatusConflict, Code: "game_over", Message: "ゲームは終了しました。"}
	case errors.Is(err, akinator.ErrNotStarted):
		return Failure{Status: http.StatusBadRequest, Code: "not_started", Message: "ゲームが始まっていません。"}
	case errors.Is(err, akinator.ErrEmptyMessage):
		return Failure{Status: http.StatusBadRequest, Code: "empty_message", Message: "メッセージを入力してください。"}
	case errors.Is(err, akinator.ErrInvalidRole):
		return Failure{Status: http.StatusBadRequest, Code: "invalid_role", Message: "role must be gpt or user"}
	case errors.Is(err, akinator.ErrInvalidTier):
		return Failure{Status: http.StatusBadRequest, Code: "invalid_tier", Message: "tier must be one of N5..N1"}
	case errors.Is(err, akinator.ErrUnknownAction):
		return Failure{Status: http.StatusBadRequest, Code: "bad_request", Message: err.Error()}
	case errors.Is(err, akinator.ErrVocabularyExhausted), errors.Is(err, akinator.ErrVocabularyUnavailable):
		return Failure{Status: http.StatusInternalServerError, Code: "config_error", Message: "単語リストを読み込めませんでした。"}
	case errors.Is(err, akinator.ErrOracleUnavailable):
		return Failure{Status: http.StatusServiceUnavailable, Code: "oracle_unavailable", Message: "AIが応答しませんでした。もう一度お試しください。", Retry: true}
	default:
		return Failure{Status: http.StatusInternalServerError, Code: "internal", Message: "internal error"}
	}
}
