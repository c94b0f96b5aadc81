package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Provider is a text-completion backend. Implementations must be safe for
// concurrent use.
type Provider interface {
	Complete(ctx context.Context, model string, prompt string, temperature float64) (string, error)
}

var (
	ErrRateLimited   = errors.New("ai: rate limited")
	ErrQuotaExceeded = errors.New("ai: quota exceeded")
	ErrUnavailable   = errors.New("ai: provider unavailable")
	ErrMissingKey    = errors.New("ai: missing api key")
	ErrUnknown       = errors.New("ai: unknown provider")
)

// StatusError turns a non-2xx response into one of the sentinel errors.
func StatusError(provider string, status int, body []byte) error {
	lower := strings.ToLower(string(body))
	quota := strings.Contains(lower, "quota") || strings.Contains(lower, "billing")
	switch {
	case quota && (status == http.StatusTooManyRequests || status == http.StatusPaymentRequired || status == http.StatusForbidden):
		return fmt.Errorf("%s status %d: %w", provider, status, ErrQuotaExceeded)
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%s status %d: %w", provider, status, ErrRateLimited)
	default:
		return fmt.Errorf("%s status %d: %w", provider, status, ErrUnavailable)
	}
}

// Select returns the provider registered under name.
func Select(name string, providers map[string]Provider) (Provider, error) {
	p := providers[strings.ToLower(name)]
	if p == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknown, name)
	}
	return p, nil
}
