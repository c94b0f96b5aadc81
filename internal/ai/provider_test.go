package ai

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

type nopProvider struct{}

func (nopProvider) Complete(ctx context.Context, model, prompt string, temperature float64) (string, error) {
	return "", nil
}

func TestStatusError(t *testing.T) {
	tests := []struct {
		status int
		body   string
		want   error
	}{
		{http.StatusTooManyRequests, `{"error":"slow down"}`, ErrRateLimited},
		{http.StatusTooManyRequests, `{"error":{"code":"insufficient_quota"}}`, ErrQuotaExceeded},
		{http.StatusPaymentRequired, `billing hard limit reached`, ErrQuotaExceeded},
		{http.StatusInternalServerError, ``, ErrUnavailable},
		{http.StatusBadGateway, `quota`, ErrUnavailable},
	}
	for _, tt := range tests {
		err := StatusError("test", tt.status, []byte(tt.body))
		if !errors.Is(err, tt.want) {
			t.Fatalf("status %d body %q: expected %v, got %v", tt.status, tt.body, tt.want, err)
		}
	}
}

func TestSelect(t *testing.T) {
	providers := map[string]Provider{"openai": nopProvider{}}
	if _, err := Select("OpenAI", providers); err != nil {
		t.Fatalf("select should be case-insensitive: %v", err)
	}
	if _, err := Select("claude", providers); !errors.Is(err, ErrUnknown) {
		t.Fatalf("expected ErrUnknown, got %v", err)
	}
}

func TestBackoffRetriesOnlyRateLimits(t *testing.T) {
	b := Backoff{Attempts: 3, Base: time.Millisecond}

	calls := 0
	out, err := b.Do(context.Background(), func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", ErrRateLimited
		}
		return "ok", nil
	})
	if err != nil || out != "ok" {
		t.Fatalf("expected success on third attempt, got %q %v", out, err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}

	calls = 0
	_, err = b.Do(context.Background(), func(ctx context.Context) (string, error) {
		calls++
		return "", ErrUnavailable
	})
	if !errors.Is(err, ErrUnavailable) || calls != 1 {
		t.Fatalf("non rate-limit errors must not be retried: calls=%d err=%v", calls, err)
	}

	calls = 0
	_, err = b.Do(context.Background(), func(ctx context.Context) (string, error) {
		calls++
		return "", ErrRateLimited
	})
	if !errors.Is(err, ErrRateLimited) || calls != 3 {
		t.Fatalf("expected exhaustion after 3 calls, got calls=%d err=%v", calls, err)
	}
}

func TestBackoffStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	b := Backoff{Attempts: 5, Base: time.Hour}
	calls := 0
	done := make(chan error, 1)
	go func() {
		_, err := b.Do(ctx, func(ctx context.Context) (string, error) {
			calls++
			return "", ErrRateLimited
		})
		done <- err
	}()
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
