package ai

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
)

// Backoff retries rate-limited calls with exponential delay. Any other error
// is returned immediately.
type Backoff struct {
	Attempts int
	Base     time.Duration
	Max      time.Duration
}

var DefaultBackoff = Backoff{Attempts: 3, Base: time.Second, Max: 8 * time.Second}

func (b Backoff) Do(ctx context.Context, call func(ctx context.Context) (string, error)) (string, error) {
	attempts := b.Attempts
	if attempts < 1 {
		attempts = 1
	}
	delay := b.Base
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			log.Warn().Err(lastErr).Int("attempt", attempt+1).Dur("delay", delay).Msg("rate limited, backing off")
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
			if b.Max > 0 && delay > b.Max {
				delay = b.Max
			}
		}
		out, err := call(ctx)
		if err == nil {
			return out, nil
		}
		if !errors.Is(err, ErrRateLimited) {
			return "", err
		}
		lastErr = err
	}
	return "", lastErr
}
