package akinator

import "context"

// RetryPolicy re-invokes a call until its result passes Valid. When every
// attempt is rejected the last result is used anyway.
type RetryPolicy[T any] struct {
	MaxAttempts int
	Valid       func(T) bool
}

// Do returns the accepted result and the number of attempts made. An error
// from call aborts immediately.
func (p RetryPolicy[T]) Do(ctx context.Context, call func(ctx context.Context) (T, error)) (T, int, error) {
	attempts := max(p.MaxAttempts, 1)
	var last T
	for i := 1; i <= attempts; i++ {
		if err := ctx.Err(); err != nil {
			return last, i - 1, err
		}
		v, err := call(ctx)
		if err != nil {
			return last, i, err
		}
		last = v
		if p.Valid == nil || p.Valid(v) {
			return v, i, nil
		}
	}
	return last, attempts, nil
}
