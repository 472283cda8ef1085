package retry

import (
	"context"
	"time"
)

// Do invokes op, retrying up to maxAttempts-1 additional times with
// exponential backoff (baseDelay * 2^attempt) between attempts. The final
// failure is returned only after every attempt is exhausted. No jitter and
// no circuit breaking: callers are expected to have their own terminal
// fallbacks.
func Do[T any](ctx context.Context, maxAttempts int, baseDelay time.Duration, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			delay := baseDelay << (attempt - 1)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return zero, ctx.Err()
			}
		}

		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err
	}
	return zero, lastErr
}
