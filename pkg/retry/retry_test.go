package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDoFirstAttemptSucceeds(t *testing.T) {
	calls := 0
	result, err := Do(context.Background(), 3, time.Millisecond, func(ctx context.Context) (string, error) {
		calls++
		return "ok", nil
	})

	assert.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 1, calls)
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	calls := 0
	result, err := Do(context.Background(), 5, time.Millisecond, func(ctx context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, errors.New("transient")
		}
		return 42, nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 42, result)
	assert.Equal(t, 3, calls)
}

func TestDoExhaustsAttempts(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	result, err := Do(context.Background(), 3, time.Millisecond, func(ctx context.Context) (string, error) {
		calls++
		return "", boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "", result)
	assert.Equal(t, 3, calls)
}

func TestDoClampsAttemptCount(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), 0, time.Millisecond, func(ctx context.Context) (int, error) {
		calls++
		return 0, errors.New("always")
	})

	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoBackoffGrowsExponentially(t *testing.T) {
	baseDelay := 20 * time.Millisecond

	start := time.Now()
	_, err := Do(context.Background(), 3, baseDelay, func(ctx context.Context) (int, error) {
		return 0, errors.New("always")
	})
	elapsed := time.Since(start)

	assert.Error(t, err)
	// Waits are baseDelay then 2*baseDelay, so three attempts take at
	// least 3*baseDelay in total
	assert.GreaterOrEqual(t, elapsed, 3*baseDelay)
}

func TestDoFirstAttemptIsImmediate(t *testing.T) {
	start := time.Now()
	_, err := Do(context.Background(), 1, time.Second, func(ctx context.Context) (string, error) {
		return "ok", nil
	})

	assert.NoError(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestDoStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	_, err := Do(ctx, 5, time.Hour, func(ctx context.Context) (string, error) {
		calls++
		cancel()
		return "", errors.New("transient")
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
