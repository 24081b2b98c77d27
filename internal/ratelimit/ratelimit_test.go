package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithRetryEventualSuccess(t *testing.T) {
	lim := NewLimiter(100, 1, 100)
	attempts := 0

	err := WithRetry(context.Background(), lim, 5, func() error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestWithRetryGivesUpAfterMaxAttempts(t *testing.T) {
	lim := NewLimiter(100, 1, 100)
	attempts := 0
	boom := errors.New("still broken")

	err := WithRetry(context.Background(), lim, 2, func() error {
		attempts++
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, attempts)
}

func TestWithRetryStopsOnFatal(t *testing.T) {
	lim := NewLimiter(100, 1, 100)
	attempts := 0
	boom := errors.New("bad request")

	err := WithRetry(context.Background(), lim, 5, func() error {
		attempts++
		return &Fatal{Err: boom}
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, attempts)
}

func TestWithRetryHonorsContext(t *testing.T) {
	lim := NewLimiter(100, 1, 100)
	ctx, cancel := context.WithCancel(context.Background())

	err := WithRetry(ctx, lim, 3, func() error {
		cancel()
		return errors.New("transient")
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewLimiterClampsAndKeepsBurst(t *testing.T) {
	lim := NewLimiter(5, 1, 20)
	assert.InDelta(t, 5, float64(lim.bucket.Limit()), 0.01)
	assert.Equal(t, 5, lim.bucket.Burst())

	lim = NewLimiter(0, 2, 20)
	assert.InDelta(t, 2, float64(lim.bucket.Limit()), 0.01, "initial below the floor is raised to it")

	lim = NewLimiter(0.5, 0.5, 20)
	assert.GreaterOrEqual(t, lim.bucket.Burst(), 1, "fractional rates still allow a call through")
}

func TestLimiterBacksOffAndRecovers(t *testing.T) {
	lim := NewLimiter(8, 1, 8)

	lim.Backoff()
	assert.InDelta(t, 4, float64(lim.bucket.Limit()), 0.01)

	lim.Backoff()
	lim.Backoff()
	lim.Backoff()
	assert.InDelta(t, 1, float64(lim.bucket.Limit()), 0.01, "rate never drops below the floor")

	// Success right after an error keeps the rate down.
	lim.Success()
	assert.InDelta(t, 1, float64(lim.bucket.Limit()), 0.01)

	// Once the error is old enough the rate creeps back up.
	lim.lastError = time.Now().Add(-time.Minute)
	lim.Success()
	assert.InDelta(t, 2, float64(lim.bucket.Limit()), 0.01)
}
