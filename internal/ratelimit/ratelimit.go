// Package ratelimit paces bursts of Discord REST calls and retries the ones
// that fail transiently. The limiter adapts: it creeps up while calls
// succeed and backs off sharply when the platform pushes back.
package ratelimit

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Limiter wraps a token bucket whose rate moves between min and max based on
// call outcomes. Safe for concurrent use.
type Limiter struct {
	mu        sync.Mutex
	bucket    *rate.Limiter
	min, max  rate.Limit
	stepUp    rate.Limit
	stepDown  float64
	lastError time.Time
}

// NewLimiter builds a limiter starting at initial requests per second,
// clamped between lo and hi.
func NewLimiter(initial, lo, hi rate.Limit) *Limiter {
	if initial < lo {
		initial = lo
	}
	return &Limiter{
		bucket:   rate.NewLimiter(initial, int(max(1, initial))),
		min:      lo,
		max:      hi,
		stepUp:   1,
		stepDown: 0.5,
	}
}

// Wait blocks until a token is available or ctx ends.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.bucket.Wait(ctx)
}

// Success nudges the rate up once the limiter has been quiet for a while.
func (l *Limiter) Success() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if time.Since(l.lastError) > 10*time.Second {
		l.setLimit(l.bucket.Limit() + l.stepUp)
	}
}

// Backoff halves the rate after the platform signalled overload.
func (l *Limiter) Backoff() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lastError = time.Now()
	l.setLimit(rate.Limit(float64(l.bucket.Limit()) * l.stepDown))
}

func (l *Limiter) setLimit(limit rate.Limit) {
	if limit > l.max {
		limit = l.max
	}
	if limit < l.min {
		limit = l.min
	}
	if limit != l.bucket.Limit() {
		l.bucket.SetLimit(limit)
		l.bucket.SetBurst(int(max(1, limit)))
	}
}

// Fatal wraps an error that retrying cannot help.
type Fatal struct {
	Err error
}

func (f *Fatal) Error() string { return f.Err.Error() }
func (f *Fatal) Unwrap() error { return f.Err }

// WithRetry runs fn through the limiter with exponential backoff, up to
// maxAttempts times. It stops early on success, a Fatal error, or ctx
// ending.
func WithRetry(ctx context.Context, lim *Limiter, maxAttempts int, fn func() error) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	delay := 500 * time.Millisecond
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := lim.Wait(ctx); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			lim.Success()
			if attempt > 1 {
				log.Debug().Int("attempts", attempt).Msg("call succeeded after retry")
			}
			return nil
		}

		var fatal *Fatal
		if errors.As(lastErr, &fatal) {
			return fatal.Err
		}

		lim.Backoff()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		if delay *= 2; delay > 10*time.Second {
			delay = 10 * time.Second
		}
	}

	return lastErr
}
