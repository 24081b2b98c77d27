package framework

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExecutorsDebounceWindow(t *testing.T) {
	now := time.Now()
	e := NewExecutors()
	e.now = func() time.Time { return now }

	assert.False(t, e.Executing("42"))

	e.Set("42")
	assert.True(t, e.Executing("42"))
	assert.False(t, e.Executing("43"))

	// Inside the window the record still blocks.
	now = now.Add(DebounceWindow - time.Millisecond)
	assert.True(t, e.Executing("42"))

	// A stale record no longer does.
	now = now.Add(2 * time.Millisecond)
	assert.False(t, e.Executing("42"))
}

func TestExecutorsDropIsUnconditional(t *testing.T) {
	e := NewExecutors()

	// Two overlapping dispatches for one actor: whichever finishes first
	// clears the record, releasing the other early. Documented behavior,
	// kept on purpose.
	e.Set("42")
	e.Set("42")
	e.Drop("42")
	assert.False(t, e.Executing("42"))

	e.Drop("42") // dropping an absent record is a no-op
	assert.False(t, e.Executing("42"))
}
