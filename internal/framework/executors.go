package framework

import (
	"sync"
	"time"
)

// DebounceWindow is how long an actor's in-flight record blocks further
// dispatches for the same actor.
const DebounceWindow = 4 * time.Second

// Executors is the per-user admission guard: a dispatch is admitted unless
// the same actor already has a record younger than the debounce window.
// Records are removed unconditionally when any dispatch for the actor
// finishes, so a fast invocation completing can release a slower concurrent
// one early; that matches the long-standing behavior and is left as is.
type Executors struct {
	mu     sync.RWMutex
	active map[string]time.Time
	window time.Duration
	now    func() time.Time
}

// NewExecutors returns an admission guard with the default window.
func NewExecutors() *Executors {
	return &Executors{
		active: make(map[string]time.Time),
		window: DebounceWindow,
		now:    time.Now,
	}
}

// Executing reports whether actor has a live record inside the window.
func (e *Executors) Executing(actorID string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	started, ok := e.active[actorID]
	return ok && e.now().Sub(started) < e.window
}

// Set records the actor as dispatching now.
func (e *Executors) Set(actorID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.active[actorID] = e.now()
}

// Drop removes the actor's record regardless of which dispatch set it.
func (e *Executors) Drop(actorID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.active, actorID)
}
