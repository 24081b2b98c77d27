package framework

import (
	"github.com/gofrs/uuid/v5"
)

// HookResult tells the dispatcher whether to keep going.
type HookResult int

const (
	// Continue lets dispatch proceed to the next hook or the command body.
	Continue HookResult = iota
	// Halt aborts the dispatch; nothing downstream runs.
	Halt
)

// HookFunc inspects (and may respond through) the invocation before the
// command body runs.
type HookFunc func(inv *Invoke, opts *CommandOptions) HookResult

// Hook is an identity-comparable pre-dispatch interceptor.
type Hook struct {
	id  uuid.UUID
	run HookFunc
}

// NewHook wraps fn with a fresh identity.
func NewHook(fn HookFunc) *Hook {
	return &Hook{id: uuid.Must(uuid.NewV4()), run: fn}
}

// Equal reports whether two hooks are the same registration.
func (h *Hook) Equal(other *Hook) bool {
	return other != nil && h.id == other.id
}
