// Package macros holds the in-memory side-channel state for macro
// recording: while a (guild, user) pair is recording, dispatched commands
// are captured instead of executed.
package macros

import (
	"sync"

	"github.com/NettoX75/reminder-bot/internal/framework"
)

type key struct {
	guildID string
	userID  string
}

// Recorder tracks every in-progress recording. One per process, created at
// startup and passed to whoever needs it.
type Recorder struct {
	mu     sync.RWMutex
	active map[key]*Recording
}

// Recording is one macro under construction.
type Recording struct {
	Name        string
	Description string
	Commands    []framework.CommandOptions
}

func NewRecorder() *Recorder {
	return &Recorder{active: make(map[key]*Recording)}
}

// Start begins recording for the pair, replacing any previous recording.
func (r *Recorder) Start(guildID, userID, name, description string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active[key{guildID, userID}] = &Recording{Name: name, Description: description}
}

// Recording reports whether the pair is currently recording.
func (r *Recorder) Recording(guildID, userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.active[key{guildID, userID}]
	return ok
}

// Capture appends opts to the pair's recording, if one is active.
func (r *Recorder) Capture(guildID, userID string, opts framework.CommandOptions) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.active[key{guildID, userID}]
	if !ok {
		return false
	}
	rec.Commands = append(rec.Commands, opts)
	return true
}

// Finish ends the pair's recording and returns what was captured.
func (r *Recorder) Finish(guildID, userID string) (*Recording, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.active[key{guildID, userID}]
	if ok {
		delete(r.active, key{guildID, userID})
	}
	return rec, ok
}
