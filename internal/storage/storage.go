// Package storage is the bot's persistence collaborator: per-guild settings
// read by hooks and command bodies, plus reminders, todo lists and saved
// macros. Everything is kept as one record per guild inside the JSON
// datastore.
package storage

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/NettoX75/reminder-bot/datastore"
	"github.com/NettoX75/reminder-bot/internal/framework"
)

type Storage struct {
	ds *datastore.DataStore
}

// Reminder is one scheduled reminder.
type Reminder struct {
	ID        string    `json:"id"`
	ChannelID string    `json:"channel_id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	At        time.Time `json:"at"`
	CreatedAt time.Time `json:"created_at"`
}

// Timer is a named stopwatch started by a user.
type Timer struct {
	Name      string    `json:"name"`
	UserID    string    `json:"user_id"`
	StartedAt time.Time `json:"started_at"`
}

// Macro is a recorded command sequence replayable by name.
type Macro struct {
	Name        string                     `json:"name"`
	Description string                     `json:"description,omitempty"`
	Commands    []framework.CommandOptions `json:"commands"`
}

// Record is everything stored for one guild. DM-scoped data lives under a
// synthetic "dm" record.
type Record struct {
	Prefix              string             `json:"prefix,omitempty"`
	Timezone            string             `json:"timezone,omitempty"`
	BlacklistedChannels []string           `json:"blacklisted_channels,omitempty"`
	Reminders           []Reminder         `json:"reminders,omitempty"`
	Timers              []Timer            `json:"timers,omitempty"`
	Todos               map[string][]string `json:"todos,omitempty"`
	Macros              map[string]Macro   `json:"macros,omitempty"`
}

func New(filePath string) (*Storage, error) {
	ds, err := datastore.New(filePath)
	if err != nil {
		return nil, err
	}
	return &Storage{ds: ds}, nil
}

func (s *Storage) Close() error {
	return s.ds.Close()
}

func recordKey(guildID string) string {
	if guildID == "" {
		return "dm"
	}
	return guildID
}

// getRecord round-trips the stored value through JSON into a typed Record;
// the datastore only holds loosely typed maps after a reload.
func (s *Storage) getRecord(guildID string) (*Record, error) {
	raw, ok := s.ds.Get(recordKey(guildID))
	if !ok {
		return &Record{}, nil
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("marshalling guild record: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("unmarshalling guild record: %w", err)
	}
	return &rec, nil
}

func (s *Storage) putRecord(guildID string, rec *Record) {
	s.ds.Set(recordKey(guildID), rec)
}

// update applies fn to the guild's record and writes it back.
func (s *Storage) update(guildID string, fn func(*Record)) error {
	rec, err := s.getRecord(guildID)
	if err != nil {
		return err
	}
	fn(rec)
	s.putRecord(guildID, rec)
	return nil
}

// --- guild settings ---

// GuildPrefix returns the guild's configured text prefix, or "" when the
// guild never set one.
func (s *Storage) GuildPrefix(guildID string) string {
	rec, err := s.getRecord(guildID)
	if err != nil {
		return ""
	}
	return rec.Prefix
}

func (s *Storage) SetGuildPrefix(guildID, prefix string) error {
	return s.update(guildID, func(rec *Record) {
		rec.Prefix = prefix
	})
}

func (s *Storage) GuildTimezone(guildID string) string {
	rec, err := s.getRecord(guildID)
	if err != nil {
		return ""
	}
	return rec.Timezone
}

func (s *Storage) SetGuildTimezone(guildID, timezone string) error {
	return s.update(guildID, func(rec *Record) {
		rec.Timezone = timezone
	})
}

// IsChannelBlacklisted reports whether commands are blocked in the channel.
func (s *Storage) IsChannelBlacklisted(guildID, channelID string) bool {
	rec, err := s.getRecord(guildID)
	if err != nil {
		return false
	}
	return slices.Contains(rec.BlacklistedChannels, channelID)
}

// ToggleChannelBlacklist flips a channel's blacklist entry and reports the
// new state.
func (s *Storage) ToggleChannelBlacklist(guildID, channelID string) (bool, error) {
	var blacklisted bool
	err := s.update(guildID, func(rec *Record) {
		if i := slices.Index(rec.BlacklistedChannels, channelID); i >= 0 {
			rec.BlacklistedChannels = slices.Delete(rec.BlacklistedChannels, i, i+1)
			return
		}
		rec.BlacklistedChannels = append(rec.BlacklistedChannels, channelID)
		blacklisted = true
	})
	return blacklisted, err
}

// --- reminders ---

func (s *Storage) AddReminder(guildID string, r Reminder) error {
	return s.update(guildID, func(rec *Record) {
		rec.Reminders = append(rec.Reminders, r)
	})
}

// Reminders returns the guild's reminders, optionally narrowed to one
// channel.
func (s *Storage) Reminders(guildID, channelID string) ([]Reminder, error) {
	rec, err := s.getRecord(guildID)
	if err != nil {
		return nil, err
	}
	if channelID == "" {
		return rec.Reminders, nil
	}
	var out []Reminder
	for _, r := range rec.Reminders {
		if r.ChannelID == channelID {
			out = append(out, r)
		}
	}
	return out, nil
}

// DeleteReminder removes the reminder with the given id and reports whether
// it existed.
func (s *Storage) DeleteReminder(guildID, id string) (bool, error) {
	var deleted bool
	err := s.update(guildID, func(rec *Record) {
		for i, r := range rec.Reminders {
			if r.ID == id {
				rec.Reminders = slices.Delete(rec.Reminders, i, i+1)
				deleted = true
				return
			}
		}
	})
	return deleted, err
}

// --- timers ---

func (s *Storage) StartTimer(guildID string, t Timer) error {
	return s.update(guildID, func(rec *Record) {
		rec.Timers = append(rec.Timers, t)
	})
}

// Timers returns the user's running timers in the guild (or DM scope).
func (s *Storage) Timers(guildID, userID string) ([]Timer, error) {
	rec, err := s.getRecord(guildID)
	if err != nil {
		return nil, err
	}
	var out []Timer
	for _, t := range rec.Timers {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

// StopTimer removes the user's timer by name and returns it.
func (s *Storage) StopTimer(guildID, userID, name string) (Timer, bool, error) {
	var (
		stopped Timer
		found   bool
	)
	err := s.update(guildID, func(rec *Record) {
		for i, t := range rec.Timers {
			if t.UserID == userID && t.Name == name {
				stopped = t
				found = true
				rec.Timers = slices.Delete(rec.Timers, i, i+1)
				return
			}
		}
	})
	return stopped, found, err
}

// --- todo lists ---

// Todo scopes: a guild-wide list, one per channel, one per user.
func TodoScopeGuild() string                   { return "guild" }
func TodoScopeChannel(channelID string) string { return "channel:" + channelID }
func TodoScopeUser(userID string) string       { return "user:" + userID }

func (s *Storage) Todos(guildID, scope string) ([]string, error) {
	rec, err := s.getRecord(guildID)
	if err != nil {
		return nil, err
	}
	return rec.Todos[scope], nil
}

func (s *Storage) AddTodo(guildID, scope, task string) error {
	return s.update(guildID, func(rec *Record) {
		if rec.Todos == nil {
			rec.Todos = make(map[string][]string)
		}
		rec.Todos[scope] = append(rec.Todos[scope], task)
	})
}

// RemoveTodo deletes the 1-based item n from the scoped list.
func (s *Storage) RemoveTodo(guildID, scope string, n int) (bool, error) {
	var removed bool
	err := s.update(guildID, func(rec *Record) {
		list := rec.Todos[scope]
		if n < 1 || n > len(list) {
			return
		}
		rec.Todos[scope] = slices.Delete(list, n-1, n)
		removed = true
	})
	return removed, err
}

// --- macros ---

func (s *Storage) SaveMacro(guildID string, m Macro) error {
	return s.update(guildID, func(rec *Record) {
		if rec.Macros == nil {
			rec.Macros = make(map[string]Macro)
		}
		rec.Macros[m.Name] = m
	})
}

func (s *Storage) Macro(guildID, name string) (Macro, bool, error) {
	rec, err := s.getRecord(guildID)
	if err != nil {
		return Macro{}, false, err
	}
	m, ok := rec.Macros[name]
	return m, ok, nil
}

func (s *Storage) Macros(guildID string) (map[string]Macro, error) {
	rec, err := s.getRecord(guildID)
	if err != nil {
		return nil, err
	}
	return rec.Macros, nil
}

func (s *Storage) DeleteMacro(guildID, name string) (bool, error) {
	var deleted bool
	err := s.update(guildID, func(rec *Record) {
		if _, ok := rec.Macros[name]; ok {
			delete(rec.Macros, name)
			deleted = true
		}
	})
	return deleted, err
}
