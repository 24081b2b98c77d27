// Package framework implements the bot's command dispatch core: a compiled
// text matcher over the registered command set, normalization of slash
// interaction payloads and message tails into one options shape, the
// invocation handle with its response state machine, pre-dispatch hooks and
// the per-user admission guard.
package framework

import (
	"github.com/bwmarrin/discordgo"
)

// CommandFunc is a command body that consumes normalized options.
type CommandFunc func(inv *Invoke, opts CommandOptions) error

// MultiFunc is a command body that only needs the invocation handle.
// Exactly one of Command.Func / Command.MultiFunc is set.
type MultiFunc func(inv *Invoke) error

// Arg describes one node of a command's argument tree. Nesting goes at most
// command -> subcommand(-group) -> leaf, the depth Discord accepts.
type Arg struct {
	Name        string
	Description string
	Kind        discordgo.ApplicationCommandOptionType
	Required    bool
	Options     []*Arg
}

// Command is an immutable command descriptor. Commands are assembled once at
// process start and handed to the Framework builder; nothing mutates them
// after Build.
type Command struct {
	Names       []string // primary name first, aliases after
	Description string
	Examples    []string
	Group       string

	Args []*Arg

	CanBlacklist bool // channel blacklist applies to this command
	SupportsDM   bool

	Hooks []*Hook // per-command hooks, run before global hooks

	Func      CommandFunc
	MultiFunc MultiFunc
}

// Name returns the command's primary name.
func (c *Command) Name() string {
	return c.Names[0]
}
