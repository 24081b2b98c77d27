package framework

import (
	"regexp"
	"sort"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

// PrefixResolver supplies the textual command prefix configured for a guild.
type PrefixResolver func(guildID string) string

// Framework owns the frozen command set, the compiled text matchers and the
// dispatch pipeline. Assemble it with the builder methods, call Build once,
// then treat it as read-only; it is shared across all event goroutines
// without locking.
type Framework struct {
	commands map[string]*Command // every name and alias, lowercased
	ordered  []*Command          // registration order, primary names only

	matcher   *regexp.Regexp
	dmMatcher *regexp.Regexp

	clientID        string
	defaultPrefix   string
	caseInsensitive bool
	ignoreBots      bool
	dmEnabled       bool
	debugGuild      string

	hooks     []*Hook // global hooks, run after per-command hooks
	prefixFor PrefixResolver
	executors *Executors
	built     bool
}

// New returns an empty framework for the given bot user id.
func New(clientID string) *Framework {
	return &Framework{
		commands:        make(map[string]*Command),
		clientID:        clientID,
		defaultPrefix:   "$",
		caseInsensitive: true,
		ignoreBots:      true,
		dmEnabled:       true,
		executors:       NewExecutors(),
	}
}

func (f *Framework) DefaultPrefix(prefix string) *Framework {
	f.defaultPrefix = prefix
	return f
}

func (f *Framework) CaseInsensitive(v bool) *Framework {
	f.caseInsensitive = v
	return f
}

func (f *Framework) IgnoreBots(v bool) *Framework {
	f.ignoreBots = v
	return f
}

func (f *Framework) DMEnabled(v bool) *Framework {
	f.dmEnabled = v
	return f
}

// DebugGuild restricts catalog publication to one guild; empty means global.
func (f *Framework) DebugGuild(guildID string) *Framework {
	f.debugGuild = guildID
	return f
}

// GuildPrefix installs the per-guild prefix lookup used by the text path.
func (f *Framework) GuildPrefix(resolver PrefixResolver) *Framework {
	f.prefixFor = resolver
	return f
}

// AddHook appends a global hook. Order of registration is order of
// execution.
func (f *Framework) AddHook(h *Hook) *Framework {
	f.hooks = append(f.hooks, h)
	return f
}

// AddCommand registers a command under its primary name and every alias.
// Calling this after Build is not supported.
func (f *Framework) AddCommand(cmd *Command) *Framework {
	f.ordered = append(f.ordered, cmd)
	for _, name := range cmd.Names {
		f.commands[strings.ToLower(name)] = cmd
	}
	return f
}

// Commands returns the registered commands in registration order.
func (f *Framework) Commands() []*Command {
	return f.ordered
}

// Build compiles the guild and DM matchers from the registered name set.
// One-shot; the matchers and the registry are frozen afterwards.
func (f *Framework) Build() *Framework {
	names := make([]string, 0, len(f.commands))
	dmNames := make([]string, 0, len(f.commands))
	for name, cmd := range f.commands {
		names = append(names, name)
		if cmd.SupportsDM {
			dmNames = append(dmNames, name)
		}
	}

	f.matcher = f.compileMatcher(names,
		`^(?:(?:<@`+f.clientID+`>\s*)|(?:<@!`+f.clientID+`>\s*)|(?P<prefix>\S{1,5}?))(?P<cmd>%s)(?:$|\s+(?P<args>.*))$`)
	f.dmMatcher = f.compileMatcher(dmNames,
		`^(?:(?:<@`+f.clientID+`>\s+)|(?:<@!`+f.clientID+`>\s+)|(?P<prefix>`+regexp.QuoteMeta(f.defaultPrefix)+`)|())(?P<cmd>%s)(?:$|\s+(?P<args>.*))$`)
	f.built = true

	log.Info().Int("commands", len(f.ordered)).Int("dm_commands", len(dmNames)).Msg("command matchers compiled")
	return f
}

// compileMatcher joins names into one alternation, longest name first so a
// short alias never truncates a longer command sharing its prefix, and
// compiles the template around it. With no names there is nothing to match
// and the matcher stays nil.
func (f *Framework) compileMatcher(names []string, template string) *regexp.Regexp {
	if len(names) == 0 {
		return nil
	}

	sorted := make([]string, len(names))
	for i, name := range names {
		sorted[i] = regexp.QuoteMeta(name)
	}
	sort.Slice(sorted, func(i, j int) bool {
		if len(sorted[i]) != len(sorted[j]) {
			return len(sorted[i]) > len(sorted[j])
		}
		return sorted[i] < sorted[j]
	})

	flags := "(?s)"
	if f.caseInsensitive {
		flags = "(?is)"
	}
	pattern := flags + strings.Replace(template, "%s", strings.Join(sorted, "|"), 1)
	return regexp.MustCompile(pattern)
}

// TextMatch is the outcome of running a message against a compiled matcher.
type TextMatch struct {
	Command *Command
	Prefix  string // textual prefix used; empty when mention-invoked
	Args    string // raw tail after the command token
}

// MatchGuild runs content against the guild matcher.
func (f *Framework) MatchGuild(content string) (*TextMatch, bool) {
	return f.match(f.matcher, content)
}

// MatchDM runs content against the DM matcher, which only knows dm-eligible
// names.
func (f *Framework) MatchDM(content string) (*TextMatch, bool) {
	return f.match(f.dmMatcher, content)
}

func (f *Framework) match(re *regexp.Regexp, content string) (*TextMatch, bool) {
	if re == nil {
		return nil, false
	}
	groups := re.FindStringSubmatch(content)
	if groups == nil {
		return nil, false
	}

	var prefix, cmdName, args string
	for i, name := range re.SubexpNames() {
		switch name {
		case "prefix":
			prefix = groups[i]
		case "cmd":
			cmdName = groups[i]
		case "args":
			args = groups[i]
		}
	}

	cmd, ok := f.commands[strings.ToLower(cmdName)]
	if !ok {
		return nil, false
	}
	return &TextMatch{Command: cmd, Prefix: prefix, Args: args}, true
}

// Execute dispatches a slash command interaction. A command name the
// registry does not know means the published catalog and this process have
// diverged; that is a fault worth dying over, not papering over.
func (f *Framework) Execute(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()

	cmd, ok := f.commands[strings.ToLower(data.Name)]
	if !ok {
		log.Panic().Str("command", data.Name).Msg("interaction names a command missing from the registry")
	}

	opts := interactionOptions(cmd, data)
	inv := NewCommandInvoke(s, i)
	f.dispatch(inv, cmd, opts)
}

// DispatchMessage runs the text trigger path: match the content, check the
// prefix against the guild's configured one, and hand over to the shared
// pipeline. Anything that does not line up is dropped without a trace.
func (f *Framework) DispatchMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.ID == f.clientID {
		return
	}
	if f.ignoreBots && m.Author.Bot {
		return
	}

	var match *TextMatch
	var ok bool
	if m.GuildID != "" {
		match, ok = f.MatchGuild(m.Content)
		if ok && match.Prefix != "" && match.Prefix != f.guildPrefix(m.GuildID) {
			return
		}
	} else {
		if !f.dmEnabled {
			return
		}
		match, ok = f.MatchDM(m.Content)
	}
	if !ok {
		return
	}
	if m.GuildID == "" && !match.Command.SupportsDM {
		return
	}

	opts := TextOptions(match.Command, match.Args)
	inv := NewMessageInvoke(s, m)
	f.dispatch(inv, match.Command, opts)
}

func (f *Framework) guildPrefix(guildID string) string {
	if f.prefixFor != nil {
		if p := f.prefixFor(guildID); p != "" {
			return p
		}
	}
	return f.defaultPrefix
}

// dispatch is the shared tail of both trigger paths: hook chain, admission
// guard, command body, release.
func (f *Framework) dispatch(inv *Invoke, cmd *Command, opts CommandOptions) {
	for _, hook := range cmd.Hooks {
		if hook.run(inv, &opts) == Halt {
			return
		}
	}
	for _, hook := range f.hooks {
		if hook.run(inv, &opts) == Halt {
			return
		}
	}

	actor := inv.AuthorID()
	if f.executors.Executing(actor) {
		log.Debug().Str("user", actor).Str("command", cmd.Name()).Msg("dispatch dropped, actor already executing")
		return
	}
	f.executors.Set(actor)
	defer f.executors.Drop(actor)

	f.runBody(inv, cmd, opts)
}

// RunFromOptions executes a command body from stored options, bypassing
// hooks and the admission guard. Macro replay uses this.
func (f *Framework) RunFromOptions(inv *Invoke, opts CommandOptions) {
	cmd, ok := f.commands[strings.ToLower(opts.Command)]
	if !ok {
		log.Panic().Str("command", opts.Command).Msg("stored options name a command missing from the registry")
	}
	f.runBody(inv, cmd, opts)
}

func (f *Framework) runBody(inv *Invoke, cmd *Command, opts CommandOptions) {
	var err error
	switch {
	case cmd.Func != nil:
		err = cmd.Func(inv, opts)
	case cmd.MultiFunc != nil:
		err = cmd.MultiFunc(inv)
	}
	if err != nil {
		log.Error().Err(err).Str("command", cmd.Name()).Str("user", inv.AuthorID()).Msg("command failed")
	}
}
