package framework

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testClientID = "159985870458322944"

func testFramework(t *testing.T) *Framework {
	t.Helper()
	return New(testClientID).
		DefaultPrefix("$").
		AddCommand(&Command{
			Names:       []string{"remind", "r"},
			Description: "set a reminder",
			MultiFunc:   func(inv *Invoke) error { return nil },
		}).
		AddCommand(&Command{
			Names:       []string{"timer"},
			Description: "start a timer",
			SupportsDM:  true,
			MultiFunc:   func(inv *Invoke) error { return nil },
		}).
		AddCommand(&Command{
			Names:       []string{"todo"},
			Description: "manage todo lists",
			MultiFunc:   func(inv *Invoke) error { return nil },
		}).
		Build()
}

func TestMatchGuildMentionAndPrefixForms(t *testing.T) {
	f := testFramework(t)

	for _, content := range []string{
		"<@" + testClientID + "> remind in an hour",
		"<@!" + testClientID + "> remind in an hour",
		"$remind in an hour",
	} {
		match, ok := f.MatchGuild(content)
		require.True(t, ok, "expected match for %q", content)
		assert.Equal(t, "remind", match.Command.Name())
		assert.Equal(t, "in an hour", match.Args)
	}
}

func TestMatchGuildRejectsUnregisteredNames(t *testing.T) {
	f := testFramework(t)

	for _, content := range []string{
		"$reminders foo",
		"$banana",
		"just a normal message",
		"<@" + testClientID + "> frobnicate now",
	} {
		_, ok := f.MatchGuild(content)
		assert.False(t, ok, "expected no match for %q", content)
	}
}

func TestMatchGuildLongestNameWins(t *testing.T) {
	f := testFramework(t)

	match, ok := f.MatchGuild("$remind foo")
	require.True(t, ok)
	assert.Equal(t, "remind", match.Command.Name())
	assert.Equal(t, "foo", match.Args)

	match, ok = f.MatchGuild("$r foo")
	require.True(t, ok)
	assert.Equal(t, "remind", match.Command.Name(), "alias should resolve to the same command")
	assert.Equal(t, "foo", match.Args)
}

func TestMatchGuildCaseInsensitive(t *testing.T) {
	f := testFramework(t)

	match, ok := f.MatchGuild("$REMIND foo")
	require.True(t, ok)
	assert.Equal(t, "remind", match.Command.Name())
}

func TestMatchDMOnlyEligibleCommands(t *testing.T) {
	f := testFramework(t)

	match, ok := f.MatchDM("timer 5 minutes")
	require.True(t, ok, "dm-eligible command should match without any prefix")
	assert.Equal(t, "timer", match.Command.Name())
	assert.Equal(t, "5 minutes", match.Args)

	_, ok = f.MatchDM("remind foo")
	assert.False(t, ok, "non-dm command must not match in DMs")

	_, ok = f.MatchGuild("$remind foo")
	assert.True(t, ok, "same command still matches in guild context")
}

func TestBuildWithoutCommandsMatchesNothing(t *testing.T) {
	f := New(testClientID).DefaultPrefix("$").Build()

	_, ok := f.MatchGuild("$remind foo")
	assert.False(t, ok)
	_, ok = f.MatchDM("")
	assert.False(t, ok)
}

func guildMessage(userID, content string) *discordgo.MessageCreate {
	return &discordgo.MessageCreate{Message: &discordgo.Message{
		ID:        "9000",
		ChannelID: "7000",
		GuildID:   "5000",
		Content:   content,
		Author:    &discordgo.User{ID: userID},
	}}
}

func TestDispatchMessageRunsBodyWithTail(t *testing.T) {
	var got CommandOptions
	f := New(testClientID).
		DefaultPrefix("$").
		AddCommand(&Command{
			Names:       []string{"remind"},
			Description: "set a reminder",
			Func: func(inv *Invoke, opts CommandOptions) error {
				got = opts
				return nil
			},
		}).
		Build()

	f.DispatchMessage(nil, guildMessage("42", "$remind me tomorrow"))

	assert.Equal(t, "remind", got.Command)
	assert.Equal(t, "me tomorrow", got.Args())
}

func TestDispatchMessageHonorsGuildPrefix(t *testing.T) {
	calls := 0
	f := New(testClientID).
		DefaultPrefix("$").
		GuildPrefix(func(guildID string) string { return "!" }).
		AddCommand(&Command{
			Names:       []string{"remind"},
			Description: "set a reminder",
			Func: func(inv *Invoke, opts CommandOptions) error {
				calls++
				return nil
			},
		}).
		Build()

	f.DispatchMessage(nil, guildMessage("42", "$remind foo"))
	assert.Zero(t, calls, "default prefix must be rejected when the guild overrides it")

	f.DispatchMessage(nil, guildMessage("42", "!remind foo"))
	assert.Equal(t, 1, calls)

	f.DispatchMessage(nil, guildMessage("42", "<@"+testClientID+"> remind foo"))
	assert.Equal(t, 2, calls, "mention form bypasses the prefix check")
}

func TestDispatchMessageIgnoresBots(t *testing.T) {
	calls := 0
	f := New(testClientID).
		DefaultPrefix("$").
		AddCommand(&Command{
			Names:       []string{"remind"},
			Description: "set a reminder",
			Func: func(inv *Invoke, opts CommandOptions) error {
				calls++
				return nil
			},
		}).
		Build()

	m := guildMessage("42", "$remind foo")
	m.Author.Bot = true
	f.DispatchMessage(nil, m)
	assert.Zero(t, calls)
}

func TestHookHaltStopsChainAndBody(t *testing.T) {
	var order []string
	record := func(name string, result HookResult) *Hook {
		return NewHook(func(inv *Invoke, opts *CommandOptions) HookResult {
			order = append(order, name)
			return result
		})
	}

	bodyRuns := 0
	cmd := &Command{
		Names:       []string{"remind"},
		Description: "set a reminder",
		Hooks:       []*Hook{record("cmd-1", Continue), record("cmd-2", Continue)},
		Func: func(inv *Invoke, opts CommandOptions) error {
			bodyRuns++
			return nil
		},
	}

	f := New(testClientID).
		DefaultPrefix("$").
		AddCommand(cmd).
		AddHook(record("global-1", Continue)).
		AddHook(record("global-2", Halt)).
		AddHook(record("global-3", Continue)).
		Build()

	f.DispatchMessage(nil, guildMessage("42", "$remind foo"))

	assert.Equal(t, []string{"cmd-1", "cmd-2", "global-1", "global-2"}, order)
	assert.Zero(t, bodyRuns, "halt must prevent the command body")
}

func TestHookIdentity(t *testing.T) {
	fn := func(inv *Invoke, opts *CommandOptions) HookResult { return Continue }
	a := NewHook(fn)
	b := NewHook(fn)

	assert.True(t, a.Equal(a))
	assert.False(t, a.Equal(b), "each registration is its own identity")
	assert.False(t, a.Equal(nil))
}

func TestAdmissionGuardSingleFlight(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var blockFirst atomic.Bool
	blockFirst.Store(true)
	var mu sync.Mutex
	executions := 0

	f := New(testClientID).
		DefaultPrefix("$").
		AddCommand(&Command{
			Names:       []string{"remind"},
			Description: "set a reminder",
			Func: func(inv *Invoke, opts CommandOptions) error {
				mu.Lock()
				executions++
				mu.Unlock()
				if blockFirst.CompareAndSwap(true, false) {
					close(started)
					<-release
				}
				return nil
			},
		}).
		Build()

	done := make(chan struct{})
	go func() {
		f.DispatchMessage(nil, guildMessage("42", "$remind first"))
		close(done)
	}()
	<-started

	// Same actor, first dispatch still running: dropped silently.
	f.DispatchMessage(nil, guildMessage("42", "$remind second"))
	mu.Lock()
	assert.Equal(t, 1, executions)
	mu.Unlock()

	// A different actor is unaffected.
	f.DispatchMessage(nil, guildMessage("43", "$remind other"))
	mu.Lock()
	assert.Equal(t, 2, executions)
	mu.Unlock()

	close(release)
	<-done

	// First completed and released the record; a new dispatch for the
	// actor is admitted even inside what would have been the original
	// debounce window.
	f.DispatchMessage(nil, guildMessage("42", "$remind third"))
	mu.Lock()
	assert.Equal(t, 3, executions)
	mu.Unlock()
}
