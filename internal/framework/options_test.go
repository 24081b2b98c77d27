package framework

import (
	"encoding/json"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInteractionOptionsFlattensNestedTree(t *testing.T) {
	cmd := &Command{Names: []string{"todo"}, Description: "manage todo lists"}
	data := discordgo.ApplicationCommandInteractionData{
		Name: "todo",
		Options: []*discordgo.ApplicationCommandInteractionDataOption{
			{
				Name: "guild",
				Type: discordgo.ApplicationCommandOptionSubCommandGroup,
				Options: []*discordgo.ApplicationCommandInteractionDataOption{
					{
						Name: "add",
						Type: discordgo.ApplicationCommandOptionSubCommand,
						Options: []*discordgo.ApplicationCommandInteractionDataOption{
							{Name: "task", Type: discordgo.ApplicationCommandOptionString, Value: "x"},
							{Name: "position", Type: discordgo.ApplicationCommandOptionInteger, Value: float64(5)},
						},
					},
				},
			},
		},
	}

	opts := interactionOptions(cmd, data)

	assert.Equal(t, "todo", opts.Command)
	assert.Equal(t, "guild", opts.SubcommandGroup)
	assert.Equal(t, "add", opts.Subcommand)
	assert.Equal(t, map[string]OptionValue{
		"task":     StringValue("x"),
		"position": IntegerValue(5),
	}, opts.Options)
}

func TestInteractionOptionsExtractsEveryKind(t *testing.T) {
	cmd := &Command{Names: []string{"restrict"}, Description: "restrict reminders"}
	data := discordgo.ApplicationCommandInteractionData{
		Name: "restrict",
		Options: []*discordgo.ApplicationCommandInteractionDataOption{
			{Name: "note", Type: discordgo.ApplicationCommandOptionString, Value: "soon"},
			{Name: "count", Type: discordgo.ApplicationCommandOptionInteger, Value: float64(3)},
			{Name: "silent", Type: discordgo.ApplicationCommandOptionBoolean, Value: true},
			{Name: "who", Type: discordgo.ApplicationCommandOptionUser, Value: "1001"},
			{Name: "where", Type: discordgo.ApplicationCommandOptionChannel, Value: "2002"},
			{Name: "role", Type: discordgo.ApplicationCommandOptionRole, Value: "3003"},
			{Name: "target", Type: discordgo.ApplicationCommandOptionMentionable, Value: "4004"},
			{Name: "offset", Type: discordgo.ApplicationCommandOptionNumber, Value: 1.5},
		},
	}

	opts := interactionOptions(cmd, data)

	assert.Equal(t, map[string]OptionValue{
		"note":   StringValue("soon"),
		"count":  IntegerValue(3),
		"silent": BooleanValue(true),
		"who":    UserValue("1001"),
		"where":  ChannelValue("2002"),
		"role":   RoleValue("3003"),
		"target": MentionableValue("4004"),
		"offset": NumberValue(1.5),
	}, opts.Options)
}

func TestInteractionOptionsSkipsUnknownKinds(t *testing.T) {
	cmd := &Command{Names: []string{"remind"}, Description: "set a reminder"}
	data := discordgo.ApplicationCommandInteractionData{
		Name: "remind",
		Options: []*discordgo.ApplicationCommandInteractionDataOption{
			{Name: "file", Type: discordgo.ApplicationCommandOptionAttachment, Value: "att-1"},
			{Name: "time", Type: discordgo.ApplicationCommandOptionString, Value: "10m"},
		},
	}

	opts := interactionOptions(cmd, data)

	_, ok := opts.Get("file")
	assert.False(t, ok, "unhandled kinds are omitted, not an error")
	v, ok := opts.GetString("time")
	require.True(t, ok)
	assert.Equal(t, "10m", v)
}

func TestInteractionOptionsSkipsMalformedReferencePayloads(t *testing.T) {
	cmd := &Command{Names: []string{"remind"}, Description: "set a reminder"}
	data := discordgo.ApplicationCommandInteractionData{
		Name: "remind",
		Options: []*discordgo.ApplicationCommandInteractionDataOption{
			{Name: "who", Type: discordgo.ApplicationCommandOptionUser, Value: float64(42)},
			{Name: "where", Type: discordgo.ApplicationCommandOptionChannel, Value: nil},
			{Name: "time", Type: discordgo.ApplicationCommandOptionString, Value: "10m"},
		},
	}

	opts := interactionOptions(cmd, data)

	_, ok := opts.Get("who")
	assert.False(t, ok, "a non-string reference payload is omitted, not a panic")
	_, ok = opts.Get("where")
	assert.False(t, ok)
	v, ok := opts.GetString("time")
	require.True(t, ok)
	assert.Equal(t, "10m", v)
}

func TestTextOptionsCarryOpaqueTail(t *testing.T) {
	cmd := &Command{Names: []string{"remind"}, Description: "set a reminder"}

	opts := TextOptions(cmd, "me in 2 hours to stretch")

	assert.Equal(t, "remind", opts.Command)
	assert.Equal(t, "me in 2 hours to stretch", opts.Args())
	assert.Len(t, opts.Options, 1, "the tail stays a single opaque option")
}

func TestOptionAccessors(t *testing.T) {
	opts := CommandOptions{Options: map[string]OptionValue{
		"time":   StringValue("10m"),
		"count":  IntegerValue(7),
		"silent": BooleanValue(true),
		"where":  ChannelValue("2002"),
		"who":    UserValue("1001"),
		"offset": NumberValue(0.5),
	}}

	n, ok := opts.GetInt("count")
	require.True(t, ok)
	assert.EqualValues(t, 7, n)

	_, ok = opts.GetInt("time")
	assert.False(t, ok, "kind mismatch is a miss, not a coercion")

	b, ok := opts.GetBool("silent")
	require.True(t, ok)
	assert.True(t, b)

	ch, ok := opts.GetChannel("where")
	require.True(t, ok)
	assert.Equal(t, "2002", ch)

	u, ok := opts.GetUser("who")
	require.True(t, ok)
	assert.Equal(t, "1001", u)

	s, ok := opts.GetString("offset")
	require.True(t, ok)
	assert.Equal(t, "0.5", s)

	_, ok = opts.Get("missing")
	assert.False(t, ok)
}

func TestCommandOptionsJSONRoundTrip(t *testing.T) {
	original := CommandOptions{
		Command:         "todo",
		Subcommand:      "add",
		SubcommandGroup: "guild",
		Options: map[string]OptionValue{
			"task":     StringValue("water plants"),
			"position": IntegerValue(2),
			"silent":   BooleanValue(false),
			"who":      UserValue("1001"),
			"offset":   NumberValue(1.25),
		},
	}

	raw, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded CommandOptions
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, original, decoded)
}
