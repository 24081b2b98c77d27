package framework

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

// OptionValue is a closed union over the leaf value kinds a command option
// can carry. The set is fixed; adding a kind means touching every switch
// that consumes it.
type OptionValue interface {
	isOptionValue()
	String() string
}

type StringValue string
type IntegerValue int64
type BooleanValue bool

// UserValue, ChannelValue, RoleValue and MentionableValue hold the raw
// snowflake of the referenced entity.
type UserValue string
type ChannelValue string
type RoleValue string
type MentionableValue string
type NumberValue float64

func (StringValue) isOptionValue()      {}
func (IntegerValue) isOptionValue()     {}
func (BooleanValue) isOptionValue()     {}
func (UserValue) isOptionValue()        {}
func (ChannelValue) isOptionValue()     {}
func (RoleValue) isOptionValue()        {}
func (MentionableValue) isOptionValue() {}
func (NumberValue) isOptionValue()      {}

func (v StringValue) String() string      { return string(v) }
func (v IntegerValue) String() string     { return strconv.FormatInt(int64(v), 10) }
func (v BooleanValue) String() string     { return strconv.FormatBool(bool(v)) }
func (v UserValue) String() string        { return string(v) }
func (v ChannelValue) String() string     { return string(v) }
func (v RoleValue) String() string        { return string(v) }
func (v MentionableValue) String() string { return string(v) }
func (v NumberValue) String() string      { return strconv.FormatFloat(float64(v), 'f', -1, 64) }

// CommandOptions is the uniform invocation payload both trigger types
// normalize into.
type CommandOptions struct {
	Command         string
	Subcommand      string
	SubcommandGroup string
	Options         map[string]OptionValue
}

// Get returns the leaf option stored under key.
func (o CommandOptions) Get(key string) (OptionValue, bool) {
	v, ok := o.Options[key]
	return v, ok
}

// GetString returns the option under key rendered as a string.
func (o CommandOptions) GetString(key string) (string, bool) {
	v, ok := o.Options[key]
	if !ok {
		return "", false
	}
	return v.String(), true
}

// GetInt returns the option under key if it is an integer.
func (o CommandOptions) GetInt(key string) (int64, bool) {
	if v, ok := o.Options[key].(IntegerValue); ok {
		return int64(v), true
	}
	return 0, false
}

// GetBool returns the option under key if it is a boolean.
func (o CommandOptions) GetBool(key string) (bool, bool) {
	if v, ok := o.Options[key].(BooleanValue); ok {
		return bool(v), true
	}
	return false, false
}

// GetChannel returns the channel snowflake under key if present.
func (o CommandOptions) GetChannel(key string) (string, bool) {
	if v, ok := o.Options[key].(ChannelValue); ok {
		return string(v), true
	}
	return "", false
}

// GetUser returns the user snowflake under key if present.
func (o CommandOptions) GetUser(key string) (string, bool) {
	if v, ok := o.Options[key].(UserValue); ok {
		return string(v), true
	}
	return "", false
}

// TextArgsKey is the single option key the text trigger path populates.
const TextArgsKey = "args"

// Args returns the raw text tail for invocations that came in as messages.
func (o CommandOptions) Args() string {
	if v, ok := o.Options[TextArgsKey].(StringValue); ok {
		return string(v)
	}
	return ""
}

// interactionOptions flattens a slash interaction's option tree. Subcommand
// and group nodes set their names and recurse; every other recognized node
// becomes a leaf in the map. Required-ness has already been enforced by the
// platform, so no validation happens here.
func interactionOptions(cmd *Command, data discordgo.ApplicationCommandInteractionData) CommandOptions {
	opts := CommandOptions{
		Command: cmd.Name(),
		Options: make(map[string]OptionValue),
	}
	for _, o := range data.Options {
		walkOption(o, &opts)
	}
	return opts
}

func walkOption(o *discordgo.ApplicationCommandInteractionDataOption, out *CommandOptions) {
	switch o.Type {
	case discordgo.ApplicationCommandOptionSubCommand:
		out.Subcommand = o.Name
		for _, sub := range o.Options {
			walkOption(sub, out)
		}
	case discordgo.ApplicationCommandOptionSubCommandGroup:
		out.SubcommandGroup = o.Name
		for _, sub := range o.Options {
			walkOption(sub, out)
		}
	case discordgo.ApplicationCommandOptionString:
		out.Options[o.Name] = StringValue(o.StringValue())
	case discordgo.ApplicationCommandOptionInteger:
		out.Options[o.Name] = IntegerValue(o.IntValue())
	case discordgo.ApplicationCommandOptionBoolean:
		out.Options[o.Name] = BooleanValue(o.BoolValue())
	case discordgo.ApplicationCommandOptionUser, discordgo.ApplicationCommandOptionChannel,
		discordgo.ApplicationCommandOptionRole, discordgo.ApplicationCommandOptionMentionable:
		id, ok := o.Value.(string)
		if !ok {
			log.Debug().Str("option", o.Name).Int("kind", int(o.Type)).Msg("skipping reference option with non-string payload")
			return
		}
		switch o.Type {
		case discordgo.ApplicationCommandOptionUser:
			out.Options[o.Name] = UserValue(id)
		case discordgo.ApplicationCommandOptionChannel:
			out.Options[o.Name] = ChannelValue(id)
		case discordgo.ApplicationCommandOptionRole:
			out.Options[o.Name] = RoleValue(id)
		case discordgo.ApplicationCommandOptionMentionable:
			out.Options[o.Name] = MentionableValue(id)
		}
	case discordgo.ApplicationCommandOptionNumber:
		out.Options[o.Name] = NumberValue(o.FloatValue())
	default:
		// Unsupported kinds (attachments, anything Discord adds later) are
		// dropped rather than failing the whole invocation.
		log.Debug().Str("option", o.Name).Int("kind", int(o.Type)).Msg("skipping option of unhandled kind")
	}
}

// TextOptions wraps a matched message tail. The tail stays opaque; commands
// that accept text triggers parse it themselves.
func TextOptions(cmd *Command, tail string) CommandOptions {
	return CommandOptions{
		Command: cmd.Name(),
		Options: map[string]OptionValue{TextArgsKey: StringValue(tail)},
	}
}

// optionEnvelope is the persisted form of an OptionValue; macros store
// CommandOptions as JSON.
type optionEnvelope struct {
	Kind  string          `json:"kind"`
	Value json.RawMessage `json:"value"`
}

type commandOptionsJSON struct {
	Command         string                    `json:"command"`
	Subcommand      string                    `json:"subcommand,omitempty"`
	SubcommandGroup string                    `json:"subcommand_group,omitempty"`
	Options         map[string]optionEnvelope `json:"options"`
}

func (o CommandOptions) MarshalJSON() ([]byte, error) {
	out := commandOptionsJSON{
		Command:         o.Command,
		Subcommand:      o.Subcommand,
		SubcommandGroup: o.SubcommandGroup,
		Options:         make(map[string]optionEnvelope, len(o.Options)),
	}
	for key, val := range o.Options {
		var kind string
		switch val.(type) {
		case StringValue:
			kind = "string"
		case IntegerValue:
			kind = "integer"
		case BooleanValue:
			kind = "boolean"
		case UserValue:
			kind = "user"
		case ChannelValue:
			kind = "channel"
		case RoleValue:
			kind = "role"
		case MentionableValue:
			kind = "mentionable"
		case NumberValue:
			kind = "number"
		default:
			return nil, fmt.Errorf("unknown option value type %T", val)
		}
		raw, err := json.Marshal(val)
		if err != nil {
			return nil, err
		}
		out.Options[key] = optionEnvelope{Kind: kind, Value: raw}
	}
	return json.Marshal(out)
}

func (o *CommandOptions) UnmarshalJSON(data []byte) error {
	var in commandOptionsJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	o.Command = in.Command
	o.Subcommand = in.Subcommand
	o.SubcommandGroup = in.SubcommandGroup
	o.Options = make(map[string]OptionValue, len(in.Options))
	for key, env := range in.Options {
		val, err := decodeOptionValue(env)
		if err != nil {
			return fmt.Errorf("option %q: %w", key, err)
		}
		o.Options[key] = val
	}
	return nil
}

func decodeOptionValue(env optionEnvelope) (OptionValue, error) {
	switch env.Kind {
	case "string":
		var v StringValue
		err := json.Unmarshal(env.Value, &v)
		return v, err
	case "integer":
		var v IntegerValue
		err := json.Unmarshal(env.Value, &v)
		return v, err
	case "boolean":
		var v BooleanValue
		err := json.Unmarshal(env.Value, &v)
		return v, err
	case "user":
		var v UserValue
		err := json.Unmarshal(env.Value, &v)
		return v, err
	case "channel":
		var v ChannelValue
		err := json.Unmarshal(env.Value, &v)
		return v, err
	case "role":
		var v RoleValue
		err := json.Unmarshal(env.Value, &v)
		return v, err
	case "mentionable":
		var v MentionableValue
		err := json.Unmarshal(env.Value, &v)
		return v, err
	case "number":
		var v NumberValue
		err := json.Unmarshal(env.Value, &v)
		return v, err
	default:
		return nil, fmt.Errorf("unknown option kind %q", env.Kind)
	}
}
