package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"github.com/NettoX75/reminder-bot/internal/framework"
	"github.com/NettoX75/reminder-bot/internal/storage"
)

// requireManager reports whether the invoking user may change guild
// settings. Interactions carry resolved member permissions; the text path
// falls back to a state lookup.
func requireManager(inv *framework.Invoke) bool {
	if m := inv.Member(); m != nil && m.Permissions&discordgo.PermissionManageServer != 0 {
		return true
	}
	s := inv.Session()
	if s == nil {
		return false
	}
	perms, err := s.UserChannelPermissions(inv.AuthorID(), inv.ChannelID())
	if err != nil {
		log.Warn().Err(err).Str("user", inv.AuthorID()).Msg("could not resolve member permissions")
		return false
	}
	return perms&discordgo.PermissionManageServer != 0
}

const manageDenied = "You need the **Manage Server** permission to do that."

// Prefix sets the guild's text command prefix.
func Prefix(d *Deps) *framework.Command {
	return &framework.Command{
		Names:       []string{"prefix"},
		Description: "Change the prefix for text commands",
		Examples:    []string{"$prefix !"},
		Group:       "moderation",
		Args: []*framework.Arg{
			{Name: "new", Description: "The new prefix, up to 5 characters", Kind: discordgo.ApplicationCommandOptionString, Required: true},
		},
		Func: func(inv *framework.Invoke, opts framework.CommandOptions) error {
			if inv.GuildID() == "" {
				return replyEphemeral(inv, "Prefixes only apply in servers.")
			}
			if !requireManager(inv) {
				return replyEphemeral(inv, manageDenied)
			}

			prefix, ok := opts.GetString("new")
			if !ok {
				prefix = strings.TrimSpace(opts.Args())
			}
			if prefix == "" || len(prefix) > 5 {
				return replyEphemeral(inv, "The prefix must be between 1 and 5 characters.")
			}
			if err := d.Store.SetGuildPrefix(inv.GuildID(), prefix); err != nil {
				return fmt.Errorf("setting prefix: %w", err)
			}
			return replyText(inv, fmt.Sprintf("Text command prefix is now `%s`.", prefix))
		},
	}
}

// Timezone sets the guild's display timezone.
func Timezone(d *Deps) *framework.Command {
	return &framework.Command{
		Names:       []string{"timezone"},
		Description: "Set the timezone used to display times",
		Examples:    []string{"$timezone Europe/London"},
		Group:       "moderation",
		Args: []*framework.Arg{
			{Name: "timezone", Description: "An IANA timezone name, e.g. Europe/London", Kind: discordgo.ApplicationCommandOptionString, Required: true},
		},
		Func: func(inv *framework.Invoke, opts framework.CommandOptions) error {
			if inv.GuildID() == "" {
				return replyEphemeral(inv, "Timezones only apply in servers.")
			}
			if !requireManager(inv) {
				return replyEphemeral(inv, manageDenied)
			}

			tz, ok := opts.GetString("timezone")
			if !ok {
				tz = strings.TrimSpace(opts.Args())
			}
			if _, err := time.LoadLocation(tz); err != nil {
				return replyEphemeral(inv, fmt.Sprintf("`%s` is not a known timezone. Use an IANA name like `Europe/London`.", tz))
			}
			if err := d.Store.SetGuildTimezone(inv.GuildID(), tz); err != nil {
				return fmt.Errorf("setting timezone: %w", err)
			}
			return replyText(inv, fmt.Sprintf("Server timezone is now **%s**.", tz))
		},
	}
}

// Restrict toggles the command blacklist for a channel.
func Restrict(d *Deps) *framework.Command {
	return &framework.Command{
		Names:       []string{"restrict", "blacklist"},
		Description: "Toggle whether commands are blocked in a channel",
		Examples:    []string{"$restrict", "$restrict #general"},
		Group:       "moderation",
		Args: []*framework.Arg{
			{Name: "channel", Description: "The channel to toggle, defaults to the current one", Kind: discordgo.ApplicationCommandOptionChannel},
		},
		Func: func(inv *framework.Invoke, opts framework.CommandOptions) error {
			if inv.GuildID() == "" {
				return replyEphemeral(inv, "Restrictions only apply in servers.")
			}
			if !requireManager(inv) {
				return replyEphemeral(inv, manageDenied)
			}

			channelID, ok := opts.GetChannel("channel")
			if !ok {
				channelID = inv.ChannelID()
			}
			blacklisted, err := d.Store.ToggleChannelBlacklist(inv.GuildID(), channelID)
			if err != nil {
				return fmt.Errorf("toggling blacklist: %w", err)
			}
			if blacklisted {
				return replyText(inv, fmt.Sprintf("Commands are now blocked in <#%s>.", channelID))
			}
			return replyText(inv, fmt.Sprintf("Commands are allowed again in <#%s>.", channelID))
		},
	}
}

// Macro records, replays and manages command macros.
func Macro(d *Deps) *framework.Command {
	return &framework.Command{
		Names:       []string{"macro"},
		Description: "Record and replay sequences of commands",
		Examples:    []string{"$macro record setup", "$macro run setup"},
		Group:       "moderation",
		Args: []*framework.Arg{
			{Name: "record", Description: "Start recording your commands", Kind: discordgo.ApplicationCommandOptionSubCommand, Options: []*framework.Arg{
				{Name: "name", Description: "Name for the macro", Kind: discordgo.ApplicationCommandOptionString, Required: true},
				{Name: "description", Description: "What the macro does", Kind: discordgo.ApplicationCommandOptionString},
			}},
			{Name: "finish", Description: "Stop recording and save the macro", Kind: discordgo.ApplicationCommandOptionSubCommand},
			{Name: "list", Description: "List this server's macros", Kind: discordgo.ApplicationCommandOptionSubCommand},
			{Name: "run", Description: "Replay a saved macro", Kind: discordgo.ApplicationCommandOptionSubCommand, Options: []*framework.Arg{
				{Name: "name", Description: "Name of the macro to run", Kind: discordgo.ApplicationCommandOptionString, Required: true},
			}},
			{Name: "delete", Description: "Delete a saved macro", Kind: discordgo.ApplicationCommandOptionSubCommand, Options: []*framework.Arg{
				{Name: "name", Description: "Name of the macro to delete", Kind: discordgo.ApplicationCommandOptionString, Required: true},
			}},
		},
		Func: func(inv *framework.Invoke, opts framework.CommandOptions) error {
			if inv.GuildID() == "" {
				return replyEphemeral(inv, "Macros only work in servers.")
			}
			if !requireManager(inv) {
				return replyEphemeral(inv, manageDenied)
			}

			sub, name := macroArgs(opts)
			guildID, userID := inv.GuildID(), inv.AuthorID()

			switch sub {
			case "record":
				if name == "" {
					return replyEphemeral(inv, "Name the macro: `/macro record setup`.")
				}
				desc, _ := opts.GetString("description")
				d.Recorder.Start(guildID, userID, name, desc)
				return replyEphemeral(inv, fmt.Sprintf("Recording **%s**. Commands you run now are captured instead of executed. Finish with `/macro finish`.", name))

			case "finish":
				recording, ok := d.Recorder.Finish(guildID, userID)
				if !ok {
					return replyEphemeral(inv, "You are not recording a macro.")
				}
				m := storage.Macro{Name: recording.Name, Description: recording.Description, Commands: recording.Commands}
				if err := d.Store.SaveMacro(guildID, m); err != nil {
					return fmt.Errorf("saving macro: %w", err)
				}
				return replyText(inv, fmt.Sprintf("Macro **%s** saved with %d command(s).", m.Name, len(m.Commands)))

			case "list":
				all, err := d.Store.Macros(guildID)
				if err != nil {
					return fmt.Errorf("listing macros: %w", err)
				}
				if len(all) == 0 {
					return replyText(inv, "This server has no macros yet.")
				}
				emb := d.newEmbed().SetTitle("Macros")
				for _, m := range all {
					desc := m.Description
					if desc == "" {
						desc = "no description"
					}
					emb.AddField(m.Name, fmt.Sprintf("%s (%d command(s))", desc, len(m.Commands)))
				}
				return inv.Respond(framework.NewResponse().Embed(emb.Truncate().MessageEmbed))

			case "run":
				m, ok, err := d.Store.Macro(guildID, name)
				if err != nil {
					return fmt.Errorf("loading macro: %w", err)
				}
				if !ok {
					return replyEphemeral(inv, fmt.Sprintf("No macro named **%s** here.", name))
				}
				if err := replyText(inv, fmt.Sprintf("Running macro **%s**.", m.Name)); err != nil {
					return err
				}
				for _, cmdOpts := range m.Commands {
					d.Framework.RunFromOptions(inv, cmdOpts)
				}
				return nil

			case "delete":
				deleted, err := d.Store.DeleteMacro(guildID, name)
				if err != nil {
					return fmt.Errorf("deleting macro: %w", err)
				}
				if !deleted {
					return replyEphemeral(inv, fmt.Sprintf("No macro named **%s** here.", name))
				}
				return replyText(inv, "Macro deleted.")

			default:
				return replyEphemeral(inv, "Use `record`, `finish`, `list`, `run` or `delete`.")
			}
		},
	}
}

func macroArgs(opts framework.CommandOptions) (sub, name string) {
	if opts.Subcommand != "" {
		name, _ = opts.GetString("name")
		return opts.Subcommand, name
	}
	sub, name, _ = strings.Cut(strings.TrimSpace(opts.Args()), " ")
	return sub, strings.TrimSpace(name)
}
