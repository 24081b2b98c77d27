package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/gofrs/uuid/v5"

	"github.com/NettoX75/reminder-bot/internal/framework"
	"github.com/NettoX75/reminder-bot/internal/storage"
)

// Remind schedules a reminder in the current channel.
func Remind(d *Deps, hooks ...*framework.Hook) *framework.Command {
	return &framework.Command{
		Names:       []string{"remind", "r"},
		Description: "Set a reminder in the current channel",
		Examples:    []string{"$remind 10m do the dishes", "$r 1h30m leave for the station"},
		Group:       "reminders",
		Args: []*framework.Arg{
			{Name: "time", Description: "How long until the reminder fires, e.g. 10m or 1h30m", Kind: discordgo.ApplicationCommandOptionString, Required: true},
			{Name: "content", Description: "What to remind you about", Kind: discordgo.ApplicationCommandOptionString, Required: true},
		},
		CanBlacklist: true,
		SupportsDM:   true,
		Hooks:        hooks,
		Func: func(inv *framework.Invoke, opts framework.CommandOptions) error {
			when, content, ok := remindArgs(opts)
			if !ok {
				return replyEphemeral(inv, "Tell me when and what: `/remind 10m do the dishes`.")
			}
			dur, err := time.ParseDuration(when)
			if err != nil || dur <= 0 {
				return replyEphemeral(inv, fmt.Sprintf("I could not read `%s` as a delay. Try something like `10m` or `1h30m`.", when))
			}

			now := time.Now()
			r := storage.Reminder{
				ID:        uuid.Must(uuid.NewV4()).String(),
				ChannelID: inv.ChannelID(),
				UserID:    inv.AuthorID(),
				Content:   content,
				At:        now.Add(dur),
				CreatedAt: now,
			}
			if err := d.Store.AddReminder(inv.GuildID(), r); err != nil {
				return fmt.Errorf("storing reminder: %w", err)
			}
			return replyText(inv, fmt.Sprintf("Reminder set for <t:%d:R>: %s", r.At.Unix(), r.Content))
		},
	}
}

// remindArgs pulls time and content from structured options, falling back to
// splitting the text tail on its first field.
func remindArgs(opts framework.CommandOptions) (when, content string, ok bool) {
	when, whenOK := opts.GetString("time")
	content, contentOK := opts.GetString("content")
	if whenOK && contentOK {
		return when, content, true
	}

	tail := strings.TrimSpace(opts.Args())
	when, content, found := strings.Cut(tail, " ")
	if !found || when == "" {
		return "", "", false
	}
	return when, strings.TrimSpace(content), true
}

// Look lists the pending reminders of the current channel.
func Look(d *Deps, hooks ...*framework.Hook) *framework.Command {
	return &framework.Command{
		Names:        []string{"look", "list"},
		Description:  "View reminders set in the current channel",
		Examples:     []string{"$look"},
		Group:        "reminders",
		CanBlacklist: true,
		SupportsDM:   true,
		Hooks:        hooks,
		MultiFunc: func(inv *framework.Invoke) error {
			resp, err := d.ReminderList(inv.GuildID(), inv.ChannelID())
			if err != nil {
				return err
			}
			return inv.Respond(resp)
		},
	}
}

// ReminderList renders the channel's reminders with a refresh button and a
// deletion selector. The component router reuses it to re-render in place.
func (d *Deps) ReminderList(guildID, channelID string) (*framework.Response, error) {
	reminders, err := d.Store.Reminders(guildID, channelID)
	if err != nil {
		return nil, fmt.Errorf("listing reminders: %w", err)
	}

	emb := d.newEmbed().SetTitle("Reminders in this channel")
	if len(reminders) == 0 {
		emb.SetDescription("No reminders here. Set one with `/remind`.")
	}
	for _, r := range reminders {
		emb.AddField(fmt.Sprintf("<t:%d:R>", r.At.Unix()), fmt.Sprintf("%s\n`%s`", r.Content, r.ID))
	}

	resp := framework.NewResponse().Embed(emb.Truncate().MessageEmbed)
	resp.Components(discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.Button{
				Label:    "Refresh",
				Style:    discordgo.SecondaryButton,
				CustomID: "reminders:refresh",
			},
		},
	})

	if n := min(len(reminders), 25); n > 0 {
		options := make([]discordgo.SelectMenuOption, 0, n)
		for _, r := range reminders[:n] {
			options = append(options, discordgo.SelectMenuOption{
				Label:       truncateLabel(r.Content, 100),
				Value:       r.ID,
				Description: r.At.UTC().Format("15:04, Mon 2 Jan"),
			})
		}
		resp.Components(discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.SelectMenu{
					CustomID:    "reminders:delete",
					Placeholder: "Delete a reminder",
					Options:     options,
				},
			},
		})
	}
	return resp, nil
}

func truncateLabel(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

// Del deletes a reminder by id.
func Del(d *Deps, hooks ...*framework.Hook) *framework.Command {
	return &framework.Command{
		Names:       []string{"del"},
		Description: "Delete a reminder by its id",
		Examples:    []string{"$del 4b6ae70d-…"},
		Group:       "reminders",
		Args: []*framework.Arg{
			{Name: "id", Description: "Reminder id, as shown by /look", Kind: discordgo.ApplicationCommandOptionString, Required: true},
		},
		CanBlacklist: true,
		SupportsDM:   true,
		Hooks:        hooks,
		Func: func(inv *framework.Invoke, opts framework.CommandOptions) error {
			id, ok := opts.GetString("id")
			if !ok {
				id = strings.TrimSpace(opts.Args())
			}
			if id == "" {
				return replyEphemeral(inv, "Which reminder? Pass the id shown by `/look`.")
			}

			deleted, err := d.Store.DeleteReminder(inv.GuildID(), id)
			if err != nil {
				return fmt.Errorf("deleting reminder: %w", err)
			}
			if !deleted {
				return replyEphemeral(inv, fmt.Sprintf("No reminder with id `%s` here.", id))
			}
			return replyText(inv, "Reminder deleted.")
		},
	}
}

// Timer manages named stopwatches.
func Timer(d *Deps) *framework.Command {
	return &framework.Command{
		Names:       []string{"timer"},
		Description: "Start, list and stop named timers",
		Examples:    []string{"$timer start pasta", "$timer stop pasta"},
		Group:       "reminders",
		Args: []*framework.Arg{
			{Name: "start", Description: "Start a new timer", Kind: discordgo.ApplicationCommandOptionSubCommand, Options: []*framework.Arg{
				{Name: "name", Description: "Name for the timer", Kind: discordgo.ApplicationCommandOptionString, Required: true},
			}},
			{Name: "list", Description: "List your running timers", Kind: discordgo.ApplicationCommandOptionSubCommand},
			{Name: "stop", Description: "Stop a timer and show its elapsed time", Kind: discordgo.ApplicationCommandOptionSubCommand, Options: []*framework.Arg{
				{Name: "name", Description: "Name of the timer to stop", Kind: discordgo.ApplicationCommandOptionString, Required: true},
			}},
		},
		SupportsDM: true,
		Func: func(inv *framework.Invoke, opts framework.CommandOptions) error {
			sub, arg := timerArgs(opts)
			guildID, userID := inv.GuildID(), inv.AuthorID()

			switch sub {
			case "start":
				if arg == "" {
					return replyEphemeral(inv, "Give the timer a name: `/timer start pasta`.")
				}
				t := storage.Timer{Name: arg, UserID: userID, StartedAt: time.Now()}
				if err := d.Store.StartTimer(guildID, t); err != nil {
					return fmt.Errorf("starting timer: %w", err)
				}
				return replyText(inv, fmt.Sprintf("Timer **%s** started.", arg))

			case "list":
				timers, err := d.Store.Timers(guildID, userID)
				if err != nil {
					return fmt.Errorf("listing timers: %w", err)
				}
				if len(timers) == 0 {
					return replyText(inv, "You have no running timers.")
				}
				var b strings.Builder
				for _, t := range timers {
					fmt.Fprintf(&b, "**%s**: %s\n", t.Name, time.Since(t.StartedAt).Round(time.Second))
				}
				return inv.Respond(framework.NewResponse().Embed(
					d.newEmbed().SetTitle("Your timers").SetDescription(b.String()).MessageEmbed))

			case "stop":
				t, found, err := d.Store.StopTimer(guildID, userID, arg)
				if err != nil {
					return fmt.Errorf("stopping timer: %w", err)
				}
				if !found {
					return replyEphemeral(inv, fmt.Sprintf("You have no timer named **%s**.", arg))
				}
				return replyText(inv, fmt.Sprintf("Timer **%s** stopped at %s.", t.Name, time.Since(t.StartedAt).Round(time.Second)))

			default:
				return replyEphemeral(inv, "Use `/timer start`, `/timer list` or `/timer stop`.")
			}
		},
	}
}

// timerArgs resolves the subcommand and name from structured options or the
// text tail ("start pasta").
func timerArgs(opts framework.CommandOptions) (sub, name string) {
	if opts.Subcommand != "" {
		name, _ = opts.GetString("name")
		return opts.Subcommand, name
	}
	sub, name, _ = strings.Cut(strings.TrimSpace(opts.Args()), " ")
	return sub, strings.TrimSpace(name)
}
