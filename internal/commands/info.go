package commands

import (
	"fmt"
	"time"

	"github.com/NettoX75/reminder-bot/internal/framework"
	"github.com/NettoX75/reminder-bot/internal/version"
)

const (
	inviteURL    = "https://invite.reminder-bot.com"
	dashboardURL = "https://reminder-bot.com/dashboard"
	donateURL    = "https://patreon.com/jellywx"
)

// Info describes the bot and links its surfaces.
func Info(d *Deps) *framework.Command {
	return &framework.Command{
		Names:       []string{"info", "help"},
		Description: "Get information about the bot",
		Examples:    []string{"$info"},
		Group:       "info",
		SupportsDM:  true,
		MultiFunc: func(inv *framework.Invoke) error {
			prefix := d.Config.DefaultPrefix
			if guildID := inv.GuildID(); guildID != "" {
				if p := d.Store.GuildPrefix(guildID); p != "" {
					prefix = p
				}
			}

			emb := d.newEmbed().
				SetTitle(fmt.Sprintf("%s %s", version.AppName, version.Version)).
				SetDescription(fmt.Sprintf(
					"Default prefix: `%s`\nReminders and todo lists for your server. Use `/remind` to get started.", prefix)).
				AddField("Invite", inviteURL).
				AddField("Dashboard", dashboardURL).
				MessageEmbed
			return inv.Respond(framework.NewResponse().Embed(emb))
		},
	}
}

// Donate links the project's funding page.
func Donate(d *Deps) *framework.Command {
	return &framework.Command{
		Names:       []string{"donate"},
		Description: "Details on supporting the bot's development",
		Group:       "info",
		SupportsDM:  true,
		MultiFunc: func(inv *framework.Invoke) error {
			emb := d.newEmbed().
				SetTitle("Donate").
				SetDescription(fmt.Sprintf("Keeping the bot running is not free. If you want to help out, head to %s. Thank you!", donateURL)).
				MessageEmbed
			return inv.Respond(framework.NewResponse().Embed(emb))
		},
	}
}

// Dashboard links the web dashboard.
func Dashboard(d *Deps) *framework.Command {
	return &framework.Command{
		Names:       []string{"dashboard"},
		Description: "Get a link to the web dashboard",
		Group:       "info",
		SupportsDM:  true,
		MultiFunc: func(inv *framework.Invoke) error {
			return replyText(inv, dashboardURL)
		},
	}
}

// Clock shows the current time in the guild's configured timezone.
func Clock(d *Deps) *framework.Command {
	return &framework.Command{
		Names:       []string{"clock", "time"},
		Description: "Check the current time in the server's timezone",
		Examples:    []string{"$clock"},
		Group:       "info",
		SupportsDM:  true,
		MultiFunc: func(inv *framework.Invoke) error {
			tz := d.guildTimezone(inv.GuildID())
			loc, err := time.LoadLocation(tz)
			if err != nil {
				return replyEphemeral(inv, fmt.Sprintf("The configured timezone `%s` is not valid. Set a new one with `/timezone`.", tz))
			}
			now := time.Now().In(loc)
			return replyText(inv, fmt.Sprintf("Time in **%s**: `%s`", tz, now.Format("15:04:05, Mon 2 Jan")))
		},
	}
}
