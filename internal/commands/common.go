package commands

import (
	embed "github.com/Clinet/discordgo-embed"

	"github.com/NettoX75/reminder-bot/internal/framework"
)

func (d *Deps) newEmbed() *embed.Embed {
	return embed.NewEmbed().SetColor(d.Config.ThemeColor)
}

func replyText(inv *framework.Invoke, text string) error {
	return inv.Respond(framework.NewResponse().Content(text))
}

func replyEphemeral(inv *framework.Invoke, text string) error {
	return inv.Respond(framework.NewResponse().Content(text).Ephemeral())
}

// guildTimezone resolves the timezone commands render times in: the guild's
// configured zone, falling back to the process default.
func (d *Deps) guildTimezone(guildID string) string {
	if tz := d.Store.GuildTimezone(guildID); tz != "" {
		return tz
	}
	return d.Config.LocalTimezone
}
