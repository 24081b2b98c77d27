// Package hooks provides the pre-dispatch interceptors registered on the
// framework: self-permission checks, the macro recording side-channel and
// per-channel blacklisting.
package hooks

import (
	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"github.com/NettoX75/reminder-bot/internal/framework"
	"github.com/NettoX75/reminder-bot/internal/macros"
	"github.com/NettoX75/reminder-bot/internal/storage"
)

const neededPermissions = discordgo.PermissionSendMessages | discordgo.PermissionEmbedLinks

// SelfPermissions halts dispatch when the bot cannot actually reply in the
// channel, telling the user the one thing it still can say (an ephemeral
// interaction response does not need channel permissions).
func SelfPermissions() *framework.Hook {
	return framework.NewHook(func(inv *framework.Invoke, opts *framework.CommandOptions) framework.HookResult {
		if inv.GuildID() == "" {
			return framework.Continue
		}
		s := inv.Session()
		if s == nil || s.State == nil || s.State.User == nil {
			return framework.Continue
		}

		perms, err := s.UserChannelPermissions(s.State.User.ID, inv.ChannelID())
		if err != nil {
			log.Warn().Err(err).Str("channel", inv.ChannelID()).Msg("could not resolve own permissions")
			return framework.Continue
		}
		if perms&neededPermissions == neededPermissions {
			return framework.Continue
		}

		resp := framework.NewResponse().
			Content("I need the **Send Messages** and **Embed Links** permissions in this channel before I can do that.").
			Ephemeral()
		if err := inv.Respond(resp); err != nil {
			log.Warn().Err(err).Msg("failed to report missing permissions")
		}
		return framework.Halt
	})
}

// MacroCheck intercepts dispatch while the invoking user is recording a
// macro in the guild: the normalized options are captured instead of
// executed. The macro command itself stays live so the recording can be
// finished.
func MacroCheck(rec *macros.Recorder) *framework.Hook {
	return framework.NewHook(func(inv *framework.Invoke, opts *framework.CommandOptions) framework.HookResult {
		guildID := inv.GuildID()
		if guildID == "" || opts.Command == "macro" {
			return framework.Continue
		}
		if !rec.Capture(guildID, inv.AuthorID(), *opts) {
			return framework.Continue
		}

		resp := framework.NewResponse().
			Content("Command recorded to macro. Run `/macro finish` when you are done.").
			Ephemeral()
		if err := inv.Respond(resp); err != nil {
			log.Warn().Err(err).Msg("failed to acknowledge macro capture")
		}
		return framework.Halt
	})
}

// ChannelBlacklist halts dispatch in blacklisted channels. Attached
// per-command; commands that are blacklist-exempt simply never carry it.
func ChannelBlacklist(store *storage.Storage) *framework.Hook {
	return framework.NewHook(func(inv *framework.Invoke, opts *framework.CommandOptions) framework.HookResult {
		guildID := inv.GuildID()
		if guildID == "" {
			return framework.Continue
		}
		if store.IsChannelBlacklisted(guildID, inv.ChannelID()) {
			return framework.Halt
		}
		return framework.Continue
	})
}
