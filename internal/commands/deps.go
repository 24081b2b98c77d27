// Package commands contains the bot's command set. Each constructor returns
// an immutable descriptor wired to its dependencies; All assembles the full
// catalog in registration order.
package commands

import (
	"github.com/NettoX75/reminder-bot/internal/config"
	"github.com/NettoX75/reminder-bot/internal/framework"
	"github.com/NettoX75/reminder-bot/internal/hooks"
	"github.com/NettoX75/reminder-bot/internal/macros"
	"github.com/NettoX75/reminder-bot/internal/storage"
)

// Deps carries what command bodies need at run time.
type Deps struct {
	Config   *config.Config
	Store    *storage.Storage
	Recorder *macros.Recorder

	// Framework is set after Build; macro replay re-enters dispatch
	// through it.
	Framework *framework.Framework
}

// All returns every command the bot registers.
func All(d *Deps) []*framework.Command {
	blacklist := hooks.ChannelBlacklist(d.Store)
	return []*framework.Command{
		Info(d),
		Donate(d),
		Dashboard(d),
		Clock(d),
		Remind(d, blacklist),
		Look(d, blacklist),
		Del(d, blacklist),
		Timer(d),
		Todo(d, blacklist),
		Prefix(d),
		Timezone(d),
		Restrict(d),
		Macro(d),
	}
}
