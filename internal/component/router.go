// Package component routes message component callbacks by their custom id.
// Custom ids are "name:arg:arg..."; the part before the first colon selects
// the handler. This sits outside the command dispatch core on purpose:
// component callbacks carry opaque identifiers, not command invocations.
package component

import (
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"github.com/NettoX75/reminder-bot/internal/framework"
)

// HandlerFunc consumes a component callback through the same invocation
// handle commands use.
type HandlerFunc func(inv *framework.Invoke, args []string) error

// Router maps custom-id names to handlers. Register everything at startup;
// Dispatch is called concurrently and never mutates the map.
type Router struct {
	handlers map[string]HandlerFunc
}

func NewRouter() *Router {
	return &Router{handlers: make(map[string]HandlerFunc)}
}

// Handle registers fn for custom ids starting with name.
func (r *Router) Handle(name string, fn HandlerFunc) {
	r.handlers[name] = fn
}

// Dispatch resolves and runs the handler for the callback's custom id.
// Unknown ids are dropped; stale components outlive their handlers all the
// time and are not worth an error.
func (r *Router) Dispatch(s *discordgo.Session, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID
	name, rest, _ := strings.Cut(customID, ":")

	fn, ok := r.handlers[name]
	if !ok {
		log.Debug().Str("custom_id", customID).Msg("no handler for component callback")
		return
	}

	var args []string
	if rest != "" {
		args = strings.Split(rest, ":")
	}

	inv := framework.NewComponentInvoke(s, i)
	if err := fn(inv, args); err != nil {
		log.Error().Err(err).Str("custom_id", customID).Msg("component handler failed")
	}
}
