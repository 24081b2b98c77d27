package framework

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"github.com/NettoX75/reminder-bot/internal/ratelimit"
)

// ApplicationCommands derives the slash catalog from the registered
// descriptors. Pure transformation; nothing here talks to the platform.
func (f *Framework) ApplicationCommands() []*discordgo.ApplicationCommand {
	catalog := make([]*discordgo.ApplicationCommand, 0, len(f.ordered))
	for _, cmd := range f.ordered {
		catalog = append(catalog, &discordgo.ApplicationCommand{
			Name:        cmd.Name(),
			Description: cmd.Description,
			Options:     argOptions(cmd.Args, 0),
		})
	}
	return catalog
}

// argOptions maps an Arg subtree onto Discord's option schema. Discord
// accepts at most command -> subcommand(-group) -> leaf, so recursion stops
// three levels down.
func argOptions(args []*Arg, depth int) []*discordgo.ApplicationCommandOption {
	if len(args) == 0 || depth >= 3 {
		return nil
	}
	opts := make([]*discordgo.ApplicationCommandOption, 0, len(args))
	for _, arg := range args {
		opts = append(opts, &discordgo.ApplicationCommandOption{
			Name:        arg.Name,
			Description: arg.Description,
			Type:        arg.Kind,
			Required:    arg.Required,
			Options:     argOptions(arg.Options, depth+1),
		})
	}
	return opts
}

// PublishCatalog uploads the derived catalog, to the debug guild when one is
// configured and globally otherwise. Creations are paced and retried; a
// command that still fails is logged and skipped rather than blocking the
// rest.
func (f *Framework) PublishCatalog(ctx context.Context, s *discordgo.Session) error {
	var appID string
	if s.State != nil && s.State.User != nil {
		appID = s.State.User.ID
	}
	if appID == "" {
		user, err := s.User("@me")
		if err != nil {
			return fmt.Errorf("resolving application id: %w", err)
		}
		appID = user.ID
	}

	catalog := f.ApplicationCommands()
	lim := ratelimit.NewLimiter(5, 1, 20)

	log.Info().Int("commands", len(catalog)).Str("guild", f.debugGuild).Msg("publishing slash catalog")

	for _, def := range catalog {
		def := def
		err := ratelimit.WithRetry(ctx, lim, 5, func() error {
			_, err := s.ApplicationCommandCreate(appID, f.debugGuild, def)
			return err
		})
		if err != nil {
			log.Error().Err(err).Str("command", def.Name).Msg("failed to publish command")
			continue
		}
		log.Debug().Str("command", def.Name).Msg("command published")
	}
	return nil
}
