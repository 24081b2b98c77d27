// Package bot owns the Discord session: it opens the gateway, routes events
// into the command framework and the component router, and publishes the
// slash command catalog once the session is ready.
package bot

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"github.com/NettoX75/reminder-bot/internal/component"
	"github.com/NettoX75/reminder-bot/internal/config"
	"github.com/NettoX75/reminder-bot/internal/framework"
)

type Bot struct {
	dg     *discordgo.Session
	cfg    *config.Config
	fw     *framework.Framework
	router *component.Router
}

func New(cfg *config.Config, fw *framework.Framework, router *component.Router) *Bot {
	return &Bot{cfg: cfg, fw: fw, router: router}
}

// Run opens the gateway session and blocks until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	dg, err := discordgo.New("Bot " + b.cfg.DiscordToken)
	if err != nil {
		return fmt.Errorf("creating session: %w", err)
	}
	b.dg = dg

	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent

	dg.AddHandler(b.onReady)
	dg.AddHandler(b.onGuildCreate)
	dg.AddHandler(b.onMessageCreate)
	dg.AddHandler(b.onInteractionCreate)

	if err := dg.Open(); err != nil {
		return fmt.Errorf("opening gateway session: %w", err)
	}
	defer dg.Close()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received, closing session")
	return nil
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	log.Info().
		Str("user", r.User.Username).
		Int("guilds", len(r.Guilds)).
		Msg("gateway session ready")

	if err := s.UpdateWatchStatus(0, "for /remind"); err != nil {
		log.Warn().Err(err).Msg("failed to set activity")
	}

	go func() {
		if err := b.fw.PublishCatalog(context.Background(), s); err != nil {
			log.Error().Err(err).Msg("failed to publish command catalog")
		}
	}()
}

func (b *Bot) onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	log.Debug().Str("guild", g.ID).Str("name", g.Name).Msg("guild available")
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	b.fw.DispatchMessage(s, m)
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		// Slash invocations outside a guild are dropped; DM usage goes
		// through the text trigger path.
		if i.GuildID == "" {
			return
		}
		b.fw.Execute(s, i)
	case discordgo.InteractionMessageComponent:
		b.router.Dispatch(s, i)
	}
}
