package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/NettoX75/reminder-bot/internal/bot"
	"github.com/NettoX75/reminder-bot/internal/commands"
	"github.com/NettoX75/reminder-bot/internal/component"
	"github.com/NettoX75/reminder-bot/internal/config"
	"github.com/NettoX75/reminder-bot/internal/framework"
	"github.com/NettoX75/reminder-bot/internal/hooks"
	"github.com/NettoX75/reminder-bot/internal/logging"
	"github.com/NettoX75/reminder-bot/internal/macros"
	"github.com/NettoX75/reminder-bot/internal/storage"
	"github.com/NettoX75/reminder-bot/internal/version"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Setup(cfg.LogLevel, cfg.LogFile)
	log.Info().Str("version", version.Version).Msgf("starting %s", version.AppName)

	store, err := storage.New(cfg.StoragePath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open storage")
	}
	defer store.Close()

	recorder := macros.NewRecorder()
	deps := &commands.Deps{
		Config:   cfg,
		Store:    store,
		Recorder: recorder,
	}

	fw := framework.New(cfg.ClientID).
		DefaultPrefix(cfg.DefaultPrefix).
		CaseInsensitive(cfg.CaseInsensitive).
		IgnoreBots(cfg.IgnoreBots).
		DMEnabled(cfg.DMEnabled).
		DebugGuild(cfg.DebugGuild).
		GuildPrefix(store.GuildPrefix).
		AddHook(hooks.SelfPermissions()).
		AddHook(hooks.MacroCheck(recorder))
	for _, cmd := range commands.All(deps) {
		fw.AddCommand(cmd)
	}
	fw.Build()
	deps.Framework = fw

	router := component.NewRouter()
	router.Handle("reminders", func(inv *framework.Invoke, args []string) error {
		if len(args) > 0 && args[0] == "delete" {
			for _, id := range inv.ComponentValues() {
				if _, err := store.DeleteReminder(inv.GuildID(), id); err != nil {
					return err
				}
			}
		}
		resp, err := deps.ReminderList(inv.GuildID(), inv.ChannelID())
		if err != nil {
			return err
		}
		return inv.Respond(resp)
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- bot.New(cfg, fw, router).Run(ctx)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Info().Str("signal", s.String()).Msg("shutting down")
		cancel()
		<-errCh
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("bot exited with error")
		}
		cancel()
	}

	log.Info().Msg("bot exited cleanly")
}
