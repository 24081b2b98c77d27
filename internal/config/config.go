package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config carries everything the bot reads from the environment. A .env file
// is honored when present; real environment variables win.
type Config struct {
	DiscordToken string `env:"DISCORD_TOKEN,required"`
	// ClientID is the bot's application id; mention triggers match on it.
	ClientID string `env:"DISCORD_CLIENT_ID,required"`

	DefaultPrefix   string `env:"DEFAULT_PREFIX" envDefault:"$"`
	CaseInsensitive bool   `env:"CASE_INSENSITIVE" envDefault:"true"`
	IgnoreBots      bool   `env:"IGNORE_BOTS" envDefault:"true"`
	DMEnabled       bool   `env:"DM_ENABLED" envDefault:"true"`

	// DebugGuild restricts slash catalog publication to one guild during
	// development; empty publishes globally.
	DebugGuild string `env:"DEBUG_GUILD"`

	LocalTimezone string `env:"LOCAL_TIMEZONE" envDefault:"UTC"`
	ThemeColor    int    `env:"THEME_COLOR" envDefault:"9418359"`

	StoragePath string `env:"STORAGE_PATH" envDefault:"reminderbot.json"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE"`
}

// Load reads .env (if any) and parses the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using system environment")
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
