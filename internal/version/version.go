package version

// Overridden at build time via -ldflags.
var (
	AppName = "reminder-bot"
	Version = "dev"
)
