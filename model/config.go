package model

import "time"

// ModerationConfig holds the externally mutable moderation settings. It is
// re-read from the bot's current config on every scheduler tick and event,
// never cached at startup.
type ModerationConfig struct {
	MainGuildID string `mapstructure:"main_guild_id"`
	MutedRoleID string `mapstructure:"muted_role_id"`
	TickSeconds int    `mapstructure:"tick_seconds"`
	ReportCron  string `mapstructure:"report_cron"`
}

// TickInterval returns the scheduler poll interval, defaulting to 30 seconds.
func (c ModerationConfig) TickInterval() time.Duration {
	if c.TickSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TickSeconds) * time.Second
}

// Config is the full bot configuration.
type Config struct {
	BotToken         string
	AppID            string
	LogChannelID     string
	DatabasePath     string
	DeveloperUserIDs []string
	ModeratorRoleIDs []string
	Moderation       ModerationConfig
}
