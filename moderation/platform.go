package moderation

import (
	"sentinel-bot/model"

	"github.com/bwmarrin/discordgo"
)

// Platform is the subset of Discord operations the sanction engine needs.
// bot.SessionPlatform implements it over a live session; tests substitute a
// fake. Calls are blocking I/O with a bounded timeout on the real
// implementation.
type Platform interface {
	// IsConnected reports whether the gateway connection is currently up.
	// The scheduler skips a tick entirely while disconnected, since reversal
	// success cannot be verified.
	IsConnected() bool

	// CurrentUserID and CurrentUserName identify the bot's own automation
	// account. Used to attribute automatic reversals and to avoid
	// double-logging actions the bot itself performed.
	CurrentUserID() string
	CurrentUserName() string

	User(userID string) (*discordgo.User, error)
	Bans(guildID string) ([]*discordgo.GuildBan, error)
	Unban(guildID, userID string) error
	Member(guildID, userID string) (*discordgo.Member, error)
	GrantRole(guildID, userID, roleID string) error
	RevokeRole(guildID, userID, roleID string) error
	AuditLog(guildID string, actionType, limit int) ([]*discordgo.AuditLogEntry, error)
}

// ConfigProvider exposes the externally mutable moderation settings. The
// engine calls it on every tick and event instead of caching at startup.
type ConfigProvider interface {
	ModerationConfig() model.ModerationConfig
}

// Notifier receives fire-and-forget notifications when an infraction is
// logged. Failures must never propagate back into the ledger.
type Notifier interface {
	InfractionLogged(inf *model.Infraction)
}
