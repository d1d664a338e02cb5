package bot

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
)

// Per-call timeout for platform requests issued by the sanction engine. A
// hung call must not stall the scheduler loop; expiry surfaces as a normal
// error and the record is retried next tick.
const platformCallTimeout = 15 * time.Second

// SessionPlatform adapts a live discordgo session to moderation.Platform.
type SessionPlatform struct {
	bot *Bot
}

func callContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), platformCallTimeout)
}

func (p *SessionPlatform) IsConnected() bool {
	return p.bot.IsConnected()
}

func (p *SessionPlatform) CurrentUserID() string {
	if u := p.bot.Session.State.User; u != nil {
		return u.ID
	}
	return ""
}

func (p *SessionPlatform) CurrentUserName() string {
	if u := p.bot.Session.State.User; u != nil {
		return u.Username
	}
	return ""
}

func (p *SessionPlatform) User(userID string) (*discordgo.User, error) {
	ctx, cancel := callContext()
	defer cancel()
	return p.bot.Session.User(userID, discordgo.WithContext(ctx))
}

func (p *SessionPlatform) Bans(guildID string) ([]*discordgo.GuildBan, error) {
	ctx, cancel := callContext()
	defer cancel()
	return p.bot.Session.GuildBans(guildID, 1000, "", "", discordgo.WithContext(ctx))
}

func (p *SessionPlatform) Unban(guildID, userID string) error {
	ctx, cancel := callContext()
	defer cancel()
	return p.bot.Session.GuildBanDelete(guildID, userID, discordgo.WithContext(ctx))
}

func (p *SessionPlatform) Member(guildID, userID string) (*discordgo.Member, error) {
	ctx, cancel := callContext()
	defer cancel()
	return p.bot.Session.GuildMember(guildID, userID, discordgo.WithContext(ctx))
}

func (p *SessionPlatform) GrantRole(guildID, userID, roleID string) error {
	ctx, cancel := callContext()
	defer cancel()
	return p.bot.Session.GuildMemberRoleAdd(guildID, userID, roleID, discordgo.WithContext(ctx))
}

func (p *SessionPlatform) RevokeRole(guildID, userID, roleID string) error {
	ctx, cancel := callContext()
	defer cancel()
	return p.bot.Session.GuildMemberRoleRemove(guildID, userID, roleID, discordgo.WithContext(ctx))
}

func (p *SessionPlatform) AuditLog(guildID string, actionType, limit int) ([]*discordgo.AuditLogEntry, error) {
	ctx, cancel := callContext()
	defer cancel()
	auditLog, err := p.bot.Session.GuildAuditLog(guildID, "", "", actionType, limit, discordgo.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	return auditLog.AuditLogEntries, nil
}
