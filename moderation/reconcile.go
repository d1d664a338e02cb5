package moderation

import (
	"log"

	"sentinel-bot/model"

	"github.com/bwmarrin/discordgo"
)

// Audit log lookback windows. Native moderation actions arrive as gateway
// events with no actor attached; the actor is recovered from the most recent
// audit entries of the matching action type.
const (
	banAuditLookback  = 10
	roleAuditLookback = 5
)

// Reconciler attributes sanctions applied directly through Discord's own
// moderation tools back to the infraction ledger. Actions performed by the
// bot itself (or any bot account) are skipped, since those already created
// their infraction before the platform call. A failed audit lookup degrades
// silently: the action stays visible in Discord's native history.
type Reconciler struct {
	platform    Platform
	cfg         ConfigProvider
	infractions *InfractionService
}

func NewReconciler(platform Platform, cfg ConfigProvider, infractions *InfractionService) *Reconciler {
	return &Reconciler{platform: platform, cfg: cfg, infractions: infractions}
}

// HandleBanAdd records a native ban issued on the main guild.
func (r *Reconciler) HandleBanAdd(guildID, userID, userName string) {
	if guildID != r.cfg.ModerationConfig().MainGuildID {
		return
	}
	entry, actor := r.findActor(guildID, userID, int(discordgo.AuditLogActionMemberBanAdd), banAuditLookback)
	if entry == nil {
		return
	}
	_, result := r.infractions.Add(model.InfractionBan, userID, actor.ID, entry.Reason, userName, actor.Username)
	if !result.Successful {
		log.Printf("Reconciler: failed to attribute ban of user %s: %s", userID, result.Message)
	}
}

// HandleBanRemove records a native unban issued on the main guild.
func (r *Reconciler) HandleBanRemove(guildID, userID, userName string) {
	if guildID != r.cfg.ModerationConfig().MainGuildID {
		return
	}
	entry, actor := r.findActor(guildID, userID, int(discordgo.AuditLogActionMemberBanRemove), banAuditLookback)
	if entry == nil {
		return
	}
	_, result := r.infractions.Add(model.InfractionUnban, userID, actor.ID, entry.Reason, userName, actor.Username)
	if !result.Successful {
		log.Printf("Reconciler: failed to attribute unban of user %s: %s", userID, result.Message)
	}
}

// HandleMemberUpdate records a native mute or unmute when the configured
// muted role is added to or removed from a member of the main guild. Without
// a before-state snapshot the change direction cannot be determined, so the
// event is skipped.
func (r *Reconciler) HandleMemberUpdate(guildID string, before, after *discordgo.Member) {
	cfg := r.cfg.ModerationConfig()
	if guildID != cfg.MainGuildID || cfg.MutedRoleID == "" {
		return
	}
	if before == nil || after == nil || after.User == nil {
		return
	}

	had := hasRole(before, cfg.MutedRoleID)
	has := hasRole(after, cfg.MutedRoleID)

	var infType model.InfractionType
	switch {
	case !had && has:
		infType = model.InfractionMute
	case had && !has:
		infType = model.InfractionUnmute
	default:
		return
	}

	entry, actor := r.findActor(guildID, after.User.ID, int(discordgo.AuditLogActionMemberRoleUpdate), roleAuditLookback)
	if entry == nil {
		return
	}
	_, result := r.infractions.Add(infType, after.User.ID, actor.ID, entry.Reason, after.User.Username, actor.Username)
	if !result.Successful {
		log.Printf("Reconciler: failed to attribute %s of user %s: %s", infType, after.User.ID, result.Message)
	}
}

// findActor correlates a target with the most recent matching audit entry and
// resolves the acting user. Returns nils when the entry cannot be correlated
// or the actor is the bot's own automation identity or another bot.
func (r *Reconciler) findActor(guildID, targetID string, actionType, limit int) (*discordgo.AuditLogEntry, *discordgo.User) {
	entries, err := r.platform.AuditLog(guildID, actionType, limit)
	if err != nil {
		// Missing audit permission or a transient failure: skip attribution.
		log.Printf("Reconciler: audit log unavailable for guild %s, skipping attribution: %v", guildID, err)
		return nil, nil
	}

	var entry *discordgo.AuditLogEntry
	for _, e := range entries {
		if e.TargetID == targetID {
			entry = e
			break
		}
	}
	if entry == nil || entry.UserID == r.platform.CurrentUserID() {
		return nil, nil
	}

	actor, err := r.platform.User(entry.UserID)
	if err != nil {
		log.Printf("Reconciler: failed to resolve audit actor %s: %v", entry.UserID, err)
		return nil, nil
	}
	if actor.Bot {
		return nil, nil
	}
	return entry, actor
}
