package mod

import (
	"fmt"
	"log"
	"time"

	"sentinel-bot/bot"
	"sentinel-bot/model"
	"sentinel-bot/utils"

	"github.com/bwmarrin/discordgo"
)

// Command handlers create their infraction record before issuing the platform
// call. The reconciliation layer only attributes actions whose actor is not
// the bot, so the two paths never double-log.

func HandleNoteCommand(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	recordSimple(s, i, b, model.InfractionNote)
}

func HandleWarnCommand(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	recordSimple(s, i, b, model.InfractionWarn)
}

func recordSimple(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot, infType model.InfractionType) {
	opts := parseOptions(s, i)
	if opts.TargetUser == nil {
		utils.SendErrorResponse(s, i, "Please provide a valid user.")
		return
	}
	staff := staffUser(i)

	_, result := b.Infractions.Add(infType, opts.TargetUser.ID, staff.ID, opts.Reason, opts.TargetUser.Username, staff.Username)
	if !result.Successful {
		utils.SendErrorResponse(s, i, result.Message)
		return
	}
	utils.SendPublicResponse(s, i, result.Message)
}

func HandleMuteCommand(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	opts := parseOptions(s, i)
	if opts.TargetUser == nil {
		utils.SendErrorResponse(s, i, "Please provide a valid user.")
		return
	}
	cfg := b.GetConfig().Moderation
	if cfg.MutedRoleID == "" {
		utils.SendErrorResponse(s, i, "No muted role is configured.")
		return
	}
	staff := staffUser(i)

	endTime, ok := parseEndTime(s, i, opts.Duration)
	if !ok {
		return
	}

	inf, result := b.Infractions.Add(model.InfractionMute, opts.TargetUser.ID, staff.ID, opts.Reason, opts.TargetUser.Username, staff.Username)
	if !result.Successful {
		utils.SendErrorResponse(s, i, result.Message)
		return
	}

	if err := s.GuildMemberRoleAdd(i.GuildID, opts.TargetUser.ID, cfg.MutedRoleID); err != nil {
		log.Printf("Failed to apply muted role to user %s: %v", opts.TargetUser.ID, err)
		utils.SendErrorResponse(s, i, fmt.Sprintf("Recorded case #%d but failed to apply the muted role.", inf.ID))
		return
	}

	if !endTime.IsZero() {
		if modResult := b.Moderations.AddModeration(inf, endTime); !modResult.Successful {
			utils.SendErrorResponse(s, i, modResult.Message)
			return
		}
		utils.SendPublicResponse(s, i, fmt.Sprintf("Muted %s until <t:%d> (case #%d).", opts.TargetUser.Username, endTime.Unix(), inf.ID))
		return
	}
	utils.SendPublicResponse(s, i, fmt.Sprintf("Muted %s (case #%d).", opts.TargetUser.Username, inf.ID))
}

func HandleUnmuteCommand(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	opts := parseOptions(s, i)
	if opts.TargetUser == nil {
		utils.SendErrorResponse(s, i, "Please provide a valid user.")
		return
	}
	cfg := b.GetConfig().Moderation
	staff := staffUser(i)

	inf, result := b.Infractions.Add(model.InfractionUnmute, opts.TargetUser.ID, staff.ID, opts.Reason, opts.TargetUser.Username, staff.Username)
	if !result.Successful {
		utils.SendErrorResponse(s, i, result.Message)
		return
	}

	if cfg.MutedRoleID != "" {
		if err := s.GuildMemberRoleRemove(i.GuildID, opts.TargetUser.ID, cfg.MutedRoleID); err != nil {
			log.Printf("Failed to remove muted role from user %s: %v", opts.TargetUser.ID, err)
		}
	}
	b.Moderations.RemoveModerationsForUser(opts.TargetUser.ID, model.InfractionMute)

	utils.SendPublicResponse(s, i, fmt.Sprintf("Unmuted %s (case #%d).", opts.TargetUser.Username, inf.ID))
}

func HandleKickCommand(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	opts := parseOptions(s, i)
	if opts.TargetUser == nil {
		utils.SendErrorResponse(s, i, "Please provide a valid user.")
		return
	}
	staff := staffUser(i)

	inf, result := b.Infractions.Add(model.InfractionKick, opts.TargetUser.ID, staff.ID, opts.Reason, opts.TargetUser.Username, staff.Username)
	if !result.Successful {
		utils.SendErrorResponse(s, i, result.Message)
		return
	}

	if err := s.GuildMemberDeleteWithReason(i.GuildID, opts.TargetUser.ID, inf.Reason); err != nil {
		log.Printf("Failed to kick user %s: %v", opts.TargetUser.ID, err)
		utils.SendErrorResponse(s, i, fmt.Sprintf("Recorded case #%d but failed to kick the user.", inf.ID))
		return
	}
	utils.SendPublicResponse(s, i, fmt.Sprintf("Kicked %s (case #%d).", opts.TargetUser.Username, inf.ID))
}

func HandleBanCommand(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	opts := parseOptions(s, i)
	if opts.TargetUser == nil {
		utils.SendErrorResponse(s, i, "Please provide a valid user.")
		return
	}
	staff := staffUser(i)

	endTime, ok := parseEndTime(s, i, opts.Duration)
	if !ok {
		return
	}

	inf, result := b.Infractions.Add(model.InfractionBan, opts.TargetUser.ID, staff.ID, opts.Reason, opts.TargetUser.Username, staff.Username)
	if !result.Successful {
		utils.SendErrorResponse(s, i, result.Message)
		return
	}

	if err := s.GuildBanCreateWithReason(i.GuildID, opts.TargetUser.ID, inf.Reason, 0); err != nil {
		log.Printf("Failed to ban user %s: %v", opts.TargetUser.ID, err)
		utils.SendErrorResponse(s, i, fmt.Sprintf("Recorded case #%d but failed to ban the user.", inf.ID))
		return
	}

	if !endTime.IsZero() {
		if modResult := b.Moderations.AddModeration(inf, endTime); !modResult.Successful {
			utils.SendErrorResponse(s, i, modResult.Message)
			return
		}
		utils.SendPublicResponse(s, i, fmt.Sprintf("Banned %s until <t:%d> (case #%d).", opts.TargetUser.Username, endTime.Unix(), inf.ID))
		return
	}
	utils.SendPublicResponse(s, i, fmt.Sprintf("Banned %s (case #%d).", opts.TargetUser.Username, inf.ID))
}

func HandleUnbanCommand(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	opts := parseOptions(s, i)
	if opts.TargetUser == nil {
		utils.SendErrorResponse(s, i, "Please provide a valid user.")
		return
	}
	staff := staffUser(i)

	inf, result := b.Infractions.Add(model.InfractionUnban, opts.TargetUser.ID, staff.ID, opts.Reason, opts.TargetUser.Username, staff.Username)
	if !result.Successful {
		utils.SendErrorResponse(s, i, result.Message)
		return
	}

	if err := s.GuildBanDelete(i.GuildID, opts.TargetUser.ID); err != nil {
		log.Printf("Failed to unban user %s: %v", opts.TargetUser.ID, err)
		utils.SendErrorResponse(s, i, fmt.Sprintf("Recorded case #%d but failed to unban the user.", inf.ID))
		return
	}
	b.Moderations.RemoveModerationsForUser(opts.TargetUser.ID, model.InfractionBan)

	utils.SendPublicResponse(s, i, fmt.Sprintf("Unbanned %s (case #%d).", opts.TargetUser.Username, inf.ID))
}

// parseEndTime converts a duration option into an absolute expiry. A zero
// time means permanent. The false return means an error response was already
// sent.
func parseEndTime(s *discordgo.Session, i *discordgo.InteractionCreate, duration string) (time.Time, bool) {
	if duration == "" {
		return time.Time{}, true
	}
	d, err := utils.ParseDuration(duration)
	if err != nil || d <= 0 {
		utils.SendErrorResponse(s, i, fmt.Sprintf("Invalid duration '%s'. Use values like 30m, 12h, 7d or 2w.", duration))
		return time.Time{}, false
	}
	return time.Now().Add(d), true
}
