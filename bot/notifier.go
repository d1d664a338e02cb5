package bot

import (
	"fmt"
	"log"
	"time"

	"sentinel-bot/model"

	"github.com/bwmarrin/discordgo"
)

// infractionNotifier announces newly logged infractions to the configured
// log channel. It is invoked fire-and-forget by the ledger; a send failure is
// logged and never affects the record.
type infractionNotifier struct {
	bot *Bot
}

func infractionColor(t model.InfractionType) int {
	switch t {
	case model.InfractionBan, model.InfractionKick:
		return 15158332 // Red
	case model.InfractionMute, model.InfractionWarn:
		return 15105570 // Orange
	case model.InfractionUnban, model.InfractionUnmute, model.InfractionUndeafen:
		return 3066993 // Green
	default:
		return 3447003 // Blue
	}
}

func (n *infractionNotifier) InfractionLogged(inf *model.Infraction) {
	channelID := n.bot.GetConfig().LogChannelID
	if channelID == "" {
		return
	}

	userName := inf.UserName
	if userName == "" {
		userName = inf.UserID
	}
	staffName := inf.StaffName
	if staffName == "" {
		staffName = inf.StaffID
	}

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Infraction #%d | %s", inf.ID, inf.Type),
		Color: infractionColor(inf.Type),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "User", Value: fmt.Sprintf("%s (<@%s>)", userName, inf.UserID), Inline: true},
			{Name: "Staff", Value: fmt.Sprintf("%s (<@%s>)", staffName, inf.StaffID), Inline: true},
			{Name: "Reason", Value: inf.Reason},
		},
		Timestamp: inf.Timestamp.Format(time.RFC3339),
	}

	if _, err := n.bot.Session.ChannelMessageSendEmbed(channelID, embed); err != nil {
		log.Printf("Failed to send infraction log for case #%d: %v", inf.ID, err)
	}
}
