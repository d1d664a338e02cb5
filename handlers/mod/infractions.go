package mod

import (
	"fmt"
	"strings"
	"time"

	"sentinel-bot/bot"
	"sentinel-bot/model"
	"sentinel-bot/utils"

	"github.com/bwmarrin/discordgo"
)

const historyDisplayLimit = 20

func HandleInfractionsCommand(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	data := i.ApplicationCommandData()
	if len(data.Options) == 0 {
		return
	}
	sub := data.Options[0]

	switch sub.Name {
	case "view":
		caseID := sub.Options[0].IntValue()
		inf, result := b.Infractions.GetByID(caseID)
		if !result.Successful {
			utils.SendErrorResponse(s, i, result.Message)
			return
		}
		utils.SendEmbedResponse(s, i, buildInfractionEmbed(inf))

	case "search":
		user := sub.Options[0].UserValue(s)
		if user == nil {
			utils.SendErrorResponse(s, i, "Please provide a valid user.")
			return
		}
		records, result := b.Infractions.GetForUser(user.ID)
		if !result.Successful {
			utils.SendErrorResponse(s, i, result.Message)
			return
		}
		if len(records) == 0 {
			utils.SendErrorResponse(s, i, fmt.Sprintf("%s has no infractions.", user.Username))
			return
		}
		utils.SendEmbedResponse(s, i, buildHistoryEmbed(user, records))

	case "update":
		caseID := sub.Options[0].IntValue()
		reason := sub.Options[1].StringValue()
		result := b.Infractions.UpdateReason(caseID, reason)
		if !result.Successful {
			utils.SendErrorResponse(s, i, result.Message)
			return
		}
		utils.SendPublicResponse(s, i, result.Message)

	case "delete":
		caseID := sub.Options[0].IntValue()
		result := b.Infractions.Remove(caseID)
		if !result.Successful {
			utils.SendErrorResponse(s, i, result.Message)
			return
		}
		utils.SendPublicResponse(s, i, result.Message)
	}
}

func buildInfractionEmbed(inf *model.Infraction) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Infraction #%d | %s", inf.ID, inf.Type),
		Color: 0x5865F2,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "User", Value: fmt.Sprintf("%s (<@%s>)", inf.UserName, inf.UserID), Inline: true},
			{Name: "Staff", Value: fmt.Sprintf("%s (<@%s>)", inf.StaffName, inf.StaffID), Inline: true},
			{Name: "Reason", Value: inf.Reason},
		},
		Timestamp: inf.Timestamp.Format(time.RFC3339),
	}
	if inf.LastUpdatedAt.Valid {
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Reason updated %s", inf.LastUpdatedAt.Time.Format("2006-01-02 15:04")),
		}
	}
	return embed
}

func buildHistoryEmbed(user *discordgo.User, records []model.Infraction) *discordgo.MessageEmbed {
	var builder strings.Builder
	for idx, inf := range records {
		if idx >= historyDisplayLimit {
			builder.WriteString(fmt.Sprintf("… and %d more.\n", len(records)-historyDisplayLimit))
			break
		}
		builder.WriteString(fmt.Sprintf("`#%d` **%s** <t:%d:d>: %s\n", inf.ID, inf.Type, inf.Timestamp.Unix(), inf.Reason))
	}

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Infractions for %s (%d)", user.Username, len(records)),
		Description: builder.String(),
		Color:       0x5865F2,
	}
}
