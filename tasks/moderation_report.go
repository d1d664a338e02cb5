package tasks

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	moderations_db "sentinel-bot/utils/database/moderations"

	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"
)

// GenerateModerationReportEmbed builds the staff activity summary for the
// given window. Automatic reversals logged by the bot itself are excluded.
func GenerateModerationReportEmbed(db *sqlx.DB, selfID string, window time.Duration) (*discordgo.MessageEmbed, error) {
	since := time.Now().Add(-window)
	stats, err := moderations_db.GetStaffInfractionStats(db, selfID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get staff infraction stats: %w", err)
	}

	total, err := moderations_db.GetTotalInfractionCount(db, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get total infraction count: %w", err)
	}

	var sortedStaff []string
	for staffID := range stats {
		sortedStaff = append(sortedStaff, staffID)
	}
	sort.Slice(sortedStaff, func(i, j int) bool {
		return stats[sortedStaff[i]] > stats[sortedStaff[j]]
	})

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("### Infractions in the last %s\n", window.String()))
	builder.WriteString(fmt.Sprintf("**Total: %d**\n\n", total))
	builder.WriteString("**Per staff member:**\n")
	for i, staffID := range sortedStaff {
		builder.WriteString(fmt.Sprintf("%d. <@%s>: %d\n", i+1, staffID, stats[staffID]))
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Moderation Report",
		Description: builder.String(),
		Timestamp:   time.Now().Format(time.RFC3339),
		Color:       0x00ff00,
	}
	return embed, nil
}

// UpdateModerationReport posts the summary embed to the report channel.
func UpdateModerationReport(s *discordgo.Session, db *sqlx.DB, channelID, selfID string, window time.Duration) {
	embed, err := GenerateModerationReportEmbed(db, selfID, window)
	if err != nil {
		log.Printf("Failed to generate moderation report embed: %v", err)
		return
	}

	if _, err := s.ChannelMessageSendEmbed(channelID, embed); err != nil {
		log.Printf("Failed to send moderation report to channel %s: %v", channelID, err)
	}
}
