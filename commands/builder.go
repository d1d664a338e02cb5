package commands

import (
	"sentinel-bot/commands/defs"

	"github.com/bwmarrin/discordgo"
)

// Generate returns the application commands registered on the main guild.
func Generate() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		defs.Note,
		defs.Warn,
		defs.Mute,
		defs.Unmute,
		defs.Kick,
		defs.Ban,
		defs.Unban,
		defs.Infractions,
		defs.Status,
	}
}
