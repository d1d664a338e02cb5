package defs

import "github.com/bwmarrin/discordgo"

func userOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        "user",
		Description: description,
		Required:    true,
	}
}

func reasonOption(required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "reason",
		Description: "Reason for the action",
		Required:    required,
	}
}

func durationOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "duration",
		Description: "Duration of the sanction (e.g. 30m, 12h, 7d, 2w). Omit for permanent.",
		Required:    false,
	}
}

var Note = &discordgo.ApplicationCommand{
	Name:        "note",
	Description: "Add a note to a user's record",
	Options: []*discordgo.ApplicationCommandOption{
		userOption("User to add the note to"),
		reasonOption(true),
	},
}

var Warn = &discordgo.ApplicationCommand{
	Name:        "warn",
	Description: "Warn a user and record the warning",
	Options: []*discordgo.ApplicationCommandOption{
		userOption("User to warn"),
		reasonOption(true),
	},
}

var Mute = &discordgo.ApplicationCommand{
	Name:        "mute",
	Description: "Give a user the muted role, optionally for a limited time",
	Options: []*discordgo.ApplicationCommandOption{
		userOption("User to mute"),
		durationOption(),
		reasonOption(false),
	},
}

var Unmute = &discordgo.ApplicationCommand{
	Name:        "unmute",
	Description: "Remove the muted role from a user and end the ongoing mute",
	Options: []*discordgo.ApplicationCommandOption{
		userOption("User to unmute"),
		reasonOption(false),
	},
}

var Kick = &discordgo.ApplicationCommand{
	Name:        "kick",
	Description: "Kick a user from the server and record it",
	Options: []*discordgo.ApplicationCommandOption{
		userOption("User to kick"),
		reasonOption(false),
	},
}

var Ban = &discordgo.ApplicationCommand{
	Name:        "ban",
	Description: "Ban a user, optionally for a limited time",
	Options: []*discordgo.ApplicationCommandOption{
		userOption("User to ban"),
		durationOption(),
		reasonOption(false),
	},
}

var Unban = &discordgo.ApplicationCommand{
	Name:        "unban",
	Description: "Unban a user and end the ongoing ban",
	Options: []*discordgo.ApplicationCommandOption{
		userOption("User to unban"),
		reasonOption(false),
	},
}
