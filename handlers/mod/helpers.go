package mod

import (
	"github.com/bwmarrin/discordgo"
)

type commandOptions struct {
	TargetUser *discordgo.User
	Reason     string
	Duration   string
}

func parseOptions(s *discordgo.Session, i *discordgo.InteractionCreate) commandOptions {
	var opts commandOptions
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "user":
			opts.TargetUser = opt.UserValue(s)
		case "reason":
			opts.Reason = opt.StringValue()
		case "duration":
			opts.Duration = opt.StringValue()
		}
	}
	return opts
}

func staffUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil {
		return i.Member.User
	}
	return i.User
}
