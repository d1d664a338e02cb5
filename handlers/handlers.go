package handlers

import (
	"log"

	"sentinel-bot/bot"
	"sentinel-bot/handlers/mod"
	"sentinel-bot/utils"

	"github.com/bwmarrin/discordgo"
)

func Register(b *bot.Bot) {
	b.CommandHandlers = commandHandlers(b)
	addHandlers(b)
}

func commandHandlers(b *bot.Bot) map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	wrap := func(h func(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot)) func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		return func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			h(s, i, b)
		}
	}

	return map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate){
		"note":        wrap(mod.HandleNoteCommand),
		"warn":        wrap(mod.HandleWarnCommand),
		"mute":        wrap(mod.HandleMuteCommand),
		"unmute":      wrap(mod.HandleUnmuteCommand),
		"kick":        wrap(mod.HandleKickCommand),
		"ban":         wrap(mod.HandleBanCommand),
		"unban":       wrap(mod.HandleUnbanCommand),
		"infractions": wrap(mod.HandleInfractionsCommand),
		"status":      wrap(SystemInfoHandler),
	}
}

func addHandlers(b *bot.Bot) {
	b.Session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Printf("Logged in as: %v#%v", s.State.User.Username, s.State.User.Discriminator)
	})

	// Connectivity state feeds the scheduler's skip-tick-while-disconnected check.
	b.Session.AddHandler(func(s *discordgo.Session, c *discordgo.Connect) {
		b.SetConnected(true)
	})
	b.Session.AddHandler(func(s *discordgo.Session, d *discordgo.Disconnect) {
		b.SetConnected(false)
		log.Println("Disconnected from gateway, moderation ticks paused.")
	})

	b.Session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		if i.Type != discordgo.InteractionApplicationCommand {
			return
		}
		name := i.ApplicationCommandData().Name
		h, ok := b.CommandHandlers[name]
		if !ok {
			return
		}
		if i.Member == nil || i.Member.User == nil {
			return
		}
		cfg := b.GetConfig()
		level := utils.CheckPermission(i.Member.Roles, i.Member.User.ID, cfg.ModeratorRoleIDs, cfg.DeveloperUserIDs)
		if level == utils.GuestPermission {
			utils.SendErrorResponse(s, i, "You do not have permission to use this command.")
			return
		}
		h(s, i)
	})

	b.Session.AddHandler(func(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
		if m.User == nil {
			return
		}
		b.Moderations.HandleMemberJoin(m.GuildID, m.User.ID)
	})

	b.Session.AddHandler(func(s *discordgo.Session, e *discordgo.GuildBanAdd) {
		if e.User == nil {
			return
		}
		b.Reconciler.HandleBanAdd(e.GuildID, e.User.ID, e.User.Username)
	})

	b.Session.AddHandler(func(s *discordgo.Session, e *discordgo.GuildBanRemove) {
		if e.User == nil {
			return
		}
		b.Reconciler.HandleBanRemove(e.GuildID, e.User.ID, e.User.Username)
	})

	b.Session.AddHandler(func(s *discordgo.Session, e *discordgo.GuildMemberUpdate) {
		b.Reconciler.HandleMemberUpdate(e.GuildID, e.BeforeUpdate, e.Member)
	})
}
