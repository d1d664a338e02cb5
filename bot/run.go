package bot

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"sentinel-bot/utils"

	"github.com/bwmarrin/discordgo"
)

func (b *Bot) Run() {
	err := b.Session.Open()
	if err != nil {
		log.Fatalf("Error opening connection: %v", err)
	}

	log.Println("Registering commands for the main guild...")
	b.RegisteredCommands = make([]*discordgo.ApplicationCommand, 0)
	b.RefreshCommands(b.GetConfig().Moderation.MainGuildID)

	b.GetScheduler().Start()

	fmt.Println("Bot is now running. Press CTRL-C to exit.")
	if channelID := b.GetConfig().LogChannelID; channelID != "" {
		if err := utils.LogInfo(b.Session, channelID, "System", "Startup", "Bot has started successfully."); err != nil {
			log.Printf("Failed to send startup log: %v", err)
		}
	}

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc
}
