package bot

import (
	"log"
	"sync/atomic"
	"time"

	"sentinel-bot/commands"
	"sentinel-bot/model"
	"sentinel-bot/moderation"

	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"
)

type Bot struct {
	Session            *discordgo.Session
	DB                 *sqlx.DB
	RegisteredCommands []*discordgo.ApplicationCommand
	CommandHandlers    map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate)

	Infractions *moderation.InfractionService
	Moderations *moderation.ModerationsService
	Reconciler  *moderation.Reconciler

	config    atomic.Value // *model.Config
	connected atomic.Bool
	scheduler *Scheduler
	startedAt time.Time
}

func New(cfg *model.Config, db *sqlx.DB) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, err
	}
	dg.Identify.Intents = discordgo.IntentGuilds | discordgo.IntentGuildMembers | discordgo.IntentGuildModeration

	b := &Bot{
		Session:   dg,
		DB:        db,
		startedAt: time.Now(),
	}
	b.config.Store(cfg)

	platform := &SessionPlatform{bot: b}
	b.Infractions = moderation.NewInfractionService(db, &infractionNotifier{bot: b})
	b.Moderations = moderation.NewModerationsService(db, platform, b, b.Infractions)
	b.Reconciler = moderation.NewReconciler(platform, b, b.Infractions)
	b.scheduler = NewScheduler(b)

	return b, nil
}

func (b *Bot) GetConfig() *model.Config {
	return b.config.Load().(*model.Config)
}

// ModerationConfig satisfies moderation.ConfigProvider. The engine calls it
// on every tick, so config edits take effect without a restart.
func (b *Bot) ModerationConfig() model.ModerationConfig {
	return b.GetConfig().Moderation
}

func (b *Bot) GetSession() *discordgo.Session {
	return b.Session
}

func (b *Bot) GetDB() *sqlx.DB {
	return b.DB
}

func (b *Bot) GetScheduler() *Scheduler {
	return b.scheduler
}

func (b *Bot) StartedAt() time.Time {
	return b.startedAt
}

func (b *Bot) SetConnected(connected bool) {
	b.connected.Store(connected)
}

func (b *Bot) IsConnected() bool {
	return b.connected.Load()
}

// UpdateModerationConfig swaps in new moderation settings, typically from the
// config file watcher.
func (b *Bot) UpdateModerationConfig(mc model.ModerationConfig) {
	old := b.GetConfig()
	cfg := *old
	cfg.Moderation = mc
	b.config.Store(&cfg)
	log.Println("Configuration reloaded successfully.")
}

func (b *Bot) RefreshCommands(guildID string) {
	if guildID == "" {
		log.Println("No main guild configured, skipping command registration.")
		return
	}
	cmds := commands.Generate()
	log.Printf("Registering %d commands for guild %s...", len(cmds), guildID)
	registeredCmds, err := b.Session.ApplicationCommandBulkOverwrite(b.GetConfig().AppID, guildID, cmds)
	if err != nil {
		log.Printf("cannot update commands for guild '%s': %v", guildID, err)
		return
	}
	b.RegisteredCommands = append(b.RegisteredCommands, registeredCmds...)
}

func (b *Bot) Close() {
	log.Println("Gracefully shutting down.")
	b.scheduler.Stop()
	b.Session.Close()
}
