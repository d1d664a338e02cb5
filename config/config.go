package config

import (
	"errors"
	"log"
	"os"
	"strings"

	"sentinel-bot/model"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var moderationViper = viper.New()

// Load loads the configuration from environment variables and the moderation
// settings file.
func Load() (*model.Config, error) {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Info: .env file not found, relying on environment variables")
	}

	token := os.Getenv("BOT_TOKEN")
	if token == "" {
		log.Fatal("Error: BOT_TOKEN environment variable not set")
	}

	appID := os.Getenv("APP_ID")
	if appID == "" {
		log.Fatal("Error: APP_ID environment variable not set")
	}

	logChannelID := os.Getenv("LOG_CHANNEL_ID")
	if logChannelID == "" {
		log.Println("Warning: LOG_CHANNEL_ID not set, operator logging will be disabled")
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "data/moderation.db"
	}

	cfg := &model.Config{
		BotToken:         token,
		AppID:            appID,
		LogChannelID:     logChannelID,
		DatabasePath:     dbPath,
		DeveloperUserIDs: splitIDs(os.Getenv("DEVELOPER_USER_IDS")),
		ModeratorRoleIDs: splitIDs(os.Getenv("MODERATOR_ROLE_IDS")),
	}

	mc, err := loadModerationConfig()
	if err != nil {
		return nil, err
	}
	cfg.Moderation = mc

	return cfg, nil
}

// Watch re-reads the moderation settings file whenever it changes and hands
// the result to onChange. Staff edit guild/role ids without restarting the bot.
func Watch(onChange func(model.ModerationConfig)) {
	moderationViper.OnConfigChange(func(fsnotify.Event) {
		var mc model.ModerationConfig
		if err := moderationViper.Unmarshal(&mc); err != nil {
			log.Printf("Error reloading moderation config: %v", err)
			return
		}
		onChange(mc)
	})
	moderationViper.WatchConfig()
}

func loadModerationConfig() (model.ModerationConfig, error) {
	moderationViper.SetConfigName("moderation_config")
	moderationViper.SetConfigType("json")
	moderationViper.AddConfigPath("data")
	moderationViper.SetDefault("tick_seconds", 30)

	var mc model.ModerationConfig
	if err := moderationViper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			log.Println("Warning: data/moderation_config.json not found, moderation disabled until configured.")
			return mc, nil
		}
		return mc, err
	}
	if err := moderationViper.Unmarshal(&mc); err != nil {
		return mc, err
	}
	return mc, nil
}

func splitIDs(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			ids = append(ids, trimmed)
		}
	}
	return ids
}
