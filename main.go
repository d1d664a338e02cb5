package main

import (
	"log"
	"os"
	"path/filepath"

	"sentinel-bot/bot"
	"sentinel-bot/config"
	"sentinel-bot/handlers"
	moderations_db "sentinel-bot/utils/database/moderations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), os.ModePerm); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}
	db, err := moderations_db.Init(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}

	b, err := bot.New(cfg, db)
	if err != nil {
		log.Fatalf("Error creating bot: %v", err)
	}

	handlers.Register(b)
	config.Watch(b.UpdateModerationConfig)

	b.Run()

	defer b.Close()
}
