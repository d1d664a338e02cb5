package bot

import (
	"log"
	"time"

	"sentinel-bot/tasks"

	"github.com/robfig/cron/v3"
)

// Scheduler manages the bot's background work: the ongoing moderation ticker
// and the daily moderation report.
type Scheduler struct {
	bot  *Bot
	cron *cron.Cron
}

func NewScheduler(b *Bot) *Scheduler {
	return &Scheduler{
		bot:  b,
		cron: cron.New(),
	}
}

// Start begins all scheduled tasks.
func (s *Scheduler) Start() {
	s.bot.Moderations.Start()

	spec := s.bot.GetConfig().Moderation.ReportCron
	if spec == "" {
		spec = "0 9 * * *"
	}
	if _, err := s.cron.AddFunc(spec, s.runDailyReport); err != nil {
		log.Printf("Scheduler: invalid report cron spec %q: %v", spec, err)
	}
	s.cron.Start()
}

// Stop terminates all scheduled tasks gracefully. Jobs already running are
// allowed to finish.
func (s *Scheduler) Stop() {
	log.Println("Stopping scheduler...")
	<-s.cron.Stop().Done()
	s.bot.Moderations.Stop()
	log.Println("Scheduler stopped.")
}

func (s *Scheduler) runDailyReport() {
	cfg := s.bot.GetConfig()
	if cfg.LogChannelID == "" {
		return
	}
	selfID := ""
	if u := s.bot.Session.State.User; u != nil {
		selfID = u.ID
	}
	tasks.UpdateModerationReport(s.bot.Session, s.bot.DB, cfg.LogChannelID, selfID, 24*time.Hour)
}
