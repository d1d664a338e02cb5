package moderation

import (
	"log"
	"sync"
	"time"

	"sentinel-bot/model"
	moderations_db "sentinel-bot/utils/database/moderations"

	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"
)

// ModerationsService tracks time-bound sanctions and reverses them once they
// expire. One long-lived polling goroutine scans the ongoing moderation store
// and, for each due record, undoes the sanction on Discord, logs an automatic
// infraction and deletes the record only after the reversal is confirmed.
// Failed reversals stay in the store and are retried on the next tick.
type ModerationsService struct {
	db          *sqlx.DB
	platform    Platform
	cfg         ConfigProvider
	infractions *InfractionService

	mu      sync.Mutex
	running bool
	done    chan struct{}
	wg      sync.WaitGroup
}

func NewModerationsService(db *sqlx.DB, platform Platform, cfg ConfigProvider, infractions *InfractionService) *ModerationsService {
	return &ModerationsService{
		db:          db,
		platform:    platform,
		cfg:         cfg,
		infractions: infractions,
	}
}

// Start launches the polling goroutine. Calling Start while running is a no-op.
func (s *ModerationsService) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.done = make(chan struct{})
	s.wg.Add(1)
	go s.run()
	log.Println("Moderations: started ticking ongoing moderations.")
}

// Stop signals the polling goroutine and waits for it to exit. The signal is
// observed between ticks, so a reversal batch in progress finishes first.
func (s *ModerationsService) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.done)
	s.mu.Unlock()

	s.wg.Wait()
	log.Println("Moderations: stopped.")
}

// IsRunning reports whether the polling goroutine is active.
func (s *ModerationsService) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *ModerationsService) run() {
	defer s.wg.Done()
	ticker := time.NewTicker(s.cfg.ModerationConfig().TickInterval())
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			log.Println("Moderations: cancellation received, ticker exiting.")
			return
		case <-ticker.C:
			s.Tick()
		}
	}
}

// Tick runs one scheduler iteration: skip while disconnected, load the store,
// reverse the due records and delete the confirmed subset in one batch.
func (s *ModerationsService) Tick() {
	if !s.platform.IsConnected() {
		log.Println("Moderations: not connected to Discord, skipping tick.")
		return
	}

	records, err := moderations_db.GetOngoingModerations(s.db)
	if err != nil {
		log.Printf("Moderations: failed to load ongoing moderations: %v", err)
		return
	}

	now := time.Now()
	var due []model.OngoingModeration
	for _, m := range records {
		if !m.EndTime.After(now) {
			due = append(due, m)
		}
	}
	if len(due) == 0 {
		return
	}

	finished := s.handleFinished(due)
	if len(finished) > 0 {
		if err := moderations_db.DeleteOngoingModerations(s.db, finished); err != nil {
			log.Printf("Moderations: failed to delete finished moderations: %v", err)
		}
	}
}

// handleFinished attempts to reverse each due sanction sequentially and
// returns the ids whose reversal was confirmed. The ban list is fetched once
// per tick; per-record calls stay sequential to avoid rate-limit bursts.
func (s *ModerationsService) handleFinished(due []model.OngoingModeration) []int64 {
	cfg := s.cfg.ModerationConfig()
	if cfg.MainGuildID == "" {
		log.Println("Moderations: no main guild configured, ongoing moderations will not be checked.")
		return nil
	}

	needBans := false
	for _, m := range due {
		if m.Type == model.InfractionBan {
			needBans = true
			break
		}
	}

	var bans []*discordgo.GuildBan
	bansFetched := false
	if needBans {
		var err error
		bans, err = s.platform.Bans(cfg.MainGuildID)
		if err != nil {
			log.Printf("Moderations: failed to fetch ban list, ban reversals deferred: %v", err)
		} else {
			bansFetched = true
		}
	}

	var finished []int64
	for _, m := range due {
		switch m.Type {
		case model.InfractionBan:
			if !bansFetched {
				continue
			}
			var ban *discordgo.GuildBan
			for _, b := range bans {
				if b.User != nil && b.User.ID == m.UserID {
					ban = b
					break
				}
			}
			if ban == nil {
				// Someone already lifted the ban out-of-band. The reversal
				// still needs its ledger entry.
				log.Printf("Moderations: user %s was already unbanned, ignoring.", m.UserID)
				s.logAutomaticReversal(model.InfractionUnban, m.UserID, "")
				finished = append(finished, m.ID)
				continue
			}
			if err := s.platform.Unban(cfg.MainGuildID, m.UserID); err != nil {
				log.Printf("Moderations: failed to unban user %s, retrying next tick: %v", m.UserID, err)
				continue
			}
			log.Printf("Moderations: unbanned user %s.", m.UserID)
			s.logAutomaticReversal(model.InfractionUnban, m.UserID, ban.User.Username)
			finished = append(finished, m.ID)

		case model.InfractionMute:
			member, err := s.platform.Member(cfg.MainGuildID, m.UserID)
			if err != nil {
				// The user left; there is no role to revoke, but the ledger
				// entry must still be written so a later rejoin does not
				// re-apply the mute.
				member = nil
			}
			if member != nil && hasRole(member, cfg.MutedRoleID) {
				if err := s.platform.RevokeRole(cfg.MainGuildID, m.UserID, cfg.MutedRoleID); err != nil {
					log.Printf("Moderations: failed to unmute user %s, retrying next tick: %v", m.UserID, err)
					continue
				}
			}
			userName := ""
			if member != nil && member.User != nil {
				userName = member.User.Username
			}
			log.Printf("Moderations: unmuted user %s.", m.UserID)
			s.logAutomaticReversal(model.InfractionUnmute, m.UserID, userName)
			finished = append(finished, m.ID)

		default:
			// No valid reversal exists, so retrying is pointless.
			log.Printf("Moderations: invalid moderation type '%s' in store, dropping record %d.", m.Type, m.ID)
			finished = append(finished, m.ID)
		}
	}
	return finished
}

func (s *ModerationsService) logAutomaticReversal(infType model.InfractionType, userID, userName string) {
	_, result := s.infractions.Add(infType, userID, s.platform.CurrentUserID(), "Automatic", userName, s.platform.CurrentUserName())
	if !result.Successful {
		log.Printf("Moderations: failed to log automatic %s for user %s: %s", infType, userID, result.Message)
	}
}

// AddModeration registers an ongoing moderation for a timed sanction. The
// infraction must be of a reversible type (mute or ban).
func (s *ModerationsService) AddModeration(infraction *model.Infraction, endTime time.Time) model.QueryResult {
	if infraction == nil {
		return model.ErrorResult("Cannot add a moderation without a linked infraction.")
	}
	if !infraction.Type.Reversible() {
		return model.ErrorResult("Infraction type '%s' is invalid for ongoing moderations.", infraction.Type)
	}

	record := model.OngoingModeration{
		UserID:             infraction.UserID,
		EndTime:            endTime,
		Type:               infraction.Type,
		LinkedInfractionID: infraction.ID,
	}
	if _, err := moderations_db.AddOngoingModeration(s.db, record); err != nil {
		log.Printf("Moderations: failed to add moderation for case #%d: %v", infraction.ID, err)
		return model.ErrorResult("Failed to add ongoing moderation for case #%d.", infraction.ID)
	}
	return model.SuccessResult("Successfully added ongoing moderation [%s] for user %s.", infraction.Type, infraction.UserID)
}

// RemoveModerationByCase deletes the moderation linked to a case, used when a
// sanction is lifted early by staff.
func (s *ModerationsService) RemoveModerationByCase(caseID int64) model.QueryResult {
	removed, err := moderations_db.DeleteOngoingModerationByCase(s.db, caseID)
	if err != nil {
		log.Printf("Moderations: failed to remove moderation for case #%d: %v", caseID, err)
		return model.ErrorResult("Failed to remove moderation linked to case #%d.", caseID)
	}
	if removed == 0 {
		return model.ErrorResult("Cannot find any ongoing moderation with linked case #%d.", caseID)
	}
	return model.SuccessResult("Successfully deleted moderation linked to case #%d.", caseID)
}

// RemoveModerationsForUser deletes any moderation of the given type for a
// user, regardless of which case created it.
func (s *ModerationsService) RemoveModerationsForUser(userID string, modType model.InfractionType) model.QueryResult {
	if err := moderations_db.DeleteOngoingModerationsByUser(s.db, userID, modType); err != nil {
		log.Printf("Moderations: failed to remove %s moderation for user %s: %v", modType, userID, err)
		return model.ErrorResult("Failed to remove ongoing %s for user %s.", modType, userID)
	}
	return model.SuccessResult("Removed any ongoing %s for user %s.", modType, userID)
}

// GetModerations returns all ongoing moderation records.
func (s *ModerationsService) GetModerations() ([]model.OngoingModeration, model.QueryResult) {
	records, err := moderations_db.GetOngoingModerations(s.db)
	if err != nil {
		log.Printf("Moderations: failed to retrieve moderations: %v", err)
		return nil, model.ErrorResult("Failed to retrieve ongoing moderations.")
	}
	return records, model.SuccessResult("Successfully retrieved ongoing moderations.")
}

// HandleMemberJoin re-applies the muted role when a user rejoins the main
// guild mid-sanction. Discord drops role state when a member leaves, so the
// store is the only memory of the mute. A failed grant is logged, not retried.
func (s *ModerationsService) HandleMemberJoin(guildID, userID string) {
	cfg := s.cfg.ModerationConfig()
	if guildID != cfg.MainGuildID || cfg.MutedRoleID == "" {
		return
	}

	records, err := moderations_db.GetOngoingModerationsByUserID(s.db, userID)
	if err != nil {
		log.Printf("Moderations: could not access moderations on member join: %v", err)
		return
	}

	for _, m := range records {
		if m.Type != model.InfractionMute {
			continue
		}
		if err := s.platform.GrantRole(guildID, userID, cfg.MutedRoleID); err != nil {
			log.Printf("Moderations: failed to re-apply muted role to user %s: %v", userID, err)
			return
		}
		log.Printf("Moderations: user %s joined and was muted due to an ongoing infraction.", userID)
		return
	}
}

func hasRole(member *discordgo.Member, roleID string) bool {
	for _, r := range member.Roles {
		if r == roleID {
			return true
		}
	}
	return false
}
