package moderation

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"sentinel-bot/model"
	moderations_db "sentinel-bot/utils/database/moderations"

	"github.com/jmoiron/sqlx"
)

// InfractionService owns the infraction ledger: every disciplinary action,
// whether issued by a command, inferred from the audit log or logged by the
// scheduler, goes through here.
type InfractionService struct {
	db     *sqlx.DB
	notify Notifier
}

func NewInfractionService(db *sqlx.DB, notify Notifier) *InfractionService {
	return &InfractionService{db: db, notify: notify}
}

// Add creates and persists a new infraction record. An empty reason is
// replaced with a placeholder referencing the about-to-be-assigned case id.
// An empty user name is backfilled from the user's prior records, since the
// target account may no longer be reachable. The notification sink is invoked
// asynchronously and its failure never fails the record.
func (s *InfractionService) Add(infType model.InfractionType, userID, staffID, reason, userName, staffName string) (*model.Infraction, model.QueryResult) {
	if userID == "" || staffID == "" {
		return nil, model.ErrorResult("Cannot add an infraction without a user and a staff member.")
	}

	if userName == "" {
		if prior, err := moderations_db.GetInfractionsByUserID(s.db, userID); err == nil {
			for _, p := range prior {
				if p.UserName != "" {
					userName = p.UserName
					break
				}
			}
		}
	}

	if strings.TrimSpace(reason) == "" {
		nextID, err := moderations_db.NextInfractionID(s.db)
		if err != nil {
			log.Printf("Infractions: failed to compute next case id: %v", err)
			return nil, model.ErrorResult("Failed to add infraction to user.")
		}
		reason = fmt.Sprintf("Responsible moderator please update case #%d", nextID)
	}

	record := model.Infraction{
		Type:      infType,
		Timestamp: time.Now(),
		StaffID:   staffID,
		UserID:    userID,
		Reason:    reason,
		StaffName: staffName,
		UserName:  userName,
	}

	id, err := moderations_db.AddInfraction(s.db, record)
	if err != nil {
		log.Printf("Infractions: failed to add infraction for user %s: %v", userID, err)
		return nil, model.ErrorResult("Failed to add infraction to user.")
	}
	record.ID = id

	if s.notify != nil {
		go s.notify.InfractionLogged(&record)
	}

	return &record, model.SuccessResult("Successfully added infraction #%d to user.", id)
}

// GetByID retrieves the infraction with the given case id.
func (s *InfractionService) GetByID(id int64) (*model.Infraction, model.QueryResult) {
	record, err := moderations_db.GetInfractionByID(s.db, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrorResult("Could not find any infraction with id #%d.", id)
		}
		log.Printf("Infractions: failed to retrieve infraction #%d: %v", id, err)
		return nil, model.ErrorResult("Failed to retrieve infraction #%d.", id)
	}
	return record, model.SuccessResult("Successfully retrieved infraction #%d.", id)
}

// GetForUser retrieves a user's full infraction history, unordered.
func (s *InfractionService) GetForUser(userID string) ([]model.Infraction, model.QueryResult) {
	records, err := moderations_db.GetInfractionsByUserID(s.db, userID)
	if err != nil {
		log.Printf("Infractions: failed to retrieve infractions for user %s: %v", userID, err)
		return nil, model.ErrorResult("Failed to retrieve infractions for user %s.", userID)
	}
	return records, model.SuccessResult("Successfully retrieved %d infraction(s).", len(records))
}

// UpdateReason replaces the reason of an existing infraction and stamps its
// last update time.
func (s *InfractionService) UpdateReason(id int64, newReason string) model.QueryResult {
	if strings.TrimSpace(newReason) == "" {
		return model.ErrorResult("Please provide a valid reason.")
	}

	if _, err := moderations_db.GetInfractionByID(s.db, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ErrorResult("Could not find any infraction with id #%d.", id)
		}
		log.Printf("Infractions: failed to look up infraction #%d: %v", id, err)
		return model.ErrorResult("Failed to update infraction #%d.", id)
	}

	if err := moderations_db.UpdateInfractionReason(s.db, id, newReason); err != nil {
		log.Printf("Infractions: failed to update infraction #%d: %v", id, err)
		return model.ErrorResult("Failed to update reason for infraction #%d.", id)
	}
	return model.SuccessResult("Successfully updated infraction #%d.", id)
}

// Remove hard-deletes an infraction. Any ongoing moderation linked to the
// case is removed by the store cascade, so a sanction never outlives its
// justification.
func (s *InfractionService) Remove(id int64) model.QueryResult {
	if _, err := moderations_db.GetInfractionByID(s.db, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ErrorResult("Could not find any infraction with id #%d.", id)
		}
		log.Printf("Infractions: failed to look up infraction #%d: %v", id, err)
		return model.ErrorResult("Failed to remove infraction #%d.", id)
	}

	if err := moderations_db.DeleteInfractionByID(s.db, id); err != nil {
		log.Printf("Infractions: failed to remove infraction #%d: %v", id, err)
		return model.ErrorResult("Failed to remove infraction #%d.", id)
	}
	return model.SuccessResult("Removed infraction #%d.", id)
}
