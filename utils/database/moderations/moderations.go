package moderations

import (
	"fmt"

	"sentinel-bot/model"

	"github.com/jmoiron/sqlx"
)

// AddOngoingModeration inserts a new ongoing moderation record and returns its ID.
func AddOngoingModeration(db *sqlx.DB, record model.OngoingModeration) (int64, error) {
	query := `INSERT INTO ongoing_moderations (user_id, end_time, type, linked_infraction_id)
			  VALUES (:user_id, :end_time, :type, :linked_infraction_id)`

	result, err := db.NamedExec(query, record)
	if err != nil {
		return 0, fmt.Errorf("failed to insert ongoing moderation: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}

	return id, nil
}

// GetOngoingModerations retrieves all ongoing moderation records.
func GetOngoingModerations(db *sqlx.DB) ([]model.OngoingModeration, error) {
	var records []model.OngoingModeration
	err := db.Select(&records, "SELECT * FROM ongoing_moderations")
	if err != nil {
		return nil, fmt.Errorf("failed to get ongoing moderations: %w", err)
	}
	return records, nil
}

// GetOngoingModerationsByUserID retrieves the ongoing moderations for a user.
func GetOngoingModerationsByUserID(db *sqlx.DB, userID string) ([]model.OngoingModeration, error) {
	var records []model.OngoingModeration
	err := db.Select(&records, "SELECT * FROM ongoing_moderations WHERE user_id = ?", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get ongoing moderations for user %s: %w", userID, err)
	}
	return records, nil
}

// DeleteOngoingModerations deletes the given records in one batch. Records
// already removed by a concurrent manual action are silently skipped.
func DeleteOngoingModerations(db *sqlx.DB, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In("DELETE FROM ongoing_moderations WHERE id IN (?)", ids)
	if err != nil {
		return fmt.Errorf("failed to build moderation batch delete: %w", err)
	}
	if _, err := db.Exec(db.Rebind(query), args...); err != nil {
		return fmt.Errorf("failed to delete ongoing moderations: %w", err)
	}
	return nil
}

// DeleteOngoingModerationByCase deletes the moderation linked to an
// infraction case, returning the number of rows removed.
func DeleteOngoingModerationByCase(db *sqlx.DB, caseID int64) (int64, error) {
	result, err := db.Exec("DELETE FROM ongoing_moderations WHERE linked_infraction_id = ?", caseID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete moderation linked to case %d: %w", caseID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check rows affected for case %d: %w", caseID, err)
	}
	return rowsAffected, nil
}

// DeleteOngoingModerationsByUser deletes any moderation of the given type for
// a user. Used when a sanction is lifted early by a staff command.
func DeleteOngoingModerationsByUser(db *sqlx.DB, userID string, modType model.InfractionType) error {
	_, err := db.Exec("DELETE FROM ongoing_moderations WHERE user_id = ? AND type = ?", userID, modType)
	if err != nil {
		return fmt.Errorf("failed to delete %s moderation for user %s: %w", modType, userID, err)
	}
	return nil
}
