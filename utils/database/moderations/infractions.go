package moderations

import (
	"fmt"
	"time"

	"sentinel-bot/model"

	"github.com/jmoiron/sqlx"
)

// AddInfraction inserts a new infraction record and returns the new record's ID.
func AddInfraction(db *sqlx.DB, record model.Infraction) (int64, error) {
	query := `INSERT INTO infractions (type, timestamp, last_updated_at, staff_id, user_id, reason, staff_name, user_name)
			  VALUES (:type, :timestamp, :last_updated_at, :staff_id, :user_id, :reason, :staff_name, :user_name)`

	result, err := db.NamedExec(query, record)
	if err != nil {
		return 0, fmt.Errorf("failed to insert infraction record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}

	return id, nil
}

// NextInfractionID returns the id the next inserted infraction will receive.
// Used to synthesize a placeholder reason that references its own case.
func NextInfractionID(db *sqlx.DB) (int64, error) {
	var maxID int64
	err := db.Get(&maxID, "SELECT COALESCE(MAX(id), 0) FROM infractions")
	if err != nil {
		return 0, fmt.Errorf("failed to get next infraction id: %w", err)
	}
	return maxID + 1, nil
}

// GetInfractionByID retrieves a single infraction record by its primary key.
func GetInfractionByID(db *sqlx.DB, id int64) (*model.Infraction, error) {
	var record model.Infraction
	err := db.Get(&record, "SELECT * FROM infractions WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("failed to get infraction by id %d: %w", id, err)
	}
	return &record, nil
}

// GetInfractionsByUserID retrieves all infraction records for a specific user.
func GetInfractionsByUserID(db *sqlx.DB, userID string) ([]model.Infraction, error) {
	var records []model.Infraction
	err := db.Select(&records, "SELECT * FROM infractions WHERE user_id = ?", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get infractions for user %s: %w", userID, err)
	}
	return records, nil
}

// GetAllInfractions retrieves every infraction record in the ledger.
func GetAllInfractions(db *sqlx.DB) ([]model.Infraction, error) {
	var records []model.Infraction
	err := db.Select(&records, "SELECT * FROM infractions")
	if err != nil {
		return nil, fmt.Errorf("failed to get all infractions: %w", err)
	}
	return records, nil
}

// UpdateInfractionReason updates the reason of an infraction and stamps
// last_updated_at.
func UpdateInfractionReason(db *sqlx.DB, id int64, reason string) error {
	result, err := db.Exec("UPDATE infractions SET reason = ?, last_updated_at = ? WHERE id = ?",
		reason, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update reason for infraction %d: %w", id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected for infraction %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("no infraction found with id %d", id)
	}
	return nil
}

// DeleteInfractionByID deletes an infraction by its primary key. Any ongoing
// moderation linked to it is removed by the schema cascade.
func DeleteInfractionByID(db *sqlx.DB, id int64) error {
	result, err := db.Exec("DELETE FROM infractions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete infraction %d: %w", id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected for infraction %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("no infraction found with id %d", id)
	}
	return nil
}

// GetStaffInfractionStats retrieves the infraction count per staff member
// since the given time, excluding automatic records logged by the bot itself.
func GetStaffInfractionStats(db *sqlx.DB, selfID string, since time.Time) (map[string]int, error) {
	rows, err := db.Query(`SELECT staff_id, COUNT(*) as count FROM infractions
		WHERE timestamp >= ? AND staff_id != ? GROUP BY staff_id ORDER BY count DESC`,
		since, selfID)
	if err != nil {
		return nil, fmt.Errorf("failed to get staff infraction stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]int)
	for rows.Next() {
		var staffID string
		var count int
		if err := rows.Scan(&staffID, &count); err != nil {
			return nil, fmt.Errorf("failed to scan staff infraction stats row: %w", err)
		}
		stats[staffID] = count
	}
	return stats, nil
}

// GetTotalInfractionCount retrieves the total number of infractions recorded
// since the given time.
func GetTotalInfractionCount(db *sqlx.DB, since time.Time) (int, error) {
	var count int
	err := db.Get(&count, "SELECT COUNT(*) FROM infractions WHERE timestamp >= ?", since)
	if err != nil {
		return 0, fmt.Errorf("failed to get total infraction count: %w", err)
	}
	return count, nil
}
