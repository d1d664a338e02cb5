package moderations

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Init initializes the moderation database and ensures all necessary tables exist.
func Init(dbPath string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to moderation database: %w", err)
	}

	// Required for the ON DELETE CASCADE from infractions to ongoing_moderations.
	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	infractionsSchema := `CREATE TABLE IF NOT EXISTS infractions (
	          id INTEGER PRIMARY KEY AUTOINCREMENT,
	          type TEXT NOT NULL,
	          timestamp DATETIME NOT NULL,
	          last_updated_at DATETIME,
	          staff_id TEXT NOT NULL,
	          user_id TEXT NOT NULL,
	          reason TEXT NOT NULL,
	          staff_name TEXT NOT NULL DEFAULT '',
	          user_name TEXT NOT NULL DEFAULT ''
	      );`
	if _, err := db.Exec(infractionsSchema); err != nil {
		return nil, fmt.Errorf("failed to create infractions table: %w", err)
	}

	moderationsSchema := `CREATE TABLE IF NOT EXISTS ongoing_moderations (
	          id INTEGER PRIMARY KEY AUTOINCREMENT,
	          user_id TEXT NOT NULL,
	          end_time DATETIME NOT NULL,
	          type TEXT NOT NULL,
	          linked_infraction_id INTEGER NOT NULL,
	          FOREIGN KEY(linked_infraction_id) REFERENCES infractions(id) ON DELETE CASCADE
	      );`
	if _, err := db.Exec(moderationsSchema); err != nil {
		return nil, fmt.Errorf("failed to create ongoing_moderations table: %w", err)
	}

	return db, nil
}
