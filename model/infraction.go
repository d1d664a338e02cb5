package model

import (
	"database/sql"
	"time"
)

// InfractionType identifies the kind of disciplinary action a record represents.
type InfractionType string

const (
	InfractionNote     InfractionType = "note"
	InfractionWarn     InfractionType = "warn"
	InfractionMute     InfractionType = "mute"
	InfractionKick     InfractionType = "kick"
	InfractionBan      InfractionType = "ban"
	InfractionUnmute   InfractionType = "unmute"
	InfractionUnban    InfractionType = "unban"
	InfractionUndeafen InfractionType = "undeafen"
)

// Reversible reports whether the type represents a time-bound sanction that
// can be tracked as an ongoing moderation and reversed later.
func (t InfractionType) Reversible() bool {
	return t == InfractionMute || t == InfractionBan
}

// ReversalType returns the infraction type logged when a sanction of this
// type is lifted. The second return value is false for non-reversible types.
func (t InfractionType) ReversalType() (InfractionType, bool) {
	switch t {
	case InfractionMute:
		return InfractionUnmute, true
	case InfractionBan:
		return InfractionUnban, true
	default:
		return "", false
	}
}

// Infraction represents a single disciplinary record in the database.
// The database table is named 'infractions'.
type Infraction struct {
	ID            int64          `db:"id"` // Primary Key, Auto-increment
	Type          InfractionType `db:"type"`
	Timestamp     time.Time      `db:"timestamp"`
	LastUpdatedAt sql.NullTime   `db:"last_updated_at"` // Set on reason edits only
	StaffID       string         `db:"staff_id"`
	UserID        string         `db:"user_id"`
	Reason        string         `db:"reason"`
	StaffName     string         `db:"staff_name"` // Display name captured at creation time
	UserName      string         `db:"user_name"`
}
