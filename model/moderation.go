package model

import "time"

// OngoingModeration links a user to an active time-bound sanction and the
// infraction that created it. The database table is named
// 'ongoing_moderations'; deleting the linked infraction cascades here.
type OngoingModeration struct {
	ID                 int64          `db:"id"`
	UserID             string         `db:"user_id"`
	EndTime            time.Time      `db:"end_time"`
	Type               InfractionType `db:"type"` // mute or ban only
	LinkedInfractionID int64          `db:"linked_infraction_id"`
}
