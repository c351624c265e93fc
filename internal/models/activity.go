package models

import "time"

// AnonymousUser is recorded when a request carries no identity.
const AnonymousUser = "anonymous"

// ActivityFieldLimit is the column width of activities.user_id and activities.action.
const ActivityFieldLimit = 255

// Activity is one row of the append-only request audit trail.
type Activity struct {
	ID        int64     `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Action    string    `db:"action" json:"action"`
	Timestamp time.Time `db:"timestamp" json:"timestamp"`
	Details   string    `db:"details" json:"details"`
}
