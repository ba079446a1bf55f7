package model

import (
	"time"
)

// Favorite marks a file as favorited by a user within an org context.
// At most one row exists per (user_id, org_id, file_id).
type Favorite struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	OrgID     string    `db:"org_id"`
	FileID    string    `db:"file_id"`
	CreatedAt time.Time `db:"created_at"`
}
