package domain

import "time"

// Member links a user to a project with a per-project role string. The
// project owner is a member even when absent from the membership table;
// read paths deduplicate the owner.
type Member struct {
	UserID    string    `db:"user_id" json:"user_id"`
	ProjectID string    `db:"project_id" json:"project_id"`
	Role      string    `db:"role" json:"role"`
	JoinedAt  time.Time `db:"joined_at" json:"joined_at"`
}
