package domain

import (
	"math"
	"time"
)

type MilestoneStatus string

const (
	MilestoneOpen   MilestoneStatus = "OPEN"
	MilestoneClosed MilestoneStatus = "CLOSED"
)

type Milestone struct {
	ID          string          `db:"id" json:"id"`
	ProjectID   string          `db:"project_id" json:"project_id"`
	Title       string          `db:"title" json:"title"`
	Description string          `db:"description" json:"description,omitempty"`
	DueDate     *time.Time      `db:"due_date" json:"due_date,omitempty"`
	Status      MilestoneStatus `db:"status" json:"status"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
	Progress    int             `json:"progress"`
}

// MilestoneProgress is the rounded completion percentage of the linked
// tasks. A milestone with no tasks is 0%, not a division fault.
func MilestoneProgress(total, done int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(done) / float64(total) * 100))
}
