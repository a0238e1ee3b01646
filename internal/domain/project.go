package domain

import "time"

type ProjectStatus string

const (
	ProjectActive   ProjectStatus = "ACTIVE"
	ProjectArchived ProjectStatus = "ARCHIVED"
)

// ProjectStats is derived from the live task set on every read and is
// never persisted.
type ProjectStats struct {
	TotalTasks     int `json:"total_tasks"`
	CompletedTasks int `json:"completed_tasks"`
	OverdueTasks   int `json:"overdue_tasks"`
}

type Project struct {
	ID          string        `db:"id" json:"id"`
	Name        string        `db:"name" json:"name"`
	Description string        `db:"description" json:"description,omitempty"`
	OwnerID     string        `db:"owner_id" json:"owner_id"`
	Status      ProjectStatus `db:"status" json:"status"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updated_at"`
	Stats       ProjectStats  `json:"stats"`
}

// ComputeStats recomputes project statistics from the given tasks. A task
// counts as overdue when its due date has passed and it is not DONE.
func ComputeStats(tasks []Task, now time.Time) ProjectStats {
	var s ProjectStats
	s.TotalTasks = len(tasks)
	for _, t := range tasks {
		if t.Status == TaskDone {
			s.CompletedTasks++
			continue
		}
		if t.DueDate != nil && t.DueDate.Before(now) {
			s.OverdueTasks++
		}
	}
	return s
}
