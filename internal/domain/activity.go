package domain

import "time"

// Activity is an append-only audit record written after every mutating
// operation. Rows are never updated or deleted by the application.
type Activity struct {
	ID         string                 `db:"id" json:"id"`
	ProjectID  string                 `db:"project_id" json:"project_id"`
	UserID     string                 `db:"user_id" json:"user_id"`
	User       *User                  `json:"user,omitempty"`
	Action     string                 `db:"action_type" json:"action"`
	TargetType string                 `db:"entity_type" json:"target_type"`
	TargetID   string                 `db:"entity_id" json:"target_id"`
	Metadata   map[string]interface{} `db:"metadata" json:"metadata,omitempty"`
	CreatedAt  time.Time              `db:"created_at" json:"created_at"`
}

// Activity actions
const (
	ActionTaskCreated   = "TASK_CREATED"
	ActionTaskUpdated   = "TASK_UPDATED"
	ActionTaskDeleted   = "TASK_DELETED"
	ActionMemberAdded   = "MEMBER_ADDED"
	ActionMemberRemoved = "MEMBER_REMOVED"
)

// Activity target types
const (
	TargetTask   = "TASK"
	TargetMember = "MEMBER"
)
