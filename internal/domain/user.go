package domain

import "time"

type UserRole string

const (
	RoleOwner  UserRole = "OWNER"
	RoleMember UserRole = "MEMBER"
)

// NormalizeRole collapses anything outside the canonical role set to MEMBER.
// Older profile rows carried ad hoc roles that are no longer recognized.
func NormalizeRole(s string) UserRole {
	if UserRole(s) == RoleOwner {
		return RoleOwner
	}
	return RoleMember
}

type User struct {
	ID        string    `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	Name      string    `db:"full_name" json:"name"`
	AvatarURL string    `db:"avatar_url" json:"avatar_url,omitempty"`
	Role      UserRole  `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
