package repository

import (
	"taskboard/internal/domain"
)

// joinedUser carries the nullable columns of a LEFT JOIN against
// profiles. When the join produced no row every column is NULL and the
// mapped user is nil; a present row always has id/email, the rest fall
// back to zero values.
type joinedUser struct {
	ID        *string
	Email     *string
	Name      *string
	AvatarURL *string
	Role      *string
}

// fields returns scan targets in select order:
// id, email, full_name, avatar_url, role.
func (j *joinedUser) fields() []any {
	return []any{&j.ID, &j.Email, &j.Name, &j.AvatarURL, &j.Role}
}

func (j *joinedUser) toUser() *domain.User {
	if j.ID == nil {
		return nil
	}
	u := &domain.User{ID: *j.ID, Role: domain.RoleMember}
	if j.Email != nil {
		u.Email = *j.Email
	}
	if j.Name != nil {
		u.Name = *j.Name
	}
	if u.Name == "" {
		u.Name = u.Email
	}
	if j.AvatarURL != nil {
		u.AvatarURL = *j.AvatarURL
	}
	if j.Role != nil {
		u.Role = domain.NormalizeRole(*j.Role)
	}
	return u
}
