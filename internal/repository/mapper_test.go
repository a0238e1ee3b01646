package repository

import (
	"testing"

	"taskboard/internal/domain"
)

func strptr(s string) *string { return &s }

func TestJoinedUserNilJoin(t *testing.T) {
	var j joinedUser
	if u := j.toUser(); u != nil {
		t.Fatalf("toUser on all-NULL join = %+v; want nil", u)
	}
}

func TestJoinedUserNameFallsBackToEmail(t *testing.T) {
	j := joinedUser{
		ID:    strptr("u1"),
		Email: strptr("a@example.com"),
	}
	u := j.toUser()
	if u == nil {
		t.Fatal("toUser returned nil for present row")
	}
	if u.Name != "a@example.com" {
		t.Fatalf("Name = %q; want email fallback", u.Name)
	}
	if u.Role != domain.RoleMember {
		t.Fatalf("Role = %s; want MEMBER default", u.Role)
	}
}

func TestJoinedUserRoleNormalized(t *testing.T) {
	j := joinedUser{
		ID:    strptr("u1"),
		Email: strptr("a@example.com"),
		Name:  strptr("Alice"),
		Role:  strptr("superadmin"),
	}
	u := j.toUser()
	if u.Role != domain.RoleMember {
		t.Fatalf("Role = %s; want unknown roles collapsed to MEMBER", u.Role)
	}
}
