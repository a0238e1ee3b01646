package domain

import "testing"

func TestMilestoneProgress(t *testing.T) {
	cases := []struct {
		total, done int
		want        int
	}{
		{0, 0, 0},
		{10, 0, 0},
		{10, 10, 100},
		{3, 1, 33},
		{3, 2, 67},
		{8, 3, 38},
	}

	for _, tc := range cases {
		if got := MilestoneProgress(tc.total, tc.done); got != tc.want {
			t.Fatalf("MilestoneProgress(%d,%d) = %d; want %d", tc.total, tc.done, got, tc.want)
		}
	}
}

func TestNormalizeRole(t *testing.T) {
	cases := []struct {
		in   string
		want UserRole
	}{
		{"OWNER", RoleOwner},
		{"MEMBER", RoleMember},
		{"admin", RoleMember},
		{"", RoleMember},
	}

	for _, tc := range cases {
		if got := NormalizeRole(tc.in); got != tc.want {
			t.Fatalf("NormalizeRole(%q) = %s; want %s", tc.in, got, tc.want)
		}
	}
}
