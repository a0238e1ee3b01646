package service

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrNotConfirmed       = errors.New("email not confirmed")
	ErrPermissionDenied   = errors.New("permission denied")

	// ErrMilestoneMismatch means a task tried to link a milestone from
	// another project.
	ErrMilestoneMismatch = errors.New("milestone belongs to a different project")
)
