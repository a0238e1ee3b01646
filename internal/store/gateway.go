// Package store is the client-side synchronization layer: it keeps
// local view state consistent with the remote store under concurrent
// user actions and a server-pushed activity feed.
package store

import (
	"context"

	"taskboard/internal/domain"
)

// Session is what the backend knows about the authenticated caller
// before the profile row is consulted.
type Session struct {
	UserID string
	Email  string
	Token  string
}

// SessionGateway is the auth seam. Session returns nil without error
// when nobody is signed in.
type SessionGateway interface {
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignUp(ctx context.Context, email, password, name string) error
	SignOut(ctx context.Context) error
	Session(ctx context.Context) (*Session, error)
	Profile(ctx context.Context, userID string) (*domain.User, error)
}

// ProjectGateway is the data seam a project view loads through.
type ProjectGateway interface {
	Project(ctx context.Context, id string) (*domain.Project, error)
	Tasks(ctx context.Context, projectID string) ([]domain.Task, error)
	Members(ctx context.Context, projectID string) ([]domain.User, error)
	Activities(ctx context.Context, projectID string) ([]domain.Activity, error)
	Activity(ctx context.Context, id string) (*domain.Activity, error)
	UpdateTaskStatus(ctx context.Context, taskID string, status domain.TaskStatus) error
}

// SearchResult mirrors the global search dropdown.
type SearchResult struct {
	Projects []domain.Project `json:"projects"`
	Tasks    []domain.Task    `json:"tasks"`
}

type SearchGateway interface {
	Search(ctx context.Context, query string) (*SearchResult, error)
}

// FeedSubscription delivers activity ids pushed for one project. Close
// tears the subscription down deterministically; Events is closed
// afterwards.
type FeedSubscription interface {
	Events() <-chan string
	Close() error
}
