package store

import (
	"context"
	"sync"

	"taskboard/internal/domain"
)

// stubGateway implements all gateway seams with per-call hooks so each
// test overrides only what it needs.
type stubGateway struct {
	mu sync.Mutex

	signInFn  func(ctx context.Context, email, password string) (*Session, error)
	signUpFn  func(ctx context.Context, email, password, name string) error
	sessionFn func(ctx context.Context) (*Session, error)
	profileFn func(ctx context.Context, userID string) (*domain.User, error)

	projectFn    func(ctx context.Context, id string) (*domain.Project, error)
	tasksFn      func(ctx context.Context, projectID string) ([]domain.Task, error)
	membersFn    func(ctx context.Context, projectID string) ([]domain.User, error)
	activitiesFn func(ctx context.Context, projectID string) ([]domain.Activity, error)
	activityFn   func(ctx context.Context, id string) (*domain.Activity, error)
	updateFn     func(ctx context.Context, taskID string, status domain.TaskStatus) error

	searchFn func(ctx context.Context, query string) (*SearchResult, error)

	searchCalls int
	updateCalls int
}

func (g *stubGateway) SignIn(ctx context.Context, email, password string) (*Session, error) {
	return g.signInFn(ctx, email, password)
}

func (g *stubGateway) SignUp(ctx context.Context, email, password, name string) error {
	return g.signUpFn(ctx, email, password, name)
}

func (g *stubGateway) SignOut(ctx context.Context) error { return nil }

func (g *stubGateway) Session(ctx context.Context) (*Session, error) {
	return g.sessionFn(ctx)
}

func (g *stubGateway) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return g.profileFn(ctx, userID)
}

func (g *stubGateway) Project(ctx context.Context, id string) (*domain.Project, error) {
	return g.projectFn(ctx, id)
}

func (g *stubGateway) Tasks(ctx context.Context, projectID string) ([]domain.Task, error) {
	return g.tasksFn(ctx, projectID)
}

func (g *stubGateway) Members(ctx context.Context, projectID string) ([]domain.User, error) {
	return g.membersFn(ctx, projectID)
}

func (g *stubGateway) Activities(ctx context.Context, projectID string) ([]domain.Activity, error) {
	return g.activitiesFn(ctx, projectID)
}

func (g *stubGateway) Activity(ctx context.Context, id string) (*domain.Activity, error) {
	return g.activityFn(ctx, id)
}

func (g *stubGateway) UpdateTaskStatus(ctx context.Context, taskID string, status domain.TaskStatus) error {
	g.mu.Lock()
	g.updateCalls++
	g.mu.Unlock()
	return g.updateFn(ctx, taskID, status)
}

func (g *stubGateway) Search(ctx context.Context, query string) (*SearchResult, error) {
	g.mu.Lock()
	g.searchCalls++
	g.mu.Unlock()
	return g.searchFn(ctx, query)
}

// happyProjectGateway returns a stub with one project, two tasks and
// one activity, every call succeeding.
func happyProjectGateway() *stubGateway {
	return &stubGateway{
		projectFn: func(ctx context.Context, id string) (*domain.Project, error) {
			return &domain.Project{ID: id, Name: "Demo"}, nil
		},
		tasksFn: func(ctx context.Context, projectID string) ([]domain.Task, error) {
			return []domain.Task{
				{ID: "t1", ProjectID: projectID, Title: "first", Status: domain.TaskTodo},
				{ID: "t2", ProjectID: projectID, Title: "second", Status: domain.TaskDone},
			}, nil
		},
		membersFn: func(ctx context.Context, projectID string) ([]domain.User, error) {
			return []domain.User{{ID: "u1", Email: "owner@example.com"}}, nil
		},
		activitiesFn: func(ctx context.Context, projectID string) ([]domain.Activity, error) {
			return []domain.Activity{{ID: "a1", ProjectID: projectID}}, nil
		},
		activityFn: func(ctx context.Context, id string) (*domain.Activity, error) {
			return &domain.Activity{ID: id, ProjectID: "p1"}, nil
		},
		updateFn: func(ctx context.Context, taskID string, status domain.TaskStatus) error {
			return nil
		},
	}
}
