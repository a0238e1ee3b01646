package store

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"taskboard/internal/domain"
)

// MockGateway is an in-memory gateway for demo and offline runs. Any
// credentials sign in; data lives only for the process lifetime.
type MockGateway struct {
	mu         sync.Mutex
	session    *Session
	users      map[string]*domain.User
	projects   map[string]*domain.Project
	tasks      map[string]*domain.Task
	activities map[string]*domain.Activity
	feeds      map[*mockFeed]struct{}
}

func NewMockGateway() *MockGateway {
	g := &MockGateway{
		users:      make(map[string]*domain.User),
		projects:   make(map[string]*domain.Project),
		tasks:      make(map[string]*domain.Task),
		activities: make(map[string]*domain.Activity),
		feeds:      make(map[*mockFeed]struct{}),
	}
	g.seed()
	return g
}

func (g *MockGateway) seed() {
	now := time.Now()

	owner := &domain.User{
		ID:        uuid.NewString(),
		Email:     "demo@example.com",
		Name:      "Demo Owner",
		Role:      domain.RoleOwner,
		CreatedAt: now,
	}
	g.users[owner.ID] = owner

	project := &domain.Project{
		ID:          uuid.NewString(),
		Name:        "Demo Project",
		Description: "Seeded sample data",
		Status:      domain.ProjectActive,
		OwnerID:     owner.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	g.projects[project.ID] = project

	for i, title := range []string{"Set up workspace", "Draft roadmap", "Review backlog"} {
		status := domain.TaskBacklog
		if i == 2 {
			status = domain.TaskDone
		}
		t := &domain.Task{
			ID:        uuid.NewString(),
			ProjectID: project.ID,
			Title:     title,
			Status:    status,
			Priority:  domain.PriorityMedium,
			CreatedAt: now,
			UpdatedAt: now,
		}
		g.tasks[t.ID] = t
	}
}

func (g *MockGateway) SignIn(ctx context.Context, email, password string) (*Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	var user *domain.User
	for _, u := range g.users {
		if u.Email == email {
			user = u
			break
		}
	}
	if user == nil {
		user = &domain.User{
			ID:        uuid.NewString(),
			Email:     email,
			Name:      email,
			Role:      domain.RoleMember,
			CreatedAt: time.Now(),
		}
		g.users[user.ID] = user
	}
	g.session = &Session{UserID: user.ID, Email: email, Token: "mock-" + uuid.NewString()}
	return g.session, nil
}

func (g *MockGateway) SignUp(ctx context.Context, email, password, name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if name == "" {
		name = email
	}
	u := &domain.User{
		ID:        uuid.NewString(),
		Email:     email,
		Name:      name,
		Role:      domain.RoleMember,
		CreatedAt: time.Now(),
	}
	g.users[u.ID] = u
	return nil
}

func (g *MockGateway) SignOut(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.session = nil
	return nil
}

func (g *MockGateway) Session(ctx context.Context) (*Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.session, nil
}

func (g *MockGateway) Profile(ctx context.Context, userID string) (*domain.User, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if u, ok := g.users[userID]; ok {
		return u, nil
	}
	return nil, errors.New("profile not found")
}

func (g *MockGateway) Project(ctx context.Context, id string) (*domain.Project, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if p, ok := g.projects[id]; ok {
		cp := *p
		cp.Stats = g.statsFor(id)
		return &cp, nil
	}
	return nil, errors.New("project not found")
}

// Projects lists seeded projects, newest first is not meaningful here
// so insertion order is not guaranteed.
func (g *MockGateway) Projects(ctx context.Context) ([]domain.Project, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]domain.Project, 0, len(g.projects))
	for _, p := range g.projects {
		cp := *p
		cp.Stats = g.statsFor(p.ID)
		out = append(out, cp)
	}
	return out, nil
}

// statsFor derives stats from the live task set, same as the real
// backend does at read time. Caller holds g.mu.
func (g *MockGateway) statsFor(projectID string) domain.ProjectStats {
	tasks := make([]domain.Task, 0)
	for _, t := range g.tasks {
		if t.ProjectID == projectID {
			tasks = append(tasks, *t)
		}
	}
	return domain.ComputeStats(tasks, time.Now())
}

func (g *MockGateway) Tasks(ctx context.Context, projectID string) ([]domain.Task, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]domain.Task, 0)
	for _, t := range g.tasks {
		if t.ProjectID == projectID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (g *MockGateway) Members(ctx context.Context, projectID string) ([]domain.User, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, ok := g.projects[projectID]
	if !ok {
		return nil, errors.New("project not found")
	}
	if owner, ok := g.users[p.OwnerID]; ok {
		return []domain.User{*owner}, nil
	}
	return []domain.User{}, nil
}

func (g *MockGateway) Activities(ctx context.Context, projectID string) ([]domain.Activity, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]domain.Activity, 0)
	for _, a := range g.activities {
		if a.ProjectID == projectID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (g *MockGateway) Activity(ctx context.Context, id string) (*domain.Activity, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if a, ok := g.activities[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, errors.New("activity not found")
}

func (g *MockGateway) UpdateTaskStatus(ctx context.Context, taskID string, status domain.TaskStatus) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	t, ok := g.tasks[taskID]
	if !ok {
		return errors.New("task not found")
	}
	t.Status = status
	t.UpdatedAt = time.Now()

	if g.session != nil {
		a := &domain.Activity{
			ID:         uuid.NewString(),
			ProjectID:  t.ProjectID,
			UserID:     g.session.UserID,
			Action:     domain.ActionTaskUpdated,
			TargetType: domain.TargetTask,
			TargetID:   t.ID,
			Metadata:   map[string]interface{}{"title": t.Title, "changed": "status"},
			CreatedAt:  time.Now(),
		}
		g.activities[a.ID] = a
		for f := range g.feeds {
			if f.projectID != t.ProjectID {
				continue
			}
			select {
			case f.events <- a.ID:
			default:
			}
		}
	}
	return nil
}

// Subscribe returns a FeedSubscription fed by this gateway's own
// mutations, standing in for the websocket feed.
func (g *MockGateway) Subscribe(projectID string) FeedSubscription {
	f := &mockFeed{
		g:         g,
		projectID: projectID,
		events:    make(chan string, 16),
	}
	g.mu.Lock()
	g.feeds[f] = struct{}{}
	g.mu.Unlock()
	return f
}

type mockFeed struct {
	g         *MockGateway
	projectID string
	events    chan string
	once      sync.Once
}

func (f *mockFeed) Events() <-chan string { return f.events }

func (f *mockFeed) Close() error {
	f.g.mu.Lock()
	delete(f.g.feeds, f)
	f.g.mu.Unlock()
	// no sender can hold the feed anymore, safe to close
	f.once.Do(func() { close(f.events) })
	return nil
}

func (g *MockGateway) Search(ctx context.Context, query string) (*SearchResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	res := &SearchResult{Projects: []domain.Project{}, Tasks: []domain.Task{}}
	for _, p := range g.projects {
		if containsFold(p.Name, query) && len(res.Projects) < 5 {
			res.Projects = append(res.Projects, *p)
		}
	}
	for _, t := range g.tasks {
		if containsFold(t.Title, query) && len(res.Tasks) < 5 {
			res.Tasks = append(res.Tasks, *t)
		}
	}
	return res, nil
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
