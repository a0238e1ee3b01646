package store

import (
	"context"
	"testing"
	"time"

	"taskboard/internal/domain"
)

func TestMockGatewayAnyCredentials(t *testing.T) {
	g := NewMockGateway()
	ctx := context.Background()

	sess, err := g.SignIn(ctx, "whoever@example.com", "anything")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if sess.UserID == "" || sess.Token == "" {
		t.Fatalf("session = %+v; want populated", sess)
	}

	u, err := g.Profile(ctx, sess.UserID)
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if u.Email != "whoever@example.com" {
		t.Fatalf("profile email = %q", u.Email)
	}
}

func TestMockGatewaySeededProject(t *testing.T) {
	g := NewMockGateway()
	ctx := context.Background()

	projects, err := g.Projects(ctx)
	if err != nil {
		t.Fatalf("Projects: %v", err)
	}
	if len(projects) != 1 {
		t.Fatalf("projects = %d; want the seeded one", len(projects))
	}

	tasks, err := g.Tasks(ctx, projects[0].ID)
	if err != nil {
		t.Fatalf("Tasks: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("tasks = %d; want 3 seeded", len(tasks))
	}

	members, err := g.Members(ctx, projects[0].ID)
	if err != nil {
		t.Fatalf("Members: %v", err)
	}
	if len(members) != 1 || members[0].Role != domain.RoleOwner {
		t.Fatalf("members = %+v; want the owner", members)
	}
}

func TestMockGatewayStatusUpdateRecordsActivity(t *testing.T) {
	g := NewMockGateway()
	ctx := context.Background()

	if _, err := g.SignIn(ctx, "demo@example.com", "pw"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	projects, _ := g.Projects(ctx)
	tasks, _ := g.Tasks(ctx, projects[0].ID)

	if err := g.UpdateTaskStatus(ctx, tasks[0].ID, domain.TaskDone); err != nil {
		t.Fatalf("UpdateTaskStatus: %v", err)
	}

	acts, err := g.Activities(ctx, projects[0].ID)
	if err != nil {
		t.Fatalf("Activities: %v", err)
	}
	if len(acts) != 1 || acts[0].Action != domain.ActionTaskUpdated {
		t.Fatalf("activities = %+v; want one TASK_UPDATED", acts)
	}
}

// The seed has one DONE task out of three, and stats must track
// further status changes.
func TestMockGatewayProjectStats(t *testing.T) {
	g := NewMockGateway()
	ctx := context.Background()

	projects, _ := g.Projects(ctx)
	p, err := g.Project(ctx, projects[0].ID)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if p.Stats.TotalTasks != 3 || p.Stats.CompletedTasks != 1 {
		t.Fatalf("stats = %+v; want 3 total, 1 completed", p.Stats)
	}

	tasks, _ := g.Tasks(ctx, p.ID)
	for _, task := range tasks {
		if task.Status != domain.TaskDone {
			if err := g.UpdateTaskStatus(ctx, task.ID, domain.TaskDone); err != nil {
				t.Fatalf("UpdateTaskStatus: %v", err)
			}
		}
	}

	p, _ = g.Project(ctx, p.ID)
	if p.Stats.CompletedTasks != 3 {
		t.Fatalf("stats = %+v; want all 3 completed", p.Stats)
	}
}

func TestMockGatewayFeedDeliversOnStatusChange(t *testing.T) {
	g := NewMockGateway()
	ctx := context.Background()

	if _, err := g.SignIn(ctx, "demo@example.com", "pw"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	projects, _ := g.Projects(ctx)
	tasks, _ := g.Tasks(ctx, projects[0].ID)

	feed := g.Subscribe(projects[0].ID)
	other := g.Subscribe("someone-elses-project")

	if err := g.UpdateTaskStatus(ctx, tasks[0].ID, domain.TaskInProgress); err != nil {
		t.Fatalf("UpdateTaskStatus: %v", err)
	}

	var id string
	select {
	case id = <-feed.Events():
	case <-time.After(2 * time.Second):
		t.Fatal("feed never delivered the activity id")
	}
	a, err := g.Activity(ctx, id)
	if err != nil {
		t.Fatalf("Activity(%q): %v", id, err)
	}
	if a.ProjectID != projects[0].ID {
		t.Fatalf("activity project = %q; want %q", a.ProjectID, projects[0].ID)
	}

	select {
	case got := <-other.Events():
		t.Fatalf("foreign-project feed got %q; want nothing", got)
	default:
	}

	if err := feed.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, ok := <-feed.Events(); ok {
		t.Fatal("events channel still open after Close")
	}
}

func TestMockGatewaySearch(t *testing.T) {
	g := NewMockGateway()
	res, err := g.Search(context.Background(), "demo")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.Projects) != 1 {
		t.Fatalf("projects = %+v; want the demo project matched", res.Projects)
	}
}
