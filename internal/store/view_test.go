package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"taskboard/internal/domain"
)

func TestLoadReady(t *testing.T) {
	v := NewProjectView(happyProjectGateway(), "p1", time.Second)

	if v.State() != StateIdle {
		t.Fatalf("state = %s; want idle before first load", v.State())
	}
	if err := v.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if v.State() != StateReady {
		t.Fatalf("state = %s; want ready", v.State())
	}
	if got := v.Tasks(); len(got) != 2 {
		t.Fatalf("tasks = %d; want 2", len(got))
	}
	if got := v.Activities(); len(got) != 1 || got[0].ID != "a1" {
		t.Fatalf("activities = %+v; want the seeded one", got)
	}
}

func TestLoadPartialFailureFailsWhole(t *testing.T) {
	gw := happyProjectGateway()
	wantErr := errors.New("members query failed")
	gw.membersFn = func(ctx context.Context, projectID string) ([]domain.User, error) {
		return nil, wantErr
	}
	v := NewProjectView(gw, "p1", time.Second)

	err := v.Load(context.Background())
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v; want the members error", err)
	}
	if v.State() != StateFailed {
		t.Fatalf("state = %s; want failed", v.State())
	}
}

func TestLoadTimeout(t *testing.T) {
	gw := happyProjectGateway()
	gw.tasksFn = func(ctx context.Context, projectID string) ([]domain.Task, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	v := NewProjectView(gw, "p1", 20*time.Millisecond)

	err := v.Load(context.Background())
	if !errors.Is(err, ErrFetchTimeout) {
		t.Fatalf("err = %v; want ErrFetchTimeout", err)
	}
	if v.State() != StateFailed {
		t.Fatalf("state = %s; want failed", v.State())
	}
}

func TestSetTaskStatusOptimistic(t *testing.T) {
	gw := happyProjectGateway()
	applied := make(chan struct{})
	gw.updateFn = func(ctx context.Context, taskID string, status domain.TaskStatus) error {
		<-applied
		return nil
	}
	v := NewProjectView(gw, "p1", time.Second)
	if err := v.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- v.SetTaskStatus(context.Background(), "t1", domain.TaskInProgress)
	}()

	// the local copy must flip before the backend call returns
	deadline := time.Now().Add(time.Second)
	for {
		var cur domain.TaskStatus
		for _, task := range v.Tasks() {
			if task.ID == "t1" {
				cur = task.Status
			}
		}
		if cur == domain.TaskInProgress {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("optimistic status never applied")
		}
		time.Sleep(time.Millisecond)
	}

	close(applied)
	if err := <-done; err != nil {
		t.Fatalf("SetTaskStatus: %v", err)
	}
}

func TestSetTaskStatusRevertsOnFailure(t *testing.T) {
	gw := happyProjectGateway()
	wantErr := errors.New("update rejected")
	gw.updateFn = func(ctx context.Context, taskID string, status domain.TaskStatus) error {
		return wantErr
	}
	v := NewProjectView(gw, "p1", time.Second)
	if err := v.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	err := v.SetTaskStatus(context.Background(), "t1", domain.TaskInProgress)
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v; want the gateway error", err)
	}

	// the reconciling reload restored the server state
	for _, task := range v.Tasks() {
		if task.ID == "t1" && task.Status != domain.TaskTodo {
			t.Fatalf("t1 status = %s; want reverted to TODO", task.Status)
		}
	}
}

func TestSetTaskStatusUnknownTask(t *testing.T) {
	gw := happyProjectGateway()
	v := NewProjectView(gw, "p1", time.Second)
	if err := v.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if err := v.SetTaskStatus(context.Background(), "nope", domain.TaskDone); err == nil {
		t.Fatal("want error for task not in view")
	}
	if gw.updateCalls != 0 {
		t.Fatal("gateway must not be called for an unknown task")
	}
}

func TestStaleLoadDiscarded(t *testing.T) {
	gw := happyProjectGateway()
	gate := make(chan struct{})
	stale := []domain.Task{{ID: "t1", ProjectID: "p1", Status: domain.TaskBacklog}}
	gw.tasksFn = func(ctx context.Context, projectID string) ([]domain.Task, error) {
		<-gate
		return stale, nil
	}
	v := NewProjectView(gw, "p1", time.Second)

	loadDone := make(chan error, 1)
	go func() { loadDone <- v.Load(context.Background()) }()

	// bump the generation while the fetch is blocked
	time.Sleep(10 * time.Millisecond)
	v.mu.Lock()
	v.generation++
	v.tasks = []domain.Task{{ID: "t1", ProjectID: "p1", Status: domain.TaskDone}}
	v.mu.Unlock()

	close(gate)
	if err := <-loadDone; err != nil {
		t.Fatalf("Load: %v", err)
	}

	tasks := v.Tasks()
	if len(tasks) != 1 || tasks[0].Status != domain.TaskDone {
		t.Fatalf("tasks = %+v; stale fetch must not overwrite newer state", tasks)
	}
}

func TestApplyActivityPrependAndDedupe(t *testing.T) {
	gw := happyProjectGateway()
	v := NewProjectView(gw, "p1", time.Second)
	if err := v.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if err := v.ApplyActivity(context.Background(), "a2"); err != nil {
		t.Fatalf("ApplyActivity: %v", err)
	}
	acts := v.Activities()
	if len(acts) != 2 || acts[0].ID != "a2" {
		t.Fatalf("activities = %+v; want a2 prepended", acts)
	}

	// pushing the same id again is a no-op
	if err := v.ApplyActivity(context.Background(), "a2"); err != nil {
		t.Fatalf("ApplyActivity dup: %v", err)
	}
	if got := v.Activities(); len(got) != 2 {
		t.Fatalf("activities = %d; duplicate must be ignored", len(got))
	}

	// an id already present from the initial load is also a no-op
	if err := v.ApplyActivity(context.Background(), "a1"); err != nil {
		t.Fatalf("ApplyActivity existing: %v", err)
	}
	if got := v.Activities(); len(got) != 2 {
		t.Fatalf("activities = %d; loaded ids must be deduped too", len(got))
	}
}

func TestApplyActivityForeignProjectIgnored(t *testing.T) {
	gw := happyProjectGateway()
	gw.activityFn = func(ctx context.Context, id string) (*domain.Activity, error) {
		return &domain.Activity{ID: id, ProjectID: "other"}, nil
	}
	v := NewProjectView(gw, "p1", time.Second)
	if err := v.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if err := v.ApplyActivity(context.Background(), "a9"); err != nil {
		t.Fatalf("ApplyActivity: %v", err)
	}
	if got := v.Activities(); len(got) != 1 {
		t.Fatalf("activities = %d; foreign project rows must be dropped", len(got))
	}
}

func TestApplyActivityMissingID(t *testing.T) {
	v := NewProjectView(happyProjectGateway(), "p1", time.Second)
	if err := v.ApplyActivity(context.Background(), ""); !errors.Is(err, ErrMalformedRecord) {
		t.Fatalf("err = %v; want ErrMalformedRecord", err)
	}
}

type chanFeed struct {
	ch chan string
}

func (f *chanFeed) Events() <-chan string { return f.ch }
func (f *chanFeed) Close() error {
	close(f.ch)
	return nil
}

func TestAttachMergesFeedEvents(t *testing.T) {
	gw := happyProjectGateway()
	v := NewProjectView(gw, "p1", time.Second)
	if err := v.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	feed := &chanFeed{ch: make(chan string, 4)}
	v.Attach(context.Background(), feed)
	feed.ch <- "a5"

	deadline := time.Now().Add(time.Second)
	for len(v.Activities()) < 2 {
		if time.Now().After(deadline) {
			t.Fatal("feed event never merged")
		}
		time.Sleep(time.Millisecond)
	}

	v.Close()
	if got := v.Activities(); got[0].ID != "a5" {
		t.Fatalf("newest activity = %s; want a5", got[0].ID)
	}
}
