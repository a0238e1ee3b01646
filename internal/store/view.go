package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"taskboard/internal/domain"
	"taskboard/internal/logger"
)

// ErrFetchTimeout marks an aggregate load that hit the client-side
// deadline. Historically this has meant a recursive access policy on
// the backend, so the diagnostic is kept distinct from ordinary
// network failures.
var ErrFetchTimeout = errors.New("aggregate fetch timed out; possible recursive access policy")

// ErrMalformedRecord rejects feed pushes without an id.
var ErrMalformedRecord = errors.New("malformed record: missing id")

type ViewState int

const (
	StateIdle ViewState = iota
	StateLoading
	StateReady
	StateFailed
)

func (s ViewState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// ProjectView keeps one project screen's aggregate consistent with the
// backend: a concurrent load behind a timeout, optimistic task-status
// transitions reverted by re-fetch on failure, and a feed of pushed
// activity rows merged newest-first.
//
// Loads carry a generation number; an optimistic update bumps it so a
// fetch that was already in flight can never overwrite the newer local
// state. A reconciling re-fetch happens only on the error path, never
// speculatively.
type ProjectView struct {
	gw        ProjectGateway
	projectID string
	timeout   time.Duration

	mu         sync.Mutex
	state      ViewState
	err        error
	generation int
	project    *domain.Project
	tasks      []domain.Task
	members    []domain.User
	activities []domain.Activity
	seen       map[string]struct{}

	feed     FeedSubscription
	feedDone chan struct{}
}

func NewProjectView(gw ProjectGateway, projectID string, timeout time.Duration) *ProjectView {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &ProjectView{
		gw:        gw,
		projectID: projectID,
		timeout:   timeout,
		state:     StateIdle,
		seen:      make(map[string]struct{}),
	}
}

func (v *ProjectView) State() ViewState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

func (v *ProjectView) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.err
}

func (v *ProjectView) Project() *domain.Project {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.project
}

// Tasks returns a copy; the UI must never alias internal state.
func (v *ProjectView) Tasks() []domain.Task {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]domain.Task, len(v.tasks))
	copy(out, v.tasks)
	return out
}

func (v *ProjectView) Members() []domain.User {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]domain.User, len(v.members))
	copy(out, v.members)
	return out
}

func (v *ProjectView) Activities() []domain.Activity {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]domain.Activity, len(v.activities))
	copy(out, v.activities)
	return out
}

// Load fetches the project aggregate concurrently, raced against the
// view timeout. Partial failure fails the whole load; the screen
// renders an explicit failure instead of silently empty sections.
func (v *ProjectView) Load(ctx context.Context) error {
	v.mu.Lock()
	v.state = StateLoading
	v.err = nil
	v.generation++
	gen := v.generation
	v.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	var (
		project    *domain.Project
		tasks      []domain.Task
		members    []domain.User
		activities []domain.Activity
	)

	errs := make(chan error, 4)
	go func() {
		var err error
		project, err = v.gw.Project(ctx, v.projectID)
		errs <- err
	}()
	go func() {
		var err error
		tasks, err = v.gw.Tasks(ctx, v.projectID)
		errs <- err
	}()
	go func() {
		var err error
		members, err = v.gw.Members(ctx, v.projectID)
		errs <- err
	}()
	go func() {
		var err error
		activities, err = v.gw.Activities(ctx, v.projectID)
		errs <- err
	}()

	var loadErr error
	for i := 0; i < 4; i++ {
		if err := <-errs; err != nil && loadErr == nil {
			loadErr = err
		}
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.generation != gen {
		// a newer local mutation or load superseded this fetch
		logger.Debug("discarding stale load", "project_id", v.projectID)
		return nil
	}

	if loadErr != nil {
		v.state = StateFailed
		if errors.Is(loadErr, context.DeadlineExceeded) {
			v.err = ErrFetchTimeout
		} else {
			v.err = loadErr
		}
		return v.err
	}

	v.project = project
	v.tasks = tasks
	v.members = members
	v.activities = activities
	v.seen = make(map[string]struct{}, len(activities))
	for _, a := range activities {
		v.seen[a.ID] = struct{}{}
	}
	v.state = StateReady
	return nil
}

// SetTaskStatus applies the transition locally before the backend call
// starts, so the board repaints immediately. On failure the optimistic
// state is reverted by a full reconciling reload and the error is
// returned for the UI's "failed to update" alert.
func (v *ProjectView) SetTaskStatus(ctx context.Context, taskID string, status domain.TaskStatus) error {
	v.mu.Lock()
	found := false
	for i := range v.tasks {
		if v.tasks[i].ID == taskID {
			v.tasks[i].Status = status
			found = true
			break
		}
	}
	// invalidate any fetch already in flight
	v.generation++
	v.mu.Unlock()

	if !found {
		return errors.New("task not in view: " + taskID)
	}

	if err := v.gw.UpdateTaskStatus(ctx, taskID, status); err != nil {
		if lerr := v.Load(ctx); lerr != nil {
			logger.Error("revert reload failed", "error", lerr, "project_id", v.projectID)
		}
		return err
	}
	return nil
}

// ApplyActivity merges one pushed feed event: fetch the enriched row
// and prepend it. Duplicates and foreign-project rows are ignored.
func (v *ProjectView) ApplyActivity(ctx context.Context, activityID string) error {
	if activityID == "" {
		return ErrMalformedRecord
	}

	v.mu.Lock()
	if _, dup := v.seen[activityID]; dup {
		v.mu.Unlock()
		return nil
	}
	v.mu.Unlock()

	activity, err := v.gw.Activity(ctx, activityID)
	if err != nil {
		return err
	}
	if activity.ID == "" {
		return ErrMalformedRecord
	}
	if activity.ProjectID != v.projectID {
		return nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if _, dup := v.seen[activity.ID]; dup {
		return nil
	}
	v.seen[activity.ID] = struct{}{}
	v.activities = append([]domain.Activity{*activity}, v.activities...)
	return nil
}

// Attach consumes a feed subscription until it closes or the view is
// closed. One subscription per visible view; Close tears it down.
func (v *ProjectView) Attach(ctx context.Context, feed FeedSubscription) {
	v.mu.Lock()
	v.feed = feed
	done := make(chan struct{})
	v.feedDone = done
	v.mu.Unlock()

	go func() {
		defer close(done)
		for id := range feed.Events() {
			if err := v.ApplyActivity(ctx, id); err != nil {
				logger.Warn("feed merge failed", "error", err, "activity_id", id)
			}
		}
	}()
}

// Close detaches the feed subscription. Safe to call more than once.
func (v *ProjectView) Close() {
	v.mu.Lock()
	feed := v.feed
	done := v.feedDone
	v.feed = nil
	v.feedDone = nil
	v.mu.Unlock()

	if feed != nil {
		feed.Close()
		<-done
	}
}
