package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"taskboard/internal/config"
	"taskboard/internal/domain"
	"taskboard/internal/store"
)

// gateway is what the smoke run needs from either backend.
type gateway interface {
	store.SessionGateway
	store.ProjectGateway
}

// Smoke test for the realtime feed: sign in, load a project view,
// attach the activity feed, flip a task status and watch the pushed
// activity arrive in the view. With MOCK_MODE=true everything runs
// against the canned in-memory gateway, no server or database needed.
func main() {
	email := flag.String("email", "dev@example.com", "login email")
	password := flag.String("password", "devpassword", "login password")
	projectID := flag.String("project", "", "project id to watch (defaults to the seeded project in mock mode)")
	taskID := flag.String("task", "", "task id to flip (optional; mock mode picks one)")
	flag.Parse()

	cfg := config.Load()
	ctx := context.Background()

	var gw gateway
	var mock *store.MockGateway
	if cfg.MockMode {
		mock = store.NewMockGateway()
		gw = mock
		log.Println("mock mode: in-memory data, any credentials accepted")
	} else {
		// prefer IPv4 to avoid resolving to [::1]
		gw = store.NewAPIGateway(fmt.Sprintf("http://127.0.0.1:%s", cfg.AppPort))
	}

	identity := store.NewIdentityStore(gw, cfg.LoginTimeout)
	if err := identity.Login(ctx, *email, *password); err != nil {
		log.Fatalf("sign in: %v", err)
	}
	state := identity.State()
	log.Printf("signed in as %s (%s)", state.User.Name, state.User.ID)

	if *projectID == "" {
		if mock == nil {
			log.Fatal("-project is required")
		}
		projects, err := mock.Projects(ctx)
		if err != nil || len(projects) == 0 {
			log.Fatalf("no seeded project: %v", err)
		}
		*projectID = projects[0].ID
	}

	view := store.NewProjectView(gw, *projectID, 5*time.Second)
	if err := view.Load(ctx); err != nil {
		log.Fatalf("load project view: %v", err)
	}
	before := len(view.Activities())
	log.Printf("view ready: %d tasks, %d activities", len(view.Tasks()), before)

	var feed store.FeedSubscription
	if mock != nil {
		feed = mock.Subscribe(*projectID)
	} else {
		sess, err := gw.Session(ctx)
		if err != nil || sess == nil {
			log.Fatalf("session lookup: %v", err)
		}
		feed, err = store.DialFeed(ctx, fmt.Sprintf("http://127.0.0.1:%s", cfg.AppPort), sess.Token, *projectID)
		if err != nil {
			log.Fatalf("dial feed: %v", err)
		}
	}
	view.Attach(ctx, feed)
	defer view.Close()

	if *taskID == "" && mock != nil {
		if tasks := view.Tasks(); len(tasks) > 0 {
			*taskID = tasks[0].ID
		}
	}
	if *taskID != "" {
		if err := view.SetTaskStatus(ctx, *taskID, domain.TaskInProgress); err != nil {
			log.Fatalf("set task status: %v", err)
		}
		log.Printf("task %s moved to IN_PROGRESS", *taskID)
	}

	// give the push a moment to round-trip
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if len(view.Activities()) > before {
			break
		}
		time.Sleep(200 * time.Millisecond)
	}

	after := view.Activities()
	if len(after) > before {
		log.Printf("feed delivered: now %d activities, newest action=%s", len(after), after[0].Action)
	} else {
		log.Printf("no new activity observed (started with %d)", before)
	}

	log.Println("smoke test finished")
}
