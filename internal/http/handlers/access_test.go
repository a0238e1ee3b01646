package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

// accessRouter wires the project-scoped read endpoints with a stub
// identity. Only canAccess is populated: if a denied request ever
// reached a service the nil pointer would panic the test.
func accessRouter(h *Handler, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if userID != "" {
		r.Use(func(c *gin.Context) { c.Set("user_id", userID) })
	}
	r.GET("/projects/:id", h.GetProject)
	r.GET("/projects/:id/overview", h.ProjectOverview)
	r.GET("/projects/:id/members", h.ProjectMembers)
	r.GET("/projects/:id/tasks", h.ListTasks)
	r.GET("/projects/:id/milestones", h.ListMilestones)
	r.GET("/projects/:id/activities", h.ListActivities)
	return r
}

func TestProjectReadsHiddenFromNonMembers(t *testing.T) {
	var gotProject, gotUser string
	h := &Handler{
		canAccess: func(ctx context.Context, projectID, userID string) (bool, error) {
			gotProject, gotUser = projectID, userID
			return false, nil
		},
	}
	r := accessRouter(h, "outsider")

	paths := []string{
		"/projects/p1",
		"/projects/p1/overview",
		"/projects/p1/members",
		"/projects/p1/tasks",
		"/projects/p1/milestones",
		"/projects/p1/activities",
	}
	for _, path := range paths {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
		if w.Code != http.StatusNotFound {
			t.Fatalf("%s: status = %d; want 404 for a non-member", path, w.Code)
		}
	}
	if gotProject != "p1" || gotUser != "outsider" {
		t.Fatalf("access check saw project=%q user=%q; want p1/outsider", gotProject, gotUser)
	}
}

func TestProjectReadsRequireIdentity(t *testing.T) {
	h := &Handler{
		canAccess: func(ctx context.Context, projectID, userID string) (bool, error) {
			t.Fatal("access check reached without an identity")
			return false, nil
		},
	}
	r := accessRouter(h, "")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/projects/p1", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d; want 401 without identity", w.Code)
	}
}

func TestProjectReadAccessCheckError(t *testing.T) {
	h := &Handler{
		canAccess: func(ctx context.Context, projectID, userID string) (bool, error) {
			return false, errors.New("backend down")
		},
	}
	r := accessRouter(h, "u1")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/projects/p1", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d; want 500 when the check itself fails", w.Code)
	}
}
