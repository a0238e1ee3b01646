package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"taskboard/internal/domain"
)

// APIGateway talks to the taskboard REST API. It implements the
// Session, Project and Search gateways so the sync layer can run
// against a live backend.
type APIGateway struct {
	baseURL    string
	httpClient *http.Client

	mu      sync.Mutex
	session *Session
}

// NewAPIGateway creates a gateway for the given base URL, e.g.
// "http://localhost:8080".
func NewAPIGateway(baseURL string) *APIGateway {
	return &APIGateway{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *APIGateway) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.mu.Lock()
	if c.session != nil {
		req.Header.Set("Authorization", "Bearer "+c.session.Token)
	}
	c.mu.Unlock()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("api error: %s - %s", resp.Status, string(msg))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// SignIn exchanges credentials for a token and remembers the session.
func (c *APIGateway) SignIn(ctx context.Context, email, password string) (*Session, error) {
	var res struct {
		Token string       `json:"token"`
		User  *domain.User `json:"user"`
	}
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &res)
	if err != nil {
		return nil, err
	}

	sess := &Session{UserID: res.User.ID, Email: res.User.Email, Token: res.Token}
	c.mu.Lock()
	c.session = sess
	c.mu.Unlock()
	return sess, nil
}

func (c *APIGateway) SignUp(ctx context.Context, email, password, name string) error {
	return c.do(ctx, http.MethodPost, "/api/v1/auth/signup", map[string]string{
		"email":    email,
		"password": password,
		"name":     name,
	}, nil)
}

func (c *APIGateway) SignOut(ctx context.Context) error {
	c.mu.Lock()
	c.session = nil
	c.mu.Unlock()
	return nil
}

func (c *APIGateway) Session(ctx context.Context) (*Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session, nil
}

func (c *APIGateway) Profile(ctx context.Context, userID string) (*domain.User, error) {
	var res struct {
		User *domain.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/me", nil, &res); err != nil {
		return nil, err
	}
	return res.User, nil
}

func (c *APIGateway) Project(ctx context.Context, id string) (*domain.Project, error) {
	var res struct {
		Project *domain.Project `json:"project"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/projects/"+id, nil, &res); err != nil {
		return nil, err
	}
	return res.Project, nil
}

func (c *APIGateway) Tasks(ctx context.Context, projectID string) ([]domain.Task, error) {
	var res struct {
		Tasks []domain.Task `json:"tasks"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/projects/"+projectID+"/tasks", nil, &res); err != nil {
		return nil, err
	}
	return res.Tasks, nil
}

func (c *APIGateway) Members(ctx context.Context, projectID string) ([]domain.User, error) {
	var res struct {
		Members []domain.User `json:"members"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/projects/"+projectID+"/members", nil, &res); err != nil {
		return nil, err
	}
	return res.Members, nil
}

func (c *APIGateway) Activities(ctx context.Context, projectID string) ([]domain.Activity, error) {
	var res struct {
		Activities []domain.Activity `json:"activities"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/projects/"+projectID+"/activities", nil, &res); err != nil {
		return nil, err
	}
	return res.Activities, nil
}

func (c *APIGateway) Activity(ctx context.Context, id string) (*domain.Activity, error) {
	var res struct {
		Activity *domain.Activity `json:"activity"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/activities/"+id, nil, &res); err != nil {
		return nil, err
	}
	return res.Activity, nil
}

func (c *APIGateway) UpdateTaskStatus(ctx context.Context, taskID string, status domain.TaskStatus) error {
	return c.do(ctx, http.MethodPatch, "/api/v1/tasks/"+taskID, map[string]string{
		"status": string(status),
	}, nil)
}

func (c *APIGateway) Search(ctx context.Context, query string) (*SearchResult, error) {
	var res SearchResult
	path := "/api/v1/search?q=" + url.QueryEscape(query)
	if err := c.do(ctx, http.MethodGet, path, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
