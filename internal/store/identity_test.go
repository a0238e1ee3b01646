package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"taskboard/internal/domain"
)

func TestCheckAuthNoSession(t *testing.T) {
	gw := &stubGateway{
		sessionFn: func(ctx context.Context) (*Session, error) { return nil, nil },
	}
	s := NewIdentityStore(gw, 0)
	s.CheckAuth(context.Background())

	state := s.State()
	if state.User != nil || state.IsLoading {
		t.Fatalf("state = %+v; want signed out", state)
	}
}

func TestCheckAuthProfileFallback(t *testing.T) {
	gw := &stubGateway{
		sessionFn: func(ctx context.Context) (*Session, error) {
			return &Session{UserID: "u1", Email: "a@example.com"}, nil
		},
		profileFn: func(ctx context.Context, userID string) (*domain.User, error) {
			return nil, errors.New("profile table unreachable")
		},
	}
	s := NewIdentityStore(gw, 0)
	s.CheckAuth(context.Background())

	u := s.State().User
	if u == nil {
		t.Fatal("want signed-in user despite profile failure")
	}
	if u.Name != "a@example.com" || u.Role != domain.RoleMember {
		t.Fatalf("user = %+v; want email as name and MEMBER role", u)
	}
}

func TestCheckAuthMergesProfileBlanks(t *testing.T) {
	gw := &stubGateway{
		sessionFn: func(ctx context.Context) (*Session, error) {
			return &Session{UserID: "u1", Email: "a@example.com"}, nil
		},
		profileFn: func(ctx context.Context, userID string) (*domain.User, error) {
			return &domain.User{ID: userID, Role: domain.RoleOwner}, nil
		},
	}
	s := NewIdentityStore(gw, 0)
	s.CheckAuth(context.Background())

	u := s.State().User
	if u.Email != "a@example.com" || u.Name != "a@example.com" {
		t.Fatalf("user = %+v; want session email filling blanks", u)
	}
	if u.Role != domain.RoleOwner {
		t.Fatalf("Role = %s; profile role must survive merge", u.Role)
	}
}

func TestLoginTimeout(t *testing.T) {
	release := make(chan struct{})
	gw := &stubGateway{
		signInFn: func(ctx context.Context, email, password string) (*Session, error) {
			<-release
			return &Session{UserID: "u1", Email: email}, nil
		},
	}
	s := NewIdentityStore(gw, 20*time.Millisecond)

	err := s.Login(context.Background(), "a@example.com", "pw")
	close(release)

	if !errors.Is(err, ErrLoginTimeout) {
		t.Fatalf("err = %v; want ErrLoginTimeout", err)
	}
	if state := s.State(); state.User != nil || state.IsLoading {
		t.Fatalf("state after timeout = %+v; want signed out", state)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	wantErr := errors.New("invalid credentials")
	gw := &stubGateway{
		signInFn: func(ctx context.Context, email, password string) (*Session, error) {
			return nil, wantErr
		},
	}
	s := NewIdentityStore(gw, time.Second)

	err := s.Login(context.Background(), "a@example.com", "wrong")
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v; want credentials error, not timeout", err)
	}
}

func TestLoginSuccess(t *testing.T) {
	gw := &stubGateway{
		signInFn: func(ctx context.Context, email, password string) (*Session, error) {
			return &Session{UserID: "u1", Email: email}, nil
		},
		profileFn: func(ctx context.Context, userID string) (*domain.User, error) {
			return &domain.User{ID: userID, Email: "a@example.com", Name: "Alice", Role: domain.RoleOwner}, nil
		},
	}
	s := NewIdentityStore(gw, time.Second)

	if err := s.Login(context.Background(), "a@example.com", "pw"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	u := s.State().User
	if u == nil || u.Name != "Alice" {
		t.Fatalf("user = %+v; want resolved profile", u)
	}
}

func TestSignupDoesNotAuthenticate(t *testing.T) {
	gw := &stubGateway{
		signUpFn:  func(ctx context.Context, email, password, name string) error { return nil },
		sessionFn: func(ctx context.Context) (*Session, error) { return nil, nil },
	}
	s := NewIdentityStore(gw, 0)
	s.CheckAuth(context.Background())

	if err := s.Signup(context.Background(), "b@example.com", "pw", "Bob"); err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if s.State().User != nil {
		t.Fatal("signup must not sign the user in")
	}
}

func TestSubscribeReceivesCurrentAndUpdates(t *testing.T) {
	gw := &stubGateway{
		sessionFn: func(ctx context.Context) (*Session, error) { return nil, nil },
	}
	s := NewIdentityStore(gw, 0)

	var got []AuthState
	cancel := s.Subscribe(func(st AuthState) { got = append(got, st) })

	if len(got) != 1 || !got[0].IsLoading {
		t.Fatalf("initial callback = %+v; want the loading snapshot", got)
	}

	s.CheckAuth(context.Background())
	if len(got) != 2 || got[1].IsLoading {
		t.Fatalf("after CheckAuth got %+v; want resolved state", got)
	}

	cancel()
	s.CheckAuth(context.Background())
	if len(got) != 2 {
		t.Fatal("cancelled listener still receiving updates")
	}
}
