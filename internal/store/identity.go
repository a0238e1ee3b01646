package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"taskboard/internal/domain"
	"taskboard/internal/logger"
)

// ErrLoginTimeout is distinguishable from a credentials failure: it
// points at connectivity or backend trouble, not at the user.
var ErrLoginTimeout = errors.New("login request timed out; check network or backend status")

// AuthState is the published identity snapshot.
type AuthState struct {
	User      *domain.User
	IsLoading bool
}

// IdentityStore tracks who is currently authenticated. It lives for
// the whole process; there is no teardown. Resolution is serialized by
// the mutex, and a double resolution (manual check racing an
// auth-change push) is benign: resolving the same session is
// idempotent and the last write wins.
type IdentityStore struct {
	gw           SessionGateway
	loginTimeout time.Duration

	mu      sync.Mutex
	state   AuthState
	subs    map[int]func(AuthState)
	nextSub int
}

func NewIdentityStore(gw SessionGateway, loginTimeout time.Duration) *IdentityStore {
	if loginTimeout <= 0 {
		loginTimeout = 15 * time.Second
	}
	return &IdentityStore{
		gw:           gw,
		loginTimeout: loginTimeout,
		state:        AuthState{IsLoading: true},
		subs:         make(map[int]func(AuthState)),
	}
}

// State returns the current snapshot.
func (s *IdentityStore) State() AuthState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers a listener and returns its cancel func. The
// listener immediately receives the current state.
func (s *IdentityStore) Subscribe(fn func(AuthState)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	state := s.state
	s.mu.Unlock()

	fn(state)

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *IdentityStore) publish(state AuthState) {
	s.mu.Lock()
	s.state = state
	listeners := make([]func(AuthState), 0, len(s.subs))
	for _, fn := range s.subs {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(state)
	}
}

// CheckAuth re-resolves the current identity: read the session, fetch
// the profile row, merge. A missing or failed profile lookup still
// yields a signed-in user with the raw email as display name and
// MEMBER role.
func (s *IdentityStore) CheckAuth(ctx context.Context) {
	sess, err := s.gw.Session(ctx)
	if err != nil || sess == nil {
		if err != nil {
			logger.Error("session check failed", "error", err)
		}
		s.publish(AuthState{})
		return
	}

	user := s.resolveUser(ctx, sess)
	s.publish(AuthState{User: user})
}

func (s *IdentityStore) resolveUser(ctx context.Context, sess *Session) *domain.User {
	profile, err := s.gw.Profile(ctx, sess.UserID)
	if err != nil || profile == nil {
		if err != nil {
			logger.Warn("profile fetch failed, using session fallback",
				"error", err, "user_id", sess.UserID)
		}
		return &domain.User{
			ID:    sess.UserID,
			Email: sess.Email,
			Name:  sess.Email,
			Role:  domain.RoleMember,
		}
	}

	user := *profile
	if user.Email == "" {
		user.Email = sess.Email
	}
	if user.Name == "" {
		user.Name = user.Email
	}
	if user.Role == "" {
		user.Role = domain.RoleMember
	}
	return &user
}

// AuthChanged is the hook for backend-pushed session transitions; it
// just re-resolves.
func (s *IdentityStore) AuthChanged(ctx context.Context) {
	s.CheckAuth(ctx)
}

// Login races the sign-in call against the client-side timeout. On
// timeout the in-flight call is only discarded, not aborted: a late
// success still completes server-side and the next CheckAuth sees it.
func (s *IdentityStore) Login(ctx context.Context, email, password string) error {
	s.publish(AuthState{IsLoading: true})

	type result struct {
		sess *Session
		err  error
	}
	done := make(chan result, 1)
	go func() {
		sess, err := s.gw.SignIn(ctx, email, password)
		done <- result{sess, err}
	}()

	timer := time.NewTimer(s.loginTimeout)
	defer timer.Stop()

	select {
	case r := <-done:
		if r.err != nil {
			s.publish(AuthState{})
			return r.err
		}
		user := s.resolveUser(ctx, r.sess)
		s.publish(AuthState{User: user})
		return nil
	case <-timer.C:
		s.publish(AuthState{})
		return ErrLoginTimeout
	}
}

// Signup registers without logging in. When the backend requires email
// confirmation the caller stays unauthenticated until it happens.
func (s *IdentityStore) Signup(ctx context.Context, email, password, name string) error {
	return s.gw.SignUp(ctx, email, password, name)
}

// Logout clears the session and publishes the unauthenticated state
// regardless of backend success.
func (s *IdentityStore) Logout(ctx context.Context) error {
	err := s.gw.SignOut(ctx)
	s.publish(AuthState{})
	return err
}
