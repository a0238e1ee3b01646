package service

import (
	"context"
	"errors"

	"taskboard/internal/domain"
	"taskboard/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

// AuthService implements password signup/login against the profiles
// table and hands out JWTs.
type AuthService struct {
	profiles *repository.ProfileRepository

	// When set, signup leaves the account unconfirmed and login is
	// refused until it is confirmed out of band.
	confirmRequired bool
}

func NewAuthService(db *pgxpool.Pool, confirmRequired bool) *AuthService {
	return &AuthService{
		profiles:        repository.NewProfileRepository(db),
		confirmRequired: confirmRequired,
	}
}

// Signup registers a new account. It never logs the user in: the
// caller authenticates separately, and not at all while the account
// awaits confirmation.
func (s *AuthService) Signup(ctx context.Context, email, password, name string) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	if name == "" {
		name = email
	}

	u := &domain.User{
		Email: email,
		Name:  name,
		Role:  domain.RoleMember,
	}
	if err := s.profiles.Create(ctx, u, string(hash), !s.confirmRequired); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}

// Login verifies credentials and returns a signed token plus the
// resolved user.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, ErrInvalidCredentials
	}

	cred, err := s.profiles.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	if !cred.Confirmed {
		return "", nil, ErrNotConfirmed
	}

	token, err := GenerateJWT(cred.User.ID)
	if err != nil {
		return "", nil, err
	}
	return token, &cred.User, nil
}

// Me resolves the current identity from a profile row. A missing row
// is surfaced as repository.ErrNotFound; callers decide the fallback.
func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	return s.profiles.GetByID(ctx, userID)
}
