package repository

import (
	"context"

	"taskboard/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ProfileRepository struct {
	db *pgxpool.Pool
}

func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Credential pairs a profile with its auth columns. Only the auth
// service sees password hashes.
type Credential struct {
	User         domain.User
	PasswordHash string
	Confirmed    bool
}

const profileColumns = `id, email, COALESCE(full_name, ''), COALESCE(avatar_url, ''), COALESCE(role, 'MEMBER'), created_at`

func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)

	var u domain.User
	var role string
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.AvatarURL, &role, &u.CreatedAt); err != nil {
		return nil, translate(err)
	}
	u.Role = domain.NormalizeRole(role)
	return &u, nil
}

func (r *ProfileRepository) GetByEmail(ctx context.Context, email string) (*Credential, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+profileColumns+`, password_hash, confirmed FROM profiles WHERE email = $1`, email)

	var c Credential
	var role string
	if err := row.Scan(
		&c.User.ID,
		&c.User.Email,
		&c.User.Name,
		&c.User.AvatarURL,
		&role,
		&c.User.CreatedAt,
		&c.PasswordHash,
		&c.Confirmed,
	); err != nil {
		return nil, translate(err)
	}
	c.User.Role = domain.NormalizeRole(role)
	return &c, nil
}

func (r *ProfileRepository) Create(ctx context.Context, u *domain.User, passwordHash string, confirmed bool) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO profiles (email, full_name, role, password_hash, confirmed)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		u.Email, u.Name, string(u.Role), passwordHash, confirmed,
	).Scan(&u.ID, &u.CreatedAt)
}

func (r *ProfileRepository) Confirm(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `UPDATE profiles SET confirmed = true WHERE id = $1`, id)
	return err
}

func (r *ProfileRepository) UpdateName(ctx context.Context, id, name string) error {
	_, err := r.db.Exec(ctx, `UPDATE profiles SET full_name = $2 WHERE id = $1`, id, name)
	return err
}

func (r *ProfileRepository) UpdateAvatarURL(ctx context.Context, id, url string) error {
	_, err := r.db.Exec(ctx, `UPDATE profiles SET avatar_url = $2 WHERE id = $1`, id, url)
	return err
}

// Search matches name or email, case-insensitive substring.
func (r *ProfileRepository) Search(ctx context.Context, query string, limit int) ([]domain.User, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+profileColumns+`
		 FROM profiles
		 WHERE full_name ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%'
		 LIMIT $2`,
		query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		var role string
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.AvatarURL, &role, &u.CreatedAt); err != nil {
			return nil, err
		}
		u.Role = domain.NormalizeRole(role)
		users = append(users, u)
	}
	return users, rows.Err()
}
