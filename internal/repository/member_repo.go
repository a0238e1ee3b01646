package repository

import (
	"context"

	"taskboard/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type MemberRepository struct {
	db *pgxpool.Pool
}

func NewMemberRepository(db *pgxpool.Pool) *MemberRepository {
	return &MemberRepository{db: db}
}

// ListUsers returns the profiles joined through project_members, in
// join order. The implicit owner is handled by the service layer.
func (r *MemberRepository) ListUsers(ctx context.Context, projectID string) ([]domain.User, error) {
	rows, err := r.db.Query(ctx,
		`SELECT pr.id, pr.email, COALESCE(pr.full_name, ''), COALESCE(pr.avatar_url, ''),
		        COALESCE(pr.role, 'MEMBER'), pr.created_at
		 FROM project_members m
		 JOIN profiles pr ON pr.id = m.user_id
		 WHERE m.project_id = $1
		 ORDER BY m.joined_at`,
		projectID)
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

func (r *MemberRepository) Add(ctx context.Context, projectID, userID, role string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO project_members (project_id, user_id, role) VALUES ($1, $2, $3)`,
		projectID, userID, role)
	return err
}

func (r *MemberRepository) Remove(ctx context.Context, projectID, userID string) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM project_members WHERE project_id = $1 AND user_id = $2`,
		projectID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MemberRepository) IsMember(ctx context.Context, projectID, userID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (
		     SELECT 1 FROM project_members WHERE project_id = $1 AND user_id = $2
		 )`,
		projectID, userID).Scan(&exists)
	return exists, err
}
