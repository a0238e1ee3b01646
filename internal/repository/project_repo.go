package repository

import (
	"context"

	"taskboard/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ProjectRepository struct {
	db *pgxpool.Pool
}

func NewProjectRepository(db *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Stats are aggregated from tasks at read time so they can never go
// stale relative to the task table.
const projectSelect = `
	SELECT p.id, p.name, COALESCE(p.description, ''), p.owner_id, p.status, p.created_at, p.updated_at,
	       (SELECT COUNT(*) FROM tasks t WHERE t.project_id = p.id),
	       (SELECT COUNT(*) FROM tasks t WHERE t.project_id = p.id AND t.status = 'DONE'),
	       (SELECT COUNT(*) FROM tasks t WHERE t.project_id = p.id AND t.status <> 'DONE'
	               AND t.due_date IS NOT NULL AND t.due_date < now())
	FROM projects p`

func scanProject(row interface{ Scan(...any) error }) (*domain.Project, error) {
	var p domain.Project
	if err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.OwnerID,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.Stats.TotalTasks,
		&p.Stats.CompletedTasks,
		&p.Stats.OverdueTasks,
	); err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// visibleTo restricts rows to projects the user owns or is a member
// of. Every read query appends it so outsiders never see a row.
const visibleTo = ` (p.owner_id = $1 OR EXISTS (
		SELECT 1 FROM project_members m WHERE m.project_id = p.id AND m.user_id = $1))`

func (r *ProjectRepository) ListForUser(ctx context.Context, userID string) ([]domain.Project, error) {
	rows, err := r.db.Query(ctx,
		projectSelect+` WHERE`+visibleTo+` ORDER BY p.created_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	return scanProject(r.db.QueryRow(ctx, projectSelect+` WHERE p.id = $1`, id))
}

func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO projects (name, description, owner_id)
		 VALUES ($1, $2, $3)
		 RETURNING id, status, created_at, updated_at`,
		p.Name, p.Description, p.OwnerID,
	).Scan(&p.ID, &p.Status, &p.CreatedAt, &p.UpdatedAt)
}

// Update applies a partial update: nil fields keep their current value.
func (r *ProjectRepository) Update(ctx context.Context, id string, name, description, status *string) (*domain.Project, error) {
	_, err := r.db.Exec(ctx,
		`UPDATE projects
		 SET name        = COALESCE($2, name),
		     description = COALESCE($3, description),
		     status      = COALESCE($4, status),
		     updated_at  = now()
		 WHERE id = $1`,
		id, name, description, status)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ProjectRepository) OwnerID(ctx context.Context, id string) (string, error) {
	var owner string
	if err := r.db.QueryRow(ctx, `SELECT owner_id FROM projects WHERE id = $1`, id).Scan(&owner); err != nil {
		return "", translate(err)
	}
	return owner, nil
}

// SearchByName matches project names case-insensitively among the
// projects visible to the user.
func (r *ProjectRepository) SearchByName(ctx context.Context, userID, query string, limit int) ([]domain.Project, error) {
	rows, err := r.db.Query(ctx,
		projectSelect+` WHERE`+visibleTo+` AND p.name ILIKE '%' || $2 || '%' LIMIT $3`,
		userID, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}
