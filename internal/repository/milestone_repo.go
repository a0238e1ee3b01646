package repository

import (
	"context"
	"time"

	"taskboard/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type MilestoneRepository struct {
	db *pgxpool.Pool
}

func NewMilestoneRepository(db *pgxpool.Pool) *MilestoneRepository {
	return &MilestoneRepository{db: db}
}

// ListByProject returns milestones ordered by due date, each with the
// linked-task counts needed for the derived progress percentage.
func (r *MilestoneRepository) ListByProject(ctx context.Context, projectID string) ([]domain.Milestone, error) {
	rows, err := r.db.Query(ctx,
		`SELECT m.id, m.project_id, m.title, COALESCE(m.description, ''), m.due_date,
		        m.status, m.created_at, m.updated_at,
		        (SELECT COUNT(*) FROM tasks t WHERE t.milestone_id = m.id),
		        (SELECT COUNT(*) FROM tasks t WHERE t.milestone_id = m.id AND t.status = 'DONE')
		 FROM milestones m
		 WHERE m.project_id = $1
		 ORDER BY m.due_date NULLS LAST, m.created_at`,
		projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var milestones []domain.Milestone
	for rows.Next() {
		var m domain.Milestone
		var total, done int
		if err := rows.Scan(
			&m.ID, &m.ProjectID, &m.Title, &m.Description, &m.DueDate,
			&m.Status, &m.CreatedAt, &m.UpdatedAt, &total, &done,
		); err != nil {
			return nil, err
		}
		m.Progress = domain.MilestoneProgress(total, done)
		milestones = append(milestones, m)
	}
	return milestones, rows.Err()
}

func (r *MilestoneRepository) Create(ctx context.Context, m *domain.Milestone) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO milestones (project_id, title, description, due_date, status)
		 VALUES ($1, $2, $3, $4, 'OPEN')
		 RETURNING id, status, created_at, updated_at`,
		m.ProjectID, m.Title, m.Description, m.DueDate,
	).Scan(&m.ID, &m.Status, &m.CreatedAt, &m.UpdatedAt)
}

func (r *MilestoneRepository) Update(ctx context.Context, id string, title, description *string, dueDate *time.Time, status *string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE milestones
		 SET title       = COALESCE($2, title),
		     description = COALESCE($3, description),
		     due_date    = COALESCE($4, due_date),
		     status      = COALESCE($5, status),
		     updated_at  = now()
		 WHERE id = $1`,
		id, title, description, dueDate, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MilestoneRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM milestones WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ProjectID reports which project a milestone belongs to; used to
// enforce that tasks only link milestones of their own project.
func (r *MilestoneRepository) ProjectID(ctx context.Context, id string) (string, error) {
	var projectID string
	if err := r.db.QueryRow(ctx,
		`SELECT project_id FROM milestones WHERE id = $1`, id).Scan(&projectID); err != nil {
		return "", translate(err)
	}
	return projectID, nil
}
