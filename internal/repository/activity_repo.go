package repository

import (
	"context"
	"encoding/json"

	"taskboard/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ActivityRepository handles the append-only audit trail.
type ActivityRepository struct {
	db *pgxpool.Pool
}

func NewActivityRepository(db *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{db: db}
}

const activitySelect = `
	SELECT a.id, a.project_id, a.user_id, a.action_type, a.entity_type, a.entity_id,
	       a.metadata, a.created_at,
	       u.id, u.email, u.full_name, u.avatar_url, u.role
	FROM activities a
	LEFT JOIN profiles u ON u.id = a.user_id`

// Create inserts an audit entry and fills in its generated id.
func (r *ActivityRepository) Create(ctx context.Context, a *domain.Activity) error {
	metadataJSON, err := json.Marshal(a.Metadata)
	if err != nil {
		metadataJSON = []byte("{}")
	}

	return r.db.QueryRow(ctx,
		`INSERT INTO activities (project_id, user_id, action_type, entity_type, entity_id, metadata)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		a.ProjectID, a.UserID, a.Action, a.TargetType, a.TargetID, metadataJSON,
	).Scan(&a.ID, &a.CreatedAt)
}

// ListByProject returns the newest entries first, capped by limit.
func (r *ActivityRepository) ListByProject(ctx context.Context, projectID string, limit int) ([]domain.Activity, error) {
	rows, err := r.db.Query(ctx,
		activitySelect+`
		 WHERE a.project_id = $1
		 ORDER BY a.created_at DESC
		 LIMIT $2`,
		projectID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanActivities(rows)
}

// GetByID returns a single entry with its user join; the realtime feed
// uses it to enrich a thin push event.
func (r *ActivityRepository) GetByID(ctx context.Context, id string) (*domain.Activity, error) {
	a, err := scanActivity(r.db.QueryRow(ctx, activitySelect+` WHERE a.id = $1`, id))
	if err != nil {
		return nil, translate(err)
	}
	return a, nil
}

func scanActivity(row interface{ Scan(...any) error }) (*domain.Activity, error) {
	var a domain.Activity
	var metadataJSON []byte
	var ju joinedUser

	dest := []any{
		&a.ID, &a.ProjectID, &a.UserID, &a.Action, &a.TargetType, &a.TargetID,
		&metadataJSON, &a.CreatedAt,
	}
	dest = append(dest, ju.fields()...)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(metadataJSON, &a.Metadata); err != nil {
		a.Metadata = make(map[string]interface{})
	}
	a.User = ju.toUser()
	return &a, nil
}

func scanActivities(rows pgx.Rows) ([]domain.Activity, error) {
	var activities []domain.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, *a)
	}
	return activities, rows.Err()
}
