package repository

import (
	"context"

	"taskboard/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type CommentRepository struct {
	db *pgxpool.Pool
}

func NewCommentRepository(db *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{db: db}
}

const commentSelect = `
	SELECT c.id, c.task_id, c.user_id, c.content, c.created_at, c.updated_at,
	       u.id, u.email, u.full_name, u.avatar_url, u.role
	FROM comments c
	LEFT JOIN profiles u ON u.id = c.user_id`

func scanComment(row interface{ Scan(...any) error }) (*domain.Comment, error) {
	var c domain.Comment
	var ju joinedUser

	dest := []any{&c.ID, &c.TaskID, &c.UserID, &c.Content, &c.CreatedAt, &c.UpdatedAt}
	dest = append(dest, ju.fields()...)

	if err := row.Scan(dest...); err != nil {
		return nil, translate(err)
	}
	c.User = ju.toUser()
	return &c, nil
}

// ListByTask returns comments oldest first.
func (r *CommentRepository) ListByTask(ctx context.Context, taskID string) ([]domain.Comment, error) {
	rows, err := r.db.Query(ctx,
		commentSelect+` WHERE c.task_id = $1 ORDER BY c.created_at`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []domain.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, *c)
	}
	return comments, rows.Err()
}

func (r *CommentRepository) Create(ctx context.Context, c *domain.Comment) error {
	if err := r.db.QueryRow(ctx,
		`INSERT INTO comments (task_id, user_id, content)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		c.TaskID, c.UserID, c.Content,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return err
	}

	got, err := scanComment(r.db.QueryRow(ctx, commentSelect+` WHERE c.id = $1`, c.ID))
	if err != nil {
		return err
	}
	*c = *got
	return nil
}
