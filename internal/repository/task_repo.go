package repository

import (
	"context"
	"strconv"

	"taskboard/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type TaskRepository struct {
	db *pgxpool.Pool
}

func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskSelect = `
	SELECT t.id, t.project_id, t.milestone_id, t.title, COALESCE(t.description, ''),
	       t.status, t.priority, t.assignee_id, t.due_date, t.created_at, t.updated_at,
	       a.id, a.email, a.full_name, a.avatar_url, a.role
	FROM tasks t
	LEFT JOIN profiles a ON a.id = t.assignee_id`

func scanTask(row interface{ Scan(...any) error }) (*domain.Task, error) {
	var t domain.Task
	var ju joinedUser

	dest := []any{
		&t.ID, &t.ProjectID, &t.MilestoneID, &t.Title, &t.Description,
		&t.Status, &t.Priority, &t.AssigneeID, &t.DueDate, &t.CreatedAt, &t.UpdatedAt,
	}
	dest = append(dest, ju.fields()...)

	if err := row.Scan(dest...); err != nil {
		return nil, translate(err)
	}
	t.Assignee = ju.toUser()
	return &t, nil
}

// TaskFilter narrows ListByProject. Zero values mean "no filter".
type TaskFilter struct {
	TitleQuery string
	Status     domain.TaskStatus
}

func (r *TaskRepository) ListByProject(ctx context.Context, projectID string, f TaskFilter) ([]domain.Task, error) {
	query := taskSelect + ` WHERE t.project_id = $1`
	args := []any{projectID}

	if f.TitleQuery != "" {
		args = append(args, f.TitleQuery)
		query += ` AND t.title ILIKE '%' || $` + strconv.Itoa(len(args)) + ` || '%'`
	}
	if f.Status != "" {
		args = append(args, string(f.Status))
		query += ` AND t.status = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY t.created_at`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func (r *TaskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	return scanTask(r.db.QueryRow(ctx, taskSelect+` WHERE t.id = $1`, id))
}

func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO tasks (project_id, milestone_id, title, description, status, priority, assignee_id, due_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at`,
		t.ProjectID, t.MilestoneID, t.Title, t.Description, t.Status, t.Priority, t.AssigneeID, t.DueDate,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return err
	}

	// re-read to pick up the assignee join
	got, err := r.GetByID(ctx, t.ID)
	if err != nil {
		return err
	}
	*t = *got
	return nil
}

// TaskUpdate applies a partial update. Nil means "leave unchanged";
// SetMilestone distinguishes clearing the milestone from leaving it.
type TaskUpdate struct {
	Title        *string
	Description  *string
	Status       *domain.TaskStatus
	Priority     *domain.TaskPriority
	AssigneeID   *string
	DueDate      *string
	MilestoneID  *string
	SetMilestone bool
}

// Fields lists the names of the fields an update touches, for the audit
// metadata.
func (u TaskUpdate) Fields() []string {
	var fields []string
	if u.Title != nil {
		fields = append(fields, "title")
	}
	if u.Description != nil {
		fields = append(fields, "description")
	}
	if u.Status != nil {
		fields = append(fields, "status")
	}
	if u.Priority != nil {
		fields = append(fields, "priority")
	}
	if u.AssigneeID != nil {
		fields = append(fields, "assignee_id")
	}
	if u.DueDate != nil {
		fields = append(fields, "due_date")
	}
	if u.SetMilestone {
		fields = append(fields, "milestone_id")
	}
	return fields
}

func (r *TaskRepository) Update(ctx context.Context, id string, u TaskUpdate) (*domain.Task, error) {
	query := `UPDATE tasks
	          SET title       = COALESCE($2, title),
	              description = COALESCE($3, description),
	              status      = COALESCE($4, status),
	              priority    = COALESCE($5, priority),
	              assignee_id = COALESCE($6, assignee_id),
	              due_date    = COALESCE($7::timestamptz, due_date),
	              updated_at  = now()`
	args := []any{id, u.Title, u.Description, u.Status, u.Priority, u.AssigneeID, u.DueDate}

	if u.SetMilestone {
		args = append(args, u.MilestoneID)
		query += `, milestone_id = $8`
	}
	query += ` WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SearchByTitle matches task titles case-insensitively across the
// projects visible to the user.
func (r *TaskRepository) SearchByTitle(ctx context.Context, userID, query string, limit int) ([]domain.Task, error) {
	rows, err := r.db.Query(ctx,
		taskSelect+`
		 JOIN projects p ON p.id = t.project_id
		 WHERE`+visibleTo+` AND t.title ILIKE '%' || $2 || '%' LIMIT $3`,
		userID, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}
