package service

import (
	"context"

	"taskboard/internal/domain"
	"taskboard/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TaskService covers tasks and their comments. Any project member may
// create, edit or delete tasks; membership is checked up front and the
// backend error is surfaced unmodified otherwise.
type TaskService struct {
	tasks      *repository.TaskRepository
	comments   *repository.CommentRepository
	milestones *repository.MilestoneRepository
	projects   *ProjectService
	audit      *AuditService
}

func NewTaskService(db *pgxpool.Pool, projects *ProjectService, audit *AuditService) *TaskService {
	return &TaskService{
		tasks:      repository.NewTaskRepository(db),
		comments:   repository.NewCommentRepository(db),
		milestones: repository.NewMilestoneRepository(db),
		projects:   projects,
		audit:      audit,
	}
}

func (s *TaskService) ListByProject(ctx context.Context, projectID string, f repository.TaskFilter) ([]domain.Task, error) {
	return s.tasks.ListByProject(ctx, projectID, f)
}

func (s *TaskService) Get(ctx context.Context, id string) (*domain.Task, error) {
	return s.tasks.GetByID(ctx, id)
}

func (s *TaskService) Create(ctx context.Context, actorID string, t *domain.Task) error {
	if err := s.requireMember(ctx, t.ProjectID, actorID); err != nil {
		return err
	}

	if t.Status == "" {
		t.Status = domain.TaskBacklog
	}
	if t.Priority == "" {
		t.Priority = domain.PriorityMedium
	}

	if t.MilestoneID != nil {
		if err := s.checkMilestone(ctx, *t.MilestoneID, t.ProjectID); err != nil {
			return err
		}
	}

	if err := s.tasks.Create(ctx, t); err != nil {
		return err
	}

	s.audit.TaskCreated(ctx, actorID, t)
	return nil
}

func (s *TaskService) Update(ctx context.Context, actorID, id string, u repository.TaskUpdate) (*domain.Task, error) {
	current, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, current.ProjectID, actorID); err != nil {
		return nil, err
	}

	if u.SetMilestone && u.MilestoneID != nil {
		if err := s.checkMilestone(ctx, *u.MilestoneID, current.ProjectID); err != nil {
			return nil, err
		}
	}

	task, err := s.tasks.Update(ctx, id, u)
	if err != nil {
		return nil, err
	}

	s.audit.TaskUpdated(ctx, actorID, task, u.Fields())
	return task, nil
}

// Delete reads the row first so the audit entry can still name the
// project and title of the removed task.
func (s *TaskService) Delete(ctx context.Context, actorID, id string) error {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.requireMember(ctx, task.ProjectID, actorID); err != nil {
		return err
	}

	if err := s.tasks.Delete(ctx, id); err != nil {
		return err
	}

	s.audit.TaskDeleted(ctx, actorID, task.ProjectID, id, task.Title)
	return nil
}

func (s *TaskService) Comments(ctx context.Context, taskID string) ([]domain.Comment, error) {
	return s.comments.ListByTask(ctx, taskID)
}

func (s *TaskService) AddComment(ctx context.Context, actorID, taskID, content string) (*domain.Comment, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, task.ProjectID, actorID); err != nil {
		return nil, err
	}

	c := &domain.Comment{TaskID: taskID, UserID: actorID, Content: content}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *TaskService) requireMember(ctx context.Context, projectID, userID string) error {
	ok, err := s.projects.CanAccess(ctx, projectID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrPermissionDenied
	}
	return nil
}

func (s *TaskService) checkMilestone(ctx context.Context, milestoneID, projectID string) error {
	owner, err := s.milestones.ProjectID(ctx, milestoneID)
	if err != nil {
		return err
	}
	if owner != projectID {
		return ErrMilestoneMismatch
	}
	return nil
}
