package service

import (
	"context"
	"strings"

	"taskboard/internal/domain"
	"taskboard/internal/logger"
	"taskboard/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

// FeedNotifier is told about new activity rows so realtime subscribers
// can pick them up. Implemented by the ws hub.
type FeedNotifier interface {
	Notify(projectID, activityID string)
}

// AuditService appends Activity rows after mutating operations. The
// write is best-effort: it is not transactional with the primary
// mutation, and failures are logged and swallowed so the caller's
// result is unaffected.
type AuditService struct {
	repo *repository.ActivityRepository
	feed FeedNotifier
}

func NewAuditService(db *pgxpool.Pool) *AuditService {
	return &AuditService{repo: repository.NewActivityRepository(db)}
}

// SetFeed wires the realtime hub. Safe to leave unset.
func (s *AuditService) SetFeed(feed FeedNotifier) {
	s.feed = feed
}

// Record appends one activity entry and notifies the feed on success.
func (s *AuditService) Record(ctx context.Context, a *domain.Activity) {
	if a.Metadata == nil {
		a.Metadata = make(map[string]interface{})
	}

	if err := s.repo.Create(ctx, a); err != nil {
		logger.Error("failed to record activity",
			"error", err, "action", a.Action, "project_id", a.ProjectID)
		return
	}

	if s.feed != nil {
		s.feed.Notify(a.ProjectID, a.ID)
	}
}

func (s *AuditService) TaskCreated(ctx context.Context, userID string, task *domain.Task) {
	s.Record(ctx, &domain.Activity{
		ProjectID:  task.ProjectID,
		UserID:     userID,
		Action:     domain.ActionTaskCreated,
		TargetType: domain.TargetTask,
		TargetID:   task.ID,
		Metadata:   map[string]interface{}{"title": task.Title},
	})
}

// TaskUpdated records which fields changed, comma-joined the way the
// activity feed renders them.
func (s *AuditService) TaskUpdated(ctx context.Context, userID string, task *domain.Task, changedFields []string) {
	s.Record(ctx, &domain.Activity{
		ProjectID:  task.ProjectID,
		UserID:     userID,
		Action:     domain.ActionTaskUpdated,
		TargetType: domain.TargetTask,
		TargetID:   task.ID,
		Metadata: map[string]interface{}{
			"title":   task.Title,
			"changes": strings.Join(changedFields, ", "),
		},
	})
}

func (s *AuditService) TaskDeleted(ctx context.Context, userID, projectID, taskID, title string) {
	s.Record(ctx, &domain.Activity{
		ProjectID:  projectID,
		UserID:     userID,
		Action:     domain.ActionTaskDeleted,
		TargetType: domain.TargetTask,
		TargetID:   taskID,
		Metadata:   map[string]interface{}{"title": title},
	})
}

func (s *AuditService) MemberAdded(ctx context.Context, actorID, projectID, memberID, role string) {
	s.Record(ctx, &domain.Activity{
		ProjectID:  projectID,
		UserID:     actorID,
		Action:     domain.ActionMemberAdded,
		TargetType: domain.TargetMember,
		TargetID:   memberID,
		Metadata:   map[string]interface{}{"role": role},
	})
}

func (s *AuditService) MemberRemoved(ctx context.Context, actorID, projectID, memberID string) {
	s.Record(ctx, &domain.Activity{
		ProjectID:  projectID,
		UserID:     actorID,
		Action:     domain.ActionMemberRemoved,
		TargetType: domain.TargetMember,
		TargetID:   memberID,
	})
}

// ListByProject returns the newest 50 entries for a project feed.
func (s *AuditService) ListByProject(ctx context.Context, projectID string) ([]domain.Activity, error) {
	return s.repo.ListByProject(ctx, projectID, 50)
}

// GetByID enriches a realtime push with the full user join.
func (s *AuditService) GetByID(ctx context.Context, id string) (*domain.Activity, error) {
	return s.repo.GetByID(ctx, id)
}
