package service

import (
	"context"
	"time"

	"taskboard/internal/domain"
	"taskboard/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

type MilestoneService struct {
	milestones *repository.MilestoneRepository
	projects   *ProjectService
}

func NewMilestoneService(db *pgxpool.Pool, projects *ProjectService) *MilestoneService {
	return &MilestoneService{
		milestones: repository.NewMilestoneRepository(db),
		projects:   projects,
	}
}

func (s *MilestoneService) ListByProject(ctx context.Context, projectID string) ([]domain.Milestone, error) {
	return s.milestones.ListByProject(ctx, projectID)
}

func (s *MilestoneService) Create(ctx context.Context, actorID string, m *domain.Milestone) error {
	if err := s.requireMember(ctx, m.ProjectID, actorID); err != nil {
		return err
	}
	return s.milestones.Create(ctx, m)
}

func (s *MilestoneService) Update(ctx context.Context, actorID, id string, title, description *string, dueDate *time.Time, status *string) error {
	projectID, err := s.milestones.ProjectID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.requireMember(ctx, projectID, actorID); err != nil {
		return err
	}
	return s.milestones.Update(ctx, id, title, description, dueDate, status)
}

func (s *MilestoneService) Delete(ctx context.Context, actorID, id string) error {
	projectID, err := s.milestones.ProjectID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.requireMember(ctx, projectID, actorID); err != nil {
		return err
	}
	return s.milestones.Delete(ctx, id)
}

func (s *MilestoneService) requireMember(ctx context.Context, projectID, userID string) error {
	ok, err := s.projects.CanAccess(ctx, projectID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrPermissionDenied
	}
	return nil
}
