package service

import (
	"context"

	"taskboard/internal/domain"
	"taskboard/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ProjectService covers project CRUD and membership. Authorization
// policy: project update/delete and member add/remove are owner-only;
// reads and task-level operations are open to any member.
type ProjectService struct {
	projects *repository.ProjectRepository
	members  *repository.MemberRepository
	profiles *repository.ProfileRepository
	audit    *AuditService
}

func NewProjectService(db *pgxpool.Pool, audit *AuditService) *ProjectService {
	return &ProjectService{
		projects: repository.NewProjectRepository(db),
		members:  repository.NewMemberRepository(db),
		profiles: repository.NewProfileRepository(db),
		audit:    audit,
	}
}

// ListForUser returns the projects the user owns or belongs to. There
// is deliberately no unscoped listing.
func (s *ProjectService) ListForUser(ctx context.Context, userID string) ([]domain.Project, error) {
	return s.projects.ListForUser(ctx, userID)
}

func (s *ProjectService) Get(ctx context.Context, id string) (*domain.Project, error) {
	return s.projects.GetByID(ctx, id)
}

func (s *ProjectService) Create(ctx context.Context, actorID, name, description string) (*domain.Project, error) {
	p := &domain.Project{
		Name:        name,
		Description: description,
		OwnerID:     actorID,
	}
	if err := s.projects.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProjectService) Update(ctx context.Context, actorID, id string, name, description, status *string) (*domain.Project, error) {
	if err := s.requireOwner(ctx, id, actorID); err != nil {
		return nil, err
	}
	return s.projects.Update(ctx, id, name, description, status)
}

func (s *ProjectService) Remove(ctx context.Context, actorID, id string) error {
	if err := s.requireOwner(ctx, id, actorID); err != nil {
		return err
	}
	return s.projects.Delete(ctx, id)
}

// Members returns the explicit membership plus the implicit owner,
// owner first, deduplicated.
func (s *ProjectService) Members(ctx context.Context, projectID string) ([]domain.User, error) {
	users, err := s.members.ListUsers(ctx, projectID)
	if err != nil {
		return nil, err
	}

	ownerID, err := s.projects.OwnerID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	for _, u := range users {
		if u.ID == ownerID {
			return users, nil
		}
	}

	owner, err := s.profiles.GetByID(ctx, ownerID)
	if err != nil {
		// membership list is still useful without the owner row
		return users, nil
	}
	return append([]domain.User{*owner}, users...), nil
}

func (s *ProjectService) AddMember(ctx context.Context, actorID, projectID, userID, role string) error {
	if err := s.requireOwner(ctx, projectID, actorID); err != nil {
		return err
	}
	if role == "" {
		role = string(domain.RoleMember)
	}
	if err := s.members.Add(ctx, projectID, userID, role); err != nil {
		return err
	}
	s.audit.MemberAdded(ctx, actorID, projectID, userID, role)
	return nil
}

func (s *ProjectService) RemoveMember(ctx context.Context, actorID, projectID, userID string) error {
	if err := s.requireOwner(ctx, projectID, actorID); err != nil {
		return err
	}
	if err := s.members.Remove(ctx, projectID, userID); err != nil {
		return err
	}
	s.audit.MemberRemoved(ctx, actorID, projectID, userID)
	return nil
}

// CanAccess reports whether a user may act inside a project (owner or
// explicit member).
func (s *ProjectService) CanAccess(ctx context.Context, projectID, userID string) (bool, error) {
	ownerID, err := s.projects.OwnerID(ctx, projectID)
	if err != nil {
		return false, err
	}
	if ownerID == userID {
		return true, nil
	}
	return s.members.IsMember(ctx, projectID, userID)
}

func (s *ProjectService) requireOwner(ctx context.Context, projectID, userID string) error {
	ownerID, err := s.projects.OwnerID(ctx, projectID)
	if err != nil {
		return err
	}
	if ownerID != userID {
		return ErrPermissionDenied
	}
	return nil
}

