package service

import (
	"context"
	"unicode/utf8"

	"taskboard/internal/domain"
	"taskboard/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	searchMinQuery = 2
	searchPerKind  = 5
)

// SearchResult mirrors the global search dropdown: a handful of
// projects and tasks each.
type SearchResult struct {
	Projects []domain.Project `json:"projects"`
	Tasks    []domain.Task    `json:"tasks"`
}

type SearchService struct {
	projects *repository.ProjectRepository
	tasks    *repository.TaskRepository
}

func NewSearchService(db *pgxpool.Pool) *SearchService {
	return &SearchService{
		projects: repository.NewProjectRepository(db),
		tasks:    repository.NewTaskRepository(db),
	}
}

// Global searches project names and task titles among the projects
// visible to the user, case-insensitive. Queries shorter than two
// characters (runes, not bytes) return empty results without touching
// the database.
func (s *SearchService) Global(ctx context.Context, userID, query string) (*SearchResult, error) {
	res := &SearchResult{Projects: []domain.Project{}, Tasks: []domain.Task{}}
	if utf8.RuneCountInString(query) < searchMinQuery {
		return res, nil
	}

	projects, err := s.projects.SearchByName(ctx, userID, query, searchPerKind)
	if err != nil {
		return nil, err
	}

	tasks, err := s.tasks.SearchByTitle(ctx, userID, query, searchPerKind)
	if err != nil {
		return nil, err
	}

	if projects != nil {
		res.Projects = projects
	}
	if tasks != nil {
		res.Tasks = tasks
	}
	return res, nil
}
