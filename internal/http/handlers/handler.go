package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"taskboard/internal/repository"
	"taskboard/internal/service"
	"taskboard/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// HandlerConfig carries the knobs the handlers need beyond services.
type HandlerConfig struct {
	EmailConfirmRequired bool
	FetchTimeout         time.Duration
	AvatarDir            string
	PublicBaseURL        string
}

type Handler struct {
	DB               *pgxpool.Pool
	AuthService      *service.AuthService
	ProjectService   *service.ProjectService
	TaskService      *service.TaskService
	MilestoneService *service.MilestoneService
	SearchService    *service.SearchService
	AuditService     *service.AuditService
	Profiles         *repository.ProfileRepository
	Avatars          *storage.AvatarStore

	// canAccess gates project-scoped reads; mutations run the same
	// check inside their services.
	canAccess func(ctx context.Context, projectID, userID string) (bool, error)

	fetchTimeout time.Duration
}

func NewHandler(db *pgxpool.Pool, cfg HandlerConfig) *Handler {
	audit := service.NewAuditService(db)
	projects := service.NewProjectService(db, audit)

	fetchTimeout := cfg.FetchTimeout
	if fetchTimeout <= 0 {
		fetchTimeout = 5 * time.Second
	}

	return &Handler{
		DB:               db,
		AuthService:      service.NewAuthService(db, cfg.EmailConfirmRequired),
		ProjectService:   projects,
		TaskService:      service.NewTaskService(db, projects, audit),
		MilestoneService: service.NewMilestoneService(db, projects),
		SearchService:    service.NewSearchService(db),
		AuditService:     audit,
		Profiles:         repository.NewProfileRepository(db),
		Avatars:          storage.NewAvatarStore(cfg.AvatarDir, cfg.PublicBaseURL),
		canAccess:        projects.CanAccess,
		fetchTimeout:     fetchTimeout,
	}
}

// requireProjectAccess hides projects from non-members: a read by an
// outsider behaves as if the row did not exist. Writes the response and
// returns false when access is denied.
func (h *Handler) requireProjectAccess(c *gin.Context, projectID string) bool {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return false
	}
	allowed, err := h.canAccess(c.Request.Context(), projectID, userID)
	if err != nil {
		respondError(c, err)
		return false
	}
	if !allowed {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return false
	}
	return true
}

// getUserID extracts the authenticated user id set by the JWT middleware.
func getUserID(c *gin.Context) (string, bool) {
	v, ok := c.Get("user_id")
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

// parseTimestamp accepts RFC3339 or a bare date.
func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// respondError maps service/repository sentinels onto status codes.
// Backend failures are passed through unmodified in the message so the
// UI can render its generic "failed to ..." alert with detail.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrMilestoneMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
