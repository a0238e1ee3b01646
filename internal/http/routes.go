package http

import (
	"taskboard/internal/config"
	"taskboard/internal/http/handlers"
	"taskboard/internal/http/middleware"
	"taskboard/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, cfg *config.Config, version string) {
	h := handlers.NewHandler(db, handlers.HandlerConfig{
		EmailConfirmRequired: cfg.EmailConfirmRequired,
		FetchTimeout:         cfg.FetchTimeout,
		AvatarDir:            cfg.AvatarDir,
		PublicBaseURL:        cfg.PublicBaseURL,
	})
	healthHandler := handlers.NewHealthHandler(db, version)

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(cfg.APIRateLimit, cfg.APIRateWindow))
	registerAPIRoutes(v1, h, cfg)

	// Realtime activity feed
	hub := ws.NewHub()
	hub.StartCleanup()
	h.AuditService.SetFeed(hub)
	r.GET("/ws/feed", ws.HandleFeed(hub, h.ProjectService.CanAccess))

	// Uploaded avatars
	r.Static("/avatars", cfg.AvatarDir)
}

func registerAPIRoutes(api *gin.RouterGroup, h *handlers.Handler, cfg *config.Config) {
	authRL := middleware.RedisRateLimit(cfg.AuthRateLimit, cfg.AuthRateWindow)

	// Auth
	api.POST("/auth/signup", authRL, h.Signup)
	api.POST("/auth/login", authRL, h.Login)
	api.GET("/me", middleware.JWT(), h.Me)

	// Profiles
	api.GET("/profiles", middleware.JWT(), h.SearchProfiles)
	api.PATCH("/profile", middleware.JWT(), h.UpdateProfile)
	api.POST("/profile/avatar", middleware.JWT(), h.UploadAvatar)

	// Projects
	projects := api.Group("/projects")
	projects.Use(middleware.JWT())
	{
		projects.GET("", h.ListProjects)
		projects.POST("", h.CreateProject)
		projects.GET("/:id", h.GetProject)
		projects.PATCH("/:id", h.UpdateProject)
		projects.DELETE("/:id", h.DeleteProject)
		projects.GET("/:id/overview", h.ProjectOverview)
		projects.GET("/:id/members", h.ProjectMembers)
		projects.POST("/:id/members", h.AddMember)
		projects.DELETE("/:id/members/:userId", h.RemoveMember)
		projects.GET("/:id/tasks", h.ListTasks)
		projects.GET("/:id/milestones", h.ListMilestones)
		projects.GET("/:id/activities", h.ListActivities)
	}

	// Tasks
	tasks := api.Group("/tasks")
	tasks.Use(middleware.JWT())
	{
		tasks.POST("", h.CreateTask)
		tasks.GET("/:id", h.GetTask)
		tasks.PATCH("/:id", h.UpdateTask)
		tasks.DELETE("/:id", h.DeleteTask)
		tasks.GET("/:id/comments", h.ListComments)
		tasks.POST("/:id/comments", h.AddComment)
	}

	// Milestones
	milestones := api.Group("/milestones")
	milestones.Use(middleware.JWT())
	{
		milestones.POST("", h.CreateMilestone)
		milestones.PATCH("/:id", h.UpdateMilestone)
		milestones.DELETE("/:id", h.DeleteMilestone)
	}

	// Activities (single-row enrichment for realtime pushes)
	api.GET("/activities/:id", middleware.JWT(), h.GetActivity)

	// Global search
	api.GET("/search", middleware.JWT(), h.GlobalSearch)
}
