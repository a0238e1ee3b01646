package handlers

import (
	"context"
	"errors"
	"net/http"

	"taskboard/internal/domain"
	"taskboard/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListProjects returns only the projects the caller owns or belongs
// to; other rows stay invisible.
func (h *Handler) ListProjects(c *gin.Context) {
	userID, _ := getUserID(c)

	projects, err := h.ProjectService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if projects == nil {
		projects = []domain.Project{}
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

func (h *Handler) GetProject(c *gin.Context) {
	if !h.requireProjectAccess(c, c.Param("id")) {
		return
	}
	project, err := h.ProjectService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": project})
}

type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (h *Handler) CreateProject(c *gin.Context) {
	userID, _ := getUserID(c)

	var req CreateProjectRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	project, err := h.ProjectService.Create(c.Request.Context(), userID, req.Name, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"project": project})
}

type UpdateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

func (h *Handler) UpdateProject(c *gin.Context) {
	userID, _ := getUserID(c)

	var req UpdateProjectRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	project, err := h.ProjectService.Update(c.Request.Context(), userID, c.Param("id"),
		req.Name, req.Description, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": project})
}

func (h *Handler) DeleteProject(c *gin.Context) {
	userID, _ := getUserID(c)

	if err := h.ProjectService.Remove(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ProjectMembers(c *gin.Context) {
	if !h.requireProjectAccess(c, c.Param("id")) {
		return
	}
	members, err := h.ProjectService.Members(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if members == nil {
		members = []domain.User{}
	}
	c.JSON(http.StatusOK, gin.H{"members": members})
}

type AddMemberRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Role   string `json:"role"`
}

func (h *Handler) AddMember(c *gin.Context) {
	userID, _ := getUserID(c)

	var req AddMemberRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	if err := h.ProjectService.AddMember(c.Request.Context(), userID, c.Param("id"), req.UserID, req.Role); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) RemoveMember(c *gin.Context) {
	userID, _ := getUserID(c)

	if err := h.ProjectService.RemoveMember(c.Request.Context(), userID, c.Param("id"), c.Param("userId")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ProjectOverview assembles everything a project screen (or a report
// export) needs in one response. The four fetches run concurrently and
// race a deadline: a backend that hangs here has historically meant a
// recursive access policy, so the timeout carries that diagnostic.
func (h *Handler) ProjectOverview(c *gin.Context) {
	projectID := c.Param("id")
	if !h.requireProjectAccess(c, projectID) {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.fetchTimeout)
	defer cancel()

	var (
		project    *domain.Project
		tasks      []domain.Task
		members    []domain.User
		activities []domain.Activity
		milestones []domain.Milestone
	)

	errs := make(chan error, 5)
	go func() {
		var err error
		project, err = h.ProjectService.Get(ctx, projectID)
		errs <- err
	}()
	go func() {
		var err error
		tasks, err = h.TaskService.ListByProject(ctx, projectID, repository.TaskFilter{})
		errs <- err
	}()
	go func() {
		var err error
		members, err = h.ProjectService.Members(ctx, projectID)
		errs <- err
	}()
	go func() {
		var err error
		activities, err = h.AuditService.ListByProject(ctx, projectID)
		errs <- err
	}()
	go func() {
		var err error
		milestones, err = h.MilestoneService.ListByProject(ctx, projectID)
		errs <- err
	}()

	for i := 0; i < 5; i++ {
		if err := <-errs; err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				c.JSON(http.StatusGatewayTimeout, gin.H{
					"error": "aggregate fetch timed out; possible recursive access policy",
				})
				return
			}
			respondError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"project":    project,
		"tasks":      tasks,
		"members":    members,
		"activities": activities,
		"milestones": milestones,
	})
}
