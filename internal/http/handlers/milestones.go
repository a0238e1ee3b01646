package handlers

import (
	"net/http"
	"time"

	"taskboard/internal/domain"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListMilestones(c *gin.Context) {
	if !h.requireProjectAccess(c, c.Param("id")) {
		return
	}
	milestones, err := h.MilestoneService.ListByProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if milestones == nil {
		milestones = []domain.Milestone{}
	}
	c.JSON(http.StatusOK, gin.H{"milestones": milestones})
}

type CreateMilestoneRequest struct {
	ProjectID   string  `json:"project_id" binding:"required"`
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	DueDate     *string `json:"due_date"`
}

func (h *Handler) CreateMilestone(c *gin.Context) {
	userID, _ := getUserID(c)

	var req CreateMilestoneRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	m := &domain.Milestone{
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
	}
	if req.DueDate != nil {
		due, err := parseTimestamp(*req.DueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid due_date"})
			return
		}
		m.DueDate = &due
	}

	if err := h.MilestoneService.Create(c.Request.Context(), userID, m); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"milestone": m})
}

type UpdateMilestoneRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date"`
	Status      *string `json:"status"`
}

func (h *Handler) UpdateMilestone(c *gin.Context) {
	userID, _ := getUserID(c)

	var req UpdateMilestoneRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	var due *time.Time
	if req.DueDate != nil {
		t, err := parseTimestamp(*req.DueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid due_date"})
			return
		}
		due = &t
	}

	if err := h.MilestoneService.Update(c.Request.Context(), userID, c.Param("id"),
		req.Title, req.Description, due, req.Status); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) DeleteMilestone(c *gin.Context) {
	userID, _ := getUserID(c)

	if err := h.MilestoneService.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
