package handlers

import (
	"net/http"

	"taskboard/internal/domain"

	"github.com/gin-gonic/gin"
)

// ListActivities returns the newest 50 entries of a project feed.
func (h *Handler) ListActivities(c *gin.Context) {
	if !h.requireProjectAccess(c, c.Param("id")) {
		return
	}
	activities, err := h.AuditService.ListByProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if activities == nil {
		activities = []domain.Activity{}
	}
	c.JSON(http.StatusOK, gin.H{"activities": activities})
}

// GetActivity returns one entry with its user join. The realtime feed
// pushes only ids; clients call this to enrich them.
func (h *Handler) GetActivity(c *gin.Context) {
	activity, err := h.AuditService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !h.requireProjectAccess(c, activity.ProjectID) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"activity": activity})
}
