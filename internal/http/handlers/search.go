package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GlobalSearch matches project names and task titles within the
// caller's projects. Sub-2-character queries come back empty without a
// database round trip.
func (h *Handler) GlobalSearch(c *gin.Context) {
	userID, _ := getUserID(c)

	result, err := h.SearchService.Global(c.Request.Context(), userID, c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
