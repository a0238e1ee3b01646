package ws

import (
	"context"
	"net/http"
	"os"

	"taskboard/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// MembershipChecker gates feed subscriptions to project members.
type MembershipChecker func(ctx context.Context, projectID, userID string) (bool, error)

// HandleFeed upgrades the connection and subscribes it to one
// project's activity feed. Auth comes from a token query parameter
// because browsers cannot set headers on websocket dials.
func HandleFeed(hub *Hub, canAccess MembershipChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "token required"})
			return
		}

		userID, err := service.ParseJWT(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		projectID := c.Query("project_id")
		if projectID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "project_id required"})
			return
		}

		ok, err := canAccess(c.Request.Context(), projectID, userID)
		if err != nil || !ok {
			c.JSON(http.StatusForbidden, gin.H{"error": "not a project member"})
			return
		}

		allowedOrigin := os.Getenv("ALLOWED_ORIGIN")
		upgrader := websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if allowedOrigin == "" {
					return true
				}
				return r.Header.Get("Origin") == allowedOrigin
			},
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}

		client := NewClient(userID, projectID, conn, hub)
		go client.Run()
	}
}
