package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/peermatch/backend/internal/ws"
)

// HandleMatchWebSocket upgrades the connection and registers the user for
// real-time match notifications
func HandleMatchWebSocket(hub *ws.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Query("user_id")
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id query parameter required"})
			return
		}

		if err := hub.ServeUser(c.Writer, c.Request, userID); err != nil {
			log.Printf("[API] WebSocket upgrade failed for user %s: %v", userID, err)
		}
	}
}
