package api

import (
	"github.com/gin-gonic/gin"
	"github.com/peermatch/backend/internal/api/handlers"
	"github.com/peermatch/backend/internal/config"
	"github.com/peermatch/backend/internal/ledger"
	"github.com/peermatch/backend/internal/match"
	"github.com/peermatch/backend/internal/middleware"
	"github.com/peermatch/backend/internal/queue"
	"github.com/peermatch/backend/internal/ws"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, engine *match.Engine, l *ledger.Ledger, queues *queue.Store, hub *ws.Hub, cfg *config.Config) {
	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.WebSocketCORSCheck(cfg))

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck)

		// Matching endpoints
		m := v1.Group("/match")
		{
			m.POST("", handlers.FindMatch(engine))
			m.POST("/:id/cancel", handlers.CancelMatch(engine))
			m.GET("/:id/status", handlers.RequestStatus(l))
			m.GET("/queues", handlers.QueueSizes(queues))
			m.GET("/ws", handlers.HandleMatchWebSocket(hub))
		}
	}
}
