package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/peermatch/backend/internal/ledger"
	"github.com/peermatch/backend/internal/match"
	"github.com/peermatch/backend/internal/models"
	"github.com/peermatch/backend/internal/queue"
)

// FindMatch handles an inbound match request: it either pairs the user with
// a waiting candidate or enqueues them
func FindMatch(engine *match.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			UserID     string   `json:"user_id" binding:"required"`
			Language   string   `json:"language" binding:"required"`
			Topics     []string `json:"topics" binding:"required"`
			Difficulty string   `json:"difficulty" binding:"required"`
		}

		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid request. user_id, language, topics and difficulty required.",
			})
			return
		}

		difficulty := strings.ToLower(strings.TrimSpace(req.Difficulty))
		if !models.ValidDifficulty(difficulty) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Difficulty must be one of easy, medium, hard",
			})
			return
		}
		if len(req.Topics) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "At least one topic is required",
			})
			return
		}

		result, err := engine.FindMatchOrQueue(c.Request.Context(), models.MatchRequest{
			UserID:     req.UserID,
			Language:   req.Language,
			Topics:     req.Topics,
			Difficulty: difficulty,
		})
		if err != nil {
			log.Printf("[API] FindMatch failed for user %s: %v", req.UserID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process match request"})
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

// CancelMatch cancels a queued match request by id
func CancelMatch(engine *match.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.Param("id")
		if requestID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Request id required"})
			return
		}

		result, err := engine.Cancel(c.Request.Context(), requestID)
		if err != nil {
			log.Printf("[API] CancelMatch failed for request %s: %v", requestID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel match request"})
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

// RequestStatus returns the ledger status of a match request
func RequestStatus(l *ledger.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.Param("id")
		rec, err := l.GetRequest(c.Request.Context(), requestID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
			return
		}
		c.JSON(http.StatusOK, rec)
	}
}

// QueueSizes reports how many users are waiting per difficulty tier
func QueueSizes(store *queue.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sizes := make(map[string]int64, len(models.DifficultyOrder))
		for _, difficulty := range models.DifficultyOrder {
			size, err := store.Size(c.Request.Context(), queue.KeyFor(difficulty))
			if err != nil {
				log.Printf("[API] Failed to read size of %s queue: %v", difficulty, err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read queue sizes"})
				return
			}
			sizes[difficulty] = size
		}
		c.JSON(http.StatusOK, gin.H{"queues": sizes})
	}
}
