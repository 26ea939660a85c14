package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/peermatch/backend/internal/match"
	"github.com/redis/go-redis/v9"
)

// Channel carries match notifications from the engine to whatever process
// holds the users' websocket connections
const Channel = "match_notifications"

// RedisNotifier delivers match-found notifications over Redis Pub/Sub.
// Delivery is fire-and-forget: a user with no connected subscriber simply
// misses the push and falls back to polling the status endpoint.
type RedisNotifier struct {
	rdb *redis.Client
}

// NewRedisNotifier creates a notifier on top of an established Redis client
func NewRedisNotifier(rdb *redis.Client) *RedisNotifier {
	return &RedisNotifier{rdb: rdb}
}

// NotifyMatchFound publishes the notification for both matched users
func (n *RedisNotifier) NotifyMatchFound(ctx context.Context, notification match.MatchNotification) error {
	payload, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("marshal match notification: %w", err)
	}
	subscribers, err := n.rdb.Publish(ctx, Channel, payload).Result()
	if err != nil {
		return fmt.Errorf("publish match notification: %w", err)
	}
	log.Printf("[NOTIFY] Published match %s notification (subscribers=%d)", notification.MatchID, subscribers)
	return nil
}
