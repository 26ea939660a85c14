package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisPublisher publishes engine events to Redis Pub/Sub channels for
// downstream consumers (question selection, analytics). Fire-and-forget:
// nobody listening is not an error.
type RedisPublisher struct {
	rdb *redis.Client
}

// NewRedisPublisher creates a publisher on top of an established Redis client
func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

// Publish marshals the payload and publishes it to the topic channel
func (p *RedisPublisher) Publish(ctx context.Context, topic string, payload interface{}) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}
	if err := p.rdb.Publish(ctx, topic, b).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	return nil
}
