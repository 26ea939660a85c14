package queue

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// keyPrefix partitions the waiting queues by difficulty tier
const keyPrefix = "matchqueue:"

// KeyFor returns the sorted-set key for a difficulty tier
func KeyFor(difficulty string) string {
	return keyPrefix + difficulty
}

// Store wraps the Redis sorted-set primitives backing the waiting queues.
// Every operation is a single round trip; there are no cross-key transactions.
type Store struct {
	rdb *redis.Client
}

// NewStore creates a queue store on top of an established Redis client
func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// AddMember inserts a serialized member scored by its expiry timestamp.
// ZADD of byte-identical content is a no-op, so duplicate inserts are safe.
func (s *Store) AddMember(ctx context.Context, queueKey string, expiresAt int64, blob string) (int64, error) {
	added, err := s.rdb.ZAdd(ctx, queueKey, redis.Z{Score: float64(expiresAt), Member: blob}).Result()
	if err != nil {
		return 0, fmt.Errorf("zadd %s: %w", queueKey, err)
	}
	return added, nil
}

// PeekCandidates returns up to limit members from the front of the queue
// (soonest expiry first, which approximates arrival order under a fixed TTL)
// without removing them.
func (s *Store) PeekCandidates(ctx context.Context, queueKey string, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, nil
	}
	blobs, err := s.rdb.ZRange(ctx, queueKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("zrange %s: %w", queueKey, err)
	}
	return blobs, nil
}

// RemoveMember removes members by exact byte match. A zero count means the
// member was already gone (matched, expired or cancelled by another path);
// callers treat that as benign.
func (s *Store) RemoveMember(ctx context.Context, queueKey string, blobs ...string) (int64, error) {
	if len(blobs) == 0 {
		return 0, nil
	}
	args := make([]interface{}, len(blobs))
	for i, b := range blobs {
		args[i] = b
	}
	removed, err := s.rdb.ZRem(ctx, queueKey, args...).Result()
	if err != nil {
		return 0, fmt.Errorf("zrem %s: %w", queueKey, err)
	}
	return removed, nil
}

// sweepScript reads and deletes everything at or below the cutoff score in a
// single atomic step, so a concurrent insert or remove of the same expired
// entry cannot slip between the read and the delete.
var sweepScript = redis.NewScript(`
	local expired = redis.call('ZRANGEBYSCORE', KEYS[1], '-inf', ARGV[1])
	if #expired > 0 then
		redis.call('ZREMRANGEBYSCORE', KEYS[1], '-inf', ARGV[1])
	end
	return expired
`)

// SweepExpired removes and returns all members with score <= maxScore
func (s *Store) SweepExpired(ctx context.Context, queueKey string, maxScore int64) ([]string, error) {
	res, err := sweepScript.Run(ctx, s.rdb, []string{queueKey}, maxScore).Result()
	if err != nil {
		return nil, fmt.Errorf("sweep %s: %w", queueKey, err)
	}
	raw, ok := res.([]interface{})
	if !ok {
		return nil, fmt.Errorf("sweep %s: unexpected script result %T", queueKey, res)
	}
	blobs := make([]string, 0, len(raw))
	for _, v := range raw {
		if str, ok := v.(string); ok {
			blobs = append(blobs, str)
		}
	}
	return blobs, nil
}

// Size returns the number of waiting members in a queue
func (s *Store) Size(ctx context.Context, queueKey string) (int64, error) {
	return s.rdb.ZCard(ctx, queueKey).Result()
}
