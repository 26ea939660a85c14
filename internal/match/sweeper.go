package match

import (
	"context"
	"log"
	"time"

	"github.com/peermatch/backend/internal/models"
	"github.com/peermatch/backend/internal/queue"
)

// StartSweepWorker runs the expiry sweep on a fixed interval until the
// context is cancelled. A single goroutine drives every pass, so a slow
// sweep can never overlap with the next one; ticks that fire while a sweep
// is still running are simply dropped.
func StartSweepWorker(ctx context.Context, e *Engine, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Printf("[SWEEP] Expiry sweeper started (interval=%v)", interval)

	for {
		select {
		case <-ctx.Done():
			log.Printf("[SWEEP] Expiry sweeper stopped")
			return
		case <-ticker.C:
			e.SweepOnce(ctx, time.Now())
		}
	}
}

// SweepOnce removes every queue member past its expiry and marks the
// corresponding ledger records expired, one batch update per queue. The
// queue-side removal is atomic and not reversible: a ledger failure
// afterwards is logged and left for out-of-band reconciliation, never
// retried here.
func (e *Engine) SweepOnce(ctx context.Context, now time.Time) {
	for _, difficulty := range models.DifficultyOrder {
		queueKey := queue.KeyFor(difficulty)

		blobs, err := e.queues.SweepExpired(ctx, queueKey, now.Unix())
		if err != nil {
			log.Printf("[SWEEP] Failed to sweep %s: %v", queueKey, err)
			continue
		}
		if len(blobs) == 0 {
			continue
		}

		requestIDs := make([]string, 0, len(blobs))
		for _, blob := range blobs {
			member, err := models.DecodeQueueMember(blob)
			if err != nil {
				log.Printf("[SWEEP] Discarding unparseable entry swept from %s: %v", queueKey, err)
				continue
			}
			requestIDs = append(requestIDs, member.RequestID)
		}

		if err := e.ledger.MarkRequestsExpired(ctx, requestIDs); err != nil {
			log.Printf("[SWEEP] Failed to mark %d requests expired for %s: %v", len(requestIDs), queueKey, err)
			continue
		}

		log.Printf("[SWEEP] Expired %d entries from %s", len(requestIDs), queueKey)
	}
}
