package match

import (
	"context"
	"log"

	"github.com/peermatch/backend/internal/models"
	"github.com/peermatch/backend/internal/queue"
)

// Cancel removes a still-waiting request from its queue and marks it
// cancelled. Cancellation only applies to requests sitting in a queue; a
// request mid-search cannot be cancelled in flight.
func (e *Engine) Cancel(ctx context.Context, requestID string) (models.CancellationResult, error) {
	for _, difficulty := range models.DifficultyOrder {
		queueKey := queue.KeyFor(difficulty)
		blobs, err := e.queues.PeekCandidates(ctx, queueKey, e.candidateWindow)
		if err != nil {
			log.Printf("[CANCEL] Failed to peek %s: %v", queueKey, err)
			continue
		}
		for _, blob := range blobs {
			member, err := models.DecodeQueueMember(blob)
			if err != nil {
				continue
			}
			if member.RequestID != requestID {
				continue
			}

			removed, err := e.queues.RemoveMember(ctx, queueKey, blob)
			if err != nil {
				log.Printf("[CANCEL] Failed to remove request %s from %s: %v", requestID, queueKey, err)
			} else if removed == 0 {
				log.Printf("[CANCEL] Request %s already gone from %s (matched or swept concurrently)", requestID, queueKey)
			}

			if err := e.ledger.UpdateRequestStatus(ctx, requestID, models.StatusCancelled); err != nil {
				log.Printf("[CANCEL] Failed to mark request %s cancelled: %v", requestID, err)
			}

			log.Printf("[CANCEL] Cancelled request %s in %s", requestID, queueKey)
			return models.CancellationResult{Success: true}, nil
		}
	}

	// Not in any queue: the ledger status decides whether this was a late
	// cancel of a finished request or a request that never reached a queue.
	status, err := e.ledger.GetRequestStatus(ctx, requestID)
	if err != nil {
		log.Printf("[CANCEL] Request %s not found in queues or ledger: %v", requestID, err)
		return models.CancellationResult{Reason: "not found in active queues"}, nil
	}
	if status != models.StatusPending {
		return models.CancellationResult{Reason: "already matched or expired"}, nil
	}
	return models.CancellationResult{Reason: "not found in active queues"}, nil
}
