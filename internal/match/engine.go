package match

import (
	"context"
	"log"
	"time"

	"github.com/peermatch/backend/internal/config"
	"github.com/peermatch/backend/internal/models"
	"github.com/peermatch/backend/internal/queue"
	"github.com/peermatch/backend/internal/session"
)

// QueueStore is the ordered waiting-queue collaborator, one sorted set per
// difficulty tier, scored by expiry timestamp.
type QueueStore interface {
	AddMember(ctx context.Context, queueKey string, expiresAt int64, blob string) (int64, error)
	PeekCandidates(ctx context.Context, queueKey string, limit int) ([]string, error)
	RemoveMember(ctx context.Context, queueKey string, blobs ...string) (int64, error)
	SweepExpired(ctx context.Context, queueKey string, maxScore int64) ([]string, error)
}

// RequestLedger is the durable record keeper for requests and matches
type RequestLedger interface {
	CreateRequest(ctx context.Context, req models.MatchRequest, expiresAt time.Time) (string, error)
	HasActiveMatch(ctx context.Context, userID string) (bool, error)
	GetRequestStatus(ctx context.Context, requestID string) (string, error)
	UpdateRequestStatus(ctx context.Context, requestID, status string) error
	MarkRequestsMatched(ctx context.Context, requestID1, requestID2 string) error
	MarkRequestsExpired(ctx context.Context, requestIDs []string) error
	CreateMatch(ctx context.Context, user1ID, user2ID, language, difficulty string, sharedTopics []string) (string, error)
}

// MatchNotification is delivered to both participants of a finalized match
type MatchNotification struct {
	MatchID      string            `json:"match_id"`
	User1ID      string            `json:"user1_id"`
	User2ID      string            `json:"user2_id"`
	Language     string            `json:"language"`
	Difficulty   string            `json:"difficulty"`
	SharedTopics []string          `json:"shared_topics"`
	Tokens       map[string]string `json:"tokens,omitempty"` // user id -> session token
}

// Notifier is the fire-and-forget real-time channel to matched users
type Notifier interface {
	NotifyMatchFound(ctx context.Context, n MatchNotification) error
}

// EventPublisher is the fire-and-forget event bus for downstream systems
type EventPublisher interface {
	Publish(ctx context.Context, topic string, payload interface{}) error
}

// Engine is the matchmaking core. It holds no durable state of its own;
// everything is reconstructed per operation from the queue store and ledger,
// with coordination limited to the store's per-key atomic operations.
type Engine struct {
	queues   QueueStore
	ledger   RequestLedger
	notifier Notifier
	events   EventPublisher
	tokens   *session.Signer

	queueTTL        time.Duration
	candidateWindow int
}

// NewEngine wires the engine with its four collaborators
func NewEngine(queues QueueStore, ledger RequestLedger, notifier Notifier, events EventPublisher, tokens *session.Signer, cfg *config.Config) *Engine {
	return &Engine{
		queues:          queues,
		ledger:          ledger,
		notifier:        notifier,
		events:          events,
		tokens:          tokens,
		queueTTL:        time.Duration(cfg.QueueTTLSeconds) * time.Second,
		candidateWindow: cfg.CandidateWindow,
	}
}

// FindMatchOrQueue tries to pair the request against a waiting candidate,
// scanning the requester's own difficulty first and then the remaining tiers
// in the fixed fallback order. When no compatible candidate exists the
// requester is enqueued under their own difficulty.
func (e *Engine) FindMatchOrQueue(ctx context.Context, req models.MatchRequest) (models.MatchResult, error) {
	if !models.ValidDifficulty(req.Difficulty) {
		return models.MatchResult{Reason: "invalid difficulty"}, nil
	}
	if req.UserID == "" || req.Language == "" || len(req.Topics) == 0 {
		return models.MatchResult{Reason: "incomplete match request"}, nil
	}

	active, err := e.ledger.HasActiveMatch(ctx, req.UserID)
	if err != nil {
		return models.MatchResult{}, err
	}
	if active {
		log.Printf("[MATCH] Rejecting request from user %s: already in active match", req.UserID)
		return models.MatchResult{Reason: "already in active match"}, nil
	}

	expiresAt := time.Now().Add(e.queueTTL)
	requestID, err := e.ledger.CreateRequest(ctx, req, expiresAt)
	if err != nil {
		return models.MatchResult{}, err
	}
	req.RequestID = requestID

	for _, difficulty := range scanOrder(req.Difficulty) {
		if result, found := e.searchQueue(ctx, req, queue.KeyFor(difficulty)); found {
			return result, nil
		}
	}

	return e.enqueue(ctx, req, expiresAt)
}

// scanOrder returns the primary difficulty followed by the remaining tiers
// in the fixed fallback order
func scanOrder(primary string) []string {
	order := make([]string, 0, len(models.DifficultyOrder))
	order = append(order, primary)
	for _, d := range models.DifficultyOrder {
		if d != primary {
			order = append(order, d)
		}
	}
	return order
}

// searchQueue scans one queue's front window for the first compatible
// candidate. Selection is first-fit: no scoring across multiple compatible
// candidates. A candidate only counts as selected once its removal from the
// queue actually succeeded; a zero-count removal means another request
// claimed it first, and the scan moves on.
func (e *Engine) searchQueue(ctx context.Context, req models.MatchRequest, queueKey string) (models.MatchResult, bool) {
	blobs, err := e.queues.PeekCandidates(ctx, queueKey, e.candidateWindow)
	if err != nil {
		log.Printf("[MATCH] Failed to peek %s: %v", queueKey, err)
		return models.MatchResult{}, false
	}

	for _, blob := range blobs {
		member, err := models.DecodeQueueMember(blob)
		if err != nil {
			log.Printf("[MATCH] Removing malformed entry from %s: %v", queueKey, err)
			if _, remErr := e.queues.RemoveMember(ctx, queueKey, blob); remErr != nil {
				log.Printf("[MATCH] Failed to remove malformed entry from %s: %v", queueKey, remErr)
			}
			continue
		}

		if member.UserID == req.UserID {
			continue
		}
		if member.Language != req.Language {
			continue
		}
		shared := models.TopicIntersection(req.Topics, member.Topics)
		if len(shared) == 0 {
			continue
		}

		// Claim by removal: this is the sole gate before finalizing, so two
		// concurrent searches that peeked the same candidate cannot both
		// proceed with it.
		removed, err := e.queues.RemoveMember(ctx, queueKey, blob)
		if err != nil {
			log.Printf("[MATCH] Failed to claim candidate %s from %s: %v", member.RequestID, queueKey, err)
			continue
		}
		if removed == 0 {
			log.Printf("[MATCH] Candidate %s in %s already claimed by a concurrent request, continuing search", member.RequestID, queueKey)
			continue
		}

		return e.finalize(ctx, req, member, shared), true
	}

	return models.MatchResult{}, false
}

// enqueue records the requester as waiting in their own difficulty queue.
// The caller path guarantees single enqueue per request id: only requests
// that failed every search branch reach this point.
func (e *Engine) enqueue(ctx context.Context, req models.MatchRequest, expiresAt time.Time) (models.MatchResult, error) {
	queueKey := queue.KeyFor(req.Difficulty)
	member := models.NewQueueMember(req, expiresAt.Unix())
	blob, err := member.Encode()
	if err != nil {
		return models.MatchResult{}, err
	}

	if _, err := e.queues.AddMember(ctx, queueKey, expiresAt.Unix(), blob); err != nil {
		return models.MatchResult{}, err
	}

	log.Printf("[MATCH] Queued user %s in %s (request=%s expires=%s)",
		req.UserID, queueKey, req.RequestID, expiresAt.Format(time.RFC3339))

	return models.MatchResult{
		Queued:    true,
		QueueKey:  queueKey,
		RequestID: req.RequestID,
	}, nil
}
