package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/peermatch/backend/internal/models"
)

// Ledger is the durable record keeper for match requests and finalized
// matches. It backs auditability, cancellation lookups and the
// already-in-active-match check; matching correctness itself lives in the
// queue store.
type Ledger struct {
	db *sqlx.DB
}

// New creates a ledger on top of an established database connection
func New(db *sqlx.DB) *Ledger {
	return &Ledger{db: db}
}

// CreateRequest inserts a pending request record and returns its id.
// This is the one load-bearing write in the request path: without an id
// nothing downstream can be tracked, so failure here aborts the request.
func (l *Ledger) CreateRequest(ctx context.Context, req models.MatchRequest, expiresAt time.Time) (string, error) {
	id := uuid.NewString()
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO match_requests (id, user_id, language, difficulty, topics, status, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	`, id, req.UserID, req.Language, req.Difficulty, pq.StringArray(req.Topics), models.StatusPending, expiresAt)
	if err != nil {
		return "", fmt.Errorf("insert match request: %w", err)
	}
	return id, nil
}

// HasActiveMatch reports whether the user is already part of an active match
func (l *Ledger) HasActiveMatch(ctx context.Context, userID string) (bool, error) {
	var exists bool
	err := l.db.GetContext(ctx, &exists, `
		SELECT EXISTS (
			SELECT 1 FROM matches
			WHERE status = $1 AND (user1_id = $2 OR user2_id = $2)
		)
	`, models.MatchStatusActive, userID)
	if err != nil {
		return false, fmt.Errorf("active match lookup for user %s: %w", userID, err)
	}
	return exists, nil
}

// GetRequestStatus fetches the current status of a request by id
func (l *Ledger) GetRequestStatus(ctx context.Context, requestID string) (string, error) {
	var status string
	err := l.db.GetContext(ctx, &status, `SELECT status FROM match_requests WHERE id = $1`, requestID)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("request %s not found", requestID)
	}
	if err != nil {
		return "", fmt.Errorf("request status lookup %s: %w", requestID, err)
	}
	return status, nil
}

// UpdateRequestStatus moves a pending request to a terminal status. The
// status guard makes terminal transitions one-way: a request that was
// already matched, cancelled or expired is never rewritten.
func (l *Ledger) UpdateRequestStatus(ctx context.Context, requestID, status string) error {
	_, err := l.db.ExecContext(ctx, `
		UPDATE match_requests SET status = $1 WHERE id = $2 AND status = $3
	`, status, requestID, models.StatusPending)
	if err != nil {
		return fmt.Errorf("update request %s to %s: %w", requestID, status, err)
	}
	return nil
}

// MarkRequestsMatched transitions both sides of a match in one statement
func (l *Ledger) MarkRequestsMatched(ctx context.Context, requestID1, requestID2 string) error {
	_, err := l.db.ExecContext(ctx, `
		UPDATE match_requests SET status = $1 WHERE id = ANY($2) AND status = $3
	`, models.StatusMatched, pq.Array([]string{requestID1, requestID2}), models.StatusPending)
	if err != nil {
		return fmt.Errorf("mark requests matched (%s, %s): %w", requestID1, requestID2, err)
	}
	return nil
}

// MarkRequestsExpired batch-transitions swept requests to expired
func (l *Ledger) MarkRequestsExpired(ctx context.Context, requestIDs []string) error {
	if len(requestIDs) == 0 {
		return nil
	}
	_, err := l.db.ExecContext(ctx, `
		UPDATE match_requests SET status = $1 WHERE id = ANY($2) AND status = $3
	`, models.StatusExpired, pq.Array(requestIDs), models.StatusPending)
	if err != nil {
		return fmt.Errorf("mark %d requests expired: %w", len(requestIDs), err)
	}
	return nil
}

// CreateMatch inserts an active match record and returns its id
func (l *Ledger) CreateMatch(ctx context.Context, user1ID, user2ID, language, difficulty string, sharedTopics []string) (string, error) {
	id := uuid.NewString()
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO matches (id, user1_id, user2_id, language, difficulty, topics, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	`, id, user1ID, user2ID, language, difficulty, pq.StringArray(sharedTopics), models.MatchStatusActive)
	if err != nil {
		return "", fmt.Errorf("insert match: %w", err)
	}
	return id, nil
}

// GetRequest fetches a full request record, used by the status endpoint
func (l *Ledger) GetRequest(ctx context.Context, requestID string) (*models.MatchRequestRecord, error) {
	var rec models.MatchRequestRecord
	err := l.db.GetContext(ctx, &rec, `
		SELECT id, user_id, language, difficulty, topics, status, expires_at, created_at
		FROM match_requests WHERE id = $1
	`, requestID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("request %s not found", requestID)
	}
	if err != nil {
		return nil, fmt.Errorf("request lookup %s: %w", requestID, err)
	}
	return &rec, nil
}
