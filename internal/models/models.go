package models

import (
	"time"

	"github.com/lib/pq"
)

// Difficulty tiers, also used as queue partition keys
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// DifficultyOrder is the fixed fallback scan order. The search always visits
// the requester's own tier first, then the remaining tiers in this order.
// Kept as an explicit slice so the order never depends on map iteration.
var DifficultyOrder = []string{DifficultyEasy, DifficultyMedium, DifficultyHard}

// Match request lifecycle statuses
const (
	StatusPending   = "pending"
	StatusMatched   = "matched"
	StatusCancelled = "cancelled"
	StatusExpired   = "expired"
)

// Match record statuses
const (
	MatchStatusActive    = "active"
	MatchStatusCompleted = "completed"
)

// ValidDifficulty reports whether d is a known difficulty tier
func ValidDifficulty(d string) bool {
	for _, v := range DifficultyOrder {
		if v == d {
			return true
		}
	}
	return false
}

// MatchRequest is an incoming request to find a partner
type MatchRequest struct {
	UserID     string   `json:"user_id"`
	Language   string   `json:"language"`
	Topics     []string `json:"topics"`
	Difficulty string   `json:"difficulty"`
	RequestID  string   `json:"request_id,omitempty"` // assigned by the ledger
}

// MatchResult is returned to the caller of FindMatchOrQueue
type MatchResult struct {
	MatchFound    bool   `json:"match_found"`
	MatchedUserID string `json:"matched_user_id,omitempty"`
	MatchID       string `json:"match_id,omitempty"`
	Queued        bool   `json:"queued"`
	QueueKey      string `json:"queue_key,omitempty"`
	RequestID     string `json:"request_id,omitempty"`
	Reason        string `json:"reason,omitempty"`
}

// CancellationResult is returned to the caller of Cancel
type CancellationResult struct {
	Success bool   `json:"success"`
	Reason  string `json:"reason,omitempty"`
}

// MatchRequestRecord is the durable ledger row for a match request
type MatchRequestRecord struct {
	ID         string         `db:"id" json:"id"`
	UserID     string         `db:"user_id" json:"user_id"`
	Language   string         `db:"language" json:"language"`
	Difficulty string         `db:"difficulty" json:"difficulty"`
	Topics     pq.StringArray `db:"topics" json:"topics"`
	Status     string         `db:"status" json:"status"`
	ExpiresAt  time.Time      `db:"expires_at" json:"expires_at"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
}

// MatchRecord is the durable row for a finalized match
type MatchRecord struct {
	ID         string         `db:"id" json:"id"`
	User1ID    string         `db:"user1_id" json:"user1_id"`
	User2ID    string         `db:"user2_id" json:"user2_id"`
	Language   string         `db:"language" json:"language"`
	Difficulty string         `db:"difficulty" json:"difficulty"`
	Topics     pq.StringArray `db:"topics" json:"topics"` // shared topic context
	Status     string         `db:"status" json:"status"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
}

// TopicIntersection returns the topics present in both sets, preserving the
// order of a. Empty result means the two requests are incompatible.
func TopicIntersection(a, b []string) []string {
	seen := make(map[string]bool, len(b))
	for _, t := range b {
		seen[t] = true
	}
	var shared []string
	for _, t := range a {
		if seen[t] {
			shared = append(shared, t)
			seen[t] = false // dedupe
		}
	}
	return shared
}
