package models

import (
	"encoding/json"
	"fmt"
)

// QueueMember is the unit stored in a waiting queue: a match request snapshot
// plus its absolute expiry. The serialized form is the sorted-set member, so
// two members are "the same entry" only if their bytes are identical.
type QueueMember struct {
	RequestID  string   `json:"request_id"`
	UserID     string   `json:"user_id"`
	Language   string   `json:"language"`
	Topics     []string `json:"topics"`
	Difficulty string   `json:"difficulty"`
	ExpiresAt  int64    `json:"expires_at"` // unix seconds
}

// NewQueueMember builds a queue member from a ledger-recorded request
func NewQueueMember(req MatchRequest, expiresAt int64) QueueMember {
	return QueueMember{
		RequestID:  req.RequestID,
		UserID:     req.UserID,
		Language:   req.Language,
		Topics:     req.Topics,
		Difficulty: req.Difficulty,
		ExpiresAt:  expiresAt,
	}
}

// Encode serializes the member for storage
func (m QueueMember) Encode() (string, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("encode queue member: %w", err)
	}
	return string(b), nil
}

// DecodeQueueMember parses a stored blob and validates it. A blob that parses
// but is missing required fields is still malformed: callers treat any error
// here as a corrupted entry to be removed from the queue, never a reason to
// abort the search.
func DecodeQueueMember(blob string) (QueueMember, error) {
	var m QueueMember
	if err := json.Unmarshal([]byte(blob), &m); err != nil {
		return QueueMember{}, fmt.Errorf("decode queue member: %w", err)
	}
	if m.RequestID == "" {
		return QueueMember{}, fmt.Errorf("queue member missing request_id")
	}
	if m.UserID == "" {
		return QueueMember{}, fmt.Errorf("queue member missing user_id")
	}
	if m.Language == "" {
		return QueueMember{}, fmt.Errorf("queue member missing language")
	}
	if !ValidDifficulty(m.Difficulty) {
		return QueueMember{}, fmt.Errorf("queue member has invalid difficulty %q", m.Difficulty)
	}
	if m.ExpiresAt <= 0 {
		return QueueMember{}, fmt.Errorf("queue member has invalid expires_at %d", m.ExpiresAt)
	}
	return m, nil
}
