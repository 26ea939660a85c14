package match

import (
	"context"
	"log"

	"github.com/peermatch/backend/internal/models"
)

// EventMatchFound is the event bus topic for finalized matches
const EventMatchFound = "match_events"

// finalize performs the side effects of a claimed match: persist the match
// record, mark both requests matched, mint session tokens, notify both users
// and publish the downstream event. The candidate is already removed from
// its queue by the claim, so from the users' perspective the match has
// happened; every step here is best-effort and a failure is logged without
// aborting the rest or rolling back the claim.
func (e *Engine) finalize(ctx context.Context, req models.MatchRequest, candidate models.QueueMember, sharedTopics []string) models.MatchResult {
	log.Printf("[MATCH] Pairing user %s with user %s (language=%s difficulty=%s topics=%v)",
		req.UserID, candidate.UserID, req.Language, req.Difficulty, sharedTopics)

	matchID, err := e.ledger.CreateMatch(ctx, req.UserID, candidate.UserID, req.Language, req.Difficulty, sharedTopics)
	if err != nil {
		log.Printf("[MATCH] Failed to persist match record for users %s/%s: %v", req.UserID, candidate.UserID, err)
	}

	if err := e.ledger.MarkRequestsMatched(ctx, req.RequestID, candidate.RequestID); err != nil {
		log.Printf("[MATCH] Failed to mark requests %s/%s matched: %v", req.RequestID, candidate.RequestID, err)
	}

	tokens := make(map[string]string, 2)
	for _, userID := range []string{req.UserID, candidate.UserID} {
		token, err := e.tokens.Mint(userID, matchID)
		if err != nil {
			log.Printf("[MATCH] Failed to mint session token for user %s: %v", userID, err)
			continue
		}
		tokens[userID] = token
	}

	notification := MatchNotification{
		MatchID:      matchID,
		User1ID:      req.UserID,
		User2ID:      candidate.UserID,
		Language:     req.Language,
		Difficulty:   req.Difficulty,
		SharedTopics: sharedTopics,
		Tokens:       tokens,
	}
	if err := e.notifier.NotifyMatchFound(ctx, notification); err != nil {
		log.Printf("[MATCH] Failed to notify users %s/%s: %v", req.UserID, candidate.UserID, err)
	}

	// The topic intersection (not the union) travels with the event: it is
	// the shared context downstream question selection works from.
	event := map[string]interface{}{
		"type":          "match_found",
		"match_id":      matchID,
		"user1_id":      req.UserID,
		"user2_id":      candidate.UserID,
		"language":      req.Language,
		"difficulty":    req.Difficulty,
		"shared_topics": sharedTopics,
	}
	if err := e.events.Publish(ctx, EventMatchFound, event); err != nil {
		log.Printf("[MATCH] Failed to publish match event for %s: %v", matchID, err)
	}

	return models.MatchResult{
		MatchFound:    true,
		MatchedUserID: candidate.UserID,
		MatchID:       matchID,
		RequestID:     req.RequestID,
	}
}
