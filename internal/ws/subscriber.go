package ws

import (
	"context"
	"encoding/json"
	"log"

	"github.com/peermatch/backend/internal/match"
	"github.com/peermatch/backend/internal/notify"
	"github.com/redis/go-redis/v9"
)

// StartMatchNotificationSubscriber subscribes to the match notification
// channel and forwards each notification to both matched users' websocket
// connections, with the recipient's own session token attached.
func StartMatchNotificationSubscriber(ctx context.Context, rdb *redis.Client, hub *Hub) {
	pubsub := rdb.Subscribe(ctx, notify.Channel)
	ch := pubsub.Channel()

	go func() {
		defer pubsub.Close()
		log.Printf("[WS] Match notification subscriber started")
		for {
			select {
			case <-ctx.Done():
				log.Printf("[WS] Match notification subscriber stopped")
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var notification match.MatchNotification
				if err := json.Unmarshal([]byte(msg.Payload), &notification); err != nil {
					log.Printf("[WS] Invalid match notification payload: %v", err)
					continue
				}
				deliver(hub, notification)
			}
		}
	}()
}

func deliver(hub *Hub, n match.MatchNotification) {
	pairs := []struct{ userID, partnerID string }{
		{n.User1ID, n.User2ID},
		{n.User2ID, n.User1ID},
	}
	for _, p := range pairs {
		payload := map[string]interface{}{
			"type":          "match_found",
			"match_id":      n.MatchID,
			"partner_id":    p.partnerID,
			"language":      n.Language,
			"difficulty":    n.Difficulty,
			"shared_topics": n.SharedTopics,
		}
		if token, ok := n.Tokens[p.userID]; ok {
			payload["session_token"] = token
		}
		hub.SendToUser(p.userID, payload)
	}
}
