package ws

import (
	"log"
	"net/http"
	"time"
)

// ServeUser upgrades the request to a websocket and keeps the connection
// registered for the user until it closes. Inbound frames are only read to
// detect disconnects and answer pings; the notification flow is one-way.
func (h *Hub) ServeUser(w http.ResponseWriter, r *http.Request, userID string) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	client := h.Register(userID, conn)
	log.Printf("[WS] User %s connected", userID)

	go func() {
		defer func() {
			h.Unregister(client)
			conn.Close()
			log.Printf("[WS] User %s disconnected", userID)
		}()

		conn.SetReadLimit(1024)
		conn.SetReadDeadline(time.Now().Add(90 * time.Second))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(90 * time.Second))
			return nil
		})

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
			conn.SetReadDeadline(time.Now().Add(90 * time.Second))
		}
	}()

	return nil
}
