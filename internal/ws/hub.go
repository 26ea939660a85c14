package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // origin enforcement happens in the middleware layer
	},
}

// Client represents a connected WebSocket client
type Client struct {
	conn   *websocket.Conn
	userID string
	send   chan []byte
}

// Hub maintains the set of connected clients, keyed by user id
type Hub struct {
	clients map[string]*Client
	mu      sync.RWMutex
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{clients: make(map[string]*Client)}
}

// Register attaches a client connection for a user, replacing any previous one
func (h *Hub) Register(userID string, conn *websocket.Conn) *Client {
	client := &Client{conn: conn, userID: userID, send: make(chan []byte, 16)}

	h.mu.Lock()
	if old, exists := h.clients[userID]; exists {
		close(old.send)
	}
	h.clients[userID] = client
	h.mu.Unlock()

	go client.writePump()
	return client
}

// Unregister detaches a client if it is still the active one for its user
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if current, exists := h.clients[client.userID]; exists && current == client {
		delete(h.clients, client.userID)
		close(client.send)
	}
}

// SendToUser sends a message to a specific user if connected
func (h *Hub) SendToUser(userID string, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("[WS] Error marshaling message: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	client, exists := h.clients[userID]
	if !exists {
		log.Printf("[WS] No client connected for user %s", userID)
		return
	}
	select {
	case client.send <- data:
	default:
		log.Printf("[WS] Send buffer full for user %s, dropping message", userID)
	}
}

// writePump writes messages to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// Channel closed: connection is being replaced or cleaned up.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("[WS] Write error for user %s: %v", c.userID, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("[WS] Ping error for user %s: %v", c.userID, err)
				return
			}
		}
	}
}
