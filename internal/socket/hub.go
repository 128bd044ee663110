// server/internal/socket/hub.go
package socket

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

type client struct {
	conn Conn
	// gorilla connections allow a single concurrent writer
	writeMu sync.Mutex
}

// Hub keeps one websocket connection per user id.
type Hub struct {
	clients map[string]*client
	mu      sync.RWMutex
	log     zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*client),
		log:     log,
	}
}

// Register adds a connection for userID, closing any previous one.
func (h *Hub) Register(userID string, conn Conn) {
	h.mu.Lock()
	previous := h.clients[userID]
	h.clients[userID] = &client{conn: conn}
	h.mu.Unlock()

	if previous != nil {
		previous.conn.Close()
	}
	h.log.Debug().Str("user_id", userID).Msg("websocket client registered")
}

// Unregister removes userID's connection if it is still conn.
func (h *Hub) Unregister(userID string, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[userID]; ok && c.conn == conn {
		delete(h.clients, userID)
		h.log.Debug().Str("user_id", userID).Msg("websocket client unregistered")
	}
}

// Send writes a text message to userID. An offline user is not an error.
func (h *Hub) Send(userID string, message []byte) error {
	h.mu.RLock()
	c, ok := h.clients[userID]
	h.mu.RUnlock()
	if !ok {
		return nil
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, message)
}

// Notify sends {"event": event, "request": payload} to userID.
func (h *Hub) Notify(userID string, event string, payload any) error {
	message, err := json.Marshal(map[string]any{
		"event":   event,
		"request": payload,
	})
	if err != nil {
		return fmt.Errorf("encode %s notification: %w", event, err)
	}
	return h.Send(userID, message)
}
