// Package devserver pushes incremental stylesheet changes to browsers over
// WebSocket while watch mode runs.
package devserver

import (
	"sync"

	"github.com/gorilla/websocket"
)

// client wraps a connection with its own mutex; gorilla/websocket allows one
// concurrent writer per connection.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// Hub tracks WebSocket connections for broadcasting.
type Hub struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]*client
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]*client),
	}
}

// Add registers a connection.
func (h *Hub) Add(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = &client{conn: conn}
}

// Remove unregisters a connection. It does not close it.
func (h *Hub) Remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends message to every client. Clients that fail the write are
// dropped and closed.
func (h *Hub) Broadcast(message any) {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	// write without holding the hub lock
	for _, c := range clients {
		c.mu.Lock()
		err := c.conn.WriteJSON(message)
		c.mu.Unlock()

		if err != nil {
			h.Remove(c.conn)
			c.conn.Close()
		}
	}
}

// WriteJSON writes message to one connection, serialized with broadcasts.
func (h *Hub) WriteJSON(conn *websocket.Conn, message any) error {
	h.mu.RLock()
	c, exists := h.clients[conn]
	h.mu.RUnlock()

	if !exists {
		return conn.WriteJSON(message)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(message)
}

// Close closes and drops every connection.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[*websocket.Conn]*client)
	h.mu.Unlock()

	for _, c := range clients {
		c.mu.Lock()
		c.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		c.mu.Unlock()
		c.conn.Close()
	}
}
