package dev

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// EventType represents the type of compile event.
type EventType string

const (
	EventCompiled EventType = "compiled"
	EventError    EventType = "error"
)

// Event is sent to browsers via WebSocket.
type Event struct {
	Type  EventType `json:"type"`
	Error string    `json:"error,omitempty"`
}

// Notifier manages WebSocket connections that receive compile events.
type Notifier struct {
	clients  map[*websocket.Conn]bool
	mu       sync.RWMutex
	writeMu  sync.Mutex
	upgrader websocket.Upgrader
}

// NewNotifier creates a new notifier.
func NewNotifier() *Notifier {
	return &Notifier{
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // Pages are served from another origin in dev
			},
		},
	}
}

// ServeHTTP upgrades the request and keeps the connection until the client leaves.
func (n *Notifier) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	conn, err := n.upgrader.Upgrade(w, req, nil)
	if err != nil {
		return
	}

	n.mu.Lock()
	n.clients[conn] = true
	n.mu.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	n.mu.Lock()
	delete(n.clients, conn)
	n.mu.Unlock()
	conn.Close()
}

// OnCompile broadcasts the outcome of a build. It matches CompilerConfig.OnCompile.
func (n *Notifier) OnCompile(result BuildResult) {
	if result.Error != nil {
		n.broadcast(Event{Type: EventError, Error: result.Error.Error()})
		return
	}
	n.broadcast(Event{Type: EventCompiled})
}

func (n *Notifier) broadcast(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}

	n.mu.RLock()
	clients := make([]*websocket.Conn, 0, len(n.clients))
	for client := range n.clients {
		clients = append(clients, client)
	}
	n.mu.RUnlock()

	// gorilla connections allow one concurrent writer.
	n.writeMu.Lock()
	defer n.writeMu.Unlock()

	for _, client := range clients {
		if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
			n.mu.Lock()
			delete(n.clients, client)
			n.mu.Unlock()
			client.Close()
		}
	}
}

// ClientCount returns the number of connected clients.
func (n *Notifier) ClientCount() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.clients)
}

// Close closes all client connections.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()

	for client := range n.clients {
		client.Close()
		delete(n.clients, client)
	}
}
