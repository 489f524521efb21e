// Package progress is an optional, host-level HTTP/WebSocket surface that
// lets an operator watch a running search from a browser: a snapshot of
// the most recent solution and node counters, pushed to any connected
// client whenever the driver reports one. It never touches the search
// itself — SearchState.OnSolution is the only thing that feeds it — so
// enabling it can't make the core search concurrent.
package progress

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/luke-kiernan/barrister/internal/config"
)

// Snapshot is the status payload served over HTTP and pushed to websocket
// clients.
type Snapshot struct {
	Nodes     int64  `json:"nodes"`
	Solutions int64  `json:"solutions"`
	LastRLE   string `json:"lastRle,omitempty"`
}

// Hub fans a Snapshot out to every connected websocket client, mirroring
// the broadcast-to-all-subscribers shape of a typical live-status hub.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
	latest  Snapshot

	upgrader websocket.Upgrader
}

// NewHub builds an empty Hub ready to accept connections.
func NewHub() *Hub {
	return &Hub{
		clients:  make(map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
	}
}

// Publish updates the latest snapshot and pushes it to every connected
// client. Safe to call from the search driver's solution callback.
func (h *Hub) Publish(s Snapshot) {
	h.mu.Lock()
	h.latest = s
	clients := make([]*websocket.Conn, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		if err := c.WriteJSON(s); err != nil {
			h.remove(c)
		}
	}
}

func (h *Hub) add(c *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

func (h *Hub) remove(c *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
	c.Close()
}

func (h *Hub) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	h.add(conn)
	h.mu.Lock()
	snapshot := h.latest
	h.mu.Unlock()
	_ = conn.WriteJSON(snapshot)
}

func (h *Hub) serveStatus(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	snapshot := h.latest
	h.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(snapshot)
}

func serveConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(config.Current())
}

// Router builds the chi router exposing /status, /config and /ws.
func Router(h *Hub) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/status", h.serveStatus)
	r.Get("/config", serveConfig)
	r.Get("/ws", h.serveWS)
	return r
}
