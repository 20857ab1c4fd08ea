// Package sse streams board-change notifications to the dashboard via
// Server-Sent Events. The stream is advisory: clients refetch /api/board
// when an event arrives, and polling keeps working without it.
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

type event struct {
	id   string
	name string
	data string
}

type changePayload struct {
	Type      string `json:"type"`
	Path      string `json:"path"`
	Timestamp string `json:"timestamp"`
}

// Handler fans board-change events out to connected SSE clients.
type Handler struct {
	mu      sync.RWMutex
	clients map[chan event]struct{}
}

// NewHandler creates an SSE handler with no clients.
func NewHandler() *Handler {
	return &Handler{
		clients: make(map[chan event]struct{}),
	}
}

// Broadcast notifies every connected client that the artifact tree changed
// at path. Slow clients are skipped rather than blocking the watcher.
func (h *Handler) Broadcast(name, path string) {
	data, err := json.Marshal(changePayload{
		Type:      name,
		Path:      path,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return
	}
	e := event{
		id:   uuid.NewString(),
		name: name,
		data: string(data),
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.clients {
		select {
		case ch <- e:
		default:
			// Drop if client is slow
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Handler) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP handles SSE connections.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan event, 16)

	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, ch)
		h.mu.Unlock()
	}()

	flusher.Flush()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case e := <-ch:
			_, _ = fmt.Fprintf(w, "id: %s\n", e.id)
			_, _ = fmt.Fprintf(w, "event: %s\n", e.name)
			_, _ = fmt.Fprintf(w, "data: %s\n\n", e.data)
			flusher.Flush()
		}
	}
}
