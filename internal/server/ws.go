package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/renderix/heliosphere/internal/app"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// GestureStreamHandler broadcasts throttled gesture emissions and the
// control values they produced over WebSocket. The browser renderer drives
// the globe from these messages instead of polling.
type GestureStreamHandler struct {
	app     *app.App
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
}

// NewGestureStreamHandler creates a handler fed by the application's
// pipeline emissions.
func NewGestureStreamHandler(a *app.App) *GestureStreamHandler {
	h := &GestureStreamHandler{
		app:     a,
		clients: make(map[*websocket.Conn]bool),
	}
	go h.broadcast()
	return h
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *GestureStreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	// A fresh client gets the current state immediately rather than
	// waiting for the next gesture.
	initial := app.Update{
		Gesture:     h.app.LastGesture(),
		Control:     h.app.Controls().Snapshot(),
		BatchScale:  h.app.Stations().BatchScale(),
		TimestampMs: time.Now().UnixMilli(),
	}
	if msg, err := json.Marshal(initial); err == nil {
		conn.WriteMessage(websocket.TextMessage, msg)
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// broadcast forwards pipeline updates to all connected clients.
func (h *GestureStreamHandler) broadcast() {
	updates, cancel := h.app.Subscribe()
	defer cancel()

	for u := range updates {
		h.mu.RLock()
		if len(h.clients) == 0 {
			h.mu.RUnlock()
			continue
		}

		msg, err := json.Marshal(u)
		if err != nil {
			h.mu.RUnlock()
			continue
		}

		for conn := range h.clients {
			conn.WriteMessage(websocket.TextMessage, msg)
		}
		h.mu.RUnlock()
	}
}
