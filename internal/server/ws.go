package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/gestura/internal/gesture"
)

const (
	// writeWait bounds a single event write to a slow client.
	writeWait = 2 * time.Second
	// sendBuffer is how many events may queue per client before new ones
	// are dropped for it.
	sendBuffer = 16
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// matchEvent is pushed to subscribers after each recognized gesture so the
// host can render the action preview.
type matchEvent struct {
	Type       string              `json:"type"`
	Gesture    gesture.Gesture     `json:"gesture"`
	Confidence float64             `json:"confidence"`
	Directions []gesture.Direction `json:"detected_directions"`
	Timestamp  int64               `json:"timestamp"`
}

// EventsHandler broadcasts match events via WebSocket. Each client has its
// own queue and writer goroutine, so Publish never waits on the network.
type EventsHandler struct {
	logger  *slog.Logger
	clients map[*websocket.Conn]chan []byte
	mu      sync.Mutex
}

// NewEventsHandler creates a new EventsHandler.
func NewEventsHandler(logger *slog.Logger) *EventsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventsHandler{
		logger:  logger,
		clients: make(map[*websocket.Conn]chan []byte),
	}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	send := make(chan []byte, sendBuffer)
	h.mu.Lock()
	h.clients[conn] = send
	h.mu.Unlock()

	// The channel is closed only here, after the client is unregistered, so
	// Publish never sends on a closed channel.
	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		close(send)
		h.mu.Unlock()
	}()

	go h.writeLoop(conn, send)

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// writeLoop drains one client's queue until it is closed. A failed write
// closes the connection, which ends the read loop in ServeHTTP.
func (h *EventsHandler) writeLoop(conn *websocket.Conn, send <-chan []byte) {
	for msg := range send {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.logger.Debug("Dropping event subscriber", "error", err)
			conn.Close()
			for range send {
			}
			return
		}
	}
}

// Clients returns the number of connected subscribers.
func (h *EventsHandler) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Publish sends a match event to every connected client. It has the
// signature of an engine match handler.
func (h *EventsHandler) Publish(result gesture.Result) {
	if !result.Matched() {
		return
	}

	msg, err := json.Marshal(matchEvent{
		Type:       "match",
		Gesture:    *result.Gesture,
		Confidence: result.Confidence,
		Directions: result.DetectedDirections,
		Timestamp:  time.Now().UnixMilli(),
	})
	if err != nil {
		h.logger.Warn("Failed to encode match event", "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, send := range h.clients {
		select {
		case send <- msg:
		default:
			h.logger.Debug("Event queue full, dropping match event")
		}
	}
}

// Close disconnects every subscriber. Each read loop then unregisters its
// client.
func (h *EventsHandler) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.Close()
	}
}
