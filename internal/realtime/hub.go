// Package realtime pushes change events to websocket subscribers.
package realtime

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Event types pushed on the feed.
const (
	EventTaskCreated        = "task.created"
	EventTaskUpdated        = "task.updated"
	EventTransactionCreated = "transaction.created"
	EventWithdrawalCreated  = "withdrawal.created"
)

const (
	writeWait  = 5 * time.Second
	sendBuffer = 32
)

// Event is the wire frame written to subscribers.
type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Publisher is what handlers use to announce changes.
type Publisher interface {
	Broadcast(eventType string, data any)
}

// Discard drops every event.
type Discard struct{}

func (Discard) Broadcast(string, any) {}

// Hub fans events out to every connected subscriber. Each subscriber has a
// buffered queue drained by its own writer, so Broadcast never blocks on a
// socket.
type Hub struct {
	mu       sync.Mutex
	clients  map[*subscriber]struct{}
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

type subscriber struct {
	conn *websocket.Conn
	send chan []byte
}

var _ Publisher = (*Hub)(nil)

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients: make(map[*subscriber]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Len returns the number of connected subscribers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast queues the event for every subscriber. A subscriber whose queue
// is full is dropped.
func (h *Hub) Broadcast(eventType string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		h.logger.Error().Err(err).Str("type", eventType).Msg("marshal realtime event")
		return
	}
	payload, _ := json.Marshal(Event{Type: eventType, Data: raw})

	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.clients {
		select {
		case s.send <- payload:
		default:
			h.logger.Warn().Str("type", eventType).Msg("realtime subscriber too slow, dropping")
			h.dropLocked(s)
		}
	}
}

func (h *Hub) register(s *subscriber) {
	h.mu.Lock()
	h.clients[s] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) unregister(s *subscriber) {
	h.mu.Lock()
	h.dropLocked(s)
	h.mu.Unlock()
}

// dropLocked removes s and closes its queue once. h.mu must be held.
func (h *Hub) dropLocked(s *subscriber) {
	if _, ok := h.clients[s]; ok {
		delete(h.clients, s)
		close(s.send)
	}
}

// writePump drains the subscriber's queue onto the socket. It closes the
// connection when the queue is closed or a write fails, which also ends the
// read loop in Serve.
func (h *Hub) writePump(s *subscriber) {
	defer s.conn.Close()
	for payload := range s.send {
		_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.unregister(s)
			return
		}
	}
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = s.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
}

// Serve upgrades the request and holds the connection until the peer goes
// away. Client frames are read and discarded.
func (h *Hub) Serve(c echo.Context) error {
	ws, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	s := &subscriber{conn: ws, send: make(chan []byte, sendBuffer)}
	h.register(s)
	go h.writePump(s)
	h.logger.Debug().Int("subscribers", h.Len()).Msg("realtime subscriber joined")

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}
	h.unregister(s)
	return nil
}
