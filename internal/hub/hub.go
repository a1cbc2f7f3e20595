// Package hub maintains the set of live real-time sessions and fans
// events out to all of them.
package hub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/nomavia/guestlink/pkg/logger"
)

// Event types pushed to connected clients.
const (
	EventNewMessage         = "new_message"
	EventNewAssistance      = "new_assistance"
	EventAssistanceResponse = "assistance_response"
)

// Event is the wire envelope for every push.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Session is one live real-time connection. It has no identity beyond
// liveness and is never persisted.
type Session struct {
	ID   string
	Conn *websocket.Conn
	Send chan []byte

	mu sync.Mutex
}

// WriteMessage writes to the underlying connection with proper locking.
func (s *Session) WriteMessage(messageType int, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Conn.WriteMessage(messageType, data)
}

func (s *Session) SetWriteDeadline(t time.Time) error {
	return s.Conn.SetWriteDeadline(t)
}

func (s *Session) SetReadDeadline(t time.Time) error {
	return s.Conn.SetReadDeadline(t)
}

func (s *Session) Close() error {
	return s.Conn.Close()
}

// Hub owns the live-session registry. Delivery is at-most-once with no
// history: sessions that join after a broadcast never see it.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func New() *Hub {
	return &Hub{
		sessions: make(map[string]*Session),
	}
}

// NewSession wraps a websocket connection in a session handle. The caller
// still has to Register it.
func (h *Hub) NewSession(ws *websocket.Conn) *Session {
	return &Session{
		ID:   uuid.New().String(),
		Conn: ws,
		Send: make(chan []byte, 256),
	}
}

// Register adds the session to the live set. Registering an already
// registered session is a no-op.
func (h *Hub) Register(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.sessions[s.ID]; ok {
		return
	}
	h.sessions[s.ID] = s
	logger.Debug("session registered", "session_id", s.ID, "live", len(h.sessions))
}

// Unregister removes the session and closes its send channel. Idempotent;
// called from the session's own disconnect path.
func (h *Hub) Unregister(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.sessions[s.ID]; !ok {
		return
	}
	delete(h.sessions, s.ID)
	close(s.Send)
	logger.Debug("session unregistered", "session_id", s.ID, "live", len(h.sessions))
}

// Broadcast delivers the event to every session live at call time.
// Best-effort: a session whose buffer is full is skipped and scheduled
// for removal; no retry, no queuing for late joiners. The read lock is
// held across the delivery loop; sends are non-blocking, so a slow
// session never stalls the hub, and holding the lock keeps Unregister's
// channel close from racing a send.
func (h *Hub) Broadcast(eventType string, data any) {
	payload, err := json.Marshal(Event{Type: eventType, Data: data})
	if err != nil {
		logger.Error("failed to marshal broadcast event", "type", eventType, "error", err)
		return
	}

	h.mu.RLock()
	var full []*Session
	for _, s := range h.sessions {
		select {
		case s.Send <- payload:
		default:
			logger.Warn("session buffer full, dropping", "session_id", s.ID)
			full = append(full, s)
		}
	}
	h.mu.RUnlock()

	for _, s := range full {
		h.Unregister(s)
	}
}

// Count returns the number of live sessions.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}
