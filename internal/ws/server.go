// Package ws exposes the real-time channel over WebSocket.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/nomavia/guestlink/internal/domain"
	"github.com/nomavia/guestlink/internal/hub"
	"github.com/nomavia/guestlink/internal/service"
	"github.com/nomavia/guestlink/pkg/logger"
)

const (
	writeTimeout   = 10 * time.Second
	readTimeout    = 60 * time.Second
	pingInterval   = 30 * time.Second
	maxMessageSize = 4096
)

// inboundMessage is the only client-to-server message shape accepted on
// the socket: an admin reply routed to the latest assistance request for
// the code.
type inboundMessage struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

const typeAdminResponse = "reponse_admin"

type Server struct {
	hub        *hub.Hub
	assistance service.AssistanceService
	upgrader   websocket.Upgrader
}

func NewServer(h *hub.Hub, assistance service.AssistanceService) *Server {
	return &Server{
		hub:        h,
		assistance: assistance,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Same open-origin policy the HTTP API serves.
				return true
			},
		},
	}
}

// HandleWebSocket upgrades the connection, registers the session and runs
// its pumps until disconnect.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to upgrade WebSocket", "error", err)
		return
	}

	session := s.hub.NewSession(ws)
	s.hub.Register(session)

	ws.SetReadLimit(maxMessageSize)

	go s.writePump(session)
	go s.readPump(session)
}

func (s *Server) readPump(session *hub.Session) {
	defer func() {
		s.hub.Unregister(session)
		session.Close()
	}()

	session.SetReadDeadline(time.Now().Add(readTimeout))
	session.Conn.SetPongHandler(func(string) error {
		session.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	for {
		_, message, err := session.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("WebSocket read error", "session_id", session.ID, "error", err)
			}
			break
		}

		s.handleMessage(session, message)
	}
}

func (s *Server) writePump(session *hub.Session) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		session.Close()
	}()

	for {
		select {
		case message, ok := <-session.Send:
			session.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				// Hub closed the channel
				session.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := session.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Warn("WebSocket write error", "session_id", session.ID, "error", err)
				return
			}

		case <-ticker.C:
			session.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := session.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage processes inbound traffic. Failures here are logged and
// dropped; nothing on the socket may fail an API call.
func (s *Server) handleMessage(session *hub.Session, data []byte) {
	var msg inboundMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		logger.Warn("Dropping malformed WebSocket message", "session_id", session.ID, "error", err)
		return
	}

	switch msg.Type {
	case typeAdminResponse:
		if msg.Code == "" || msg.Message == "" {
			logger.Warn("Dropping admin response with missing fields", "session_id", session.ID)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if _, err := s.assistance.RespondLatest(ctx, msg.Code, msg.Message); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				logger.Warn("Admin response for code with no assistance requests", "code", msg.Code)
				return
			}
			logger.Error("Failed to store admin response from socket", "code", msg.Code, "error", err)
		}
	default:
		logger.Debug("Dropping unknown WebSocket message type", "type", msg.Type, "session_id", session.ID)
	}
}
