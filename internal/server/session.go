// Package server manages individual relay sessions: identity assignment,
// the greeting frame, and the inbound read loop that drives fan-out.
package server

import (
	"errors"
	"io"
	"log"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Session is the lifecycle of one accepted connection, from greeting to
// deregistration.
type Session struct {
	id       uuid.UUID
	conn     *websocket.Conn
	addr     string
	registry *Registry
	cfg      Config
}

// NewSession assigns a fresh identity to conn. Nothing is written or
// registered until Run is called.
func NewSession(conn *websocket.Conn, registry *Registry, addr string, cfg Config) *Session {
	if conn != nil && cfg.MaxMessageSize > 0 {
		conn.SetReadLimit(cfg.MaxMessageSize)
	}

	return &Session{
		id:       uuid.New(),
		conn:     conn,
		addr:     addr,
		registry: registry,
		cfg:      cfg,
	}
}

// ID returns the identity echoed to the client on connect.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Run greets the client, registers it and reads until the client closes or
// the stream ends. It blocks for the lifetime of the connection.
func (s *Session) Run() {
	defer s.closeConnection()

	s.greet()

	// From here on all writes to the peer go through the registry-held sink.
	s.registry.Register(s.id, newConnSink(s.conn, s.addr, s.cfg.WriteTimeout))

	s.readLoop()
	s.registry.Unregister(s.id)
}

// greet sends the identity as the first frame. A lost greeting does not
// prevent admission.
func (s *Session) greet() {
	if err := s.conn.WriteMessage(websocket.TextMessage, []byte(s.id.String())); err != nil {
		log.Printf("Error sending identity to %s: %v", s.addr, err)
	}
}

func (s *Session) readLoop() {
	for {
		messageType, payload, err := s.conn.ReadMessage()
		if err != nil {
			s.handleReadError(err)
			return
		}

		if messageType != websocket.TextMessage {
			continue
		}

		s.registry.Broadcast(payload)
	}
}

// handleReadError logs why the loop ended. A close frame from the peer
// deregisters right away so no further frames are queued for it.
func (s *Session) handleReadError(err error) {
	var closeErr *websocket.CloseError
	switch {
	case errors.As(err, &closeErr):
		s.registry.Unregister(s.id)
		log.Printf("Client %s (%s) closed the connection: %v", s.id, s.addr, err)
	case errors.Is(err, websocket.ErrReadLimit):
		log.Printf("Message from %s exceeded maximum size of %d bytes", s.addr, s.cfg.MaxMessageSize)
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF), isExpectedCloseError(err):
		log.Printf("Client %s (%s) connection closed: %v", s.id, s.addr, err)
	default:
		log.Printf("WebSocket read error from %s: %v", s.addr, err)
	}
}

func (s *Session) closeConnection() {
	if err := s.conn.Close(); err != nil && !isExpectedCloseError(err) {
		log.Printf("Error closing connection for %s: %v", s.addr, err)
	}
}
