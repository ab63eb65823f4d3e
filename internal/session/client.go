package session

import (
	"context"
	"ctchen222/tictactoe-engine/pkg/proto"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	heartbeatInterval = 10 * time.Second
	sendBufferSize    = 16
)

// Connection is an interface that abstracts the websocket connection.
type Connection interface {
	WriteMessage(messageType int, data []byte) error
	ReadMessage() (int, []byte, error)
	Close() error
}

// Client is one websocket connection watching a session.
type Client struct {
	ID   string
	conn Connection

	mu     sync.Mutex
	send   chan []byte
	closed bool
}

func NewClient(id string, conn Connection) *Client {
	return &Client{
		ID:   id,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
}

// enqueue never blocks; it reports false when the client is gone or too slow.
func (c *Client) enqueue(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// WritePump writes queued messages and heartbeats until the client is
// detached, then closes the connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(heartbeatInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				slog.Warn("error writing message to client", "client.id", c.ID, "error", err)
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				slog.Warn("failed to send ping to client, assuming disconnect", "client.id", c.ID, "error", err)
				return
			}
		}
	}
}

// Attach registers c for broadcasts and sends it the current state.
func (s *Session) Attach(ctx context.Context, c *Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	s.clients[c] = struct{}{}
	s.lastActive = time.Now()
	s.sendTo(ctx, c, &proto.ServerToClientMessage{Type: proto.TypeState, State: s.view()})
	slog.InfoContext(ctx, "client attached", "session.id", s.ID, "client.id", c.ID)
	return nil
}

// Detach unregisters c and stops its write pump.
func (s *Session) Detach(c *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.clients, c)
	c.close()
}

// ReadPump feeds messages from c into the session until the connection fails.
func (s *Session) ReadPump(ctx context.Context, c *Client) {
	ctx, span := tracer.Start(ctx, "session.ReadPump", trace.WithAttributes(
		attribute.String("session.id", s.ID),
		attribute.String("client.id", c.ID),
	))
	defer span.End()
	defer s.Detach(c)

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.WarnContext(ctx, "client connection error", "session.id", s.ID, "client.id", c.ID, "error", err)
				span.RecordError(err)
				span.SetStatus(codes.Error, "Client connection error")
			}
			return
		}
		s.HandleMessage(ctx, c, msg)
	}
}

// broadcast sends message to every attached client. Clients whose buffer is
// full are dropped. Must be called with s.mu held.
func (s *Session) broadcast(ctx context.Context, message *proto.ServerToClientMessage) {
	if len(s.clients) == 0 {
		return
	}
	data, err := json.Marshal(message)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling message", "error", err)
		return
	}
	for c := range s.clients {
		if !c.enqueue(data) {
			slog.WarnContext(ctx, "dropping slow client", "session.id", s.ID, "client.id", c.ID)
			delete(s.clients, c)
			c.close()
		}
	}
}

func (s *Session) sendTo(ctx context.Context, c *Client, message *proto.ServerToClientMessage) {
	data, err := json.Marshal(message)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling message", "error", err)
		return
	}
	if !c.enqueue(data) {
		slog.WarnContext(ctx, "could not deliver message to client", "session.id", s.ID, "client.id", c.ID)
	}
}
