package session

import (
	"context"
	"ctchen222/tictactoe-engine/internal/game"
	"ctchen222/tictactoe-engine/internal/validator"
	"ctchen222/tictactoe-engine/pkg/proto"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// HandleMessage handles a message from a client. It acts as a dispatcher;
// rejections are answered to the sender only, accepted operations reach
// every client through the state broadcast.
func (s *Session) HandleMessage(ctx context.Context, c *Client, rawMessage []byte) {
	ctx, span := tracer.Start(ctx, "session.HandleMessage", trace.WithAttributes(
		attribute.String("session.id", s.ID),
		attribute.String("client.id", c.ID),
	))
	defer span.End()

	var message proto.ClientToServerMessage
	if err := json.Unmarshal(rawMessage, &message); err != nil {
		slog.WarnContext(ctx, "error unmarshalling message", "client.id", c.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Error unmarshalling message")
		s.reply(ctx, c, errorMessage(fmt.Errorf("malformed message: %w", err)))
		return
	}

	if err := validator.GetValidator().Struct(message); err != nil {
		slog.WarnContext(ctx, "invalid message from client", "client.id", c.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid message format")
		s.reply(ctx, c, errorMessage(fmt.Errorf("invalid message: %w", err)))
		return
	}

	span.SetAttributes(attribute.String("message.type", message.Type))

	var err error
	switch message.Type {
	case proto.TypeMove:
		_, err = s.Move(ctx, message.Position[0], message.Position[1])
	case proto.TypeRematch:
		_, err = s.Rematch(ctx)
	case proto.TypeReset:
		_, err = s.Reset(ctx)
	case proto.TypeMode:
		_, err = s.SetMode(ctx, message.Mode)
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Message rejected")
		s.reply(ctx, c, errorMessage(err))
	}
}

func (s *Session) reply(ctx context.Context, c *Client, message *proto.ServerToClientMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sendTo(ctx, c, message)
}

// errorMessage maps err onto the wire error codes.
func errorMessage(err error) *proto.ServerToClientMessage {
	code := proto.CodeBadRequest
	switch {
	case errors.Is(err, game.ErrIllegalMove):
		code = proto.CodeIllegalMove
	case errors.Is(err, game.ErrNoLegalMove):
		code = proto.CodeNoLegalMove
	}
	return &proto.ServerToClientMessage{Type: proto.TypeError, Code: code, Reason: err.Error()}
}
