package session

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// scheduleAI plays the computer's reply after the configured delay, or right
// away when the delay is zero. Must be called with s.mu held.
func (s *Session) scheduleAI(ctx context.Context) {
	if s.aiDelay <= 0 {
		s.playAI(ctx)
		return
	}

	gen := s.aiGen
	ctx = context.WithoutCancel(ctx)
	s.aiTimer = time.AfterFunc(s.aiDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		if s.closed || gen != s.aiGen {
			return
		}
		s.aiTimer = nil
		s.playAI(ctx)
	})
}

// cancelAI invalidates any scheduled AI move. Must be called with s.mu held.
func (s *Session) cancelAI() {
	s.aiGen++
	if s.aiTimer != nil {
		s.aiTimer.Stop()
		s.aiTimer = nil
	}
}

func (s *Session) playAI(ctx context.Context) {
	ctx, span := tracer.Start(ctx, "session.playAI", trace.WithAttributes(
		attribute.String("session.id", s.ID),
	))
	defer span.End()

	res, err := s.engine.PlayAIMove()
	if err != nil {
		slog.WarnContext(ctx, "AI could not move", "session.id", s.ID, "error", err)
		s.metrics.moveRejected(ctx, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "AI move failed")
		s.broadcast(ctx, errorMessage(err))
		return
	}

	span.SetAttributes(
		attribute.Int("move.row", res.Coord.Row),
		attribute.Int("move.col", res.Coord.Col),
	)
	slog.DebugContext(ctx, "AI moved", "session.id", s.ID, "row", res.Coord.Row, "col", res.Coord.Col)
	s.flush(ctx)
}
