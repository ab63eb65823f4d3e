package hub

import (
	"context"
	"ctchen222/tictactoe-engine/internal/game"
	"ctchen222/tictactoe-engine/internal/repository"
	"ctchen222/tictactoe-engine/internal/session"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("hub")

// Hub keeps every live session of this process.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]*session.Session

	deps        session.Deps
	idleTimeout time.Duration
	newID       func() string
}

// NewHub creates a hub. Sessions untouched for idleTimeout are removed by Run;
// a zero idleTimeout keeps them until Remove.
func NewHub(deps session.Deps, idleTimeout time.Duration) *Hub {
	return &Hub{
		sessions:    make(map[string]*session.Session),
		deps:        deps,
		idleTimeout: idleTimeout,
		newID:       uuid.NewString,
	}
}

// Create starts a new session in mode.
func (h *Hub) Create(ctx context.Context, mode game.Mode) (*session.Session, error) {
	id := h.newID()
	ctx, span := tracer.Start(ctx, "hub.Create", trace.WithAttributes(
		attribute.String("session.id", id),
		attribute.String("game.mode", string(mode)),
	))
	defer span.End()

	s, err := session.New(ctx, id, mode, h.deps)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Could not create session")
		return nil, err
	}

	h.mu.Lock()
	h.sessions[id] = s
	h.mu.Unlock()

	slog.InfoContext(ctx, "session created", "session.id", id, "game.mode", mode)
	return s, nil
}

// Get returns the live session with the given id.
func (h *Hub) Get(id string) (*session.Session, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s, ok := h.sessions[id]
	return s, ok
}

// Remove closes the session and deletes its stored snapshot. The result
// history is kept.
func (h *Hub) Remove(ctx context.Context, id string) bool {
	ctx, span := tracer.Start(ctx, "hub.Remove", trace.WithAttributes(
		attribute.String("session.id", id),
	))
	defer span.End()

	h.mu.Lock()
	s, ok := h.sessions[id]
	delete(h.sessions, id)
	h.mu.Unlock()

	if !ok {
		return false
	}
	s.Close()

	if err := h.deps.Games.Delete(ctx, id); err != nil {
		slog.ErrorContext(ctx, "failed to delete session snapshot", "session.id", id, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to delete session snapshot")
	}
	slog.InfoContext(ctx, "session removed", "session.id", id)
	return true
}

// Count returns the number of live sessions.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Results returns the recorded results of a session, newest first, together
// with its best streak.
func (h *Hub) Results(ctx context.Context, id string, limit int) ([]repository.GameResult, int, error) {
	ctx, span := tracer.Start(ctx, "hub.Results", trace.WithAttributes(
		attribute.String("session.id", id),
	))
	defer span.End()

	results, err := h.deps.Results.ListBySession(ctx, id, limit)
	if err != nil {
		span.RecordError(err)
		return nil, 0, err
	}
	best, err := h.deps.Results.BestStreak(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, 0, err
	}
	return results, best, nil
}

// Shutdown closes every session without deleting stored data.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, s := range h.sessions {
		s.Close()
		delete(h.sessions, id)
	}
}
