package session

import (
	"context"
	"ctchen222/tictactoe-engine/internal/bot"
	"ctchen222/tictactoe-engine/internal/events"
	"ctchen222/tictactoe-engine/internal/game"
	"ctchen222/tictactoe-engine/internal/repository"
	"ctchen222/tictactoe-engine/pkg/proto"
	"errors"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("session")

var ErrSessionClosed = errors.New("session closed")

// Deps are the collaborators shared by every session.
type Deps struct {
	Publisher events.Publisher
	Games     repository.GameRepository
	Results   repository.ResultRepository
	// Chooser picks the computer's moves. Nil means a uniformly random bot.
	Chooser     game.MoveChooser
	AIMoveDelay time.Duration
}

// Session hosts one engine. Every call takes the session lock, so HTTP
// handlers, websocket readers and the AI timer never interleave.
type Session struct {
	ID string

	mu         sync.Mutex
	engine     *game.Engine
	pending    []game.Notification
	lastMove   *game.Coord
	streak     Streak
	clients    map[*Client]struct{}
	lastActive time.Time
	closed     bool

	aiDelay time.Duration
	aiGen   uint64
	aiTimer *time.Timer

	publisher events.Publisher
	games     repository.GameRepository
	results   repository.ResultRepository
	metrics   *metrics
}

// New creates a session in the given mode and stores its initial snapshot.
func New(ctx context.Context, id string, mode game.Mode, deps Deps) (*Session, error) {
	chooser := deps.Chooser
	if chooser == nil {
		chooser = bot.NewRandomMoveCalculator()
	}

	engine := game.NewEngine(chooser)
	if err := engine.SetMode(mode); err != nil {
		return nil, err
	}

	s := &Session{
		ID:         id,
		engine:     engine,
		clients:    make(map[*Client]struct{}),
		lastActive: time.Now(),
		aiDelay:    deps.AIMoveDelay,
		publisher:  deps.Publisher,
		games:      deps.Games,
		results:    deps.Results,
		metrics:    sessionMetrics(),
	}
	engine.Subscribe(func(n game.Notification) {
		s.pending = append(s.pending, n)
	})

	s.save(ctx, engine.Snapshot())
	return s, nil
}

// Move submits a human move. A rejected move returns the unchanged state
// together with the error.
func (s *Session) Move(ctx context.Context, row, col int) (*proto.StateView, error) {
	ctx, span := tracer.Start(ctx, "session.Move", trace.WithAttributes(
		attribute.String("session.id", s.ID),
		attribute.Int("move.row", row),
		attribute.Int("move.col", col),
	))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrSessionClosed
	}
	s.lastActive = time.Now()

	res, err := s.engine.SubmitMove(row, col)
	if err != nil {
		slog.DebugContext(ctx, "move rejected", "session.id", s.ID, "row", row, "col", col, "error", err)
		s.metrics.moveRejected(ctx, err)
		span.SetAttributes(attribute.Bool("move.valid", false))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Move rejected")
		return s.view(), err
	}
	span.SetAttributes(
		attribute.Bool("move.valid", true),
		attribute.String("game.outcome", string(res.Status.Outcome)),
	)

	// The engine has already counted the move; persisting it must not
	// depend on the caller staying connected.
	ctx = context.WithoutCancel(ctx)
	s.flush(ctx)
	if res.AITurnPending {
		s.scheduleAI(ctx)
	}
	return s.view(), nil
}

// Rematch starts a new game and keeps the statistics.
func (s *Session) Rematch(ctx context.Context) (*proto.StateView, error) {
	return s.restart(ctx, "session.Rematch", func() error {
		s.engine.Rematch()
		return nil
	})
}

// Reset zeroes the statistics and the current streak, then starts a new game.
func (s *Session) Reset(ctx context.Context) (*proto.StateView, error) {
	return s.restart(ctx, "session.Reset", func() error {
		s.engine.Reset()
		return nil
	})
}

// SetMode switches between pvp and ai and starts a new game.
func (s *Session) SetMode(ctx context.Context, mode game.Mode) (*proto.StateView, error) {
	return s.restart(ctx, "session.SetMode", func() error {
		return s.engine.SetMode(mode)
	})
}

// restart runs an operation that abandons the current board. Any AI move
// scheduled for that board is cancelled.
func (s *Session) restart(ctx context.Context, name string, op func() error) (*proto.StateView, error) {
	ctx, span := tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("session.id", s.ID),
	))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrSessionClosed
	}
	s.lastActive = time.Now()

	if err := op(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Operation rejected")
		return s.view(), err
	}
	s.cancelAI()
	s.flush(context.WithoutCancel(ctx))
	return s.view(), nil
}

// State returns the current view of the session.
func (s *Session) State() *proto.StateView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view()
}

// LastActive is the time of the last accepted or rejected operation.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// Close cancels a pending AI move and disconnects every client. Further
// operations fail with ErrSessionClosed.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.cancelAI()
	for c := range s.clients {
		c.close()
		delete(s.clients, c)
	}
}

func (s *Session) view() *proto.StateView {
	v := proto.NewStateView(s.ID, s.engine.Snapshot(), s.lastMove)
	v.Streak = s.streak.Current
	v.BestStreak = s.streak.Best
	return v
}

// flush handles the notifications collected during the last engine call,
// in order. Must be called with s.mu held.
func (s *Session) flush(ctx context.Context) {
	pending := s.pending
	s.pending = nil
	for _, n := range pending {
		s.handleNotification(ctx, n)
	}
}

func (s *Session) handleNotification(ctx context.Context, n game.Notification) {
	s.lastMove = n.LastMove

	switch {
	case n.Kind == game.NotifyReset:
		s.streak.Clear()
	case n.Kind == game.NotifyMove && n.Snapshot.Status.IsTerminal():
		s.recordResult(ctx, n.Snapshot)
	}

	s.save(ctx, n.Snapshot)
	s.publish(ctx, n)
	s.broadcast(ctx, &proto.ServerToClientMessage{Type: proto.TypeState, State: s.view()})
}

func (s *Session) recordResult(ctx context.Context, snap game.Snapshot) {
	s.metrics.gameFinished(ctx, snap.Status)

	result := &repository.GameResult{
		SessionID: s.ID,
		Outcome:   snap.Status.Outcome,
		Winner:    snap.Status.Winner,
		Moves:     snap.Moves,
	}
	if err := s.results.Record(ctx, result); err != nil {
		slog.ErrorContext(ctx, "failed to record game result", "session.id", s.ID, "error", err)
		trace.SpanFromContext(ctx).RecordError(err)
	}

	if s.streak.Observe(snap.Status) {
		if err := s.results.SaveBestStreak(ctx, s.ID, s.streak.Best); err != nil {
			slog.ErrorContext(ctx, "failed to save best streak", "session.id", s.ID, "error", err)
			trace.SpanFromContext(ctx).RecordError(err)
		}
	}
}

func (s *Session) save(ctx context.Context, snap game.Snapshot) {
	if err := s.games.Save(ctx, s.ID, snap); err != nil {
		slog.ErrorContext(ctx, "failed to save session snapshot", "session.id", s.ID, "error", err)
		trace.SpanFromContext(ctx).RecordError(err)
	}
}

func (s *Session) publish(ctx context.Context, n game.Notification) {
	event, err := events.FromNotification(s.ID, n)
	if err != nil {
		slog.ErrorContext(ctx, "failed to build event", "session.id", s.ID, "error", err)
		return
	}
	if err := s.publisher.Publish(ctx, s.ID, event); err != nil {
		slog.ErrorContext(ctx, "failed to publish event", "session.id", s.ID, "event", event.Type, "error", err)
		trace.SpanFromContext(ctx).RecordError(err)
	}
}
