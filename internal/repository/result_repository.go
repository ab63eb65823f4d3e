package repository

import (
	"context"
	"ctchen222/tictactoe-engine/internal/game"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

//go:generate mockgen -source=result_repository.go -destination=mocks/mock_result_repository.go -package=mocks

// GameResult is one finished game.
type GameResult struct {
	ID         int64           `db:"id" json:"id"`
	SessionID  string          `db:"session_id" json:"session_id"`
	Outcome    game.Outcome    `db:"outcome" json:"outcome"`
	Winner     game.PlayerMark `db:"winner" json:"winner,omitempty"`
	Moves      int             `db:"moves" json:"moves"`
	FinishedAt time.Time       `db:"finished_at" json:"finished_at"`
}

// ResultRepository keeps the history of finished games and the best win streak.
type ResultRepository interface {
	Record(ctx context.Context, result *GameResult) error
	ListBySession(ctx context.Context, sessionID string, limit int) ([]GameResult, error)
	SaveBestStreak(ctx context.Context, sessionID string, streak int) error
	BestStreak(ctx context.Context, sessionID string) (int, error)
}

type sqliteResultRepository struct {
	db *sqlx.DB
}

// NewResultRepository creates a new SQLite-based ResultRepository.
func NewResultRepository(db *sqlx.DB) ResultRepository {
	return &sqliteResultRepository{db: db}
}

// Record inserts a finished game and fills in its ID.
func (r *sqliteResultRepository) Record(ctx context.Context, result *GameResult) error {
	ctx, span := tracer.Start(ctx, "ResultRepository.Record", trace.WithAttributes(
		attribute.String("session.id", result.SessionID),
		attribute.String("game.outcome", string(result.Outcome)),
	))
	defer span.End()

	if result.FinishedAt.IsZero() {
		result.FinishedAt = time.Now().UTC()
	}

	query := `INSERT INTO game_results (session_id, outcome, winner, moves, finished_at) VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, result.SessionID, result.Outcome, result.Winner, result.Moves, result.FinishedAt)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to record game result: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read result id: %w", err)
	}
	result.ID = id
	return nil
}

// ListBySession returns the most recent results first.
func (r *sqliteResultRepository) ListBySession(ctx context.Context, sessionID string, limit int) ([]GameResult, error) {
	ctx, span := tracer.Start(ctx, "ResultRepository.ListBySession", trace.WithAttributes(
		attribute.String("session.id", sessionID),
	))
	defer span.End()

	results := []GameResult{}
	query := `SELECT id, session_id, outcome, winner, moves, finished_at FROM game_results WHERE session_id = ? ORDER BY id DESC LIMIT ?`
	if err := r.db.SelectContext(ctx, &results, query, sessionID, limit); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list game results: %w", err)
	}
	return results, nil
}

// SaveBestStreak stores streak if it beats the recorded best.
func (r *sqliteResultRepository) SaveBestStreak(ctx context.Context, sessionID string, streak int) error {
	ctx, span := tracer.Start(ctx, "ResultRepository.SaveBestStreak", trace.WithAttributes(
		attribute.String("session.id", sessionID),
		attribute.Int("streak", streak),
	))
	defer span.End()

	query := `INSERT INTO streaks (session_id, best) VALUES (?, ?)
		ON CONFLICT(session_id) DO UPDATE SET best = MAX(best, excluded.best)`
	if _, err := r.db.ExecContext(ctx, query, sessionID, streak); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to save best streak: %w", err)
	}
	return nil
}

// BestStreak returns the recorded best streak, zero when none exists.
func (r *sqliteResultRepository) BestStreak(ctx context.Context, sessionID string) (int, error) {
	ctx, span := tracer.Start(ctx, "ResultRepository.BestStreak", trace.WithAttributes(
		attribute.String("session.id", sessionID),
	))
	defer span.End()

	var best int
	err := r.db.GetContext(ctx, &best, `SELECT best FROM streaks WHERE session_id = ?`, sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("failed to get best streak: %w", err)
	}
	return best, nil
}
