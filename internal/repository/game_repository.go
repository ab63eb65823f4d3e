package repository

import (
	"context"
	"ctchen222/tictactoe-engine/internal/game"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

//go:generate mockgen -source=game_repository.go -destination=mocks/mock_game_repository.go -package=mocks

var tracer = otel.Tracer("repository")

var ErrGameNotFound = errors.New("game not found")

// Redis hash fields
const (
	fieldState     = "state"
	fieldWinsX     = "wins_x"
	fieldWinsO     = "wins_o"
	fieldDraws     = "draws"
	fieldUpdatedAt = "updated_at"
)

// GameRepository stores the latest snapshot of every session.
type GameRepository interface {
	Save(ctx context.Context, sessionID string, snap game.Snapshot) error
	FindByID(ctx context.Context, sessionID string) (*game.Snapshot, error)
	Delete(ctx context.Context, sessionID string) error
}

type redisGameRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewGameRepository creates a new Redis-based GameRepository. Keys expire
// ttl after the last write; a zero ttl keeps them forever.
func NewGameRepository(rdb *redis.Client, ttl time.Duration) GameRepository {
	return &redisGameRepository{rdb: rdb, ttl: ttl}
}

func sessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}

// Save overwrites the stored snapshot in a single transaction.
func (r *redisGameRepository) Save(ctx context.Context, sessionID string, snap game.Snapshot) error {
	ctx, span := tracer.Start(ctx, "GameRepository.Save", trace.WithAttributes(
		attribute.String("session.id", sessionID),
	))
	defer span.End()

	stateJSON, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	key := sessionKey(sessionID)
	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key,
			fieldState, stateJSON,
			fieldWinsX, snap.Stats.WinsX,
			fieldWinsO, snap.Stats.WinsO,
			fieldDraws, snap.Stats.Draws,
			fieldUpdatedAt, time.Now().UTC().Format(time.RFC3339Nano),
		)
		if r.ttl > 0 {
			pipe.Expire(ctx, key, r.ttl)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to save session in redis: %w", err)
	}
	return nil
}

// FindByID retrieves the stored snapshot.
func (r *redisGameRepository) FindByID(ctx context.Context, sessionID string) (*game.Snapshot, error) {
	ctx, span := tracer.Start(ctx, "GameRepository.FindByID", trace.WithAttributes(
		attribute.String("session.id", sessionID),
	))
	defer span.End()

	data, err := r.rdb.HGetAll(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get session from redis: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrGameNotFound
	}

	var snap game.Snapshot
	if err := json.Unmarshal([]byte(data[fieldState]), &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	// The counters are authoritative; they are kept as plain fields so other
	// consumers can read a scoreboard without decoding the snapshot.
	for field, dst := range map[string]*int{
		fieldWinsX: &snap.Stats.WinsX,
		fieldWinsO: &snap.Stats.WinsO,
		fieldDraws: &snap.Stats.Draws,
	} {
		n, err := strconv.Atoi(data[field])
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", field, err)
		}
		*dst = n
	}

	return &snap, nil
}

// Delete removes the stored snapshot.
func (r *redisGameRepository) Delete(ctx context.Context, sessionID string) error {
	ctx, span := tracer.Start(ctx, "GameRepository.Delete", trace.WithAttributes(
		attribute.String("session.id", sessionID),
	))
	defer span.End()

	if err := r.rdb.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete session from redis: %w", err)
	}
	return nil
}
