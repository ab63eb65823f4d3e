package events

import (
	"context"
	"ctchen222/tictactoe-engine/internal/game"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// Event types
const (
	TypeMoveMade     = "move_made"
	TypeGameFinished = "game_finished"
	TypeRematch      = "rematch"
	TypeReset        = "reset"
	TypeModeChanged  = "mode_changed"
)

// SessionChannel is the Pub/Sub channel carrying a session's events.
func SessionChannel(sessionID string) string {
	return fmt.Sprintf("channel:session:%s", sessionID)
}

// Event represents a message published via Pub/Sub.
type Event struct {
	Type    string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// StatePayload is the payload of every session event.
type StatePayload struct {
	SessionID string        `json:"session_id"`
	LastMove  *game.Coord   `json:"last_move,omitempty"`
	State     game.Snapshot `json:"state"`
}

// FromNotification maps an engine notification to an event.
func FromNotification(sessionID string, n game.Notification) (Event, error) {
	var typ string
	switch n.Kind {
	case game.NotifyMove:
		typ = TypeMoveMade
		if n.Snapshot.Status.IsTerminal() {
			typ = TypeGameFinished
		}
	case game.NotifyRematch:
		typ = TypeRematch
	case game.NotifyReset:
		typ = TypeReset
	case game.NotifyMode:
		typ = TypeModeChanged
	default:
		return Event{}, fmt.Errorf("unknown notification kind %q", n.Kind)
	}

	payload, err := json.Marshal(StatePayload{SessionID: sessionID, LastMove: n.LastMove, State: n.Snapshot})
	if err != nil {
		return Event{}, fmt.Errorf("failed to marshal %s payload: %w", typ, err)
	}
	return Event{Type: typ, Payload: payload}, nil
}

//go:generate mockgen -source=events.go -destination=mocks/mock_events.go -package=mocks

// Publisher sends session events to subscribers outside the process.
type Publisher interface {
	Publish(ctx context.Context, sessionID string, event Event) error
}

type RedisPublisher struct {
	rdb *redis.Client
}

func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

// Publish marshals the event onto the session channel.
func (p *RedisPublisher) Publish(ctx context.Context, sessionID string, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := p.rdb.Publish(ctx, SessionChannel(sessionID), data).Err(); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.Type, err)
	}
	return nil
}
