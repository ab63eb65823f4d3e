package session

import (
	"context"
	"ctchen222/tictactoe-engine/internal/game"
	"errors"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

type metrics struct {
	gamesFinished metric.Int64Counter
	movesRejected metric.Int64Counter
}

// sessionMetrics creates the instruments once. The global meter delegates to
// whatever provider telemetry installs later.
var sessionMetrics = sync.OnceValue(func() *metrics {
	meter := otel.Meter("session")
	m := &metrics{}

	var err error
	m.gamesFinished, err = meter.Int64Counter("ttt.games.finished",
		metric.WithDescription("Finished games by outcome"))
	if err != nil {
		otel.Handle(err)
		m.gamesFinished = noop.Int64Counter{}
	}
	m.movesRejected, err = meter.Int64Counter("ttt.moves.rejected",
		metric.WithDescription("Rejected moves by reason"))
	if err != nil {
		otel.Handle(err)
		m.movesRejected = noop.Int64Counter{}
	}
	return m
})

func (m *metrics) gameFinished(ctx context.Context, status game.Status) {
	outcome := string(status.Outcome)
	if status.Outcome == game.OutcomeWon {
		outcome = "won_" + string(status.Winner)
	}
	m.gamesFinished.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func (m *metrics) moveRejected(ctx context.Context, err error) {
	m.movesRejected.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", rejectReason(err))))
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, game.ErrOutOfBounds):
		return "out_of_bounds"
	case errors.Is(err, game.ErrCellOccupied):
		return "cell_occupied"
	case errors.Is(err, game.ErrGameFinished):
		return "game_finished"
	case errors.Is(err, game.ErrNotYourTurn):
		return "not_your_turn"
	case errors.Is(err, game.ErrNoLegalMove):
		return "no_legal_move"
	default:
		return "other"
	}
}
