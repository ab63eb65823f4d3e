package repository

import (
	"context"
	"ctchen222/tictactoe-engine/internal/db"
	"ctchen222/tictactoe-engine/internal/game"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResultRepo(t *testing.T) ResultRepository {
	t.Helper()
	conn, err := db.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return NewResultRepository(conn)
}

func TestResultRepository_RecordAndList(t *testing.T) {
	ctx := context.Background()
	repo := newResultRepo(t)

	first := &GameResult{SessionID: "s1", Outcome: game.OutcomeWon, Winner: game.PlayerX, Moves: 5}
	second := &GameResult{SessionID: "s1", Outcome: game.OutcomeDraw, Moves: 9}
	other := &GameResult{SessionID: "s2", Outcome: game.OutcomeWon, Winner: game.PlayerO, Moves: 6}

	for _, r := range []*GameResult{first, second, other} {
		require.NoError(t, repo.Record(ctx, r))
		assert.NotZero(t, r.ID)
		assert.False(t, r.FinishedAt.IsZero())
	}

	results, err := repo.ListBySession(ctx, "s1", 10)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// newest first
	assert.Equal(t, second.ID, results[0].ID)
	assert.Equal(t, game.OutcomeDraw, results[0].Outcome)
	assert.Equal(t, game.None, results[0].Winner)
	assert.Equal(t, first.ID, results[1].ID)
	assert.Equal(t, game.PlayerX, results[1].Winner)
	assert.Equal(t, 5, results[1].Moves)

	limited, err := repo.ListBySession(ctx, "s1", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestResultRepository_ListBySession_Empty(t *testing.T) {
	results, err := newResultRepo(t).ListBySession(context.Background(), "nobody", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestResultRepository_BestStreak(t *testing.T) {
	ctx := context.Background()
	repo := newResultRepo(t)

	best, err := repo.BestStreak(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 0, best)

	require.NoError(t, repo.SaveBestStreak(ctx, "s1", 3))
	require.NoError(t, repo.SaveBestStreak(ctx, "s1", 2)) // lower values never overwrite

	best, err = repo.BestStreak(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 3, best)

	require.NoError(t, repo.SaveBestStreak(ctx, "s1", 5))
	best, err = repo.BestStreak(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 5, best)
}
