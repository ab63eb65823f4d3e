package repository

import (
	"ctchen222/tictactoe-engine/internal/game"
	"ctchen222/tictactoe-engine/internal/testsuite"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameRepository_SaveAndFind(t *testing.T) {
	ctx, rdb := testsuite.NewRedis(t)
	repo := NewGameRepository(rdb, time.Minute)

	// Given: a snapshot of a won game
	snap := game.Snapshot{
		Board: game.Board{
			{game.PlayerX, game.PlayerX, game.PlayerX},
			{game.None, game.PlayerO, game.None},
			{game.None, game.None, game.PlayerO},
		},
		CurrentPlayer: game.PlayerX,
		Status:        game.WonBy(game.PlayerX),
		Mode:          game.ModePlayerVsAI,
		Stats:         game.Stats{WinsX: 3, WinsO: 1, Draws: 2},
		WinningLine:   []game.Coord{{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: 2}},
		Moves:         5,
	}

	// When: it is saved and read back
	require.NoError(t, repo.Save(ctx, "s1", snap))
	got, err := repo.FindByID(ctx, "s1")

	// Then: it round-trips and the key carries a TTL
	require.NoError(t, err)
	assert.Equal(t, snap, *got)

	ttl, err := rdb.TTL(ctx, sessionKey("s1")).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

func TestGameRepository_FindByID_NotFound(t *testing.T) {
	ctx, rdb := testsuite.NewRedis(t)
	repo := NewGameRepository(rdb, 0)

	_, err := repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestGameRepository_Delete(t *testing.T) {
	ctx, rdb := testsuite.NewRedis(t)
	repo := NewGameRepository(rdb, 0)

	require.NoError(t, repo.Save(ctx, "s1", game.Snapshot{Status: game.InProgress()}))
	require.NoError(t, repo.Delete(ctx, "s1"))

	_, err := repo.FindByID(ctx, "s1")
	assert.ErrorIs(t, err, ErrGameNotFound)
}
