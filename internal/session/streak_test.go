package session

import (
	"ctchen222/tictactoe-engine/internal/game"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStreak_Observe(t *testing.T) {
	x, o, draw := game.WonBy(game.PlayerX), game.WonBy(game.PlayerO), game.DrawStatus()

	tests := []struct {
		name        string
		results     []game.Status
		wantCurrent int
		wantBest    int
	}{
		{name: "no games", results: nil, wantCurrent: 0, wantBest: 0},
		{name: "consecutive wins", results: []game.Status{x, x, x}, wantCurrent: 3, wantBest: 3},
		{name: "other mark breaks", results: []game.Status{x, x, o}, wantCurrent: 1, wantBest: 2},
		{name: "draw breaks", results: []game.Status{o, o, draw}, wantCurrent: 0, wantBest: 2},
		{name: "new best after break", results: []game.Status{x, draw, o, o, o}, wantCurrent: 3, wantBest: 3},
		{name: "in progress ignored", results: []game.Status{x, game.InProgress(), x}, wantCurrent: 2, wantBest: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Streak
			for _, r := range tt.results {
				s.Observe(r)
			}
			assert.Equal(t, tt.wantCurrent, s.Current)
			assert.Equal(t, tt.wantBest, s.Best)
		})
	}
}

func TestStreak_ObserveReportsImprovement(t *testing.T) {
	var s Streak
	assert.True(t, s.Observe(game.WonBy(game.PlayerX)))
	assert.True(t, s.Observe(game.WonBy(game.PlayerX)))
	assert.False(t, s.Observe(game.WonBy(game.PlayerO)))
	assert.False(t, s.Observe(game.WonBy(game.PlayerO)), "ties the best")
	assert.True(t, s.Observe(game.WonBy(game.PlayerO)))
}

func TestStreak_ClearKeepsBest(t *testing.T) {
	var s Streak
	s.Observe(game.WonBy(game.PlayerX))
	s.Observe(game.WonBy(game.PlayerX))
	s.Clear()

	assert.Equal(t, 0, s.Current)
	assert.Equal(t, game.None, s.Holder)
	assert.Equal(t, 2, s.Best)

	s.Observe(game.WonBy(game.PlayerX))
	assert.Equal(t, 1, s.Current, "a cleared streak restarts even for the same mark")
}
