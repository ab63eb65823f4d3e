package bot

import (
	"ctchen222/tictactoe-engine/internal/game"
	"math/rand/v2"
	"sync"
)

// RandomMoveCalculator implements game.MoveChooser by picking uniformly among
// the empty cells. It keeps no memory between moves.
type RandomMoveCalculator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomMoveCalculator returns a calculator backed by a randomly seeded source.
func NewRandomMoveCalculator() *RandomMoveCalculator {
	return &RandomMoveCalculator{
		rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// NewSeededMoveCalculator returns a calculator whose choices are reproducible.
func NewSeededMoveCalculator(seed uint64) *RandomMoveCalculator {
	return &RandomMoveCalculator{
		rng: rand.New(rand.NewPCG(seed, seed)),
	}
}

// ChooseMove returns a random empty cell, or game.ErrNoLegalMove on a full board.
func (c *RandomMoveCalculator) ChooseMove(board game.Board) (game.Coord, error) {
	availableMoves := game.EmptyCells(board)
	if len(availableMoves) == 0 {
		return game.Coord{}, game.ErrNoLegalMove
	}

	c.mu.Lock()
	idx := c.rng.IntN(len(availableMoves))
	c.mu.Unlock()

	return availableMoves[idx], nil
}
