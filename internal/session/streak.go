package session

import "ctchen222/tictactoe-engine/internal/game"

// Streak counts consecutive wins by the same mark.
type Streak struct {
	Holder  game.PlayerMark
	Current int
	Best    int
}

// Observe folds a finished game into the streak and reports whether the best
// streak improved. A draw, or a win by the other mark, breaks the streak.
func (s *Streak) Observe(status game.Status) bool {
	switch status.Outcome {
	case game.OutcomeWon:
		if status.Winner == s.Holder {
			s.Current++
		} else {
			s.Holder = status.Winner
			s.Current = 1
		}
	case game.OutcomeDraw:
		s.Holder = game.None
		s.Current = 0
		return false
	default:
		return false
	}

	if s.Current > s.Best {
		s.Best = s.Current
		return true
	}
	return false
}

// Clear drops the current streak. The best streak survives.
func (s *Streak) Clear() {
	s.Holder = game.None
	s.Current = 0
}
