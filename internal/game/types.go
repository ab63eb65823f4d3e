package game

import (
	"errors"
	"fmt"
)

// PlayerMark represents the mark of a player (X, O) or an empty cell.
type PlayerMark string

const (
	None    PlayerMark = ""
	PlayerX PlayerMark = "X"
	PlayerO PlayerMark = "O"
)

// Coord addresses a single board cell.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Board is the 3x3 grid, indexed [row][col].
type Board [3][3]PlayerMark

// At returns the mark at c.
func (b Board) At(c Coord) PlayerMark {
	return b[c.Row][c.Col]
}

// Rows converts the board to a slice of slices, the shape the wire messages use.
func (b Board) Rows() [][]PlayerMark {
	rows := make([][]PlayerMark, 3)
	for i := range [3]int{} {
		rows[i] = make([]PlayerMark, 3)
		copy(rows[i], b[i][:])
	}
	return rows
}

// Mode selects whether O is played by a second human or by the computer.
type Mode string

const (
	ModePlayerVsPlayer Mode = "pvp"
	ModePlayerVsAI     Mode = "ai"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModePlayerVsPlayer || m == ModePlayerVsAI
}

type Outcome string

const (
	OutcomeInProgress Outcome = "in_progress"
	OutcomeWon        Outcome = "won"
	OutcomeDraw       Outcome = "draw"
)

// Status is InProgress, WonBy(mark) or Draw.
type Status struct {
	Outcome Outcome    `json:"outcome"`
	Winner  PlayerMark `json:"winner,omitempty"`
}

func InProgress() Status { return Status{Outcome: OutcomeInProgress} }

func WonBy(mark PlayerMark) Status { return Status{Outcome: OutcomeWon, Winner: mark} }

func DrawStatus() Status { return Status{Outcome: OutcomeDraw} }

// IsTerminal reports whether no further moves are accepted.
func (s Status) IsTerminal() bool {
	return s.Outcome == OutcomeWon || s.Outcome == OutcomeDraw
}

func (s Status) String() string {
	switch s.Outcome {
	case OutcomeWon:
		return fmt.Sprintf("won by %s", s.Winner)
	case OutcomeDraw:
		return "draw"
	default:
		return "in progress"
	}
}

// Stats are the cumulative results of a session.
type Stats struct {
	WinsX int `json:"wins_x"`
	WinsO int `json:"wins_o"`
	Draws int `json:"draws"`
}

func (s *Stats) record(status Status) {
	switch {
	case status.Outcome == OutcomeDraw:
		s.Draws++
	case status.Winner == PlayerX:
		s.WinsX++
	case status.Winner == PlayerO:
		s.WinsO++
	}
}

// Snapshot is a copy of the engine state handed to observers.
type Snapshot struct {
	Board         Board      `json:"board"`
	CurrentPlayer PlayerMark `json:"current_player"`
	Status        Status     `json:"status"`
	Mode          Mode       `json:"mode"`
	Stats         Stats      `json:"stats"`
	WinningLine   []Coord    `json:"winning_line,omitempty"`
	Moves         int        `json:"moves"`
	AITurnPending bool       `json:"ai_turn_pending"`
}

// MoveResult describes an accepted move.
type MoveResult struct {
	Coord       Coord
	Mark        PlayerMark
	Status      Status
	WinningLine []Coord
	// AITurnPending is set when the next call should be PlayAIMove.
	AITurnPending bool
}

// Errors returned by engine operations. Every rejection of a submitted move
// matches ErrIllegalMove with errors.Is.
var (
	ErrIllegalMove  = errors.New("illegal move")
	ErrOutOfBounds  = fmt.Errorf("%w: position out of bounds", ErrIllegalMove)
	ErrCellOccupied = fmt.Errorf("%w: cell already occupied", ErrIllegalMove)
	ErrGameFinished = fmt.Errorf("%w: game already finished", ErrIllegalMove)
	ErrNotYourTurn  = fmt.Errorf("%w: not your turn", ErrIllegalMove)

	ErrNoLegalMove = errors.New("no legal move")
	errNoChooser   = fmt.Errorf("%w: no move chooser configured", ErrNoLegalMove)
	ErrUnknownMode = errors.New("unknown game mode")
)
