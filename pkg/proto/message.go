package proto

import "ctchen222/tictactoe-engine/internal/game"

// Client message types
const (
	TypeMove    = "move"
	TypeRematch = "rematch"
	TypeReset   = "reset"
	TypeMode    = "mode"
)

// Server message types
const (
	TypeState = "state"
	TypeError = "error"
)

// Error codes carried by error messages
const (
	CodeIllegalMove = "illegal_move"
	CodeNoLegalMove = "no_legal_move"
	CodeBadRequest  = "bad_request"
)

// ClientToServerMessage represents a message from the client to the server.
type ClientToServerMessage struct {
	Type     string    `json:"type" validate:"required,oneof=move rematch reset mode"`
	Position []int     `json:"position,omitempty" validate:"required_if=Type move,cell"`
	Mode     game.Mode `json:"mode,omitempty" validate:"required_if=Type mode"`
}

// ServerToClientMessage represents a message from the server to the client.
type ServerToClientMessage struct {
	Type   string     `json:"type" validate:"required"`
	Code   string     `json:"code,omitempty"`
	Reason string     `json:"reason,omitempty"`
	State  *StateView `json:"state,omitempty"`
}

// StateView is what a client needs to render the board, the status line and
// the scoreboard.
type StateView struct {
	SessionID     string              `json:"session_id"`
	Board         [][]game.PlayerMark `json:"board"`
	Next          game.PlayerMark     `json:"next,omitempty"`
	Status        game.Outcome        `json:"status"`
	Winner        game.PlayerMark     `json:"winner,omitempty"`
	WinningLine   []game.Coord        `json:"winning_line,omitempty"`
	LastMove      *game.Coord         `json:"last_move,omitempty"`
	Mode          game.Mode           `json:"mode"`
	Stats         game.Stats          `json:"stats"`
	AITurnPending bool                `json:"ai_turn_pending"`
	Streak        int                 `json:"streak"`
	BestStreak    int                 `json:"best_streak"`
}

// NewStateView builds a view from an engine snapshot. Next is empty once the
// game is over.
func NewStateView(sessionID string, snap game.Snapshot, lastMove *game.Coord) *StateView {
	v := &StateView{
		SessionID:     sessionID,
		Board:         snap.Board.Rows(),
		Status:        snap.Status.Outcome,
		Winner:        snap.Status.Winner,
		WinningLine:   snap.WinningLine,
		LastMove:      lastMove,
		Mode:          snap.Mode,
		Stats:         snap.Stats,
		AITurnPending: snap.AITurnPending,
	}
	if !snap.Status.IsTerminal() {
		v.Next = snap.CurrentPlayer
	}
	return v
}
