package game

// MoveChooser picks a cell for the computer player.
type MoveChooser interface {
	ChooseMove(board Board) (Coord, error)
}

type NotificationKind string

const (
	NotifyMove    NotificationKind = "move"
	NotifyRematch NotificationKind = "rematch"
	NotifyReset   NotificationKind = "reset"
	NotifyMode    NotificationKind = "mode"
)

// Notification is emitted after every accepted operation.
type Notification struct {
	Kind     NotificationKind
	Snapshot Snapshot
	// LastMove is set for NotifyMove only.
	LastMove *Coord
}

// Listener receives notifications synchronously, before the operation returns.
type Listener func(Notification)

// Engine is a single tic-tac-toe session: the board, whose turn it is, the
// game status, the mode and the cumulative statistics.
//
// An Engine is not safe for concurrent use.
type Engine struct {
	board       Board
	current     PlayerMark
	status      Status
	mode        Mode
	stats       Stats
	moves       int
	winningLine []Coord

	chooser   MoveChooser
	listeners []Listener
}

// NewEngine creates an engine in player-vs-player mode with X to move.
// chooser is consulted by PlayAIMove; with a nil chooser the engine works in
// both modes but PlayAIMove fails with ErrNoLegalMove.
func NewEngine(chooser MoveChooser) *Engine {
	e := &Engine{
		mode:    ModePlayerVsPlayer,
		chooser: chooser,
	}
	e.clearBoard()
	return e
}

// Subscribe registers l for all subsequent notifications.
func (e *Engine) Subscribe(l Listener) {
	e.listeners = append(e.listeners, l)
}

// SubmitMove places the current player's mark at (row, col) on behalf of a
// human. In AI mode only X can be submitted this way.
func (e *Engine) SubmitMove(row, col int) (MoveResult, error) {
	if e.mode == ModePlayerVsAI && e.current != PlayerX && !e.status.IsTerminal() {
		return MoveResult{}, ErrNotYourTurn
	}
	return e.apply(row, col)
}

// PlayAIMove lets the computer play O. It may only be called in AI mode while
// the game is in progress and O is to move.
func (e *Engine) PlayAIMove() (MoveResult, error) {
	if IsBoardFull(e.board) {
		return MoveResult{}, ErrNoLegalMove
	}
	if e.status.IsTerminal() {
		return MoveResult{}, ErrGameFinished
	}
	if e.mode != ModePlayerVsAI || e.current != PlayerO {
		return MoveResult{}, ErrNotYourTurn
	}

	if e.chooser == nil {
		return MoveResult{}, errNoChooser
	}
	c, err := e.chooser.ChooseMove(e.board)
	if err != nil {
		return MoveResult{}, err
	}
	return e.apply(c.Row, c.Col)
}

// apply is the single move path shared by humans and the computer.
func (e *Engine) apply(row, col int) (MoveResult, error) {
	if e.status.IsTerminal() {
		return MoveResult{}, ErrGameFinished
	}
	if !inBounds(row, col) {
		return MoveResult{}, ErrOutOfBounds
	}
	if e.board[row][col] != None {
		return MoveResult{}, ErrCellOccupied
	}

	mark := e.current
	e.board[row][col] = mark
	e.moves++

	if line, won := EvaluateBoard(e.board, mark); won {
		e.finish(WonBy(mark), line)
	} else if IsDraw(e.board) {
		e.finish(DrawStatus(), nil)
	} else {
		e.current = Opponent(mark)
	}

	coord := Coord{Row: row, Col: col}
	res := MoveResult{
		Coord:         coord,
		Mark:          mark,
		Status:        e.status,
		WinningLine:   copyLine(e.winningLine),
		AITurnPending: e.aiTurnPending(),
	}
	e.notify(NotifyMove, &coord)
	return res, nil
}

func (e *Engine) finish(status Status, line []Coord) {
	e.status = status
	e.winningLine = line
	e.stats.record(status)
}

// Rematch clears the board and keeps the statistics. An unfinished game is
// abandoned without being recorded.
func (e *Engine) Rematch() {
	e.clearBoard()
	e.notify(NotifyRematch, nil)
}

// Reset zeroes the statistics, then clears the board.
func (e *Engine) Reset() {
	e.stats = Stats{}
	e.clearBoard()
	e.notify(NotifyReset, nil)
}

// SetMode switches the mode and starts a fresh board.
func (e *Engine) SetMode(mode Mode) error {
	if !mode.Valid() {
		return ErrUnknownMode
	}
	e.mode = mode
	e.clearBoard()
	e.notify(NotifyMode, nil)
	return nil
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Board:         e.board,
		CurrentPlayer: e.current,
		Status:        e.status,
		Mode:          e.mode,
		Stats:         e.stats,
		WinningLine:   copyLine(e.winningLine),
		Moves:         e.moves,
		AITurnPending: e.aiTurnPending(),
	}
}

func (e *Engine) aiTurnPending() bool {
	return e.mode == ModePlayerVsAI && !e.status.IsTerminal() && e.current == PlayerO
}

func (e *Engine) clearBoard() {
	e.board = Board{}
	e.current = PlayerX
	e.status = InProgress()
	e.moves = 0
	e.winningLine = nil
}

func (e *Engine) notify(kind NotificationKind, last *Coord) {
	if len(e.listeners) == 0 {
		return
	}
	n := Notification{Kind: kind, Snapshot: e.Snapshot(), LastMove: last}
	for _, l := range e.listeners {
		l(n)
	}
}

func copyLine(line []Coord) []Coord {
	if line == nil {
		return nil
	}
	out := make([]Coord, len(line))
	copy(out, line)
	return out
}
