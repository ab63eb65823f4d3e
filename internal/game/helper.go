package game

// Border
const (
	BorderMin = 0 // First index of the board
	BorderMax = 2 // Last index of the board
)

// WinningLines lists every line that ends the game when one mark occupies all
// three cells: rows top to bottom, columns left to right, main diagonal, anti-diagonal.
var WinningLines = [8][3]Coord{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

func inBounds(row, col int) bool {
	return row >= BorderMin && row <= BorderMax && col >= BorderMin && col <= BorderMax
}

// EvaluateBoard reports the first winning line fully occupied by mark, in
// WinningLines order.
func EvaluateBoard(board Board, mark PlayerMark) ([]Coord, bool) {
	if mark == None {
		return nil, false
	}
	for _, line := range WinningLines {
		if board.At(line[0]) == mark && board.At(line[1]) == mark && board.At(line[2]) == mark {
			return []Coord{line[0], line[1], line[2]}, true
		}
	}
	return nil, false
}

// IsBoardFull checks whether every cell holds a mark.
func IsBoardFull(board Board) bool {
	for r := range [3]int{} {
		for c := range [3]int{} {
			if board[r][c] == None {
				return false
			}
		}
	}
	return true
}

// IsDraw checks if the board is a draw: full, with no completed line for either mark.
func IsDraw(board Board) bool {
	if !IsBoardFull(board) {
		return false
	}
	if _, won := EvaluateBoard(board, PlayerX); won {
		return false
	}
	if _, won := EvaluateBoard(board, PlayerO); won {
		return false
	}
	return true
}

// EmptyCells returns the empty cells in row-major order.
func EmptyCells(board Board) []Coord {
	cells := make([]Coord, 0, 9)
	for r := range [3]int{} {
		for c := range [3]int{} {
			if board[r][c] == None {
				cells = append(cells, Coord{Row: r, Col: c})
			}
		}
	}
	return cells
}

// Opponent returns the other player's mark.
func Opponent(mark PlayerMark) PlayerMark {
	if mark == PlayerX {
		return PlayerO
	}
	return PlayerX
}
