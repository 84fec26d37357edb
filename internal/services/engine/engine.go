package engine

import "github.com/mcoot/tictacgame-go/internal/model"

// Evaluate reports whether the move just played at (row, col) wins the game
// for marker. Four lines through the played cell are checked: the full row,
// the full column, and the two main diagonals of the square board. A line
// wins only if every cell along it holds marker.
//
// Only the main diagonals are considered, never arbitrary diagonals through
// the played cell. That is the game's actual win condition, not an
// approximation.
//
// Pure and stateless; safe to call from any goroutine.
func Evaluate(board model.Board, row, col int, marker model.Marker) bool {
	size := board.Size()
	if size == 0 || !board.InBounds(row, col) {
		return false
	}

	won := true
	for i := 0; i < size; i++ {
		if board[row][i] != marker {
			won = false
			break
		}
	}
	if won {
		return true
	}

	won = true
	for i := 0; i < size; i++ {
		if board[i][col] != marker {
			won = false
			break
		}
	}
	if won {
		return true
	}

	won = true
	for i := 0; i < size; i++ {
		if board[i][i] != marker {
			won = false
			break
		}
	}
	if won {
		return true
	}

	for i := 0; i < size; i++ {
		if board[i][size-1-i] != marker {
			return false
		}
	}
	return true
}

// IsFull reports whether no empty cell remains. A move that produces no win
// on a full board is a draw.
func IsFull(board model.Board) bool {
	for _, row := range board {
		for _, cell := range row {
			if cell == model.MarkerEmpty {
				return false
			}
		}
	}
	return true
}
