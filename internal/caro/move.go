package caro

import (
	"github.com/rocketscienceinc/caro-backend/internal/entity"
)

// ApplyMove returns a copy of board with the move placed. The move is rejected, and the board
// returned unchanged, when the cell is out of range, already occupied or the marker is empty.
func ApplyMove(board entity.Board, move entity.Move) (entity.Board, bool) {
	if !validateMove(board, move) {
		return board, false
	}

	board[move.Row][move.Col] = move.Marker

	return board, true
}

// validateMove - checks if the move is valid.
func validateMove(board entity.Board, move entity.Move) bool {
	if move.Marker == entity.MarkerEmpty {
		return false
	}

	return board.IsEmpty(move.Row, move.Col)
}
