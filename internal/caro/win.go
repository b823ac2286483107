package caro

import (
	"github.com/rocketscienceinc/caro-backend/internal/entity"
)

// Directions are scanned in this order from every origin.
var Directions = [4][2]int{
	{0, 1},  // horizontal
	{1, 0},  // vertical
	{1, 1},  // diagonal
	{1, -1}, // anti-diagonal
}

// DetectWin scans origins in row-major order and returns the first line of WinLength equal
// markers, or nil.
func DetectWin(board entity.Board) *entity.WinResult {
	for r := range board {
		for c := range board[r] {
			marker := board[r][c]
			if marker == entity.MarkerEmpty {
				continue
			}

			for _, dir := range Directions {
				if cells, ok := lineFrom(board, r, c, dir); ok {
					return &entity.WinResult{Winner: marker, Cells: cells}
				}
			}
		}
	}

	return nil
}

func lineFrom(board entity.Board, row, col int, dir [2]int) ([entity.WinLength]entity.Cell, bool) {
	var cells [entity.WinLength]entity.Cell

	marker := board[row][col]
	for i := 0; i < entity.WinLength; i++ {
		nr, nc := row+dir[0]*i, col+dir[1]*i
		if !board.InBounds(nr, nc) || board[nr][nc] != marker {
			return cells, false
		}

		cells[i] = entity.Cell{Row: nr, Col: nc}
	}

	return cells, true
}
