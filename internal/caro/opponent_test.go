package caro

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/caro-backend/internal/entity"
)

func TestOpponent_SelectMove(t *testing.T) {
	t.Run("Picks an empty cell with the opponent marker", func(t *testing.T) {
		// Given: a board with a single empty cell
		board := fullBoardWithoutWin()
		board[3][2] = entity.MarkerEmpty
		opponent := NewOpponent(rand.NewSource(1))

		// When: the opponent selects a move
		move, ok := opponent.SelectMove(board)

		// Then: the only empty cell is chosen
		require.True(t, ok)
		assert.Equal(t, entity.Move{Row: 3, Col: 2, Marker: entity.MarkerOpponent}, move)
	})

	t.Run("Full board yields no move", func(t *testing.T) {
		opponent := NewOpponent(rand.NewSource(1))

		_, ok := opponent.SelectMove(fullBoardWithoutWin())

		assert.False(t, ok)
	})

	t.Run("Same seed replays the same moves", func(t *testing.T) {
		// Given: two opponents sharing a seed
		first := NewOpponent(rand.NewSource(42))
		second := NewOpponent(rand.NewSource(42))

		boardA, boardB := entity.NewBoard(), entity.NewBoard()
		for i := 0; i < entity.BoardSize*entity.BoardSize; i++ {
			moveA, okA := first.SelectMove(boardA)
			moveB, okB := second.SelectMove(boardB)

			// Then: they choose identical cells until the board is full
			require.Equal(t, okA, okB)
			require.Equal(t, moveA, moveB)
			require.True(t, boardA.IsEmpty(moveA.Row, moveA.Col))

			boardA, _ = ApplyMove(boardA, moveA)
			boardB, _ = ApplyMove(boardB, moveB)
		}

		assert.True(t, boardA.IsFull())
	})
}
