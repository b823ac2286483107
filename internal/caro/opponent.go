package caro

import (
	"math/rand"

	"github.com/rocketscienceinc/caro-backend/internal/entity"
)

// Opponent picks a uniformly random empty cell. It is not safe for concurrent use.
type Opponent struct {
	rnd *rand.Rand
}

func NewOpponent(src rand.Source) *Opponent {
	return &Opponent{
		rnd: rand.New(src), //nolint: gosec // game opponent, not security sensitive
	}
}

// SelectMove returns false when the board has no empty cell.
func (that *Opponent) SelectMove(board entity.Board) (entity.Move, bool) {
	availableCells := board.EmptyCells()
	if len(availableCells) == 0 {
		return entity.Move{}, false
	}

	chosen := availableCells[that.rnd.Intn(len(availableCells))]

	return entity.Move{Row: chosen.Row, Col: chosen.Col, Marker: entity.MarkerOpponent}, true
}
