package entity

const (
	BoardSize = 5
	WinLength = 4
)

type Marker string

const (
	MarkerEmpty    Marker = ""
	MarkerHuman    Marker = "X"
	MarkerOpponent Marker = "O"
)

// Board is a fixed BoardSize x BoardSize grid. It is a value type: copying a Board copies every cell.
type Board [BoardSize][BoardSize]Marker

type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type Move struct {
	Row    int    `json:"row"`
	Col    int    `json:"col"`
	Marker Marker `json:"marker"`
}

// WinResult holds the winning marker and the WinLength cells of the line, in scan order.
type WinResult struct {
	Winner Marker          `json:"winner"`
	Cells  [WinLength]Cell `json:"cells"`
}

func NewBoard() Board {
	return Board{}
}

func (that Board) InBounds(row, col int) bool {
	return row >= 0 && row < BoardSize && col >= 0 && col < BoardSize
}

func (that Board) IsEmpty(row, col int) bool {
	return that.InBounds(row, col) && that[row][col] == MarkerEmpty
}

// EmptyCells returns the empty cells in row-major order.
func (that Board) EmptyCells() []Cell {
	cells := make([]Cell, 0, BoardSize*BoardSize)
	for r := range that {
		for c := range that[r] {
			if that[r][c] == MarkerEmpty {
				cells = append(cells, Cell{Row: r, Col: c})
			}
		}
	}

	return cells
}

func (that Board) IsFull() bool {
	for r := range that {
		for c := range that[r] {
			if that[r][c] == MarkerEmpty {
				return false
			}
		}
	}

	return true
}
