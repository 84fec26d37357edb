package model

// Marker is one of the two symbols placed on the board. The starting player
// always plays MarkerX; the other player always plays MarkerO, fixed for the
// lifetime of the game.
type Marker string

const (
	MarkerEmpty Marker = ""
	MarkerX     Marker = "x"
	MarkerO     Marker = "o"
)

// DefaultBoardSize is the board dimension used for new games
const DefaultBoardSize = 4

// Board is the square grid of cell markers, row-major
type Board [][]Marker

// NewBoard creates an empty size x size board
func NewBoard(size int) Board {
	cells := make(Board, size)
	for i := range cells {
		cells[i] = make([]Marker, size)
		for j := range cells[i] {
			cells[i][j] = MarkerEmpty
		}
	}
	return cells
}

// Size returns the board dimension
func (b Board) Size() int {
	return len(b)
}

// InBounds returns true if the position is within the board
func (b Board) InBounds(row, col int) bool {
	return row >= 0 && row < len(b) && col >= 0 && col < len(b)
}

// Cell returns the marker at the given position, or MarkerEmpty if out of bounds
func (b Board) Cell(row, col int) Marker {
	if !b.InBounds(row, col) {
		return MarkerEmpty
	}
	return b[row][col]
}

// SetCell places a marker at the given position
func (b Board) SetCell(row, col int, m Marker) {
	if b.InBounds(row, col) {
		b[row][col] = m
	}
}

// Clone returns a deep copy of the board
func (b Board) Clone() Board {
	cells := make(Board, len(b))
	for i := range b {
		cells[i] = make([]Marker, len(b[i]))
		copy(cells[i], b[i])
	}
	return cells
}
