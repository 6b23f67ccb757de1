package model

const (
	// DefaultBoardWidth is the number of columns in a standard game
	DefaultBoardWidth = 13
	// DefaultBoardHeight is the number of rows in a standard game
	DefaultBoardHeight = 20
)

// Board is the fixed-size occupancy grid of a game
type Board struct {
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Cells  [][]int `json:"cells"` // Row-major: Cells[row][col], 0 means empty, n means palette index n-1
}

// NewBoard creates an empty board of the given dimensions
func NewBoard(width, height int) *Board {
	cells := make([][]int, height)
	for i := range cells {
		cells[i] = make([]int, width)
	}
	return &Board{
		Width:  width,
		Height: height,
		Cells:  cells,
	}
}

// InBounds returns true if the cell is inside the grid
func (b *Board) InBounds(row, col int) bool {
	return row >= 0 && row < b.Height && col >= 0 && col < b.Width
}

// Get returns the value at the given cell, or 0 if empty or out of bounds
func (b *Board) Get(row, col int) int {
	if !b.InBounds(row, col) {
		return 0
	}
	return b.Cells[row][col]
}

// IsEmpty returns true if the cell holds no locked block
func (b *Board) IsEmpty(row, col int) bool {
	return b.Get(row, col) == 0
}

// IsValidPosition reports whether the piece, offset by (dx, dy), fits the
// board. Cells above row 0 are only checked against the column bounds.
func (b *Board) IsValidPosition(piece *Piece, dx, dy int) bool {
	for _, off := range piece.Shape.Offsets() {
		x := piece.Origin.X + off.X + dx
		y := piece.Origin.Y + off.Y + dy
		if x < 0 || x >= b.Width || y >= b.Height {
			return false
		}
		if y >= 0 && b.Cells[y][x] != 0 {
			return false
		}
	}
	return true
}

// Lock writes the piece's cell value into every cell it occupies.
// The caller guarantees the piece lies fully on the board.
func (b *Board) Lock(piece *Piece) {
	value := piece.CellValue()
	for _, cell := range piece.Cells() {
		b.Cells[cell.Y][cell.X] = value
	}
}

// IsRowFull returns true if every cell in the row is occupied
func (b *Board) IsRowFull(row int) bool {
	for _, v := range b.Cells[row] {
		if v == 0 {
			return false
		}
	}
	return true
}

// RowOccupied returns true if any cell in the row is occupied
func (b *Board) RowOccupied(row int) bool {
	for _, v := range b.Cells[row] {
		if v != 0 {
			return true
		}
	}
	return false
}

// ClearFullLines removes every full row, inserts the same number of empty
// rows at the top and returns how many were removed
func (b *Board) ClearFullLines() int {
	kept := make([][]int, 0, b.Height)
	for row := 0; row < b.Height; row++ {
		if !b.IsRowFull(row) {
			kept = append(kept, b.Cells[row])
		}
	}

	cleared := b.Height - len(kept)
	if cleared == 0 {
		return 0
	}

	cells := make([][]int, 0, b.Height)
	for i := 0; i < cleared; i++ {
		cells = append(cells, make([]int, b.Width))
	}
	b.Cells = append(cells, kept...)
	return cleared
}

// FilledCount returns the number of occupied cells
func (b *Board) FilledCount() int {
	count := 0
	for row := 0; row < b.Height; row++ {
		for col := 0; col < b.Width; col++ {
			if b.Cells[row][col] != 0 {
				count++
			}
		}
	}
	return count
}

// Clone returns a deep copy of the board
func (b *Board) Clone() *Board {
	clone := &Board{
		Width:  b.Width,
		Height: b.Height,
		Cells:  make([][]int, b.Height),
	}
	for i, row := range b.Cells {
		clone.Cells[i] = append([]int(nil), row...)
	}
	return clone
}
