package model

// Point is an integer grid coordinate; X is the column and Y the row
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Piece is a live instance of a catalog shape on the board
type Piece struct {
	Kind       ShapeKind `json:"kind"`
	Shape      Shape     `json:"shape"`
	ColorIndex int       `json:"color_index"` // 0-based index into the palette
	Origin     Point     `json:"origin"`      // top-left cell of the shape matrix
}

// SpawnPiece creates a piece horizontally centered on a board of the given
// width, placed so its bottom row sits just above row 0
func SpawnPiece(kind ShapeKind, shape Shape, colorIndex, boardWidth int) *Piece {
	return &Piece{
		Kind:       kind,
		Shape:      shape,
		ColorIndex: colorIndex,
		Origin: Point{
			X: boardWidth/2 - shape.Cols()/2,
			Y: -shape.Rows(),
		},
	}
}

// Translate moves the piece origin. Validity is the board's concern.
func (p *Piece) Translate(dx, dy int) {
	p.Origin.X += dx
	p.Origin.Y += dy
}

// Rotate replaces the shape with its clockwise rotation, keeping the origin
func (p *Piece) Rotate() {
	p.Shape = p.Shape.Rotate()
}

// Rotated returns a copy of the piece with the rotation applied
func (p *Piece) Rotated() *Piece {
	rotated := *p
	rotated.Shape = p.Shape.Rotate()
	return &rotated
}

// Clone returns a deep copy of the piece
func (p *Piece) Clone() *Piece {
	if p == nil {
		return nil
	}
	clone := *p
	clone.Shape = p.Shape.Clone()
	return &clone
}

// CellValue is the value written into the board when the piece locks
func (p *Piece) CellValue() int {
	return p.ColorIndex + 1
}

// Cells returns the absolute board coordinates of every occupied cell
func (p *Piece) Cells() []Point {
	offsets := p.Shape.Offsets()
	cells := make([]Point, len(offsets))
	for i, o := range offsets {
		cells[i] = Point{X: p.Origin.X + o.X, Y: p.Origin.Y + o.Y}
	}
	return cells
}

// AboveBoard reports whether any occupied cell lies above row 0
func (p *Piece) AboveBoard() bool {
	for _, cell := range p.Cells() {
		if cell.Y < 0 {
			return true
		}
	}
	return false
}
