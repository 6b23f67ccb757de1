package model

// ShapeKind names one of the catalog tetrominoes
type ShapeKind string

const (
	ShapeI ShapeKind = "I"
	ShapeJ ShapeKind = "J"
	ShapeL ShapeKind = "L"
	ShapeO ShapeKind = "O"
	ShapeS ShapeKind = "S"
	ShapeT ShapeKind = "T"
	ShapeZ ShapeKind = "Z"
)

// Shape is an occupancy matrix indexed [row][col].
// Shapes are treated as immutable: transformations return new matrices.
type Shape [][]bool

var shapeCatalog = map[ShapeKind]Shape{
	ShapeI: shapeFromBits([][]int{{1, 1, 1, 1}}),
	ShapeJ: shapeFromBits([][]int{{1, 0, 0}, {1, 1, 1}}),
	ShapeL: shapeFromBits([][]int{{0, 0, 1}, {1, 1, 1}}),
	ShapeO: shapeFromBits([][]int{{1, 1}, {1, 1}}),
	ShapeS: shapeFromBits([][]int{{0, 1, 1}, {1, 1, 0}}),
	ShapeT: shapeFromBits([][]int{{0, 1, 0}, {1, 1, 1}}),
	ShapeZ: shapeFromBits([][]int{{1, 1, 0}, {0, 1, 1}}),
}

// ShapeKinds returns every catalog kind in a stable order
func ShapeKinds() []ShapeKind {
	return []ShapeKind{ShapeI, ShapeJ, ShapeL, ShapeO, ShapeS, ShapeT, ShapeZ}
}

// ShapeTemplate returns the shared catalog template for a kind.
// Callers must not modify the returned matrix.
func ShapeTemplate(kind ShapeKind) (Shape, bool) {
	shape, ok := shapeCatalog[kind]
	return shape, ok
}

func shapeFromBits(bits [][]int) Shape {
	shape := make(Shape, len(bits))
	for r, row := range bits {
		shape[r] = make([]bool, len(row))
		for c, v := range row {
			shape[r][c] = v != 0
		}
	}
	return shape
}

// Rows returns the matrix height
func (s Shape) Rows() int {
	return len(s)
}

// Cols returns the matrix width
func (s Shape) Cols() int {
	if len(s) == 0 {
		return 0
	}
	return len(s[0])
}

// Occupied reports whether the cell at (row, col) is filled
func (s Shape) Occupied(row, col int) bool {
	if row < 0 || row >= len(s) || col < 0 || col >= len(s[row]) {
		return false
	}
	return s[row][col]
}

// Rotate returns the shape turned 90 degrees clockwise about its bounding box.
// Rows are reversed and then the matrix is transposed, so a rows x cols
// shape becomes cols x rows.
func (s Shape) Rotate() Shape {
	rows, cols := s.Rows(), s.Cols()
	rotated := make(Shape, cols)
	for c := 0; c < cols; c++ {
		rotated[c] = make([]bool, rows)
		for r := 0; r < rows; r++ {
			rotated[c][r] = s[rows-1-r][c]
		}
	}
	return rotated
}

// Offsets returns the (x, y) offsets of every occupied cell, row-major
func (s Shape) Offsets() []Point {
	var offsets []Point
	for r, row := range s {
		for c, filled := range row {
			if filled {
				offsets = append(offsets, Point{X: c, Y: r})
			}
		}
	}
	return offsets
}

// Clone returns a deep copy of the matrix
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	for r, row := range s {
		clone[r] = append([]bool(nil), row...)
	}
	return clone
}

// Equal reports whether both shapes have identical dimensions and cells
func (s Shape) Equal(other Shape) bool {
	if s.Rows() != other.Rows() || s.Cols() != other.Cols() {
		return false
	}
	for r := range s {
		for c := range s[r] {
			if s[r][c] != other[r][c] {
				return false
			}
		}
	}
	return true
}
