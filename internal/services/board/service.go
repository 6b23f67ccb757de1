package board

import (
	"github.com/mcoot/blockfall/internal/model"
)

// Analysis summarises the shape of a board's stack
type Analysis struct {
	Heights         []int // Per column, 0 for an empty column
	AggregateHeight int
	MaxHeight       int
	Holes           int // Empty cells with a filled cell somewhere above
	Bumpiness       int // Sum of height differences between neighbouring columns
	CompleteRows    int
}

// Placement is the outcome of dropping a piece straight down
type Placement struct {
	Piece        *model.Piece // Piece at its resting position
	Board        *model.Board // Board after locking and clearing
	LinesCleared int
}

// Service provides read-only board analysis and placement simulation
type Service struct{}

// New creates a new board Service
func New() *Service {
	return &Service{}
}

// Analyze computes stack metrics for the board
func (s *Service) Analyze(board *model.Board) Analysis {
	a := Analysis{Heights: make([]int, board.Width)}

	for col := 0; col < board.Width; col++ {
		seenBlock := false
		for row := 0; row < board.Height; row++ {
			if !board.IsEmpty(row, col) {
				if !seenBlock {
					a.Heights[col] = board.Height - row
					seenBlock = true
				}
			} else if seenBlock {
				a.Holes++
			}
		}
		a.AggregateHeight += a.Heights[col]
		if a.Heights[col] > a.MaxHeight {
			a.MaxHeight = a.Heights[col]
		}
		if col > 0 {
			a.Bumpiness += abs(a.Heights[col] - a.Heights[col-1])
		}
	}

	for row := 0; row < board.Height; row++ {
		if board.IsRowFull(row) {
			a.CompleteRows++
		}
	}
	return a
}

// DropDistance returns how many rows the piece can fall before resting.
// Returns -1 if the piece is not in a valid position to begin with.
func (s *Service) DropDistance(board *model.Board, piece *model.Piece) int {
	if !board.IsValidPosition(piece, 0, 0) {
		return -1
	}
	dist := 0
	for board.IsValidPosition(piece, 0, dist+1) {
		dist++
	}
	return dist
}

// Place drops a copy of the piece, locks it into a copy of the board and
// clears any full lines. Returns false if the piece would rest with cells
// above the board.
func (s *Service) Place(board *model.Board, piece *model.Piece) (Placement, bool) {
	dist := s.DropDistance(board, piece)
	if dist < 0 {
		return Placement{}, false
	}

	rested := piece.Clone()
	rested.Translate(0, dist)
	if rested.AboveBoard() {
		return Placement{}, false
	}

	result := board.Clone()
	result.Lock(rested)
	lines := result.ClearFullLines()

	return Placement{
		Piece:        rested,
		Board:        result,
		LinesCleared: lines,
	}, true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
