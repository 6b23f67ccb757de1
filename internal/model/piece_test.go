package model

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type PieceSuite struct {
	suite.Suite
}

func TestPieceSuite(t *testing.T) {
	suite.Run(t, new(PieceSuite))
}

// SpawnPiece tests

func (s *PieceSuite) TestSpawnCentersEveryShape() {
	for _, width := range []int{DefaultBoardWidth, 10, 7} {
		for _, kind := range ShapeKinds() {
			shape, _ := ShapeTemplate(kind)
			piece := SpawnPiece(kind, shape, 0, width)

			s.Equal(width/2-shape.Cols()/2, piece.Origin.X, "kind %s width %d", kind, width)
			s.Equal(-shape.Rows(), piece.Origin.Y, "kind %s width %d", kind, width)
		}
	}
}

func (s *PieceSuite) TestSpawnIPieceOnStandardBoard() {
	shape, _ := ShapeTemplate(ShapeI)
	piece := SpawnPiece(ShapeI, shape, 3, DefaultBoardWidth)

	s.Equal(Point{X: 4, Y: -1}, piece.Origin)
	s.Equal(3, piece.ColorIndex)
	s.Equal(4, piece.CellValue())
	s.True(piece.AboveBoard())
}

// Translate tests

func (s *PieceSuite) TestTranslateIsUnchecked() {
	shape, _ := ShapeTemplate(ShapeO)
	piece := SpawnPiece(ShapeO, shape, 0, DefaultBoardWidth)

	piece.Translate(-100, 50)

	s.Equal(Point{X: 5 - 100, Y: -2 + 50}, piece.Origin)
}

// Rotate tests

func (s *PieceSuite) TestRotateKeepsOrigin() {
	shape, _ := ShapeTemplate(ShapeL)
	piece := SpawnPiece(ShapeL, shape, 0, DefaultBoardWidth)
	origin := piece.Origin

	piece.Rotate()

	s.Equal(origin, piece.Origin)
	s.Equal(3, piece.Shape.Rows())
	s.Equal(2, piece.Shape.Cols())
}

func (s *PieceSuite) TestRotatedLeavesOriginalUntouched() {
	shape, _ := ShapeTemplate(ShapeZ)
	piece := SpawnPiece(ShapeZ, shape, 0, DefaultBoardWidth)

	rotated := piece.Rotated()

	s.True(shape.Equal(piece.Shape))
	s.Equal(3, rotated.Shape.Rows())
	s.Equal(piece.Origin, rotated.Origin)
}

// Cells tests

func (s *PieceSuite) TestCellsAreAbsolute() {
	shape, _ := ShapeTemplate(ShapeT)
	piece := &Piece{Kind: ShapeT, Shape: shape, Origin: Point{X: 2, Y: 5}}

	s.Equal([]Point{{X: 3, Y: 5}, {X: 2, Y: 6}, {X: 3, Y: 6}, {X: 4, Y: 6}}, piece.Cells())
	s.False(piece.AboveBoard())
}

func (s *PieceSuite) TestCloneIsDeep() {
	shape, _ := ShapeTemplate(ShapeO)
	piece := &Piece{Kind: ShapeO, Shape: shape}

	clone := piece.Clone()
	clone.Shape[0][0] = false
	clone.Translate(1, 1)

	s.True(piece.Shape[0][0])
	s.Equal(Point{}, piece.Origin)
}
