package catalog

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/blockfall/internal/dependencies/mocks"
	"github.com/mcoot/blockfall/internal/dependencies/random"
	"github.com/mcoot/blockfall/internal/model"
)

type ServiceSuite struct {
	suite.Suite
	random  *mocks.MockRandom
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.random = mocks.NewMockRandom()
	s.service = New(s.random)
}

// RandomShape tests

func (s *ServiceSuite) TestRandomShapeDrawsKindThenColor() {
	s.random.QueueIntn(5, 8) // T, palette index 8

	kind, shape, colorIndex := s.service.RandomShape()

	s.Equal(model.ShapeT, kind)
	template, _ := model.ShapeTemplate(model.ShapeT)
	s.True(template.Equal(shape))
	s.Equal(8, colorIndex)
}

func (s *ServiceSuite) TestRandomShapeCoversCatalog() {
	for i, expected := range model.ShapeKinds() {
		s.random.QueueIntn(i, 0)
		kind, _, _ := s.service.RandomShape()
		s.Equal(expected, kind)
	}
}

func (s *ServiceSuite) TestRandomShapeStaysInRangeWithRealSource() {
	service := New(random.NewSeeded(99))
	seen := map[model.ShapeKind]bool{}

	for i := 0; i < 500; i++ {
		kind, shape, colorIndex := service.RandomShape()
		seen[kind] = true
		s.Len(shape.Offsets(), 4)
		s.GreaterOrEqual(colorIndex, 0)
		s.Less(colorIndex, model.PaletteSize())
	}
	s.Len(seen, len(model.ShapeKinds()))
}

// Spawn tests

func (s *ServiceSuite) TestSpawnCentersPiece() {
	s.random.QueueIntn(0, 3) // I, palette index 3

	piece := s.service.Spawn(model.DefaultBoardWidth)

	s.Equal(model.ShapeI, piece.Kind)
	s.Equal(3, piece.ColorIndex)
	s.Equal(model.Point{X: 4, Y: -1}, piece.Origin)
}
