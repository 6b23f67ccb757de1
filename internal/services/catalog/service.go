package catalog

import (
	"github.com/mcoot/blockfall/internal/dependencies/random"
	"github.com/mcoot/blockfall/internal/model"
)

// Service draws new pieces from the fixed shape catalog
type Service struct {
	random random.Random
}

// New creates a new catalog Service
func New(rnd random.Random) *Service {
	return &Service{random: rnd}
}

// RandomShape returns a uniformly chosen catalog shape paired with a
// uniformly chosen palette index. The returned shape is the shared
// template and must not be modified.
func (s *Service) RandomShape() (model.ShapeKind, model.Shape, int) {
	kinds := model.ShapeKinds()
	kind := kinds[s.random.Intn(len(kinds))]
	colorIndex := s.random.Intn(model.PaletteSize())

	shape, _ := model.ShapeTemplate(kind)
	return kind, shape, colorIndex
}

// Spawn draws a random shape and places it above a board of the given width
func (s *Service) Spawn(boardWidth int) *model.Piece {
	kind, shape, colorIndex := s.RandomShape()
	return model.SpawnPiece(kind, shape, colorIndex, boardWidth)
}
