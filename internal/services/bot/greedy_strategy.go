package bot

import (
	"encoding/binary"
	"hash/fnv"
	"math"

	"github.com/kamstrup/intmap"

	"github.com/mcoot/blockfall/internal/model"
	"github.com/mcoot/blockfall/internal/services/board"
)

// Weights scores a resulting board; higher totals are better
type Weights struct {
	AggregateHeight float64
	LinesCleared    float64
	Holes           float64
	Bumpiness       float64
}

// DefaultWeights favours clearing lines while keeping the stack low and flat
func DefaultWeights() Weights {
	return Weights{
		AggregateHeight: -0.51,
		LinesCleared:    0.76,
		Holes:           -0.36,
		Bumpiness:       -0.18,
	}
}

// Target is the placement a greedy bot is steering towards
type Target struct {
	Rotations int // Clockwise turns still needed from the current orientation
	X         int
	Score     float64
}

// GreedyStrategy evaluates every rotation and column for the active piece
// and steers towards the best resting position
type GreedyStrategy struct {
	boardService *board.Service
	weights      Weights

	// Evaluations for the current board and piece, keyed by candidate
	cache     *intmap.Map[int, float64]
	signature uint64
}

// NewGreedyStrategy creates a new GreedyStrategy
func NewGreedyStrategy(boardService *board.Service, weights Weights) *GreedyStrategy {
	return &GreedyStrategy{
		boardService: boardService,
		weights:      weights,
		cache:        intmap.New[int, float64](64),
	}
}

// ChooseIntents rotates and shifts towards the best target, soft dropping
// once aligned
func (s *GreedyStrategy) ChooseIntents(snap model.Snapshot) model.Intent {
	if snap.IsOver() || snap.Active == nil {
		return model.IntentNone
	}

	target, ok := s.BestTarget(snap)
	if !ok {
		return model.IntentSoftDrop
	}

	intents := model.IntentNone
	if target.Rotations > 0 {
		intents = intents.With(model.IntentRotate)
	}
	switch {
	case target.X < snap.Active.Origin.X:
		intents = intents.With(model.IntentMoveLeft)
	case target.X > snap.Active.Origin.X:
		intents = intents.With(model.IntentMoveRight)
	}
	if intents == model.IntentNone {
		intents = model.IntentSoftDrop
	}
	return intents
}

// BestTarget returns the highest scoring placement reachable by rotating
// and shifting the active piece from its current row
func (s *GreedyStrategy) BestTarget(snap model.Snapshot) (Target, bool) {
	b := snap.Board()
	s.resetIfChanged(snap)

	best := Target{Score: math.Inf(-1)}
	found := false
	shape := snap.Active.Shape
	for r := 0; r < 4; r++ {
		for x := -shape.Cols() + 1; x < b.Width; x++ {
			score := s.evaluate(b, snap.Active, shape, x)
			if score > best.Score {
				best = Target{Rotations: r, X: x, Score: score}
				found = true
			}
		}
		shape = shape.Rotate()
	}
	return best, found
}

func (s *GreedyStrategy) evaluate(b *model.Board, active *model.Piece, shape model.Shape, x int) float64 {
	key := candidateKey(shape, x)
	if score, ok := s.cache.Get(key); ok {
		return score
	}

	candidate := active.Clone()
	candidate.Shape = shape
	candidate.Origin.X = x

	score := math.Inf(-1)
	if placement, ok := s.boardService.Place(b, candidate); ok {
		a := s.boardService.Analyze(placement.Board)
		score = s.weights.AggregateHeight*float64(a.AggregateHeight) +
			s.weights.LinesCleared*float64(placement.LinesCleared) +
			s.weights.Holes*float64(a.Holes) +
			s.weights.Bumpiness*float64(a.Bumpiness)
	}
	s.cache.Put(key, score)
	return score
}

// resetIfChanged drops cached evaluations once the locked cells, the active
// piece or its row differ from the last call
func (s *GreedyStrategy) resetIfChanged(snap model.Snapshot) {
	h := fnv.New64a()
	buf := make([]byte, 0, snap.Width*snap.Height+2)
	for _, row := range snap.Cells {
		for _, v := range row {
			buf = append(buf, byte(v))
		}
	}
	buf = append(buf, []byte(snap.Active.Kind)...)
	buf = append(buf, byte(snap.Active.ColorIndex))
	// Placements drop from the current row, so a lower piece can reach less
	buf = binary.BigEndian.AppendUint32(buf, uint32(int32(snap.Active.Origin.Y)))
	_, _ = h.Write(buf)

	if sig := h.Sum64(); sig != s.signature || s.cache.Len() == 0 {
		s.signature = sig
		s.cache = intmap.New[int, float64](64)
	}
}

// candidateKey packs a shape pattern (at most 4x4) and a column into an int
func candidateKey(shape model.Shape, x int) int {
	pattern := shape.Rows()<<4 | shape.Cols()
	for _, off := range shape.Offsets() {
		pattern |= 1 << (8 + off.Y*4 + off.X)
	}
	return pattern<<8 | (x + 128)
}
