package bot

import (
	"github.com/mcoot/blockfall/internal/dependencies/random"
	"github.com/mcoot/blockfall/internal/model"
)

var randomChoices = []model.Intent{
	model.IntentNone,
	model.IntentMoveLeft,
	model.IntentMoveRight,
	model.IntentRotate,
	model.IntentSoftDrop,
}

// RandomStrategy picks one random action per tick
type RandomStrategy struct {
	random random.Random
}

// NewRandomStrategy creates a new RandomStrategy
func NewRandomStrategy(rnd random.Random) *RandomStrategy {
	return &RandomStrategy{random: rnd}
}

// ChooseIntents returns a single random action, or nothing
func (s *RandomStrategy) ChooseIntents(snap model.Snapshot) model.Intent {
	if snap.IsOver() {
		return model.IntentNone
	}
	return randomChoices[s.random.Intn(len(randomChoices))]
}
