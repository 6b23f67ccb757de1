package bot

import "github.com/mcoot/blockfall/internal/model"

// Strategy defines how a bot chooses its actions
type Strategy interface {
	// ChooseIntents selects the actions to request for the next tick
	ChooseIntents(snap model.Snapshot) model.Intent
}
