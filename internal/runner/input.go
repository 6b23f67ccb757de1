package runner

import (
	"sync"

	"github.com/mcoot/blockfall/internal/model"
)

// InputSource supplies the intents for the next tick. Poll must not block;
// returning IntentNone means no input.
type InputSource interface {
	Poll(last model.Snapshot) model.Intent
}

// IntentBuffer collects intents pushed from an input goroutine until the
// next tick drains them. Repeated pushes of the same action collapse.
type IntentBuffer struct {
	mu      sync.Mutex
	pending model.Intent
}

// NewIntentBuffer creates an empty IntentBuffer
func NewIntentBuffer() *IntentBuffer {
	return &IntentBuffer{}
}

// Push records intents for the next tick
func (b *IntentBuffer) Push(intents model.Intent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending = b.pending.With(intents)
}

// Poll returns and clears the pending intents
func (b *IntentBuffer) Poll(model.Snapshot) model.Intent {
	b.mu.Lock()
	defer b.mu.Unlock()
	pending := b.pending
	b.pending = model.IntentNone
	return pending
}

// MultiSource merges several sources into one set of intents per tick
type MultiSource []InputSource

// Poll polls every source and merges the results
func (m MultiSource) Poll(last model.Snapshot) model.Intent {
	intents := model.IntentNone
	for _, src := range m {
		intents = intents.With(src.Poll(last))
	}
	return intents
}

// NoInput never requests anything
type NoInput struct{}

// Poll always returns IntentNone
func (NoInput) Poll(model.Snapshot) model.Intent {
	return model.IntentNone
}
