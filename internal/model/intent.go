package model

import "strings"

// Intent is a set of player actions requested for a single tick.
// Each action appears at most once per tick.
type Intent uint8

const (
	IntentMoveLeft Intent = 1 << iota
	IntentMoveRight
	IntentSoftDrop
	IntentRotate
	IntentQuit
)

// IntentNone is the empty set
const IntentNone Intent = 0

var intentNames = []struct {
	intent Intent
	name   string
}{
	{IntentMoveLeft, "move_left"},
	{IntentMoveRight, "move_right"},
	{IntentSoftDrop, "soft_drop"},
	{IntentRotate, "rotate"},
	{IntentQuit, "quit"},
}

// Has returns true if every action in other is present
func (i Intent) Has(other Intent) bool {
	return other != IntentNone && i&other == other
}

// With returns the set with other added
func (i Intent) With(other Intent) Intent {
	return i | other
}

// String renders the set as names joined by "|"
func (i Intent) String() string {
	if i == IntentNone {
		return "none"
	}
	var names []string
	for _, in := range intentNames {
		if i.Has(in.intent) {
			names = append(names, in.name)
		}
	}
	return strings.Join(names, "|")
}
