package terminal

import (
	"github.com/gdamore/tcell/v2"

	"github.com/mcoot/blockfall/internal/model"
)

// KeyIntent maps a key press to the intent it requests
func KeyIntent(key tcell.Key, r rune) (model.Intent, bool) {
	switch key {
	case tcell.KeyLeft:
		return model.IntentMoveLeft, true
	case tcell.KeyRight:
		return model.IntentMoveRight, true
	case tcell.KeyDown:
		return model.IntentSoftDrop, true
	case tcell.KeyUp:
		return model.IntentRotate, true
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return model.IntentQuit, true
	case tcell.KeyRune:
		switch r {
		case 'a', 'A', 'h':
			return model.IntentMoveLeft, true
		case 'd', 'D', 'l':
			return model.IntentMoveRight, true
		case 's', 'S', 'j':
			return model.IntentSoftDrop, true
		case 'w', 'W', 'k', ' ':
			return model.IntentRotate, true
		case 'q', 'Q':
			return model.IntentQuit, true
		}
	}
	return model.IntentNone, false
}
