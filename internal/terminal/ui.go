package terminal

import (
	"context"
	"log/slog"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/mcoot/blockfall/internal/model"
	"github.com/mcoot/blockfall/internal/presentation"
	"github.com/mcoot/blockfall/internal/runner"
)

const (
	// cellWidth is the number of terminal columns per board cell
	cellWidth = 2

	blockRune = '█'
	emptyRune = '·'
)

var (
	borderStyle = tcell.StyleDefault.Foreground(tcell.ColorGray)
	textStyle   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	emptyStyle  = tcell.StyleDefault.Foreground(tcell.ColorDarkSlateGray)
	overStyle   = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
)

// UI draws snapshots to a tcell screen and turns key presses into intents
type UI struct {
	mu     sync.Mutex
	screen tcell.Screen
	logger *slog.Logger

	quit chan struct{}
	once sync.Once
}

// New wraps an initialised screen
func New(screen tcell.Screen, logger *slog.Logger) *UI {
	screen.HideCursor()
	return &UI{
		screen: screen,
		logger: logger.With(slog.String("component", "terminal")),
		quit:   make(chan struct{}),
	}
}

// Open creates and initialises the real terminal screen
func Open(logger *slog.Logger) (*UI, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	return New(screen, logger), nil
}

// Ensure UI implements Renderer
var _ runner.Renderer = (*UI)(nil)

// Render draws the board, the upcoming piece and the status panel
func (u *UI) Render(snap model.Snapshot) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.screen.Clear()
	u.drawBoard(snap)
	u.drawSidebar(snap)
	u.screen.Show()
	return nil
}

func (u *UI) drawBoard(snap model.Snapshot) {
	inner := snap.Width * cellWidth
	u.drawBox(0, 0, inner+2, snap.Height+2)

	grid := presentation.BoardGrid(snap)
	for r, row := range grid {
		for c, cell := range row {
			x, y := 1+c*cellWidth, 1+r
			ch, style := emptyRune, emptyStyle
			if cell.Filled {
				ch, style = blockRune, colorStyle(cell.Color)
			}
			for i := 0; i < cellWidth; i++ {
				u.screen.SetContent(x+i, y, ch, nil, style)
			}
		}
	}
}

func (u *UI) drawSidebar(snap model.Snapshot) {
	left := snap.Width*cellWidth + 4

	u.drawText(left, 0, "Next", textStyle)
	preview := presentation.PreviewGrid(snap.Upcoming)
	for r, row := range preview {
		for c, cell := range row {
			if !cell.Filled {
				continue
			}
			for i := 0; i < cellWidth; i++ {
				u.screen.SetContent(left+c*cellWidth+i, 1+r, blockRune, nil, colorStyle(cell.Color))
			}
		}
	}

	y := presentation.PreviewSize + 2
	for _, line := range presentation.StatusLines(snap) {
		style := textStyle
		if snap.IsOver() && line == "GAME OVER" {
			style = overStyle
		}
		u.drawText(left, y, line, style)
		y++
	}
}

func (u *UI) drawBox(x, y, w, h int) {
	for i := x + 1; i < x+w-1; i++ {
		u.screen.SetContent(i, y, tcell.RuneHLine, nil, borderStyle)
		u.screen.SetContent(i, y+h-1, tcell.RuneHLine, nil, borderStyle)
	}
	for j := y + 1; j < y+h-1; j++ {
		u.screen.SetContent(x, j, tcell.RuneVLine, nil, borderStyle)
		u.screen.SetContent(x+w-1, j, tcell.RuneVLine, nil, borderStyle)
	}
	u.screen.SetContent(x, y, tcell.RuneULCorner, nil, borderStyle)
	u.screen.SetContent(x+w-1, y, tcell.RuneURCorner, nil, borderStyle)
	u.screen.SetContent(x, y+h-1, tcell.RuneLLCorner, nil, borderStyle)
	u.screen.SetContent(x+w-1, y+h-1, tcell.RuneLRCorner, nil, borderStyle)
}

func (u *UI) drawText(x, y int, text string, style tcell.Style) {
	for i, r := range []rune(text) {
		u.screen.SetContent(x+i, y, r, nil, style)
	}
}

func colorStyle(c model.Color) tcell.Style {
	return tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
}

// HandleEvent applies a single terminal event. Key presses that map to an
// intent are pushed into buf; quit keys also release WaitForQuit. It
// returns false once the screen has been closed.
func (u *UI) HandleEvent(ev tcell.Event, buf *runner.IntentBuffer) bool {
	switch ev := ev.(type) {
	case nil:
		return false
	case *tcell.EventKey:
		intent, ok := KeyIntent(ev.Key(), ev.Rune())
		if !ok {
			return true
		}
		buf.Push(intent)
		if intent.Has(model.IntentQuit) {
			u.requestQuit()
		}
	case *tcell.EventResize:
		u.mu.Lock()
		u.screen.Sync()
		u.mu.Unlock()
	}
	return true
}

// ListenInput reads terminal events until the context is done or the
// screen is closed
func (u *UI) ListenInput(ctx context.Context, buf *runner.IntentBuffer) {
	events := make(chan tcell.Event, 16)
	go func() {
		defer close(events)
		for {
			ev := u.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok || !u.HandleEvent(ev, buf) {
				return
			}
		}
	}
}

// WaitForQuit blocks until a quit key is pressed or the context is done
func (u *UI) WaitForQuit(ctx context.Context) {
	select {
	case <-u.quit:
	case <-ctx.Done():
	}
}

func (u *UI) requestQuit() {
	u.once.Do(func() {
		u.logger.Debug("quit requested")
		close(u.quit)
	})
}

// Close restores the terminal
func (u *UI) Close() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.screen.Fini()
}
