// Package window draws games in a desktop window.
package window

import (
	"image/color"
	"log/slog"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/mcoot/blockfall/internal/model"
	"github.com/mcoot/blockfall/internal/presentation"
	"github.com/mcoot/blockfall/internal/runner"
)

const (
	// CellSize is the side of one board cell in pixels
	CellSize = 20

	// Held keys repeat after repeatDelay frames, every repeatEvery frames
	repeatDelay = 12
	repeatEvery = 4

	textX = 8
)

var (
	boardColor = color.RGBA{R: 20, G: 20, B: 28, A: 220}
	gridColor  = color.RGBA{R: 45, G: 45, B: 60, A: 255}
)

var keyIntents = []struct {
	keys   []ebiten.Key
	intent model.Intent
}{
	{[]ebiten.Key{ebiten.KeyArrowLeft, ebiten.KeyA}, model.IntentMoveLeft},
	{[]ebiten.Key{ebiten.KeyArrowRight, ebiten.KeyD}, model.IntentMoveRight},
	{[]ebiten.Key{ebiten.KeyArrowDown, ebiten.KeyS}, model.IntentSoftDrop},
	{[]ebiten.Key{ebiten.KeyArrowUp, ebiten.KeyW, ebiten.KeySpace}, model.IntentRotate},
}

// Window is an ebiten game that renders scheduler snapshots and feeds key
// presses into an intent buffer
type Window struct {
	mu         sync.Mutex
	last       model.Snapshot
	hasFrame   bool
	input      *runner.IntentBuffer
	background *ebiten.Image
	logger     *slog.Logger
}

// New creates a window for a board of the given size. An empty background
// path draws on plain black.
func New(width, height int, backgroundPath string, input *runner.IntentBuffer, logger *slog.Logger) *Window {
	w := &Window{
		input:  input,
		logger: logger.With(slog.String("component", "window")),
	}
	if backgroundPath != "" {
		img, _, err := ebitenutil.NewImageFromFile(backgroundPath)
		if err != nil {
			w.logger.Warn("background not loaded",
				slog.String("path", backgroundPath),
				slog.String("error", err.Error()),
			)
		} else {
			w.background = img
		}
	}

	cw, ch := presentation.CanvasSize(width, height, CellSize)
	ebiten.SetWindowSize(cw, ch)
	ebiten.SetWindowTitle("blockfall")
	return w
}

// Ensure Window implements Renderer
var _ runner.Renderer = (*Window)(nil)

// Render stores the snapshot for the next Draw
func (w *Window) Render(snap model.Snapshot) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.last = snap
	w.hasFrame = true
	return nil
}

func (w *Window) snapshot() (model.Snapshot, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last, w.hasFrame
}

// Run opens the window and blocks until it is closed
func (w *Window) Run() error {
	return ebiten.RunGame(w)
}

func (w *Window) Update() error {
	snap, _ := w.snapshot()

	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		if snap.IsOver() {
			return ebiten.Termination
		}
		w.input.Push(model.IntentQuit)
		return nil
	}

	for _, ki := range keyIntents {
		for _, k := range ki.keys {
			if repeating(k) {
				w.input.Push(ki.intent)
				break
			}
		}
	}
	return nil
}

func repeating(k ebiten.Key) bool {
	d := inpututil.KeyPressDuration(k)
	return d == 1 || (d >= repeatDelay && (d-repeatDelay)%repeatEvery == 0)
}

func (w *Window) Draw(screen *ebiten.Image) {
	if w.background != nil {
		opts := &ebiten.DrawImageOptions{}
		bw, bh := w.background.Bounds().Dx(), w.background.Bounds().Dy()
		sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
		opts.GeoM.Scale(float64(sw)/float64(bw), float64(sh)/float64(bh))
		screen.DrawImage(w.background, opts)
	}

	snap, ok := w.snapshot()
	if !ok {
		return
	}

	bw, bh := float32(snap.Width*CellSize), float32(snap.Height*CellSize)
	vector.DrawFilledRect(screen, 0, 0, bw, bh, boardColor, false)
	drawGrid(screen, presentation.BoardGrid(snap), 0, 0)

	left := (snap.Width + 1) * CellSize
	ebitenutil.DebugPrintAt(screen, "Next", left, 2)
	drawGrid(screen, presentation.PreviewGrid(snap.Upcoming), float32(left), float32(CellSize))

	y := (presentation.PreviewSize + 2) * CellSize
	for _, line := range presentation.StatusLines(snap) {
		ebitenutil.DebugPrintAt(screen, line, left, y)
		y += 16
	}
	if snap.IsOver() {
		ebitenutil.DebugPrintAt(screen, "GAME OVER", textX, int(bh)/2)
	}
}

func drawGrid(screen *ebiten.Image, g presentation.Grid, x, y float32) {
	for r, row := range g {
		for c, cell := range row {
			cx, cy := x+float32(c*CellSize), y+float32(r*CellSize)
			if !cell.Filled {
				continue
			}
			fill := color.RGBA{R: cell.Color.R, G: cell.Color.G, B: cell.Color.B, A: 255}
			vector.DrawFilledRect(screen, cx, cy, CellSize, CellSize, fill, false)
			vector.StrokeRect(screen, cx, cy, CellSize, CellSize, 1, gridColor, false)
		}
	}
}

func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	snap, ok := w.snapshot()
	if !ok {
		return outsideWidth, outsideHeight
	}
	return presentation.CanvasSize(snap.Width, snap.Height, CellSize)
}
