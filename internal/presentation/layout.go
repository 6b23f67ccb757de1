// Package presentation turns game snapshots into what every adapter draws:
// coloured grids, the upcoming piece preview and status lines.
package presentation

import (
	"fmt"

	"github.com/mcoot/blockfall/internal/model"
)

const (
	// PreviewSize is the side of the square the upcoming piece is drawn in
	PreviewSize = 4
	// SidebarCells is the width of the panel beside the board, in cells
	SidebarCells = PreviewSize + 2
)

// Cell is one drawable grid square
type Cell struct {
	Filled bool
	Color  model.Color
}

// Grid is a row-major block of cells
type Grid [][]Cell

func newGrid(rows, cols int) Grid {
	g := make(Grid, rows)
	for r := range g {
		g[r] = make([]Cell, cols)
	}
	return g
}

func cellFor(value int) Cell {
	color, ok := model.ColorForCell(value)
	if !ok {
		return Cell{}
	}
	return Cell{Filled: true, Color: color}
}

// BoardGrid returns the board with the active piece drawn over empty cells
func BoardGrid(snap model.Snapshot) Grid {
	g := newGrid(snap.Height, snap.Width)
	for r := 0; r < snap.Height; r++ {
		for c := 0; c < snap.Width; c++ {
			g[r][c] = cellFor(snap.CellAt(r, c))
		}
	}
	return g
}

// PreviewGrid draws a piece's shape, centred in a PreviewSize square
func PreviewGrid(p *model.Piece) Grid {
	g := newGrid(PreviewSize, PreviewSize)
	if p == nil {
		return g
	}
	top := (PreviewSize - p.Shape.Rows()) / 2
	left := (PreviewSize - p.Shape.Cols()) / 2
	for _, off := range p.Shape.Offsets() {
		r, c := top+off.Y, left+off.X
		if r < 0 || r >= PreviewSize || c < 0 || c >= PreviewSize {
			continue
		}
		g[r][c] = cellFor(p.CellValue())
	}
	return g
}

// StatusLines returns the sidebar text for a snapshot
func StatusLines(snap model.Snapshot) []string {
	lines := []string{
		fmt.Sprintf("Score: %d", snap.Score),
		fmt.Sprintf("Lines: %d", snap.LinesCleared),
	}
	if snap.IsOver() {
		lines = append(lines, "", "GAME OVER")
		if snap.EndReason != model.EndReasonNone {
			lines = append(lines, "("+string(snap.EndReason)+")")
		}
		lines = append(lines, "press q to quit")
	}
	return lines
}

// CanvasSize returns the size in pixels of a board plus its sidebar
func CanvasSize(boardWidth, boardHeight, cellSize int) (int, int) {
	return (boardWidth + SidebarCells) * cellSize, boardHeight * cellSize
}

// CSSColor formats a colour as a #rrggbb string for web pages
func CSSColor(c model.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// CSSPalette returns every palette colour in index order as #rrggbb strings
func CSSPalette() []string {
	colors := make([]string, model.PaletteSize())
	for i := range colors {
		c, _ := model.PaletteColor(i)
		colors[i] = CSSColor(c)
	}
	return colors
}
