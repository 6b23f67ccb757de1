package testutil

import "github.com/mcoot/blockfall/internal/model"

// BoardFromRows builds a board from rows drawn with '#' for a locked cell
// and anything else for an empty one. Locked cells take the value 1.
func BoardFromRows(rows ...string) *model.Board {
	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}
	b := model.NewBoard(width, len(rows))
	for y, row := range rows {
		for x, ch := range row {
			if ch == '#' {
				b.Cells[y][x] = 1
			}
		}
	}
	return b
}
