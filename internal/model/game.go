package model

// Phase represents the coarse lifecycle of a game
type Phase string

const (
	PhaseRunning Phase = "running"
	PhaseOver    Phase = "over" // Terminal
)

// EndReason records why a game reached PhaseOver
type EndReason string

const (
	EndReasonNone     EndReason = ""
	EndReasonOverflow EndReason = "overflow" // Locked blocks reached row 0
	EndReasonBlocked  EndReason = "blocked"  // A new piece had no room
	EndReasonQuit     EndReason = "quit"     // The player asked to stop
)

// IsValid reports whether r is one of the reasons a finished game can carry
func (r EndReason) IsValid() bool {
	switch r {
	case EndReasonOverflow, EndReasonBlocked, EndReasonQuit:
		return true
	}
	return false
}

// GameState is the complete simulation state owned by a game controller
type GameState struct {
	Board        *Board
	Active       *Piece
	Upcoming     *Piece
	Score        int
	LinesCleared int
	Ticks        int
	Phase        Phase
	EndReason    EndReason
}

// IsOver returns true once the game has ended
func (s *GameState) IsOver() bool {
	return s.Phase == PhaseOver
}

// Snapshot returns a deep copy safe to hand to renderers
func (s *GameState) Snapshot() Snapshot {
	board := s.Board.Clone()
	return Snapshot{
		Width:        board.Width,
		Height:       board.Height,
		Cells:        board.Cells,
		Active:       s.Active.Clone(),
		Upcoming:     s.Upcoming.Clone(),
		Score:        s.Score,
		LinesCleared: s.LinesCleared,
		Ticks:        s.Ticks,
		Phase:        s.Phase,
		EndReason:    s.EndReason,
	}
}

// Snapshot is a read-only view of a game after a tick
type Snapshot struct {
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	Cells        [][]int   `json:"cells"`
	Active       *Piece    `json:"active"`
	Upcoming     *Piece    `json:"upcoming"`
	Score        int       `json:"score"`
	LinesCleared int       `json:"lines_cleared"`
	Ticks        int       `json:"ticks"`
	Phase        Phase     `json:"phase"`
	EndReason    EndReason `json:"end_reason,omitempty"`
}

// IsOver returns true if the snapshot was taken after the game ended
func (s Snapshot) IsOver() bool {
	return s.Phase == PhaseOver
}

// Board rebuilds a board from the snapshot cells
func (s Snapshot) Board() *Board {
	b := &Board{Width: s.Width, Height: s.Height, Cells: s.Cells}
	return b.Clone()
}

// CellAt returns the value to draw at a cell, including the active piece.
// Locked cells take precedence over the active piece.
func (s Snapshot) CellAt(row, col int) int {
	if row < 0 || row >= s.Height || col < 0 || col >= s.Width {
		return 0
	}
	if v := s.Cells[row][col]; v != 0 {
		return v
	}
	if s.Active != nil {
		for _, cell := range s.Active.Cells() {
			if cell.X == col && cell.Y == row {
				return s.Active.CellValue()
			}
		}
	}
	return 0
}
