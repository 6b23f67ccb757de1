package model

// EventType identifies the type of event
type EventType string

const (
	EventPieceSpawned EventType = "piece_spawned"
	EventPieceLocked  EventType = "piece_locked"
	EventLinesCleared EventType = "lines_cleared"
	EventGameOver     EventType = "game_over"
)

// Event is emitted by the game controller during a tick
type Event struct {
	Type    EventType `json:"type"`
	Tick    int       `json:"tick"`
	Payload any       `json:"payload"` // Type-specific data
}

// PieceSpawnedPayload contains data for piece spawned events
type PieceSpawnedPayload struct {
	Kind       ShapeKind `json:"kind"`
	ColorIndex int       `json:"color_index"`
}

// PieceLockedPayload contains data for piece locked events
type PieceLockedPayload struct {
	Kind  ShapeKind `json:"kind"`
	Cells []Point   `json:"cells"`
}

// LinesClearedPayload contains data for lines cleared events
type LinesClearedPayload struct {
	Lines  int `json:"lines"`
	Points int `json:"points"`
	Score  int `json:"score"`
}

// GameOverPayload contains data for game over events
type GameOverPayload struct {
	Reason       EndReason `json:"reason"`
	Score        int       `json:"score"`
	LinesCleared int       `json:"lines_cleared"`
}
