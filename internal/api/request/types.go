package request

// SubmitScoreRequest is the request body for recording a finished game
type SubmitScoreRequest struct {
	PlayerName   string `json:"player_name"`
	BotStrategy  string `json:"bot_strategy,omitempty"`
	Score        int    `json:"score"`
	LinesCleared int    `json:"lines_cleared"`
	Ticks        int    `json:"ticks"`
	BoardWidth   int    `json:"board_width"`
	BoardHeight  int    `json:"board_height"`
	Seed         int64  `json:"seed,omitempty"`
	EndReason    string `json:"end_reason"`
}
