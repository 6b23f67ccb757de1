package model

import "errors"

// Common errors used across the application
var (
	// Configuration errors
	ErrInvalidBoardSize = errors.New("invalid board size")
	ErrInvalidTickRate  = errors.New("invalid tick rate")

	// Score errors
	ErrScoreNotFound     = errors.New("score not found")
	ErrScoreExists       = errors.New("score already exists")
	ErrInvalidScore      = errors.New("invalid score record")
	ErrInvalidPlayerName = errors.New("invalid player name")
	ErrInvalidLimit      = errors.New("invalid limit")

	// Bot errors
	ErrUnknownStrategy = errors.New("unknown bot strategy")
)
