package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/blockfall/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeScoreNotFound     = "SCORE_NOT_FOUND"
	CodeScoreExists       = "SCORE_EXISTS"
	CodeInvalidScore      = "INVALID_SCORE"
	CodeInvalidPlayerName = "INVALID_PLAYER_NAME"
	CodeInvalidLimit      = "INVALID_LIMIT"
	CodeInvalidBoardSize  = "INVALID_BOARD_SIZE"
	CodeUnknownStrategy   = "UNKNOWN_STRATEGY"
	CodeNotStreaming      = "NOT_STREAMING"
	CodeInternalError     = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, model.ErrScoreNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeScoreNotFound, "Score not found"}}
	case errors.Is(err, model.ErrScoreExists):
		return &httpError{http.StatusConflict, APIError{CodeScoreExists, "Score already exists"}}
	case errors.Is(err, model.ErrInvalidScore):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidScore, err.Error()}}
	case errors.Is(err, model.ErrInvalidPlayerName):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidPlayerName, "Player name must be at most 32 printable characters"}}
	case errors.Is(err, model.ErrInvalidLimit):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidLimit, "Limit must be between 1 and 100"}}
	case errors.Is(err, model.ErrInvalidBoardSize):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidBoardSize, "Board dimensions must be between 1 and 100"}}
	case errors.Is(err, model.ErrUnknownStrategy):
		return &httpError{http.StatusBadRequest, APIError{CodeUnknownStrategy, "Unknown bot strategy"}}
	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewNotStreamingError reports that no live game is being spectated
func NewNotStreamingError() error {
	return &httpError{http.StatusNotFound, APIError{CodeNotStreaming, "No game is being streamed"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
