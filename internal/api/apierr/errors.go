package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/wordrush/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"` // Set for VALIDATION_FAILED
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeRateLimited      = "RATE_LIMITED"
	CodeSessionNotFound  = "SESSION_NOT_FOUND"
	CodeSessionFull      = "SESSION_FULL"
	CodeSessionEnded     = "SESSION_ENDED"
	CodeWrongState       = "WRONG_STATE"
	CodeInvalidOptions   = "INVALID_OPTIONS"
	CodePlayerNotFound   = "PLAYER_NOT_FOUND"
	CodeAlreadyJoined    = "ALREADY_JOINED"
	CodeNameTaken        = "NAME_TAKEN"
	CodeInvalidName      = "INVALID_NAME"
	CodeNotHost          = "NOT_HOST"
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeAlreadyClaimed   = "ALREADY_CLAIMED"
	CodeAlreadyUsedByYou = "ALREADY_USED_BY_YOU"
	CodeResultNotFound   = "RESULT_NOT_FOUND"
	CodeInternalError    = "INTERNAL_ERROR"
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

// FromError returns the status and body an error maps to
func FromError(err error) (int, APIError) {
	he := toHTTPError(err)
	return he.status, he.apiError
}

// IsInternal reports whether err is unexpected and should be logged
func IsInternal(err error) bool {
	return toHTTPError(err).status >= http.StatusInternalServerError
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	var ve *model.ValidationError
	if errors.As(err, &ve) {
		return &httpError{http.StatusUnprocessableEntity, APIError{CodeValidationFailed, ve.Error(), string(ve.Reason)}}
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrSessionNotFound):
		return &httpError{http.StatusNotFound, APIError{Code: CodeSessionNotFound, Message: "Session not found"}}
	case errors.Is(err, model.ErrResultNotFound):
		return &httpError{http.StatusNotFound, APIError{Code: CodeResultNotFound, Message: "No results for this session"}}
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{Code: CodePlayerNotFound, Message: "Player not found"}}
	case errors.Is(err, model.ErrSessionFull):
		return &httpError{http.StatusConflict, APIError{Code: CodeSessionFull, Message: "Session is full"}}
	case errors.Is(err, model.ErrSessionEnded):
		return &httpError{http.StatusConflict, APIError{Code: CodeSessionEnded, Message: "Session has ended"}}
	case errors.Is(err, model.ErrWrongState):
		return &httpError{http.StatusConflict, APIError{Code: CodeWrongState, Message: "Not allowed in the current session state"}}
	case errors.Is(err, model.ErrAlreadyJoined):
		return &httpError{http.StatusConflict, APIError{Code: CodeAlreadyJoined, Message: "Already joined this session"}}
	case errors.Is(err, model.ErrNameTaken):
		return &httpError{http.StatusConflict, APIError{Code: CodeNameTaken, Message: "Name is already taken"}}
	case errors.Is(err, model.ErrInvalidName):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidName, Message: "Name must be 1-20 characters"}}
	case errors.Is(err, model.ErrInvalidOptions):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidOptions, Message: "Invalid session options"}}
	case errors.Is(err, model.ErrNotHost):
		return &httpError{http.StatusForbidden, APIError{Code: CodeNotHost, Message: "Only the host can perform this action"}}
	case errors.Is(err, model.ErrAlreadyClaimed):
		return &httpError{http.StatusConflict, APIError{Code: CodeAlreadyClaimed, Message: "Word already claimed"}}
	case errors.Is(err, model.ErrAlreadyUsedByYou):
		return &httpError{http.StatusConflict, APIError{Code: CodeAlreadyUsedByYou, Message: "You already used this word"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{Code: CodeInternalError, Message: "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidRequest, Message: message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{Code: CodeUnauthorized, Message: "Authentication required"}}
}

// NewRateLimitedError creates a too many requests error
func NewRateLimitedError() error {
	return &httpError{http.StatusTooManyRequests, APIError{Code: CodeRateLimited, Message: "Too many requests"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{Code: CodeInternalError, Message: "Internal server error"}}
}
