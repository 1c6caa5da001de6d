package model

import (
	"errors"
	"fmt"
)

// Common errors used across the application
var (
	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionFull     = errors.New("session is full")
	ErrWrongState      = errors.New("action not allowed in current session state")
	ErrInvalidOptions  = errors.New("invalid session options")

	// Player errors
	ErrPlayerNotFound = errors.New("player not found")
	ErrAlreadyJoined  = errors.New("player has already joined")
	ErrNameTaken      = errors.New("name is already taken")
	ErrInvalidName    = errors.New("invalid name")
	ErrNotHost        = errors.New("player is not the host")

	// Claim errors
	ErrValidationFailed = errors.New("word failed validation")
	ErrAlreadyClaimed   = errors.New("word already claimed")
	ErrAlreadyUsedByYou = errors.New("word already used by you")

	// Dictionary errors
	ErrDictionaryNotLoaded = errors.New("dictionary not loaded")

	// Storage errors
	ErrResultNotFound = errors.New("round result not found")
)

// ErrSessionEnded is returned for actions on a finished round
var ErrSessionEnded error = stateError("session has ended")

// stateError is a wrong-state error with its own message.
// errors.Is(err, ErrWrongState) holds for every stateError.
type stateError string

func (e stateError) Error() string { return string(e) }

func (e stateError) Is(target error) bool { return target == ErrWrongState }

// ValidationReason says why a word was rejected
type ValidationReason string

const (
	ReasonEmpty      ValidationReason = "empty"
	ReasonTooShort   ValidationReason = "too_short"
	ReasonUnformable ValidationReason = "unformable"
	ReasonNotAWord   ValidationReason = "not_a_word"
)

// ValidationError carries the specific reason a word failed legality checks
type ValidationError struct {
	Word      string
	Reason    ValidationReason
	MinLength int
}

func (e *ValidationError) Error() string {
	switch e.Reason {
	case ReasonEmpty:
		return "word is empty"
	case ReasonTooShort:
		return fmt.Sprintf("%s is too short (minimum %d letters)", e.Word, e.MinLength)
	case ReasonUnformable:
		return fmt.Sprintf("%s cannot be formed from the letters", e.Word)
	case ReasonNotAWord:
		return fmt.Sprintf("%s is not in the dictionary", e.Word)
	default:
		return ErrValidationFailed.Error()
	}
}

// Is lets errors.Is(err, ErrValidationFailed) match every ValidationError
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}
