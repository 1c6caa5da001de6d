package request

import "github.com/mcoot/wordrush/internal/model"

// CreateSessionRequest is the request body for creating a session.
// Zero fields fall back to the server defaults.
type CreateSessionRequest struct {
	Mode            string `json:"mode,omitempty"`
	LetterCount     int    `json:"letter_count,omitempty"`
	MinWordLength   int    `json:"min_word_length,omitempty"`
	DurationSeconds int    `json:"duration_seconds,omitempty"`
	MaxPlayers      int    `json:"max_players,omitempty"`
}

// Options converts the request into option overrides
func (r CreateSessionRequest) Options() model.Options {
	return model.Options{
		Mode:            model.Mode(r.Mode),
		LetterCount:     r.LetterCount,
		MinWordLength:   r.MinWordLength,
		DurationSeconds: r.DurationSeconds,
		MaxPlayers:      r.MaxPlayers,
	}
}

// JoinRequest is the request body for joining a session
type JoinRequest struct {
	Name string `json:"name"`
}

// SubmitWordRequest is the request body for submitting a word
type SubmitWordRequest struct {
	Word string `json:"word"`
}
