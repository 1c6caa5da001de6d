package response

import (
	"time"

	"github.com/mcoot/wordrush/internal/model"
	"github.com/mcoot/wordrush/internal/services/session"
)

// Options represents session options in API responses
type Options struct {
	Mode            string `json:"mode"`
	LetterCount     int    `json:"letter_count"`
	MinWordLength   int    `json:"min_word_length"`
	DurationSeconds int    `json:"duration_seconds"`
	MaxPlayers      int    `json:"max_players"`
}

// OptionsFromModel converts model.Options
func OptionsFromModel(o model.Options) Options {
	return Options{
		Mode:            string(o.Mode),
		LetterCount:     o.LetterCount,
		MinWordLength:   o.MinWordLength,
		DurationSeconds: o.DurationSeconds,
		MaxPlayers:      o.MaxPlayers,
	}
}

// Player represents a player in API responses
type Player struct {
	Name      string `json:"name"`
	Score     int    `json:"score"`
	Connected bool   `json:"connected"`
	IsHost    bool   `json:"is_host"`
}

// PlayersFromModel converts a player list
func PlayersFromModel(views []model.PlayerView) []Player {
	players := make([]Player, len(views))
	for i, v := range views {
		players[i] = Player{
			Name:      v.Name,
			Score:     v.Score,
			Connected: v.Connected,
			IsHost:    v.IsHost,
		}
	}
	return players
}

// Claim represents an accepted word
type Claim struct {
	Word           string  `json:"word"`
	Player         string  `json:"player"`
	Score          int     `json:"score"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
}

// ClaimsFromModel converts a claim list
func ClaimsFromModel(claims []model.Claim) []Claim {
	out := make([]Claim, len(claims))
	for i, c := range claims {
		out[i] = Claim{
			Word:           c.Word,
			Player:         c.PlayerName,
			Score:          c.Score,
			ElapsedSeconds: c.ElapsedSeconds,
		}
	}
	return out
}

// Ranking is one line of the final standings
type Ranking struct {
	Rank      int    `json:"rank"`
	Player    string `json:"player"`
	Score     int    `json:"score"`
	WordCount int    `json:"word_count"`
}

// RoundResult represents final results
type RoundResult struct {
	SessionID     string    `json:"session_id"`
	Mode          string    `json:"mode"`
	Letters       string    `json:"letters"`
	MinWordLength int       `json:"min_word_length"`
	Rankings      []Ranking `json:"rankings"`
	Claims        []Claim   `json:"claims"`
	PossibleWords []string  `json:"possible_words"`
	StartedAt     time.Time `json:"started_at"`
	EndedAt       time.Time `json:"ended_at"`
}

// RoundResultFromModel converts model.RoundResult
func RoundResultFromModel(r *model.RoundResult) RoundResult {
	rankings := make([]Ranking, len(r.Rankings))
	for i, rk := range r.Rankings {
		rankings[i] = Ranking{
			Rank:      rk.Rank,
			Player:    rk.PlayerName,
			Score:     rk.Score,
			WordCount: rk.WordCount,
		}
	}

	possible := r.PossibleWords
	if possible == nil {
		possible = []string{}
	}

	return RoundResult{
		SessionID:     string(r.SessionID),
		Mode:          string(r.Mode),
		Letters:       r.Letters,
		MinWordLength: r.MinWordLength,
		Rankings:      rankings,
		Claims:        ClaimsFromModel(r.Claims),
		PossibleWords: possible,
		StartedAt:     r.StartedAt,
		EndedAt:       r.EndedAt,
	}
}

// RoundSummary is one line of the recent rounds list
type RoundSummary struct {
	SessionID     string    `json:"session_id"`
	Mode          string    `json:"mode"`
	Letters       string    `json:"letters"`
	Players       int       `json:"players"`
	Winner        string    `json:"winner,omitempty"`
	TopScore      int       `json:"top_score"`
	WordsFound    int       `json:"words_found"`
	PossibleWords int       `json:"possible_words"`
	EndedAt       time.Time `json:"ended_at"`
}

// RoundSummaryFromModel condenses model.RoundResult. Tied leaders leave Winner empty.
func RoundSummaryFromModel(r *model.RoundResult) RoundSummary {
	s := RoundSummary{
		SessionID:     string(r.SessionID),
		Mode:          string(r.Mode),
		Letters:       r.Letters,
		Players:       len(r.Rankings),
		WordsFound:    len(r.Claims),
		PossibleWords: len(r.PossibleWords),
		EndedAt:       r.EndedAt,
	}
	if len(r.Rankings) > 0 {
		s.TopScore = r.Rankings[0].Score
		if len(r.Rankings) == 1 || r.Rankings[1].Rank != r.Rankings[0].Rank {
			s.Winner = r.Rankings[0].PlayerName
		}
	}
	return s
}

// RecentResultsResponse lists archived rounds, latest first
type RecentResultsResponse struct {
	Results []RoundSummary `json:"results"`
}

// Snapshot represents the state of a session as seen by one client
type Snapshot struct {
	SessionID        string       `json:"session_id"`
	Mode             string       `json:"mode"`
	Status           string       `json:"status"`
	Letters          string       `json:"letters"`
	MinWordLength    int          `json:"min_word_length"`
	DurationSeconds  int          `json:"duration_seconds"`
	RemainingSeconds int          `json:"remaining_seconds"`
	Host             string       `json:"host,omitempty"`
	You              string       `json:"you,omitempty"`
	Players          []Player     `json:"players"`
	Claims           []Claim      `json:"claims"`
	Result           *RoundResult `json:"result,omitempty"`
}

// SnapshotFromModel converts model.Snapshot
func SnapshotFromModel(s model.Snapshot) Snapshot {
	var result *RoundResult
	if s.Result != nil {
		r := RoundResultFromModel(s.Result)
		result = &r
	}

	return Snapshot{
		SessionID:        string(s.ID),
		Mode:             string(s.Mode),
		Status:           string(s.Status),
		Letters:          s.Letters,
		MinWordLength:    s.MinWordLength,
		DurationSeconds:  s.DurationSeconds,
		RemainingSeconds: s.RemainingSeconds,
		Host:             s.HostName,
		You:              s.YourName,
		Players:          PlayersFromModel(s.Players),
		Claims:           ClaimsFromModel(s.Claims),
		Result:           result,
	}
}

// CreateSessionResponse is returned when a session is created
type CreateSessionResponse struct {
	SessionID string  `json:"session_id"`
	Options   Options `json:"options"`
}

// JoinResponse is returned to a joining player. PlayerID is their bearer token.
type JoinResponse struct {
	PlayerID    string   `json:"player_id"`
	IsHost      bool     `json:"is_host"`
	Reconnected bool     `json:"reconnected"`
	Snapshot    Snapshot `json:"snapshot"`
}

// JoinResponseFromResult converts session.JoinResult
func JoinResponseFromResult(r *session.JoinResult) JoinResponse {
	return JoinResponse{
		PlayerID:    string(r.PlayerID),
		IsHost:      r.IsHost,
		Reconnected: r.Reconnected,
		Snapshot:    SnapshotFromModel(r.Snapshot),
	}
}

// SubmitResponse is returned for an accepted word
type SubmitResponse struct {
	Word       string `json:"word"`
	Score      int    `json:"score"`
	TotalScore int    `json:"total_score"`
}

// SubmitResponseFromModel converts model.SubmitResult
func SubmitResponseFromModel(r *model.SubmitResult) SubmitResponse {
	return SubmitResponse{
		Word:       r.Word,
		Score:      r.Score,
		TotalScore: r.TotalScore,
	}
}

// HealthResponse reports service status
type HealthResponse struct {
	Status         string `json:"status"`
	DictionarySize int    `json:"dictionary_size"`
	ActiveSessions int    `json:"active_sessions"`
}
