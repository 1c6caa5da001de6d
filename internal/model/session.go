package model

import "time"

// SessionID is a short human-shareable room code
type SessionID string

// Mode selects how claims are resolved and scored
type Mode string

const (
	ModeFreeForAll Mode = "free_for_all" // Every player may claim every word once
	ModeExclusive  Mode = "exclusive"    // First valid claim of a word wins it
)

// Valid reports whether m is a known mode
func (m Mode) Valid() bool {
	return m == ModeFreeForAll || m == ModeExclusive
}

// Status is the phase of a session's round
type Status string

const (
	StatusWaiting Status = "waiting" // Lobby, letters hidden
	StatusPlaying Status = "playing" // Round running
	StatusEnded   Status = "ended"   // Terminal
)

// Bounds for session options
const (
	MinLetterCount = 12
	MaxLetterCount = 16
	MinWordLength  = 2
	MaxDuration    = 600
	MaxPlayers     = 32
)

// MaskedLetter replaces every letter while a session is waiting
const MaskedLetter = '?'

// Options holds the per-session round settings
type Options struct {
	Mode            Mode
	LetterCount     int
	MinWordLength   int
	DurationSeconds int
	MaxPlayers      int
}

// DefaultOptions returns the options used when a creator supplies none
func DefaultOptions() Options {
	return Options{
		Mode:            ModeFreeForAll,
		LetterCount:     12,
		MinWordLength:   3,
		DurationSeconds: 60,
		MaxPlayers:      10,
	}
}

// Merge returns the defaults overridden by every non-zero field of o
func (o Options) Merge(defaults Options) Options {
	merged := defaults
	if o.Mode != "" {
		merged.Mode = o.Mode
	}
	if o.LetterCount != 0 {
		merged.LetterCount = o.LetterCount
	}
	if o.MinWordLength != 0 {
		merged.MinWordLength = o.MinWordLength
	}
	if o.DurationSeconds != 0 {
		merged.DurationSeconds = o.DurationSeconds
	}
	if o.MaxPlayers != 0 {
		merged.MaxPlayers = o.MaxPlayers
	}
	return merged
}

// Validate checks the options against the supported bounds
func (o Options) Validate() error {
	switch {
	case !o.Mode.Valid():
		return ErrInvalidOptions
	case o.LetterCount < MinLetterCount || o.LetterCount > MaxLetterCount:
		return ErrInvalidOptions
	case o.MinWordLength < MinWordLength || o.MinWordLength > o.LetterCount:
		return ErrInvalidOptions
	case o.DurationSeconds <= 0 || o.DurationSeconds > MaxDuration:
		return ErrInvalidOptions
	case o.MaxPlayers <= 0 || o.MaxPlayers > MaxPlayers:
		return ErrInvalidOptions
	}
	return nil
}

// Claim is one accepted word submission
type Claim struct {
	Word           string
	PlayerID       PlayerID
	PlayerName     string
	ElapsedSeconds float64
	Score          int
	ClaimedAt      time.Time
}

// SubmitResult is returned to the submitter of an accepted word
type SubmitResult struct {
	Word       string
	Score      int
	TotalScore int
}

// Ranking is one line of the final standings
type Ranking struct {
	Rank       int
	PlayerName string
	Score      int
	WordCount  int
}

// RoundResult is the archived outcome of a finished round
type RoundResult struct {
	SessionID     SessionID
	Mode          Mode
	Letters       string
	MinWordLength int
	Rankings      []Ranking
	Claims        []Claim
	PossibleWords []string
	StartedAt     time.Time
	EndedAt       time.Time
}

// PlayerView is a player as shown to other clients
type PlayerView struct {
	Name      string
	Score     int
	Connected bool
	IsHost    bool
}

// Snapshot is a point-in-time, viewer-filtered copy of a session
type Snapshot struct {
	ID               SessionID
	Mode             Mode
	Status           Status
	Letters          string
	MinWordLength    int
	DurationSeconds  int
	RemainingSeconds int
	HostName         string
	YourName         string
	Players          []PlayerView
	Claims           []Claim
	Result           *RoundResult
}
