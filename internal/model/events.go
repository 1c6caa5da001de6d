package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	// Membership events
	EventPlayerJoined EventType = "player_joined"
	EventPlayerLeft   EventType = "player_left"
	EventHostChanged  EventType = "host_changed"

	// Round events
	EventRoundStarted  EventType = "round_started"
	EventTick          EventType = "tick"
	EventWordClaimed   EventType = "word_claimed"
	EventWordAccepted  EventType = "word_accepted"
	EventScoresUpdated EventType = "scores_updated"
	EventRoundEnded    EventType = "round_ended"
)

// Event is the envelope delivered to room members
type Event struct {
	Type      EventType
	Timestamp time.Time
	SessionID SessionID
	Payload   any // Type-specific data
}

// PlayerJoinedPayload contains data for player joined events
type PlayerJoinedPayload struct {
	Name        string
	Reconnected bool
	Players     []PlayerView
}

// PlayerLeftPayload contains data for player left events
type PlayerLeftPayload struct {
	Name    string
	Players []PlayerView
}

// HostChangedPayload contains data for host changed events
type HostChangedPayload struct {
	OldHost string
	NewHost string // Empty when nobody connected is left
}

// RoundStartedPayload is sent to each player individually
type RoundStartedPayload struct {
	Snapshot Snapshot
}

// TickPayload contains the countdown state
type TickPayload struct {
	RemainingSeconds int
}

// WordClaimedPayload is broadcast to the whole room in exclusive mode
type WordClaimedPayload struct {
	Word       string
	PlayerName string
	Score      int
	TotalScore int
}

// WordAcceptedPayload is sent only to the submitter in free-for-all mode
type WordAcceptedPayload struct {
	Word       string
	Score      int
	TotalScore int
}

// ScoresUpdatedPayload is broadcast in free-for-all mode without revealing words
type ScoresUpdatedPayload struct {
	Players []PlayerView
}

// RoundEndedPayload carries the final results
type RoundEndedPayload struct {
	Result RoundResult
}
