package response

import (
	"time"

	"github.com/mcoot/wordrush/internal/model"
)

// Event is the wire form of a room event
type Event struct {
	Type      string    `json:"type"`
	SessionID string    `json:"session_id"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// PlayerJoined is the data of a player_joined event
type PlayerJoined struct {
	Name        string   `json:"name"`
	Reconnected bool     `json:"reconnected"`
	Players     []Player `json:"players"`
}

// PlayerLeft is the data of a player_left event
type PlayerLeft struct {
	Name    string   `json:"name"`
	Players []Player `json:"players"`
}

// HostChanged is the data of a host_changed event
type HostChanged struct {
	OldHost string `json:"old_host,omitempty"`
	NewHost string `json:"new_host,omitempty"`
}

// RoundStarted is the data of a round_started event
type RoundStarted struct {
	Snapshot Snapshot `json:"snapshot"`
}

// Tick is the data of a tick event
type Tick struct {
	RemainingSeconds int `json:"remaining_seconds"`
}

// WordClaimed is the data of a word_claimed event
type WordClaimed struct {
	Word       string `json:"word"`
	Player     string `json:"player"`
	Score      int    `json:"score"`
	TotalScore int    `json:"total_score"`
}

// ScoresUpdated is the data of a scores_updated event
type ScoresUpdated struct {
	Players []Player `json:"players"`
}

// EventFromModel converts model.Event and its payload
func EventFromModel(e model.Event) Event {
	return Event{
		Type:      string(e.Type),
		SessionID: string(e.SessionID),
		Timestamp: e.Timestamp,
		Data:      eventData(e.Payload),
	}
}

func eventData(payload any) any {
	switch p := payload.(type) {
	case model.PlayerJoinedPayload:
		return PlayerJoined{Name: p.Name, Reconnected: p.Reconnected, Players: PlayersFromModel(p.Players)}
	case model.PlayerLeftPayload:
		return PlayerLeft{Name: p.Name, Players: PlayersFromModel(p.Players)}
	case model.HostChangedPayload:
		return HostChanged{OldHost: p.OldHost, NewHost: p.NewHost}
	case model.RoundStartedPayload:
		return RoundStarted{Snapshot: SnapshotFromModel(p.Snapshot)}
	case model.TickPayload:
		return Tick{RemainingSeconds: p.RemainingSeconds}
	case model.WordClaimedPayload:
		return WordClaimed{Word: p.Word, Player: p.PlayerName, Score: p.Score, TotalScore: p.TotalScore}
	case model.WordAcceptedPayload:
		return SubmitResponse{Word: p.Word, Score: p.Score, TotalScore: p.TotalScore}
	case model.ScoresUpdatedPayload:
		return ScoresUpdated{Players: PlayersFromModel(p.Players)}
	case model.RoundEndedPayload:
		return RoundResultFromModel(&p.Result)
	default:
		return p
	}
}
