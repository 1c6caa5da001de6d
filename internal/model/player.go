package model

import "time"

// PlayerID is the transport-session id of a connected player.
// It changes on reconnect; the display name is the stable identity within a room.
type PlayerID string

// Name length limits (in runes)
const (
	MinNameLength = 1
	MaxNameLength = 20
)

// Player is a participant in a single session
type Player struct {
	ID        PlayerID
	Name      string
	Score     int
	Connected bool
	JoinOrder int // Position in join order, used for host transfer and ranking ties
	JoinedAt  time.Time
}
