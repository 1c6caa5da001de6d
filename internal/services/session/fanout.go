package session

import "github.com/mcoot/wordrush/internal/model"

// Fanout delivers every event to each of its notifiers in order
type Fanout []Notifier

var _ Notifier = Fanout(nil)

// Broadcast forwards to every notifier
func (f Fanout) Broadcast(id model.SessionID, evt model.Event) {
	for _, n := range f {
		n.Broadcast(id, evt)
	}
}

// SendTo forwards to every notifier
func (f Fanout) SendTo(id model.SessionID, playerID model.PlayerID, evt model.Event) {
	for _, n := range f {
		n.SendTo(id, playerID, evt)
	}
}
