package mocks

import (
	"sync"

	"github.com/mcoot/wordrush/internal/model"
)

// Delivery is one event captured by MockNotifier.
// Target is empty for broadcasts; Direct tells broadcasts from sends to spectators.
type Delivery struct {
	SessionID model.SessionID
	Target    model.PlayerID
	Direct    bool
	Event     model.Event
}

// MockNotifier records every event it is asked to deliver
type MockNotifier struct {
	mu         sync.Mutex
	deliveries []Delivery
}

// NewMockNotifier creates an empty MockNotifier
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

// Broadcast records a room-wide event
func (n *MockNotifier) Broadcast(id model.SessionID, evt model.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.deliveries = append(n.deliveries, Delivery{SessionID: id, Event: evt})
}

// SendTo records a targeted event
func (n *MockNotifier) SendTo(id model.SessionID, playerID model.PlayerID, evt model.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.deliveries = append(n.deliveries, Delivery{SessionID: id, Target: playerID, Direct: true, Event: evt})
}

// Deliveries returns a copy of everything recorded so far
func (n *MockNotifier) Deliveries() []Delivery {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Delivery(nil), n.deliveries...)
}

// OfType returns the recorded deliveries with the given event type
func (n *MockNotifier) OfType(t model.EventType) []Delivery {
	var out []Delivery
	for _, d := range n.Deliveries() {
		if d.Event.Type == t {
			out = append(out, d)
		}
	}
	return out
}

// Reset clears the recorded deliveries
func (n *MockNotifier) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.deliveries = nil
}
