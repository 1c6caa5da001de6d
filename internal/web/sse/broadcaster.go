package sse

import (
	"encoding/json"
	"log/slog"

	"github.com/mcoot/wordrush/internal/api/response"
	"github.com/mcoot/wordrush/internal/model"
	"github.com/mcoot/wordrush/internal/services/session"
)

// Broadcaster delivers session events to SSE clients as JSON
type Broadcaster struct {
	hubManager *HubManager
	logger     *slog.Logger
}

var _ session.Notifier = (*Broadcaster)(nil)

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		logger:     logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// Broadcast sends evt to every client of the session
func (b *Broadcaster) Broadcast(id model.SessionID, evt model.Event) {
	hub := b.hubManager.GetHub(id)
	if hub == nil {
		return
	}

	data, ok := b.encode(evt)
	if !ok {
		return
	}
	hub.BroadcastEvent(string(evt.Type), data)
}

// SendTo sends evt to the clients of one player
func (b *Broadcaster) SendTo(id model.SessionID, playerID model.PlayerID, evt model.Event) {
	hub := b.hubManager.GetHub(id)
	if hub == nil {
		return
	}

	data, ok := b.encode(evt)
	if !ok {
		return
	}
	hub.SendEvent(playerID, string(evt.Type), data)
}

func (b *Broadcaster) encode(evt model.Event) (string, bool) {
	data, err := json.Marshal(response.EventFromModel(evt))
	if err != nil {
		b.logger.Error("sse failed to encode event",
			slog.String("session", string(evt.SessionID)),
			slog.String("type", string(evt.Type)),
			slog.Any("error", err))
		return "", false
	}
	return string(data), true
}
