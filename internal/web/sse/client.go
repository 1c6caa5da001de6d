package sse

import (
	"net/http"
	"strconv"
	"time"

	"github.com/mcoot/wordrush/internal/model"
)

const (
	keepalivePeriod = 15 * time.Second
	sendBufferSize  = 256

	// reconnectMillis is the retry delay browsers use after a dropped stream
	reconnectMillis = 2000
)

// connectedFrame is the payload of the first event on every stream
type connectedFrame struct {
	SessionID model.SessionID `json:"session_id"`
	Spectator bool            `json:"spectator"`
}

// Client is one open event stream. An empty playerID is a spectator.
type Client struct {
	hub         *Hub
	playerID    model.PlayerID
	send        chan []byte
	connectedAt time.Time
}

// NewClient creates a client bound to hub
func NewClient(hub *Hub, playerID model.PlayerID) *Client {
	return &Client{
		hub:         hub,
		playerID:    playerID,
		send:        make(chan []byte, sendBufferSize),
		connectedAt: time.Now(),
	}
}

// ServeSSE streams hub events to the response until the client goes away or
// the hub closes. initial, if non-nil, is called once the client is registered
// and its frame follows the connected event, so no event after it is missed.
func ServeSSE(w http.ResponseWriter, r *http.Request, hub *Hub, playerID model.PlayerID, initial func() ([]byte, error)) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	client := NewClient(hub, playerID)
	if !hub.Register(client) {
		http.Error(w, "Session closed", http.StatusGone)
		return
	}
	defer hub.Unregister(client)

	var first []byte
	if initial != nil {
		frame, err := initial()
		if err != nil {
			http.Error(w, "Failed to load session", http.StatusInternalServerError)
			return
		}
		first = frame
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("X-Accel-Buffering", "no")

	hello, err := FormatEvent("connected", connectedFrame{SessionID: hub.sessionID, Spectator: playerID == ""})
	if err != nil {
		return
	}
	if _, err := w.Write([]byte("retry: " + strconv.Itoa(reconnectMillis) + "\n\n")); err != nil {
		return
	}
	_, _ = w.Write(hello)
	if first != nil {
		_, _ = w.Write(first)
	}
	flusher.Flush()

	keepalive := time.NewTicker(keepalivePeriod)
	defer keepalive.Stop()

	for {
		var frame []byte
		select {
		case msg, open := <-client.send:
			if !open {
				return
			}
			frame = msg
		case <-keepalive.C:
			frame = []byte(": keepalive\n\n")
		case <-r.Context().Done():
			return
		}

		if _, err := w.Write(frame); err != nil {
			return
		}
		flusher.Flush()
	}
}
