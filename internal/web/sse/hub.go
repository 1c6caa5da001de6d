package sse

import (
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/wordrush/internal/model"
)

const hubQueueSize = 256

// delivery is one encoded frame. Direct deliveries only reach clients of target.
type delivery struct {
	target model.PlayerID
	direct bool
	frame  []byte
}

// Hub fans frames out to the event streams of one session.
// A client that cannot keep up is disconnected so it reconnects to a fresh snapshot.
type Hub struct {
	sessionID model.SessionID
	logger    *slog.Logger

	mu      sync.RWMutex
	clients map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	queue      chan delivery
	done       chan struct{}
	closeOnce  sync.Once
}

// NewHub creates a hub for a session. Run must be started for it to deliver.
func NewHub(sessionID model.SessionID, logger *slog.Logger) *Hub {
	return &Hub{
		sessionID:  sessionID,
		logger:     logger.With(slog.String("session", string(sessionID))),
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		queue:      make(chan delivery, hubQueueSize),
		done:       make(chan struct{}),
	}
}

// Run delivers frames until Close is called
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.add(c)
		case c := <-h.unregister:
			if h.drop(c) {
				h.logger.Info("sse client left",
					slog.String("player_id", string(c.playerID)),
					slog.Duration("connected_for", time.Since(c.connectedAt)))
			}
		case d := <-h.queue:
			h.deliver(d)
		case <-h.done:
			h.shutdown()
			return
		}
	}
}

func (h *Hub) add(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("sse client joined",
		slog.String("player_id", string(c.playerID)),
		slog.Int("clients", n))
}

// drop removes c and closes its stream. It reports whether c was registered.
func (h *Hub) drop(c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; !ok {
		return false
	}
	delete(h.clients, c)
	close(c.send)
	return true
}

func (h *Hub) deliver(d delivery) {
	var lagging []*Client

	h.mu.RLock()
	for c := range h.clients {
		if d.direct && c.playerID != d.target {
			continue
		}
		select {
		case c.send <- d.frame:
		default:
			lagging = append(lagging, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range lagging {
		if h.drop(c) {
			h.logger.Warn("sse client lagging, disconnected", slog.String("player_id", string(c.playerID)))
		}
	}
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	n := len(h.clients)
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
	h.mu.Unlock()

	h.logger.Info("sse hub closed", slog.Int("disconnected", n))
}

// Register adds a client. It returns false once the hub is closed.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client. Unknown or already dropped clients are ignored.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) enqueue(d delivery) {
	select {
	case h.queue <- d:
	default:
		h.logger.Warn("sse hub queue full, frame dropped")
	}
}

// BroadcastEvent sends a named event to every client
func (h *Hub) BroadcastEvent(event, data string) {
	h.enqueue(delivery{frame: encodeFrame(event, data)})
}

// SendEvent sends a named event to the clients of one player.
// An empty playerID addresses spectators.
func (h *Hub) SendEvent(playerID model.PlayerID, event, data string) {
	h.enqueue(delivery{target: playerID, direct: true, frame: encodeFrame(event, data)})
}

// Close stops the hub and ends every stream. Safe to call more than once.
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// ClientCount returns the number of open streams
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HubManager owns one hub per session with open streams
type HubManager struct {
	logger *slog.Logger

	mu   sync.RWMutex
	hubs map[model.SessionID]*Hub
}

// NewHubManager creates an empty HubManager
func NewHubManager(logger *slog.Logger) *HubManager {
	return &HubManager{
		logger: logger.With(slog.String("component", "sse")),
		hubs:   make(map[model.SessionID]*Hub),
	}
}

// GetOrCreateHub returns the running hub for a session, starting one if needed
func (m *HubManager) GetOrCreateHub(id model.SessionID) *Hub {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.hubs[id]; ok {
		return hub
	}
	hub := NewHub(id, m.logger)
	m.hubs[id] = hub
	go hub.Run()
	return hub
}

// GetHub returns the hub for a session, or nil if nobody has streamed it
func (m *HubManager) GetHub(id model.SessionID) *Hub {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hubs[id]
}

// RemoveHub closes and forgets a session's hub
func (m *HubManager) RemoveHub(id model.SessionID) {
	m.mu.Lock()
	hub, ok := m.hubs[id]
	delete(m.hubs, id)
	m.mu.Unlock()

	if ok {
		hub.Close()
		m.logger.Info("sse hub removed", slog.String("session", string(id)))
	}
}

// HubCount returns the number of live hubs
func (m *HubManager) HubCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.hubs)
}
