package ws

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/mcoot/wordrush/internal/api/response"
	"github.com/mcoot/wordrush/internal/model"
	"github.com/mcoot/wordrush/internal/services/session"
)

// Manager tracks the sockets of every session and delivers events to them
type Manager struct {
	upgrader websocket.Upgrader
	logger   *slog.Logger

	mu    sync.RWMutex
	conns map[model.SessionID]map[*Conn]struct{}
}

var _ session.Notifier = (*Manager)(nil)

// NewManager creates a new Manager
func NewManager(logger *slog.Logger) *Manager {
	return &Manager{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: logger.With(slog.String("component", "ws")),
		conns:  make(map[model.SessionID]map[*Conn]struct{}),
	}
}

// Serve upgrades the request and runs the socket until it closes
func (m *Manager) Serve(w http.ResponseWriter, r *http.Request, sess *session.Session) error {
	wsConn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error
		return fmt.Errorf("upgrade websocket: %w", err)
	}

	c := newConn(wsConn, sess, m)
	m.attach(c)
	c.logger.Debug("ws connected")

	go c.writePump()
	c.readPump(r.Context())

	c.logger.Debug("ws disconnected")
	return nil
}

func (m *Manager) attach(c *Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := c.sess.ID()
	if m.conns[id] == nil {
		m.conns[id] = make(map[*Conn]struct{})
	}
	m.conns[id][c] = struct{}{}
}

func (m *Manager) detach(c *Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := c.sess.ID()
	delete(m.conns[id], c)
	if len(m.conns[id]) == 0 {
		delete(m.conns, id)
	}
}

// ConnCount returns the number of open sockets for a session
func (m *Manager) ConnCount(id model.SessionID) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.conns[id])
}

// CloseSession closes every socket of an evicted session
func (m *Manager) CloseSession(id model.SessionID) {
	m.mu.Lock()
	conns := m.conns[id]
	delete(m.conns, id)
	m.mu.Unlock()

	for c := range conns {
		c.closeSend()
	}
}

// Broadcast sends evt to every socket of the session
func (m *Manager) Broadcast(id model.SessionID, evt model.Event) {
	m.deliver(id, evt, func(*Conn) bool { return true })
}

// SendTo sends evt to the sockets bound to one player, or to unbound sockets when playerID is empty
func (m *Manager) SendTo(id model.SessionID, playerID model.PlayerID, evt model.Event) {
	m.deliver(id, evt, func(c *Conn) bool { return c.PlayerID() == playerID })
}

func (m *Manager) deliver(id model.SessionID, evt model.Event, match func(*Conn) bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	conns := m.conns[id]
	if len(conns) == 0 {
		return
	}

	data, err := json.Marshal(response.EventFromModel(evt))
	if err != nil {
		m.logger.Error("ws failed to encode event",
			slog.String("session", string(id)),
			slog.String("type", string(evt.Type)),
			slog.Any("error", err))
		return
	}

	for c := range conns {
		if match(c) {
			c.enqueue(data)
		}
	}
}
