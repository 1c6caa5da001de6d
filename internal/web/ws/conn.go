package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/mcoot/wordrush/internal/api/apierr"
	"github.com/mcoot/wordrush/internal/api/response"
	"github.com/mcoot/wordrush/internal/model"
	"github.com/mcoot/wordrush/internal/services/session"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 256

	// Frames per second a single socket may send, with a short burst allowance
	frameRate  = 10
	frameBurst = 20
)

// Conn is one websocket attached to a session. Its id becomes the player id
// once a join frame succeeds.
type Conn struct {
	id      model.PlayerID
	ws      *websocket.Conn
	sess    *session.Session
	manager *Manager
	limiter *rate.Limiter
	send    chan []byte
	logger  *slog.Logger

	mu     sync.RWMutex
	joined bool

	sendMu sync.Mutex
	closed bool
}

func newConn(ws *websocket.Conn, sess *session.Session, m *Manager) *Conn {
	id := model.PlayerID(uuid.NewString())
	return &Conn{
		id:      id,
		ws:      ws,
		sess:    sess,
		manager: m,
		limiter: rate.NewLimiter(frameRate, frameBurst),
		send:    make(chan []byte, sendBuffer),
		logger:  m.logger.With(slog.String("session", string(sess.ID())), slog.String("conn", string(id))),
	}
}

// PlayerID returns the bound player, or "" for a spectator
func (c *Conn) PlayerID() model.PlayerID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.joined {
		return ""
	}
	return c.id
}

func (c *Conn) markJoined() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.joined = true
}

// enqueue drops the frame if the client is too slow to drain its buffer
func (c *Conn) enqueue(data []byte) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if c.closed {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		c.logger.Warn("ws send buffer full, dropping frame")
		return false
	}
}

func (c *Conn) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func (c *Conn) reply(ack Ack) {
	data, err := json.Marshal(ack)
	if err != nil {
		c.logger.Error("ws failed to encode ack", slog.Any("error", err))
		return
	}
	c.enqueue(data)
}

// readPump handles inbound frames until the socket fails, then detaches the player
func (c *Conn) readPump(ctx context.Context) {
	defer func() {
		c.manager.detach(c)
		c.closeSend()
		if pid := c.PlayerID(); pid != "" {
			if err := c.sess.Disconnect(context.Background(), pid); err != nil && !errors.Is(err, model.ErrPlayerNotFound) {
				c.logger.Warn("ws disconnect failed", slog.Any("error", err))
			}
		}
		_ = c.ws.Close()
	}()

	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("ws read failed", slog.Any("error", err))
			}
			return
		}

		var in Inbound
		if err := json.Unmarshal(raw, &in); err != nil {
			c.reply(errAck(Inbound{}, apierr.NewInvalidRequestError("Malformed frame")))
			continue
		}
		if !c.limiter.Allow() {
			c.reply(errAck(in, apierr.NewRateLimitedError()))
			continue
		}

		c.reply(c.handle(ctx, in))
	}
}

func (c *Conn) handle(ctx context.Context, in Inbound) Ack {
	if in.Type == FrameJoin {
		result, err := c.sess.JoinAndBind(ctx, c.id, in.Name, c.markJoined)
		if err != nil {
			return c.failed(in, err)
		}
		return okAck(in, response.JoinResponseFromResult(result))
	}

	if in.Type == FrameState {
		return okAck(in, response.SnapshotFromModel(c.sess.Snapshot(c.PlayerID())))
	}

	pid := c.PlayerID()
	if pid == "" && (in.Type == FrameStart || in.Type == FrameSubmit) {
		return errAck(in, model.ErrPlayerNotFound)
	}

	switch in.Type {
	case FrameStart:
		if err := c.sess.Start(ctx, pid); err != nil {
			return c.failed(in, err)
		}
		return okAck(in, nil)
	case FrameSubmit:
		result, err := c.sess.Submit(ctx, pid, in.Word)
		if err != nil {
			return c.failed(in, err)
		}
		return okAck(in, response.SubmitResponseFromModel(result))
	default:
		return errAck(in, apierr.NewInvalidRequestError("Unknown frame type"))
	}
}

func (c *Conn) failed(in Inbound, err error) Ack {
	if apierr.IsInternal(err) {
		c.logger.Error("ws request failed", slog.String("request", in.Type), slog.Any("error", err))
	}
	return errAck(in, err)
}

// writePump drains the send buffer and keeps the socket alive with pings
func (c *Conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
