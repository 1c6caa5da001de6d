package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/mcoot/wordrush/internal/api/apierr"
	"github.com/mcoot/wordrush/internal/api/middleware"
	"github.com/mcoot/wordrush/internal/api/request"
	"github.com/mcoot/wordrush/internal/api/response"
	"github.com/mcoot/wordrush/internal/model"
	"github.com/mcoot/wordrush/internal/services/registry"
	"github.com/mcoot/wordrush/internal/services/session"
	"github.com/mcoot/wordrush/internal/storage"
	"github.com/mcoot/wordrush/internal/web/sse"
	"github.com/mcoot/wordrush/internal/web/ws"
)

// SnapshotEventName is the SSE event carrying the initial state of a stream
const SnapshotEventName = "snapshot"

// SessionHandler handles session endpoints
type SessionHandler struct {
	registry   *registry.Registry
	storage    storage.Storage
	hubManager *sse.HubManager
	wsManager  *ws.Manager
	logger     *slog.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(
	reg *registry.Registry,
	store storage.Storage,
	hubManager *sse.HubManager,
	wsManager *ws.Manager,
	logger *slog.Logger,
) *SessionHandler {
	return &SessionHandler{
		registry:   reg,
		storage:    store,
		hubManager: hubManager,
		wsManager:  wsManager,
		logger:     logger.With(slog.String("component", "session-handler")),
	}
}

// sessionID reads the path id. Codes are case-insensitive.
func sessionID(r *http.Request) model.SessionID {
	return model.SessionID(strings.ToUpper(mux.Vars(r)["id"]))
}

// lookup resolves the session named in the path, writing an error if absent
func (h *SessionHandler) lookup(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := h.registry.Get(sessionID(r))
	if err != nil {
		h.writeError(w, err)
		return nil, false
	}
	return sess, true
}

func (h *SessionHandler) writeError(w http.ResponseWriter, err error) {
	if apierr.IsInternal(err) {
		h.logger.Error("request failed", slog.Any("error", err))
	}
	apierr.WriteError(w, err)
}

// decode reads a JSON body. An empty body leaves v untouched when allowEmpty is set.
func decode(r *http.Request, v any, allowEmpty bool) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || (allowEmpty && errors.Is(err, io.EOF)) {
		return nil
	}
	return apierr.NewInvalidRequestError("Invalid request body")
}

// Create handles POST /api/v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateSessionRequest
	if err := decode(r, &req, true); err != nil {
		h.writeError(w, err)
		return
	}

	sess, err := h.registry.Create(r.Context(), req.Options())
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.CreateSessionResponse{
		SessionID: string(sess.ID()),
		Options:   response.OptionsFromModel(sess.Options()),
	})
}

// Get handles GET /api/v1/sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}

	snap := sess.Snapshot(middleware.GetPlayerID(r.Context()))
	response.JSON(w, http.StatusOK, response.SnapshotFromModel(snap))
}

// Join handles POST /api/v1/sessions/{id}/join
func (h *SessionHandler) Join(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req request.JoinRequest
	if err := decode(r, &req, false); err != nil {
		h.writeError(w, err)
		return
	}

	result, err := sess.Join(r.Context(), model.PlayerID(uuid.NewString()), req.Name)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.JoinResponseFromResult(result))
}

// Start handles POST /api/v1/sessions/{id}/start
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}

	if err := sess.Start(r.Context(), middleware.MustGetPlayerID(r.Context())); err != nil {
		h.writeError(w, err)
		return
	}

	response.NoContent(w)
}

// SubmitWord handles POST /api/v1/sessions/{id}/words
func (h *SessionHandler) SubmitWord(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req request.SubmitWordRequest
	if err := decode(r, &req, false); err != nil {
		h.writeError(w, err)
		return
	}

	result, err := sess.Submit(r.Context(), middleware.MustGetPlayerID(r.Context()), req.Word)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SubmitResponseFromModel(result))
}

// Leave handles POST /api/v1/sessions/{id}/leave
func (h *SessionHandler) Leave(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}

	if err := sess.Disconnect(r.Context(), middleware.MustGetPlayerID(r.Context())); err != nil {
		h.writeError(w, err)
		return
	}

	response.NoContent(w)
}

// Results handles GET /api/v1/sessions/{id}/results.
// Evicted sessions are served from storage.
func (h *SessionHandler) Results(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)

	sess, err := h.registry.Get(id)
	switch {
	case err == nil:
		result := sess.Result()
		if result == nil {
			h.writeError(w, model.ErrWrongState)
			return
		}
		response.JSON(w, http.StatusOK, response.RoundResultFromModel(result))
		return
	case !errors.Is(err, model.ErrSessionNotFound):
		h.writeError(w, err)
		return
	}

	result, err := h.storage.GetRoundResult(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.RoundResultFromModel(result))
}

// Events handles GET /api/v1/sessions/{id}/events as an SSE stream
func (h *SessionHandler) Events(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}

	playerID := middleware.GetPlayerID(r.Context())
	hub := h.hubManager.GetOrCreateHub(sess.ID())
	sse.ServeSSE(w, r, hub, playerID, func() ([]byte, error) {
		return sse.FormatEvent(SnapshotEventName, response.SnapshotFromModel(sess.Snapshot(playerID)))
	})
}

// Socket handles GET /api/v1/sessions/{id}/ws
func (h *SessionHandler) Socket(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}

	if err := h.wsManager.Serve(w, r, sess); err != nil {
		h.logger.Debug("websocket upgrade failed", slog.Any("error", err))
	}
}
