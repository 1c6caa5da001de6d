package handler

import (
	"net/http"

	"github.com/mcoot/wordrush/internal/api/response"
)

// WordCounter reports the size of the loaded dictionary
type WordCounter interface {
	WordCount() int
}

// SessionCounter reports the number of live sessions
type SessionCounter interface {
	Count() int
}

// HealthHandler reports service health
type HealthHandler struct {
	dictionary WordCounter
	sessions   SessionCounter
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(dictionary WordCounter, sessions SessionCounter) *HealthHandler {
	return &HealthHandler{dictionary: dictionary, sessions: sessions}
}

// Get handles GET /health. An empty dictionary reports "degraded".
func (h *HealthHandler) Get(w http.ResponseWriter, _ *http.Request) {
	size := h.dictionary.WordCount()
	status := "ok"
	if size == 0 {
		status = "degraded"
	}

	response.JSON(w, http.StatusOK, response.HealthResponse{
		Status:         status,
		DictionarySize: size,
		ActiveSessions: h.sessions.Count(),
	})
}
