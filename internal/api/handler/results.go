package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mcoot/wordrush/internal/api/apierr"
	"github.com/mcoot/wordrush/internal/api/response"
	"github.com/mcoot/wordrush/internal/storage"
)

const (
	defaultRecentLimit = 10
	maxRecentLimit     = 50
)

// ResultsHandler serves archived rounds
type ResultsHandler struct {
	storage storage.Storage
	logger  *slog.Logger
}

// NewResultsHandler creates a new results handler
func NewResultsHandler(store storage.Storage, logger *slog.Logger) *ResultsHandler {
	return &ResultsHandler{
		storage: store,
		logger:  logger.With(slog.String("component", "results-handler")),
	}
}

// Recent handles GET /api/v1/results?limit=N
func (h *ResultsHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := defaultRecentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxRecentLimit {
			apierr.WriteError(w, apierr.NewInvalidRequestError("limit must be between 1 and 50"))
			return
		}
		limit = n
	}

	results, err := h.storage.RecentRoundResults(r.Context(), limit)
	if err != nil {
		h.logger.Error("listing results failed", slog.Any("error", err))
		apierr.WriteError(w, err)
		return
	}

	summaries := make([]response.RoundSummary, len(results))
	for i, result := range results {
		summaries[i] = response.RoundSummaryFromModel(result)
	}
	response.JSON(w, http.StatusOK, response.RecentResultsResponse{Results: summaries})
}
