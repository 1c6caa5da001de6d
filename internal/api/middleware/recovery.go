package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/wordrush/internal/api/apierr"
	"github.com/mcoot/wordrush/internal/middleware"
)

// Recovery answers a panicking request with a JSON INTERNAL_ERROR
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger.With(slog.String("component", "http")), func(w http.ResponseWriter, _ *http.Request, _ any) {
		apierr.WriteError(w, apierr.NewInternalError())
	})
}
