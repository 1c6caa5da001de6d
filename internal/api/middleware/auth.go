package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mcoot/wordrush/internal/api/apierr"
	"github.com/mcoot/wordrush/internal/model"
)

type contextKey string

const playerContextKey contextKey = "player"

// PlayerQueryParam carries the player id for clients that cannot set headers (EventSource)
const PlayerQueryParam = "player"

// Auth requires a player id, handed out by join, as bearer token
func Auth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			ctx := context.WithValue(r.Context(), playerContextKey, model.PlayerID(token))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth extracts the player id if present but doesn't require it
func OptionalAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				token = r.URL.Query().Get(PlayerQueryParam)
			}
			if token != "" {
				r = r.WithContext(context.WithValue(r.Context(), playerContextKey, model.PlayerID(token)))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// extractToken extracts the bearer token from the request
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	return ""
}

// GetPlayerID returns the caller's player id, or "" for anonymous callers
func GetPlayerID(ctx context.Context) model.PlayerID {
	id, _ := ctx.Value(playerContextKey).(model.PlayerID)
	return id
}

// MustGetPlayerID returns the caller's player id or panics
func MustGetPlayerID(ctx context.Context) model.PlayerID {
	id := GetPlayerID(ctx)
	if id == "" {
		panic("no player in context - auth middleware not applied?")
	}
	return id
}
