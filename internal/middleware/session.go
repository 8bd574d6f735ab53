package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/tasktide/tasktide/internal/model"
)

// SessionSource exposes the currently established session, if any.
type SessionSource interface {
	User() *model.User
}

// RequireSession returns a middleware that rejects requests made
// while the session is Anonymous.
func RequireSession(logger *slog.Logger, sessions SessionSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sessions.User() == nil {
				logger.Warn("unauthenticated request",
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeSessionError(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeSessionError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": "authentication required",
		"code":  "UNAUTHENTICATED",
	})
}
