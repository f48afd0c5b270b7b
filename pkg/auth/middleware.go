package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// RequireBearer rejects requests whose Authorization header does not carry
// the gate's secret, responding 401 with the cause-specific message.
func RequireBearer(g *Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, err := g.Validate(r.Header.Get("Authorization")); err != nil {
				slog.Warn("auth rejected", "path", r.URL.Path, "reason", err.Error())
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("WWW-Authenticate", "Bearer")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
