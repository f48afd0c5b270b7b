package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/contactform/backend/internal/repository"
)

// Handler serves the unauthenticated endpoints and the CORS policy.
type Handler struct {
	db             repository.DB
	allowedOrigins []string
	greeting       string
}

// New creates a Handler. allowedOrigins may contain "*" to accept any origin.
func New(db repository.DB, allowedOrigins []string, greeting string) *Handler {
	return &Handler{db: db, allowedOrigins: allowedOrigins, greeting: greeting}
}

// CORS applies the cross-origin policy and answers preflight requests.
func (h *Handler) CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); origin != "" && h.originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (h *Handler) originAllowed(origin string) bool {
	for _, o := range h.allowedOrigins {
		if o == "*" || strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
