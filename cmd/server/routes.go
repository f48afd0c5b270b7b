package main

import (
	"net/http"

	"github.com/contactform/backend/internal/handler"
	"github.com/contactform/backend/pkg/auth"
)

// newRouter wires every endpoint. limiter may be nil to disable rate limiting
// on contact creation.
func newRouter(h *handler.Handler, contacts *handler.ContactHandler, gate *auth.Gate, limiter *handler.RateLimiter) http.Handler {
	requireAuth := auth.RequireBearer(gate)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /hello", h.Hello)
	mux.HandleFunc("GET /api/health", h.Health)

	var create http.Handler = requireAuth(http.HandlerFunc(contacts.Create))
	if limiter != nil {
		create = limiter.Middleware(create)
	}
	mux.Handle("POST /api/contact", create)
	mux.Handle("GET /api/contacts", requireAuth(http.HandlerFunc(contacts.List)))
	mux.Handle("DELETE /api/contacts", requireAuth(http.HandlerFunc(contacts.ClearAll)))

	return handler.RequestLogger(handler.SecurityHeaders(h.CORS(mux)))
}
