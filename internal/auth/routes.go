package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/adityakumar60853/nirmaan/internal/middleware"
	"github.com/adityakumar60853/nirmaan/internal/token"
)

// SetupRoutes mounts the auth endpoints. limit, when non-nil, wraps the
// unauthenticated credential endpoints.
func SetupRoutes(h *Handlers, verifier token.Verifier, limit func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		if limit != nil {
			r.Use(limit)
		}
		r.Post("/register", h.RegisterHandler)
		r.Post("/login", h.LoginHandler)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(verifier))
		r.Post("/logout", h.LogoutHandler)
		r.Get("/me", h.MeHandler)
	})

	return r
}
