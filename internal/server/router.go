// Package server assembles the HTTP surface of the API.
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/adityakumar60853/nirmaan/internal/auth"
	"github.com/adityakumar60853/nirmaan/internal/catalog"
	"github.com/adityakumar60853/nirmaan/internal/guard"
	"github.com/adityakumar60853/nirmaan/internal/metrics"
	"github.com/adityakumar60853/nirmaan/internal/middleware"
	"github.com/adityakumar60853/nirmaan/internal/token"
	"github.com/adityakumar60853/nirmaan/internal/utils"
)

// Deps are the collaborators the router needs. Limiter and Registry may be
// nil: no rate limiting and no /metrics endpoint respectively.
type Deps struct {
	Auth           *auth.Service
	Catalog        catalog.Store
	Tokens         token.Verifier
	Limiter        *middleware.RateLimiter
	Registry       *prometheus.Registry
	AllowedOrigins []string
	Logger         *slog.Logger
}

// NewRouter builds the root handler.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(d.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(d.AllowedOrigins))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if d.Registry != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(d.Registry))
	}

	var limit func(http.Handler) http.Handler
	if d.Limiter != nil {
		limit = d.Limiter.Middleware
	}

	catalogHandlers := catalog.NewHandlers(d.Catalog, d.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Mount("/auth", auth.SetupRoutes(auth.NewHandlers(d.Auth, d.Logger), d.Tokens, limit))
		r.Get("/access", guard.AccessHandler(guard.DefaultPolicy(), d.Tokens))
		r.Mount("/schemes", catalog.SchemeRoutes(catalogHandlers, d.Tokens))
		r.Mount("/courses", catalog.CourseRoutes(catalogHandlers, d.Tokens))
		r.Mount("/vacancies", catalog.VacancyRoutes(catalogHandlers, d.Tokens))
	})

	return r
}
