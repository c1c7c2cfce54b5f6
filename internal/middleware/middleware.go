package middleware

import (
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/adityakumar60853/nirmaan/internal/account"
	"github.com/adityakumar60853/nirmaan/internal/apperr"
	"github.com/adityakumar60853/nirmaan/internal/guard"
	"github.com/adityakumar60853/nirmaan/internal/metrics"
	"github.com/adityakumar60853/nirmaan/internal/token"
	"github.com/adityakumar60853/nirmaan/internal/utils"
)

// Authenticate requires a valid bearer token and stores its claims in the
// request context.
func Authenticate(verifier token.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := token.FromRequest(r)
			if raw == "" {
				utils.WriteError(w, r, nil, apperr.ErrUnauthorized)
				return
			}

			claims, err := verifier.Verify(raw)
			if err != nil {
				utils.WriteError(w, r, nil, apperr.ErrUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(utils.WithClaims(r.Context(), claims)))
		})
	}
}

// RequireRole lets the request through only if the caller's role is one of
// roles. It must run after Authenticate.
func RequireRole(roles ...account.Role) func(http.Handler) http.Handler {
	need := guard.RoleIn(roles...)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, _ := utils.ClaimsFromContext(r.Context())
			switch guard.Evaluate(claims, need) {
			case guard.Unauthenticated:
				utils.WriteError(w, r, nil, apperr.ErrUnauthorized)
			case guard.Denied:
				utils.WriteError(w, r, nil, apperr.ErrForbidden)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

// CORS echoes the Origin header back only for allow-listed origins.
func CORS(allowed []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if origin != "" && slices.Contains(allowed, origin) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods",
					"GET, POST, PUT, PATCH, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers",
					"Content-Type, Authorization")
				w.Header().Set("Access-Control-Max-Age", "600")
			}
			w.Header().Add("Vary", "Origin")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequestLogger logs one line per request and records its latency under the
// matched route pattern.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			elapsed := time.Since(start)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if p := rctx.RoutePattern(); p != "" {
					route = p
				}
			}
			metrics.RecordRequest(r.Method, route, strconv.Itoa(status), elapsed)

			level := slog.LevelInfo
			if status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			logger.Log(r.Context(), level, "http request",
				"method", r.Method,
				"path", r.URL.Path,
				"route", route,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration_ms", elapsed.Milliseconds(),
				"request_id", chimiddleware.GetReqID(r.Context()),
				"remote", r.RemoteAddr,
			)
		})
	}
}
