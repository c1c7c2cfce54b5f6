package guard

import (
	"net/http"
	"strings"

	"github.com/adityakumar60853/nirmaan/internal/apperr"
	"github.com/adityakumar60853/nirmaan/internal/token"
	"github.com/adityakumar60853/nirmaan/internal/utils"
)

// AccessHandler serves GET /api/access?path=<view>. The bearer token is
// optional; a missing or invalid one resolves as unauthenticated.
func AccessHandler(pol Policy, verifier token.Verifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := r.URL.Query().Get("path")
		if p == "" || !strings.HasPrefix(p, "/") {
			utils.WriteError(w, r, nil, apperr.Validation("path", "must be an absolute view path"))
			return
		}

		var claims *token.Claims
		if raw := token.FromRequest(r); raw != "" {
			if c, err := verifier.Verify(raw); err == nil {
				claims = c
			}
		}

		w.Header().Set("Cache-Control", "no-store")
		utils.WriteJSON(w, http.StatusOK, pol.Resolve(p, claims))
	}
}
