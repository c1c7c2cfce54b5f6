package utils

import (
	"context"

	"github.com/adityakumar60853/nirmaan/internal/token"
)

type contextKey string

const ContextClaimsKey contextKey = "claims"

// WithClaims stores the verified token claims of the caller.
func WithClaims(ctx context.Context, c *token.Claims) context.Context {
	return context.WithValue(ctx, ContextClaimsKey, c)
}

// ClaimsFromContext returns the caller's claims, if Authenticate ran.
func ClaimsFromContext(ctx context.Context) (*token.Claims, bool) {
	c, ok := ctx.Value(ContextClaimsKey).(*token.Claims)
	return c, ok && c != nil
}

func GetUserIDFromContext(ctx context.Context) (string, bool) {
	c, ok := ClaimsFromContext(ctx)
	if !ok {
		return "", false
	}
	return c.AccountID(), true
}
