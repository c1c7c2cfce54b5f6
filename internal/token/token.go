// Package token issues and verifies the signed bearer tokens handed out at
// login and registration.
package token

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/adityakumar60853/nirmaan/internal/account"
)

// Issuer is the iss claim on every token.
const Issuer = "nirmaan"

// MinSecretLength is the shortest accepted signing secret, in bytes.
const MinSecretLength = 16

// ErrInvalidToken is returned for any token that fails verification.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims identify the bearer.
type Claims struct {
	Role account.Role `json:"role"`
	jwt.RegisteredClaims
}

// AccountID is the sub claim.
func (c *Claims) AccountID() string { return c.Subject }

// Service signs and verifies HS256 tokens with a single secret and TTL.
// It is safe for concurrent use.
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now. Tests use it to move through a token's lifetime.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a Service. The secret must be at least MinSecretLength
// bytes and ttl must be positive.
func NewService(secret []byte, ttl time.Duration, opts ...Option) (*Service, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("token secret must be at least %d bytes", MinSecretLength)
	}
	if ttl <= 0 {
		return nil, errors.New("token ttl must be positive")
	}
	s := &Service{
		secret: append([]byte(nil), secret...),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// TTL is the lifetime of issued tokens.
func (s *Service) TTL() time.Duration { return s.ttl }

// Issue signs a token for the account. It returns the token and its expiry.
func (s *Service) Issue(accountID string, role account.Role) (string, time.Time, error) {
	if accountID == "" || !role.Valid() {
		return "", time.Time{}, errors.New("token: account id and a valid role are required")
	}
	now := s.now()
	exp := now.Add(s.ttl)
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims.ExpiresAt.Time, nil
}

// Verify checks the signature, algorithm, issuer and expiry of raw and
// returns its claims. Every failure is ErrInvalidToken.
func (s *Service) Verify(raw string) (*Claims, error) {
	if raw == "" {
		return nil, ErrInvalidToken
	}
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(Issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" || !claims.Role.Valid() {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Verifier checks a raw token. *Service implements it.
type Verifier interface {
	Verify(raw string) (*Claims, error)
}

// FromRequest returns the bearer token in the Authorization header, or "".
func FromRequest(r *http.Request) string {
	h := r.Header.Get("Authorization")
	scheme, raw, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(raw)
}
