package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// Hasher wraps bcrypt behind a bounded gate so that at most n hashes run at
// once. Callers wait on the gate with their request context.
type Hasher struct {
	cost  int
	gate  *semaphore.Weighted
	dummy []byte
}

// NewHasher creates a Hasher with the given bcrypt cost and concurrency.
func NewHasher(cost, workers int) (*Hasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range %d..%d", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	if workers < 1 {
		workers = 1
	}

	// Compared against when the account does not exist, so a miss costs the
	// same as a wrong password.
	seed := make([]byte, 32)
	if _, err := rand.Read(seed); err != nil {
		return nil, fmt.Errorf("seed dummy hash: %w", err)
	}
	dummy, err := bcrypt.GenerateFromPassword(seed[:24], cost)
	if err != nil {
		return nil, fmt.Errorf("build dummy hash: %w", err)
	}

	return &Hasher{cost: cost, gate: semaphore.NewWeighted(int64(workers)), dummy: dummy}, nil
}

// Hash returns the bcrypt hash of password.
func (h *Hasher) Hash(ctx context.Context, password string) (string, error) {
	if err := h.gate.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer h.gate.Release(1)

	out, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(out), nil
}

// Compare reports whether password matches hash. A mismatch is (false, nil);
// errors are reserved for cancellation and malformed hashes.
func (h *Hasher) Compare(ctx context.Context, hash, password string) (bool, error) {
	if err := h.gate.Acquire(ctx, 1); err != nil {
		return false, err
	}
	defer h.gate.Release(1)

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword),
		errors.Is(err, bcrypt.ErrPasswordTooLong):
		// Registration never stores a hash of an over-long password.
		return false, nil
	default:
		return false, fmt.Errorf("compare password: %w", err)
	}
}

// CompareDummy burns one comparison against a throwaway hash.
func (h *Hasher) CompareDummy(ctx context.Context, password string) {
	_, _ = h.Compare(ctx, string(h.dummy), password)
}
