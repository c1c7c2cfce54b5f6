// Package accounttest provides an in-memory account.Store for tests.
package accounttest

import (
	"context"
	"sync"

	"github.com/adityakumar60853/nirmaan/internal/account"
	"github.com/adityakumar60853/nirmaan/internal/apperr"
)

// MemoryStore enforces the same uniqueness rules as the PostgreSQL indexes,
// atomically, so concurrent registrations race the way they do in production.
type MemoryStore struct {
	mu       sync.Mutex
	byID     map[string]account.Account
	OnCreate func(a *account.Account) // called before the uniqueness check, if set
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]account.Account)}
}

func (m *MemoryStore) Create(_ context.Context, a *account.Account) error {
	if m.OnCreate != nil {
		m.OnCreate(a)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.byID {
		switch {
		case existing.Email == a.Email:
			return apperr.Duplicate(string(account.FieldEmail))
		case existing.Contact == a.Contact:
			return apperr.Duplicate(string(account.FieldContact))
		case a.NationalID != nil && existing.NationalID != nil && *existing.NationalID == *a.NationalID:
			return apperr.Duplicate(string(account.FieldNationalID))
		}
	}
	m.byID[a.ID] = *a
	return nil
}

func (m *MemoryStore) FindByEmail(_ context.Context, email string) (*account.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	email = account.NormalizeEmail(email)
	for _, a := range m.byID {
		if a.Email == email {
			out := a
			return &out, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (m *MemoryStore) Get(_ context.Context, id string) (*account.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.byID[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	a.PasswordHash = ""
	return &a, nil
}

func (m *MemoryStore) Exists(_ context.Context, field account.UniqueField, value string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.byID {
		switch field {
		case account.FieldEmail:
			if a.Email == value {
				return true, nil
			}
		case account.FieldContact:
			if a.Contact == value {
				return true, nil
			}
		case account.FieldNationalID:
			if a.NationalID != nil && *a.NationalID == value {
				return true, nil
			}
		}
	}
	return false, nil
}

// Raw returns the stored record for id, including the password hash.
func (m *MemoryStore) Raw(id string) (account.Account, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	return a, ok
}

// Len returns the number of stored accounts.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}
