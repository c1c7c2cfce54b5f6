package account_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adityakumar60853/nirmaan/internal/account"
	"github.com/adityakumar60853/nirmaan/internal/apperr"
	"github.com/adityakumar60853/nirmaan/internal/db/dbtest"
)

func newStore(t *testing.T) *account.GormStore {
	t.Helper()
	gdb := dbtest.Open(t)
	require.NoError(t, account.Migrate(gdb))
	t.Cleanup(func() { gdb.Exec(`TRUNCATE app_auth.accounts`) })
	return account.NewGormStore(gdb)
}

func operator(email, contact string) *account.Account {
	return &account.Account{
		ID:           uuid.NewString(),
		Name:         "Operator",
		Email:        email,
		PasswordHash: "$2a$10$notarealhash",
		Role:         account.RoleCSCOperator,
		Contact:      contact,
		CreatedAt:    time.Now().UTC(),
	}
}

func duplicateField(t *testing.T, err error) string {
	t.Helper()
	var derr *apperr.DuplicateError
	require.ErrorAs(t, err, &derr)
	return derr.Field
}

func TestGormStore_CreateAndRead(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	a := operator("op@example.com", "9000000001")
	require.NoError(t, store.Create(ctx, a))

	withHash, err := store.FindByEmail(ctx, "OP@example.com")
	require.NoError(t, err)
	assert.Equal(t, a.PasswordHash, withHash.PasswordHash)

	public, err := store.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, public.PasswordHash)
	assert.Equal(t, account.RoleCSCOperator, public.Role)

	_, err = store.Get(ctx, uuid.NewString())
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	exists, err := store.Exists(ctx, account.FieldContact, "9000000001")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestGormStore_UniqueIndexesMapToFields(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, operator("a@example.com", "9000000001")))

	err := store.Create(ctx, operator("a@example.com", "9000000002"))
	assert.Equal(t, "email", duplicateField(t, err))

	err = store.Create(ctx, operator("b@example.com", "9000000001"))
	assert.Equal(t, "contact", duplicateField(t, err))
}

func TestGormStore_NationalIDUniqueOnlyWhenPresent(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	// Two accounts without a national id must both fit.
	require.NoError(t, store.Create(ctx, operator("a@example.com", "9000000001")))
	require.NoError(t, store.Create(ctx, operator("b@example.com", "9000000002")))

	id := "123456789012"
	first := operator("c@example.com", "9000000003")
	first.Role, first.NationalID = account.RoleRegular, &id
	require.NoError(t, store.Create(ctx, first))

	second := operator("d@example.com", "9000000004")
	second.Role, second.NationalID = account.RoleRegular, &id
	assert.Equal(t, "national_id", duplicateField(t, store.Create(ctx, second)))
}

func TestGormStore_RoleIsCreateOnly(t *testing.T) {
	gdb := dbtest.Open(t)
	require.NoError(t, account.Migrate(gdb))
	t.Cleanup(func() { gdb.Exec(`TRUNCATE app_auth.accounts`) })
	store := account.NewGormStore(gdb)
	ctx := context.Background()

	a := operator("op@example.com", "9000000001")
	require.NoError(t, store.Create(ctx, a))

	a.Role = account.RoleAdmin
	require.NoError(t, gdb.Save(a).Error)

	got, err := store.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, account.RoleCSCOperator, got.Role)
}

func TestGormStore_ConcurrentDuplicateEmail(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = store.Create(ctx, operator("race@example.com", fmt.Sprintf("90000000%02d", i)))
		}()
	}
	wg.Wait()

	created := 0
	for _, err := range errs {
		if err == nil {
			created++
			continue
		}
		assert.Equal(t, "email", duplicateField(t, err))
	}
	assert.Equal(t, 1, created)
}
