package auth_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/adityakumar60853/nirmaan/internal/account"
	"github.com/adityakumar60853/nirmaan/internal/account/accounttest"
	"github.com/adityakumar60853/nirmaan/internal/apperr"
	"github.com/adityakumar60853/nirmaan/internal/auth"
	"github.com/adityakumar60853/nirmaan/internal/logging"
	"github.com/adityakumar60853/nirmaan/internal/metrics"
	"github.com/adityakumar60853/nirmaan/internal/token"
)

const testSecret = "auth-test-secret-0123456789"

type fixture struct {
	svc    *auth.Service
	store  *accounttest.MemoryStore
	tokens *token.Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := accounttest.NewMemoryStore()
	hasher, err := auth.NewHasher(bcrypt.MinCost, 4)
	require.NoError(t, err)
	tokens, err := token.NewService([]byte(testSecret), 7*24*time.Hour)
	require.NoError(t, err)
	return fixture{
		svc:    auth.NewService(store, hasher, tokens, logging.Discard()),
		store:  store,
		tokens: tokens,
	}
}

func income(n int64) *int64 { return &n }

func regularReg(email, contact, nationalID string) account.Registration {
	return account.Registration{
		Name:     "Sunita Devi",
		Email:    email,
		Password: "pass1234",
		Contact:  contact,
		Profile: &account.RegularProfile{
			NationalID:   nationalID,
			Address:      "Ward 4, Rampur",
			AnnualIncome: income(84000),
			WorkCategory: "Agriculture",
			State:        "Bihar",
			District:     "Gaya",
			DateOfBirth:  time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC),
		},
	}
}

func providerReg(email, contact string) account.Registration {
	return account.Registration{
		Name:     "Gaya Health Trust",
		Email:    email,
		Password: "pass1234",
		Contact:  contact,
		Profile: &account.JobProviderProfile{
			CompanySector:  "Healthcare",
			CompanyAddress: "Station Road, Gaya",
		},
	}
}

func TestRegister_RegularRequiresNationalID(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Register(context.Background(), regularReg("a@example.com", "9000000001", ""))
	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "national_id", verr.Field)
	assert.Equal(t, 0, f.store.Len())
}

func TestRegister_ProviderWithoutNationalID(t *testing.T) {
	f := newFixture(t)

	sess, err := f.svc.Register(context.Background(), providerReg("hr@example.com", "9000000002"))
	require.NoError(t, err)
	assert.Equal(t, account.RoleJobProvider, sess.User.Role)
	assert.NotEmpty(t, sess.Token)

	stored, ok := f.store.Raw(sess.User.ID)
	require.True(t, ok)
	assert.Nil(t, stored.NationalID)
}

func TestRegister_MultibytePasswordOverLimit(t *testing.T) {
	f := newFixture(t)

	reg := providerReg("hr@example.com", "9000000002")
	reg.Password = strings.Repeat("पासवर्ड", 5)
	_, err := f.svc.Register(context.Background(), reg)

	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Equal(t, "password", apperr.Field(err))
	assert.Equal(t, 0, f.store.Len())
}

func TestLogin_OverLongPasswordIsInvalidCredentials(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, providerReg("hr@example.com", "9000000002"))
	require.NoError(t, err)

	_, err = f.svc.Login(ctx, auth.Credentials{
		Email:    "hr@example.com",
		Password: strings.Repeat("पासवर्ड", 5),
		Role:     "job_provider",
	})
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
}

func TestRegister_DuplicateEmailAcrossRoles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, regularReg("same@example.com", "9000000001", "123456789012"))
	require.NoError(t, err)

	_, err = f.svc.Register(ctx, providerReg("SAME@example.com", "9000000002"))
	assert.Equal(t, apperr.KindDuplicate, apperr.KindOf(err))
	assert.Equal(t, "email", apperr.Field(err))
}

func TestRegister_DuplicateNationalID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, regularReg("a@example.com", "9000000001", "123456789012"))
	require.NoError(t, err)

	_, err = f.svc.Register(ctx, regularReg("b@example.com", "9000000002", "123456789012"))
	assert.Equal(t, "national_id", apperr.Field(err))
}

func TestRegister_ConcurrentDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Hold every insert until all prechecks have passed, so the store's
	// uniqueness check is what decides.
	const n = 10
	var arrived sync.WaitGroup
	arrived.Add(n)
	release := make(chan struct{})
	f.store.OnCreate = func(*account.Account) {
		arrived.Done()
		<-release
	}

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = f.svc.Register(ctx, providerReg("race@example.com", fmt.Sprintf("90000000%02d", i)))
		}()
	}
	arrived.Wait()
	close(release)
	wg.Wait()

	created := 0
	for _, err := range errs {
		if err == nil {
			created++
			continue
		}
		assert.Equal(t, apperr.KindDuplicate, apperr.KindOf(err))
		assert.Equal(t, "email", apperr.Field(err))
	}
	assert.Equal(t, 1, created)
	assert.Equal(t, 1, f.store.Len())
}

func TestRegister_PasswordNeverStoredOrReturned(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sess, err := f.svc.Register(ctx, regularReg("a@example.com", "9000000001", "123456789012"))
	require.NoError(t, err)

	stored, _ := f.store.Raw(sess.User.ID)
	assert.NotEqual(t, "pass1234", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("pass1234")))

	view, err := f.svc.Me(ctx, sess.User.ID)
	require.NoError(t, err)
	for _, v := range []any{sess, view} {
		raw, err := json.Marshal(v)
		require.NoError(t, err)
		assert.NotContains(t, string(raw), "password")
		assert.NotContains(t, string(raw), "$2a$")
	}
}

func TestRegister_AdminRejected(t *testing.T) {
	f := newFixture(t)
	reg := providerReg("root@example.com", "9000000009")
	reg.Profile = &account.AdminProfile{}

	_, err := f.svc.Register(context.Background(), reg)
	assert.Equal(t, "role", apperr.Field(err))
	assert.Equal(t, 0, f.store.Len())
}

func TestCreateAdmin_ThenLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.svc.CreateAdmin(ctx, providerReg("root@example.com", "9000000009"))
	require.NoError(t, err)
	assert.Equal(t, account.RoleAdmin, a.Role)
	assert.Nil(t, a.CompanySector)

	sess, err := f.svc.Login(ctx, auth.Credentials{Email: "root@example.com", Password: "pass1234", Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, a.ID, sess.User.ID)
}

func TestLogin_Success(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	reg, err := f.svc.Register(ctx, regularReg("a@example.com", "9000000001", "123456789012"))
	require.NoError(t, err)

	sess, err := f.svc.Login(ctx, auth.Credentials{Email: " A@Example.com ", Password: "pass1234", Role: "regular"})
	require.NoError(t, err)
	assert.Equal(t, reg.User, sess.User)

	claims, err := f.tokens.Verify(sess.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, claims.AccountID())
	assert.Equal(t, account.RoleRegular, claims.Role)
}

func TestLogin_LegacyRoleName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, regularReg("a@example.com", "9000000001", "123456789012"))
	require.NoError(t, err)

	_, err = f.svc.Login(ctx, auth.Credentials{Email: "a@example.com", Password: "pass1234", Role: "user"})
	assert.NoError(t, err)
}

func TestLogin_RoleMismatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, regularReg("a@example.com", "9000000001", "123456789012"))
	require.NoError(t, err)

	_, err = f.svc.Login(ctx, auth.Credentials{Email: "a@example.com", Password: "pass1234", Role: "job_provider"})
	var rerr *apperr.RoleMismatchError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "regular", rerr.Role)
	assert.Contains(t, err.Error(), "regular portal")
	assert.False(t, errors.Is(err, apperr.ErrInvalidCredentials))
}

func TestLogin_WrongPasswordMatchesUnknownEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, providerReg("hr@example.com", "9000000002"))
	require.NoError(t, err)

	_, wrongPass := f.svc.Login(ctx, auth.Credentials{Email: "hr@example.com", Password: "nope-nope", Role: "job_provider"})
	_, unknown := f.svc.Login(ctx, auth.Credentials{Email: "ghost@example.com", Password: "pass1234", Role: "job_provider"})

	require.Error(t, wrongPass)
	require.Error(t, unknown)
	assert.ErrorIs(t, wrongPass, apperr.ErrInvalidCredentials)
	assert.ErrorIs(t, unknown, apperr.ErrInvalidCredentials)
	assert.Equal(t, wrongPass.Error(), unknown.Error())
	assert.Equal(t, apperr.KindOf(wrongPass), apperr.KindOf(unknown))
}

func TestLogin_MissingFields(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		creds auth.Credentials
		field string
	}{
		{auth.Credentials{Password: "x", Role: "regular"}, "email"},
		{auth.Credentials{Email: "a@example.com", Role: "regular"}, "password"},
		{auth.Credentials{Email: "a@example.com", Password: "x"}, "role"},
		{auth.Credentials{Email: "a@example.com", Password: "x", Role: "mayor"}, "role"},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			_, err := f.svc.Login(context.Background(), tt.creds)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
			assert.Equal(t, tt.field, apperr.Field(err))
		})
	}
}

func TestLogout(t *testing.T) {
	f := newFixture(t)

	assert.ErrorIs(t, f.svc.Logout(context.Background(), nil), apperr.ErrUnauthorized)

	claims := &token.Claims{Role: account.RoleRegular}
	claims.Subject = "acc-1"
	assert.NoError(t, f.svc.Logout(context.Background(), claims))
}

func TestMe_Unknown(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Me(context.Background(), "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestAuthAttemptsRecorded(t *testing.T) {
	f := newFixture(t)
	counter := metrics.AuthAttempts.WithLabelValues("login", metrics.OutcomeInvalidCredentials)
	before := testutil.ToFloat64(counter)

	_, err := f.svc.Login(context.Background(), auth.Credentials{Email: "ghost@example.com", Password: "x", Role: "regular"})
	require.Error(t, err)

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestRegister_NormalizesInput(t *testing.T) {
	f := newFixture(t)
	reg := providerReg("  HR@Example.COM ", " 90000 00002 ")

	sess, err := f.svc.Register(context.Background(), reg)
	require.NoError(t, err)
	assert.Equal(t, "hr@example.com", sess.User.Email)

	stored, _ := f.store.Raw(sess.User.ID)
	assert.Equal(t, "9000000002", stored.Contact)
	assert.False(t, strings.Contains(stored.Email, " "))
}
