package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/oops"
	"golang.org/x/crypto/bcrypt"

	"github.com/adityakumar60853/nirmaan/internal/account"
	"github.com/adityakumar60853/nirmaan/internal/apperr"
	"github.com/adityakumar60853/nirmaan/internal/metrics"
	"github.com/adityakumar60853/nirmaan/internal/token"
)

// Session is returned by Register and Login.
type Session struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	User      account.Summary `json:"user"`
}

// Credentials is the login input. Role names the portal the user signs in
// through.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Service implements registration, login, logout and the caller's profile.
type Service struct {
	accounts account.Store
	hasher   *Hasher
	tokens   *token.Service
	log      *slog.Logger
	now      func() time.Time
}

// NewService wires a Service.
func NewService(accounts account.Store, hasher *Hasher, tokens *token.Service, logger *slog.Logger) *Service {
	return &Service{
		accounts: accounts,
		hasher:   hasher,
		tokens:   tokens,
		log:      logger,
		now:      time.Now,
	}
}

// Register creates an account through the public portal and signs the user
// in. Administrators cannot self-register.
func (s *Service) Register(ctx context.Context, reg account.Registration) (*Session, error) {
	a, err := s.create(ctx, reg, false)
	metrics.RecordAuthAttempt("register", outcome(err))
	if err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "account registered", "account_id", a.ID, "role", a.Role)
	return s.session(a)
}

// CreateAdmin provisions an administrator. It is only reachable from the
// operator CLI.
func (s *Service) CreateAdmin(ctx context.Context, reg account.Registration) (*account.Account, error) {
	reg.Profile = &account.AdminProfile{}
	a, err := s.create(ctx, reg, true)
	if err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "admin account created", "account_id", a.ID)
	return a, nil
}

func (s *Service) create(ctx context.Context, reg account.Registration, allowAdmin bool) (*account.Account, error) {
	reg.Normalize()
	if err := reg.Validate(s.now()); err != nil {
		return nil, err
	}
	if reg.Role() == account.RoleAdmin && !allowAdmin {
		return nil, apperr.Validation("role", "admin accounts cannot be self-registered")
	}

	// The unique indexes decide; these checks only give a friendly error
	// before paying for a hash.
	if err := s.precheck(ctx, reg); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(ctx, reg.Password)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, apperr.Validation("password", fmt.Sprintf("must be at most %d bytes", account.MaxPasswordBytes))
	}
	if err != nil {
		return nil, oops.Code("PASSWORD_HASH_FAILED").Wrap(err)
	}

	a := account.New(reg, uuid.NewString(), hash, s.now())
	if err := s.accounts.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) precheck(ctx context.Context, reg account.Registration) error {
	type check struct {
		field account.UniqueField
		value string
	}
	checks := []check{
		{account.FieldEmail, reg.Email},
		{account.FieldContact, reg.Contact},
	}
	if p, ok := reg.Profile.(*account.RegularProfile); ok {
		checks = append(checks, check{account.FieldNationalID, p.NationalID})
	}
	for _, c := range checks {
		taken, err := s.accounts.Exists(ctx, c.field, c.value)
		if err != nil {
			return err
		}
		if taken {
			return apperr.Duplicate(string(c.field))
		}
	}
	return nil
}

// Login verifies credentials for the portal named by c.Role.
func (s *Service) Login(ctx context.Context, c Credentials) (*Session, error) {
	sess, err := s.login(ctx, c)
	metrics.RecordAuthAttempt("login", outcome(err))
	return sess, err
}

func (s *Service) login(ctx context.Context, c Credentials) (*Session, error) {
	switch {
	case strings.TrimSpace(c.Email) == "":
		return nil, apperr.Validation("email", "is required")
	case c.Password == "":
		return nil, apperr.Validation("password", "is required")
	}
	role, err := account.ParseRole(c.Role)
	if err != nil {
		return nil, err
	}

	a, err := s.accounts.FindByEmail(ctx, c.Email)
	if errors.Is(err, apperr.ErrNotFound) {
		s.hasher.CompareDummy(ctx, c.Password)
		return nil, apperr.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if a.Role != role {
		return nil, &apperr.RoleMismatchError{Role: string(a.Role)}
	}

	ok, err := s.hasher.Compare(ctx, a.PasswordHash, c.Password)
	if err != nil {
		return nil, oops.Code("PASSWORD_COMPARE_FAILED").With("account_id", a.ID).Wrap(err)
	}
	if !ok {
		return nil, apperr.ErrInvalidCredentials
	}
	return s.session(a)
}

// Logout acknowledges the end of a session. Tokens are stateless, so nothing
// is revoked; the client discards its copy.
func (s *Service) Logout(ctx context.Context, claims *token.Claims) error {
	if claims == nil {
		return apperr.ErrUnauthorized
	}
	s.log.InfoContext(ctx, "logout", "account_id", claims.AccountID())
	return nil
}

// Me returns the public profile of the account.
func (s *Service) Me(ctx context.Context, accountID string) (*account.View, error) {
	a, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}
	v := a.View()
	return &v, nil
}

func (s *Service) session(a *account.Account) (*Session, error) {
	tok, exp, err := s.tokens.Issue(a.ID, a.Role)
	if err != nil {
		return nil, oops.Code("TOKEN_ISSUE_FAILED").With("account_id", a.ID).Wrap(err)
	}
	return &Session{Token: tok, ExpiresAt: exp, User: a.Summary()}, nil
}

func outcome(err error) string {
	switch apperr.KindOf(err) {
	case "":
		return metrics.OutcomeSuccess
	case apperr.KindValidation:
		return metrics.OutcomeValidation
	case apperr.KindDuplicate:
		return metrics.OutcomeDuplicate
	case apperr.KindInvalidCredentials:
		return metrics.OutcomeInvalidCredentials
	case apperr.KindRoleMismatch:
		return metrics.OutcomeRoleMismatch
	default:
		return metrics.OutcomeError
	}
}
