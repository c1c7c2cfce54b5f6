package account

import (
	"context"
	"errors"

	"github.com/samber/oops"
	"gorm.io/gorm"

	"github.com/adityakumar60853/nirmaan/internal/apperr"
	"github.com/adityakumar60853/nirmaan/internal/db"
)

// UniqueField names a column covered by a uniqueness invariant.
type UniqueField string

const (
	FieldEmail      UniqueField = "email"
	FieldContact    UniqueField = "contact"
	FieldNationalID UniqueField = "national_id"
)

// unique index name -> field reported to the client
var constraintFields = map[string]UniqueField{
	"idx_accounts_email":       FieldEmail,
	"idx_accounts_contact":     FieldContact,
	"idx_accounts_national_id": FieldNationalID,
}

// Store persists accounts.
type Store interface {
	// Create inserts a. A uniqueness conflict is returned as an
	// *apperr.DuplicateError naming the field.
	Create(ctx context.Context, a *Account) error

	// FindByEmail loads the account including its password hash.
	// It returns apperr.ErrNotFound when no account matches.
	FindByEmail(ctx context.Context, email string) (*Account, error)

	// Get loads the account without its password hash.
	Get(ctx context.Context, id string) (*Account, error)

	// Exists reports whether an account already uses value for field.
	Exists(ctx context.Context, field UniqueField, value string) (bool, error)
}

// GormStore implements Store on PostgreSQL.
type GormStore struct {
	gdb *gorm.DB
}

// NewGormStore creates a GormStore.
func NewGormStore(gdb *gorm.DB) *GormStore {
	return &GormStore{gdb: gdb}
}

// Migrate creates the app_auth schema and the accounts table with its unique
// indexes.
func Migrate(gdb *gorm.DB) error {
	if err := db.EnsureSchema(gdb, "app_auth"); err != nil {
		return oops.Code("ACCOUNT_MIGRATE_FAILED").With("schema", "app_auth").Wrap(err)
	}
	if err := gdb.AutoMigrate(&Account{}); err != nil {
		return oops.Code("ACCOUNT_MIGRATE_FAILED").Wrap(err)
	}
	return nil
}

func (s *GormStore) Create(ctx context.Context, a *Account) error {
	err := s.gdb.WithContext(ctx).Create(a).Error
	if err == nil {
		return nil
	}
	if constraint, ok := db.UniqueViolation(err); ok {
		if field, known := constraintFields[constraint]; known {
			return apperr.Duplicate(string(field))
		}
	}
	return oops.Code("ACCOUNT_CREATE_FAILED").With("role", a.Role).Wrap(err)
}

func (s *GormStore) FindByEmail(ctx context.Context, email string) (*Account, error) {
	var a Account
	err := s.gdb.WithContext(ctx).First(&a, "email = ?", NormalizeEmail(email)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, oops.Code("ACCOUNT_LOOKUP_FAILED").With("by", "email").Wrap(err)
	}
	return &a, nil
}

func (s *GormStore) Get(ctx context.Context, id string) (*Account, error) {
	var a Account
	err := s.gdb.WithContext(ctx).Omit("password_hash").First(&a, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, oops.Code("ACCOUNT_LOOKUP_FAILED").With("by", "id").Wrap(err)
	}
	return &a, nil
}

func (s *GormStore) Exists(ctx context.Context, field UniqueField, value string) (bool, error) {
	if _, ok := constraintFieldColumn(field); !ok {
		return false, oops.Code("ACCOUNT_LOOKUP_FAILED").Errorf("unknown unique field %q", field)
	}
	var n int64
	err := s.gdb.WithContext(ctx).Model(&Account{}).Where(string(field)+" = ?", value).Limit(1).Count(&n).Error
	if err != nil {
		return false, oops.Code("ACCOUNT_LOOKUP_FAILED").With("by", field).Wrap(err)
	}
	return n > 0, nil
}

func constraintFieldColumn(field UniqueField) (string, bool) {
	for _, f := range constraintFields {
		if f == field {
			return string(f), true
		}
	}
	return "", false
}
