package account

import (
	"time"
)

// Account is a persisted identity with exactly one role.
//
// Role is create-only: gorm never writes it on update. PasswordHash is only
// loaded by the credential lookup used at login.
type Account struct {
	ID           string `gorm:"type:uuid;primaryKey"`
	Name         string `gorm:"not null"`
	Email        string `gorm:"not null;uniqueIndex:idx_accounts_email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Role         Role   `gorm:"<-:create;type:text;not null"`
	Contact      string `gorm:"not null;uniqueIndex:idx_accounts_contact"`

	// regular only. NULL for other roles, so the unique index ignores them.
	NationalID   *string `gorm:"uniqueIndex:idx_accounts_national_id"`
	Address      *string
	AnnualIncome *int64
	WorkCategory *string
	State        *string
	District     *string
	DateOfBirth  *time.Time `gorm:"type:date"`

	// job_provider only
	CompanySector  *string
	CompanyAddress *string

	CreatedAt time.Time `gorm:"not null"`
}

func (Account) TableName() string { return "app_auth.accounts" }

// Summary is the public identity returned with a session token.
type Summary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// View is the public representation of an account. It has no password field.
type View struct {
	Summary
	Contact        string    `json:"contact"`
	NationalID     *string   `json:"national_id,omitempty"`
	Address        *string   `json:"address,omitempty"`
	AnnualIncome   *int64    `json:"annual_income,omitempty"`
	WorkCategory   *string   `json:"work_category,omitempty"`
	State          *string   `json:"state,omitempty"`
	District       *string   `json:"district,omitempty"`
	DateOfBirth    *string   `json:"date_of_birth,omitempty"`
	CompanySector  *string   `json:"company_sector,omitempty"`
	CompanyAddress *string   `json:"company_address,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Summary returns the id, name, email and role of a.
func (a *Account) Summary() Summary {
	return Summary{ID: a.ID, Name: a.Name, Email: a.Email, Role: a.Role}
}

// View returns the public representation of a.
func (a *Account) View() View {
	v := View{
		Summary:        a.Summary(),
		Contact:        a.Contact,
		NationalID:     a.NationalID,
		Address:        a.Address,
		AnnualIncome:   a.AnnualIncome,
		WorkCategory:   a.WorkCategory,
		State:          a.State,
		District:       a.District,
		CompanySector:  a.CompanySector,
		CompanyAddress: a.CompanyAddress,
		CreatedAt:      a.CreatedAt,
	}
	if a.DateOfBirth != nil {
		s := a.DateOfBirth.Format(DateLayout)
		v.DateOfBirth = &s
	}
	return v
}
