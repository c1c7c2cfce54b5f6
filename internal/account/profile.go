package account

import (
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// Profile carries the role-specific registration fields. Each role has its
// own variant, so a profile only ever holds the fields its role requires.
// Variants are used through pointers.
type Profile interface {
	Role() Role
	apply(a *Account)
}

// RegularProfile is the variant for job seekers and scheme beneficiaries.
type RegularProfile struct {
	NationalID   string    `json:"national_id" validate:"required,number,len=12"`
	Address      string    `json:"address" validate:"required,max=500"`
	AnnualIncome *int64    `json:"annual_income" validate:"required,min=0"`
	WorkCategory string    `json:"work_category" validate:"required,max=100"`
	State        string    `json:"state" validate:"required,max=100"`
	District     string    `json:"district" validate:"required,max=100"`
	DateOfBirth  time.Time `json:"date_of_birth"`
}

func (*RegularProfile) Role() Role { return RoleRegular }

func (p *RegularProfile) apply(a *Account) {
	a.NationalID = ptr(p.NationalID)
	a.Address = ptr(p.Address)
	income := *p.AnnualIncome
	a.AnnualIncome = &income
	a.WorkCategory = ptr(p.WorkCategory)
	a.State = ptr(p.State)
	a.District = ptr(p.District)
	dob := p.DateOfBirth.UTC()
	a.DateOfBirth = &dob
}

// JobProviderProfile is the variant for employers.
type JobProviderProfile struct {
	CompanySector  string `json:"company_sector" validate:"required,max=100"`
	CompanyAddress string `json:"company_address" validate:"required,max=500"`
}

func (*JobProviderProfile) Role() Role { return RoleJobProvider }

func (p *JobProviderProfile) apply(a *Account) {
	a.CompanySector = ptr(p.CompanySector)
	a.CompanyAddress = ptr(p.CompanyAddress)
}

// OperatorProfile is the variant for CSC operators. It has no extra fields.
type OperatorProfile struct{}

func (*OperatorProfile) Role() Role { return RoleCSCOperator }

func (*OperatorProfile) apply(*Account) {}

// AdminProfile is the variant for administrators. It has no extra fields.
type AdminProfile struct{}

func (*AdminProfile) Role() Role { return RoleAdmin }

func (*AdminProfile) apply(*Account) {}

// Registration is the input for creating an account.
type Registration struct {
	Name     string  `json:"name" validate:"required,max=100"`
	Email    string  `json:"email" validate:"required,email,max=254"`
	Password string  `json:"password" validate:"required,min=6"`
	Contact  string  `json:"contact" validate:"required,contact"`
	Profile  Profile `json:"-" validate:"-"`
}

// Role is the role implied by the profile variant.
func (r Registration) Role() Role {
	if r.Profile == nil {
		return ""
	}
	return r.Profile.Role()
}

// New builds the account to persist for a validated registration.
func New(reg Registration, id, passwordHash string, now time.Time) *Account {
	a := &Account{
		ID:           id,
		Name:         reg.Name,
		Email:        reg.Email,
		PasswordHash: passwordHash,
		Role:         reg.Role(),
		Contact:      reg.Contact,
		CreatedAt:    now.UTC(),
	}
	reg.Profile.apply(a)
	return a
}

func ptr(s string) *string { return &s }
