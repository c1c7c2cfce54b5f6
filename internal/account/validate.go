package account

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/adityakumar60853/nirmaan/internal/apperr"
	"github.com/adityakumar60853/nirmaan/internal/validation"
)

// MaxPasswordBytes is bcrypt's input limit. It counts bytes, not runes, so
// a password in an Indic script reaches it at about 24 characters.
const MaxPasswordBytes = 72

// Normalize trims and NFC-normalizes the text fields of reg and lower-cases
// the email. Registration input arrives from many keyboards and IMEs, so the
// same visible string can come in different Unicode forms.
func (r *Registration) Normalize() {
	r.Name = CleanText(r.Name)
	r.Email = NormalizeEmail(r.Email)
	r.Contact = strings.ReplaceAll(strings.TrimSpace(r.Contact), " ", "")

	switch p := r.Profile.(type) {
	case *RegularProfile:
		p.NationalID = strings.ReplaceAll(strings.TrimSpace(p.NationalID), " ", "")
		p.Address = CleanText(p.Address)
		p.WorkCategory = CleanText(p.WorkCategory)
		p.State = CleanText(p.State)
		p.District = CleanText(p.District)
	case *JobProviderProfile:
		p.CompanySector = CleanText(p.CompanySector)
		p.CompanyAddress = CleanText(p.CompanyAddress)
	}
}

// Validate checks reg and returns the first problem as an
// *apperr.ValidationError. now is used to reject future birth dates.
func (r *Registration) Validate(now time.Time) error {
	if r.Profile == nil {
		return apperr.Validation("role", "is required")
	}
	if err := validation.Struct(r); err != nil {
		return err
	}
	if len(r.Password) > MaxPasswordBytes {
		return apperr.Validation("password", fmt.Sprintf("must be at most %d bytes", MaxPasswordBytes))
	}
	if err := validation.Struct(r.Profile); err != nil {
		return err
	}
	if p, ok := r.Profile.(*RegularProfile); ok {
		if p.DateOfBirth.IsZero() {
			return apperr.Validation("date_of_birth", "is required")
		}
		if !p.DateOfBirth.Before(now) {
			return apperr.Validation("date_of_birth", "must be in the past")
		}
	}
	return nil
}

// CleanText trims s and converts it to Unicode NFC.
func CleanText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// NormalizeEmail is the canonical form used for storage and lookups.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
