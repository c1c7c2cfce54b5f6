package account

import (
	"strings"

	"github.com/adityakumar60853/nirmaan/internal/apperr"
)

// Role is the closed set of account roles.
type Role string

const (
	RoleRegular     Role = "regular"
	RoleJobProvider Role = "job_provider"
	RoleCSCOperator Role = "csc_operator"
	RoleAdmin       Role = "admin"
)

// Roles lists every role.
var Roles = []Role{RoleRegular, RoleJobProvider, RoleCSCOperator, RoleAdmin}

// legacy role names still sent by older portal builds
var roleAliases = map[string]Role{
	"user":        RoleRegular,
	"jobprovider": RoleJobProvider,
	"csc":         RoleCSCOperator,
}

// ParseRole converts s to a Role.
func ParseRole(s string) (Role, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", apperr.Validation("role", "is required")
	}
	r := Role(s)
	if r.Valid() {
		return r, nil
	}
	if alias, ok := roleAliases[strings.ToLower(s)]; ok {
		return alias, nil
	}
	return "", apperr.Validation("role", "must be one of regular, job_provider, csc_operator, admin")
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleRegular, RoleJobProvider, RoleCSCOperator, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }
