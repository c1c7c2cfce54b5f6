// Package guard decides whether a caller may reach a resource.
//
// A request moves through Unauthenticated, then Authenticated with a role,
// and ends Authorized or Denied. The API tier turns those states into 401 and
// 403; the presentation tier turns them into redirects (see Resolve).
package guard

import (
	"github.com/adityakumar60853/nirmaan/internal/account"
	"github.com/adityakumar60853/nirmaan/internal/token"
)

// State is the outcome of evaluating a request against a Requirement.
type State int

const (
	Unauthenticated State = iota
	Denied
	Authorized
)

func (s State) String() string {
	switch s {
	case Denied:
		return "denied"
	case Authorized:
		return "authorized"
	default:
		return "unauthenticated"
	}
}

// Requirement is the role predicate a resource declares.
type Requirement struct {
	any   bool
	roles []account.Role
}

// AnyRole is satisfied by every authenticated caller.
func AnyRole() Requirement { return Requirement{any: true} }

// RoleIn is satisfied when the caller's role is one of roles.
func RoleIn(roles ...account.Role) Requirement {
	return Requirement{roles: append([]account.Role(nil), roles...)}
}

// Allows reports whether role satisfies r.
func (r Requirement) Allows(role account.Role) bool {
	if !role.Valid() {
		return false
	}
	if r.any {
		return true
	}
	for _, allowed := range r.roles {
		if allowed == role {
			return true
		}
	}
	return false
}

// Roles lists the accepted roles, or nil for AnyRole.
func (r Requirement) Roles() []account.Role {
	if r.any {
		return nil
	}
	return append([]account.Role(nil), r.roles...)
}

// Evaluate runs the state machine for one request. claims is nil when the
// caller presented no valid token.
func Evaluate(claims *token.Claims, req Requirement) State {
	if claims == nil {
		return Unauthenticated
	}
	if !req.Allows(claims.Role) {
		return Denied
	}
	return Authorized
}
