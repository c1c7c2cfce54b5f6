package guard

import (
	"net/url"
	"path"
	"strings"

	"github.com/adityakumar60853/nirmaan/internal/account"
	"github.com/adityakumar60853/nirmaan/internal/token"
)

// LoginPath is where unauthenticated callers are sent.
const LoginPath = "/login"

// Rule protects every view under Prefix.
type Rule struct {
	Prefix string
	Need   Requirement
}

// Policy maps presentation paths to requirements. The longest matching
// prefix wins; unmatched paths are public.
type Policy []Rule

// DefaultPolicy is the portal's view map.
func DefaultPolicy() Policy {
	return Policy{
		{Prefix: "/admin", Need: RoleIn(account.RoleAdmin)},
		{Prefix: "/csc", Need: RoleIn(account.RoleCSCOperator)},
		{Prefix: "/job-provider", Need: RoleIn(account.RoleJobProvider)},
		{Prefix: "/provider", Need: RoleIn(account.RoleJobProvider)},
		{Prefix: "/user", Need: RoleIn(account.RoleRegular)},
		{Prefix: "/dashboard", Need: AnyRole()},
		{Prefix: "/courses", Need: AnyRole()},
		{Prefix: "/vacancies", Need: AnyRole()},
	}
}

// Match returns the requirement for p, or false if p is public. Any query
// or fragment on p is ignored.
func (pol Policy) Match(p string) (Requirement, bool) {
	p, _ = splitLocation(p)
	best := -1
	for i, rule := range pol {
		if p != rule.Prefix && !strings.HasPrefix(p, rule.Prefix+"/") {
			continue
		}
		if best < 0 || len(rule.Prefix) > len(pol[best].Prefix) {
			best = i
		}
	}
	if best < 0 {
		return Requirement{}, false
	}
	return pol[best].Need, true
}

var landing = map[account.Role]string{
	account.RoleRegular:     "/user",
	account.RoleJobProvider: "/job-provider",
	account.RoleCSCOperator: "/csc",
	account.RoleAdmin:       "/admin",
}

// LandingView is the default view for role.
func LandingView(role account.Role) string {
	if v, ok := landing[role]; ok {
		return v
	}
	return "/"
}

// Outcome tells the presentation tier what to do with a navigation.
type Outcome string

const (
	Allow    Outcome = "allow"
	Login    Outcome = "login"
	Redirect Outcome = "redirect"
)

// Decision is the result of Resolve.
type Decision struct {
	Outcome  Outcome      `json:"outcome"`
	Path     string       `json:"path"`
	Location string       `json:"location,omitempty"`
	Role     account.Role `json:"role,omitempty"`
}

// Resolve decides a navigation to p. Unauthenticated callers go to the login
// view with p, query and fragment included, preserved in next; callers with
// the wrong role go to their own landing view instead of an error page.
func (pol Policy) Resolve(p string, claims *token.Claims) Decision {
	route, rest := splitLocation(p)
	p = route + rest
	d := Decision{Outcome: Allow, Path: p}
	if claims != nil {
		d.Role = claims.Role
	}

	need, protected := pol.Match(route)
	if !protected {
		return d
	}
	switch Evaluate(claims, need) {
	case Unauthenticated:
		d.Outcome = Login
		d.Location = LoginPath + "?next=" + url.QueryEscape(p)
	case Denied:
		d.Outcome = Redirect
		d.Location = LandingView(claims.Role)
	}
	return d
}

// splitLocation separates the cleaned path of a location from its query
// and fragment, which are returned unchanged.
func splitLocation(loc string) (p, rest string) {
	if i := strings.IndexAny(loc, "?#"); i >= 0 {
		return cleanPath(loc[:i]), loc[i:]
	}
	return cleanPath(loc), ""
}

func cleanPath(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}
