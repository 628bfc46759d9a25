// ABOUTME: Route guard deciding whether a protected screen may render
// ABOUTME: Loading never redirects; no session and wrong role both redirect to login

package guard

import (
	"slices"

	"github.com/markalston/storefront-cli/internal/models"
	"github.com/markalston/storefront-cli/internal/session"
)

// LoginRoute is where rejected navigations land
const LoginRoute = "/login"

// Decision is the guard's verdict for one evaluation
type Decision int

const (
	DecisionLoading Decision = iota
	DecisionRedirect
	DecisionRender
)

func (d Decision) String() string {
	switch d {
	case DecisionRedirect:
		return "redirect"
	case DecisionRender:
		return "render"
	default:
		return "loading"
	}
}

// Rule lists the roles allowed to view a route. A nil Rule means public.
type Rule struct {
	Roles []models.Role
}

// Require builds a rule for the given roles
func Require(roles ...models.Role) *Rule {
	return &Rule{Roles: roles}
}

// Allows reports whether role is in the rule
func (r Rule) Allows(role models.Role) bool {
	return slices.Contains(r.Roles, role)
}

// Evaluate decides render, redirect, or loading for s under r
func Evaluate(s session.Snapshot, r Rule) Decision {
	if s.Status != session.StatusReady {
		return DecisionLoading
	}
	if s.Identity == nil || s.Token == "" {
		return DecisionRedirect
	}
	if !r.Allows(s.Identity.Role) {
		return DecisionRedirect
	}
	return DecisionRender
}

// Check evaluates an optional rule; public routes always render once ready
func Check(s session.Snapshot, r *Rule) Decision {
	if r == nil {
		if s.Status != session.StatusReady {
			return DecisionLoading
		}
		return DecisionRender
	}
	return Evaluate(s, *r)
}
