// ABOUTME: Closed set of platform roles and their display names
// ABOUTME: Wire values match the backend's USER/SELLER/ADMIN strings

package models

import "fmt"

// Role is the backend role attached to an identity
type Role string

const (
	RoleCustomer Role = "USER"
	RoleSeller   Role = "SELLER"
	RoleAdmin    Role = "ADMIN"
)

// Roles lists every known role in display order
var Roles = []Role{RoleCustomer, RoleSeller, RoleAdmin}

// ParseRole converts a wire value to a Role, rejecting unknown values
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleCustomer, RoleSeller, RoleAdmin:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Known reports whether r is one of the closed set of roles
func (r Role) Known() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// Label returns the human-facing name for the role
func (r Role) Label() string {
	switch r {
	case RoleCustomer:
		return "Customer"
	case RoleSeller:
		return "Seller"
	case RoleAdmin:
		return "Administrator"
	default:
		return "Unknown"
	}
}
