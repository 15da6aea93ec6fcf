// internal/models/role.go
package models

import (
	"fmt"
	"strings"
)

// Role is the closed set of account kinds on the platform. It is resolved once
// from an explicit identity claim and never guessed from e-mail or names.
type Role string

const (
	RoleStudent     Role = "student"
	RoleInstitution Role = "institution"
	RoleCompany     Role = "company"
	RoleAdmin       Role = "admin"
)

var knownRoles = map[Role]bool{
	RoleStudent:     true,
	RoleInstitution: true,
	RoleCompany:     true,
	RoleAdmin:       true,
}

// ParseRole converts a claim value into a Role. Matching ignores case and
// surrounding whitespace; anything outside the closed set is an error.
func ParseRole(claim string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(claim)))
	if !knownRoles[r] {
		return "", fmt.Errorf("unknown role claim %q", claim)
	}
	return r, nil
}

func (r Role) Valid() bool {
	return knownRoles[r]
}

// IsReviewer reports whether the role may decide on applications.
func (r Role) IsReviewer() bool {
	return r == RoleInstitution || r == RoleCompany || r == RoleAdmin
}
