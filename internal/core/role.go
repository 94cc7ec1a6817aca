// AngelaMos | 2026
// role.go

package core

import (
	"fmt"
	"strings"
)

// Role is the closed set of account roles.
type Role string

const (
	RoleUser      Role = "user"
	RoleOrganizer Role = "organizer"
	RoleAdmin     Role = "admin"
)

var allRoles = []Role{RoleUser, RoleOrganizer, RoleAdmin}

func Roles() []Role {
	out := make([]Role, len(allRoles))
	copy(out, allRoles)
	return out
}

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleOrganizer, RoleAdmin:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}

// CanManageProjects reports whether the role may create projects.
func (r Role) CanManageProjects() bool {
	switch r {
	case RoleOrganizer, RoleAdmin:
		return true
	case RoleUser:
		return false
	default:
		return false
	}
}

// CountsAsVolunteer reports whether the role is included in the public
// volunteer count.
func (r Role) CountsAsVolunteer() bool {
	switch r {
	case RoleUser, RoleOrganizer:
		return true
	case RoleAdmin:
		return false
	default:
		return false
	}
}

func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("role %q: %w", s, ErrInvalidInput)
	}
	return r, nil
}
