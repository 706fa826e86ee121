package domain

import (
	"fmt"
	"strings"
)

// Role is the category a user belongs to.
type Role string

const (
	RoleUser      Role = "User"
	RoleAdmin     Role = "Admin"
	RoleModerator Role = "Moderator"
)

// ValidRoles contains all valid user roles.
var ValidRoles = []Role{RoleUser, RoleAdmin, RoleModerator}

// String returns the human-readable label of the role.
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether r is one of ValidRoles.
func (r Role) IsValid() bool {
	for _, v := range ValidRoles {
		if v == r {
			return true
		}
	}
	return false
}

// ParseRole converts a label such as "admin" or "Admin" into a Role.
func ParseRole(s string) (Role, error) {
	s = strings.TrimSpace(s)
	for _, r := range ValidRoles {
		if strings.EqualFold(string(r), s) {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
}
