package session

import (
	"fmt"
	"strings"
)

// Role is the platform role of the signed-in user.
type Role string

const (
	RoleAdmin           Role = "ADMIN"
	RoleUniversityAdmin Role = "UNIVERSITY_ADMIN"
	RoleAgent           Role = "AGENT"
	RoleStudent         Role = "STUDENT"
)

// legacyAdmin is the admin role name still emitted by older backends.
const legacyAdmin = "TELTH_ADMIN"

// ParseRole converts a backend role name into a Role.
// An empty value yields an empty Role and no error.
func ParseRole(value string) (Role, error) {
	value = strings.ToUpper(strings.TrimSpace(value))
	switch value {
	case "":
		return "", nil
	case legacyAdmin:
		return RoleAdmin, nil
	case string(RoleAdmin), string(RoleUniversityAdmin), string(RoleAgent), string(RoleStudent):
		return Role(value), nil
	}
	return "", fmt.Errorf("unsupported role: %q", value)
}

// IsStaff reports whether the role may manage other users.
func (r Role) IsStaff() bool {
	switch r {
	case RoleAdmin, RoleUniversityAdmin, RoleAgent:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// Group returns the backend group name users of the role belong to.
func (r Role) Group() string {
	switch r {
	case RoleAdmin:
		return "telth_admin"
	case RoleUniversityAdmin:
		return "university"
	case RoleAgent:
		return "agent"
	case RoleStudent:
		return "student"
	}
	return ""
}
