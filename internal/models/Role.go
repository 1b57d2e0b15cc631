package models

import (
	"fmt"
	"strings"
)

// Role is the canonical principal role. Tokens and stored rows from older
// deployments carry mixed casing ("Admin", "areaAdmin"), so every role string
// entering the system must go through ParseRole; internal code only ever
// compares the canonical constants.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleAreaAdmin Role = "area_admin"
)

// ParseRole normalizes a raw role string to its canonical value.
func ParseRole(raw string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "admin":
		return RoleAdmin, nil
	case "area_admin", "areaadmin", "area-admin":
		return RoleAreaAdmin, nil
	default:
		return "", fmt.Errorf("invalid role %q", raw)
	}
}

func (r Role) String() string {
	return string(r)
}
