package models

import "strings"

// Role is the access tier of a user account. It is a closed enumeration;
// access decisions go through the capability methods below instead of
// comparing raw strings at call sites.
type Role string

const (
	// RoleAdmin can do everything, including user administration.
	RoleAdmin Role = "admin"
	// RoleScheduler is read-only: search, history and reports only.
	RoleScheduler Role = "scheduler"
	// RoleSupport is a regular operator: registers equipment and records tests.
	RoleSupport Role = "support"
)

// DefaultRole is assigned when an admin creates a user without a role.
const DefaultRole = RoleSupport

// ParseRole normalizes s into a known Role. Empty input falls back to
// DefaultRole; anything else unknown reports ok=false.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultRole, true
	case RoleAdmin:
		return RoleAdmin, true
	case RoleScheduler:
		return RoleScheduler, true
	case RoleSupport:
		return RoleSupport, true
	}
	return "", false
}

// CanManageEquipment reports whether the role may register equipment,
// record test results, or delete equipment. Schedulers are read-only.
func (r Role) CanManageEquipment() bool {
	return r == RoleAdmin || r == RoleSupport
}

// CanManageUsers reports whether the role may administer user accounts
// and read the audit log.
func (r Role) CanManageUsers() bool {
	return r == RoleAdmin
}

// BootstrapUsername is the primordial administrative account seeded at first
// run. It can never be deleted nor have its password reset.
const BootstrapUsername = "admin"

type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // don't expose hash
	Role         Role   `json:"role"`
	// Protected marks the bootstrap account, which admin mutations refuse.
	Protected bool `json:"protected"`
}

// IsProtected reports whether u is the bootstrap account.
func (u *User) IsProtected() bool {
	return u.Username == BootstrapUsername
}
