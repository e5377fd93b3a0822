package domain

import "time"

// Role is the base role of a principal, independent of any company grant.
type Role string

const (
	RoleOwner      Role = "owner"
	RoleStaff      Role = "staff"
	RoleAccountant Role = "accountant"
	RoleAdmin      Role = "admin"
)

// IsOwning reports whether the role owns or administers its own company.
func (r Role) IsOwning() bool {
	return r == RoleOwner || r == RoleAdmin
}

// Principal is a user identity. Accountant-only principals carry an unusable
// placeholder password hash; they authenticate exclusively through the
// invite/OTP/session flow.
type Principal struct {
	ID             string
	Email          string // unique, stored lowercase
	PasswordHash   string
	Role           Role
	EmailVerified  bool
	OnboardingDone bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
