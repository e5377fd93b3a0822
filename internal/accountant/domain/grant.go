package domain

import "time"

// GrantStatus is the state of an access grant.
type GrantStatus string

const (
	GrantActive  GrantStatus = "ACTIVE"
	GrantRevoked GrantStatus = "REVOKED"
)

// AccessGrant is the durable capability edge between an accountant principal
// and a company. It outlives any individual invite: re-inviting the same
// accountant re-activates the existing edge instead of duplicating it.
// Unique on (principal, company).
type AccessGrant struct {
	ID           string
	PrincipalID  string
	CompanyID    string
	Role         Role // role the grant was issued under
	Capabilities Capabilities
	Status       GrantStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
