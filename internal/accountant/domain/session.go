package domain

import "time"

// AccountantSession is the cookie-bound credential used by accepted
// accountants instead of the primary login. The expiry is absolute, not
// sliding. A session whose backing grant has been revoked is invalid at
// validation time regardless of expiry.
type AccountantSession struct {
	ID          string
	TokenHash   string // SHA-256 fingerprint of the opaque cookie token
	PrincipalID string
	Email       string // denormalized for display
	CompanyID   string
	Role        Role // role at issuance
	ExpiresAt   time.Time
	CreatedAt   time.Time
}
