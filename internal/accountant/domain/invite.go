package domain

import "time"

// InviteStatus is the lifecycle state of an invitation.
// PENDING is the only non-terminal state.
type InviteStatus string

const (
	InvitePending  InviteStatus = "PENDING"
	InviteAccepted InviteStatus = "ACCEPTED"
	InviteExpired  InviteStatus = "EXPIRED"
	InviteRevoked  InviteStatus = "REVOKED"
)

// Invite is a company's request for a specific accountant email to gain
// access. The link token and the OTP are separate secrets; both are stored
// only as hashes. Invites are never deleted, only transitioned, so the
// history remains auditable.
type Invite struct {
	ID           string
	CompanyID    string
	Email        string // invited address, stored lowercase
	Role         Role   // role requested for the invitee
	TokenHash    string // SHA-256 fingerprint of the link token
	OTPHash      string // Argon2id hash of the 6-digit code
	OTPExpiresAt time.Time
	ExpiresAt    time.Time // overall validity, 7 days
	Status       InviteStatus
	Capabilities Capabilities
	OTPAttempts  int // consecutive failed OTP submissions
	LockedUntil  *time.Time
	AcceptedAt   *time.Time
	AcceptedBy   string // principal id, empty until accepted
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
