package service

import "errors"

// Sentinel errors surfaced to the HTTP layer as stable codes. Validation
// errors render as user-facing messages; anything else is logged and rendered
// as a generic server error.
var (
	ErrInviteNotFound   = errors.New("invite not found")
	ErrInviteExpired    = errors.New("invite expired")
	ErrInviteUsed       = errors.New("invite already used")
	ErrInviteRevoked    = errors.New("invite revoked")
	ErrEmailInvalid     = errors.New("email invalid")
	ErrOTPExpired       = errors.New("otp expired")
	ErrOTPInvalid       = errors.New("otp invalid")
	ErrOTPLocked        = errors.New("otp locked")
	ErrAlreadyMember    = errors.New("already a member")
	ErrGrantNotFound    = errors.New("grant not found")
	ErrGrantLinkFailed  = errors.New("grant link failed")
	ErrResendNotAllowed = errors.New("resend not allowed")
	ErrForbidden        = errors.New("forbidden")
	ErrCompanyNotFound  = errors.New("company not found")
	ErrSessionInvalid   = errors.New("session invalid")
)
