// Package accountantapi holds the wire types for the accountant access
// endpoints. Both the service handlers and Go clients (the web frontend's
// BFF, integration tests) share these definitions.
package accountantapi

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	// Error is the machine-readable error code (e.g., "invite_expired")
	Error string `json:"error"`

	// ErrorDescription is a human-readable description of the error
	ErrorDescription string `json:"error_description"`
}

// ============================================================================
// Capability Types
// ============================================================================

// Capabilities mirrors the per-grant capability flags. All four flags are
// always serialized so clients never have to guess a default.
type Capabilities struct {
	Read   bool `json:"read"`
	Edit   bool `json:"edit"`
	Export bool `json:"export"`
	BTW    bool `json:"btw"`
}

// ============================================================================
// Invite Types
// ============================================================================

// CreateInviteRequest is the body for POST /v1/invites.
type CreateInviteRequest struct {
	// CompanyID is the company the accountant is being invited to
	CompanyID string `json:"company_id"`

	// Email is the accountant's email address, any case
	Email string `json:"email"`

	// Capabilities the resulting grant should carry
	Capabilities Capabilities `json:"capabilities"`
}

// CreateInviteResponse is returned after an invite has been created and the
// invite mail queued. The OTP is never included and travels by email only;
// the invite URL is returned so the owner can pass the link on manually when
// delivery fails.
type CreateInviteResponse struct {
	InviteID  string `json:"invite_id"`
	Email     string `json:"email"`
	InviteURL string `json:"invite_url"`
	ExpiresAt int64  `json:"expires_at"`
}

// PendingInvite is one element of the GET /v1/invites listing.
type PendingInvite struct {
	InviteID     string       `json:"invite_id"`
	Email        string       `json:"email"`
	Capabilities Capabilities `json:"capabilities"`
	CreatedAt    int64        `json:"created_at"`
	ExpiresAt    int64        `json:"expires_at"`
}

// ListInvitesResponse is returned from GET /v1/invites.
type ListInvitesResponse struct {
	Invites []PendingInvite `json:"invites"`
}

// ResendInviteResponse is returned from POST /v1/invites/{id}/resend.
type ResendInviteResponse struct {
	InviteID     string `json:"invite_id"`
	OTPExpiresAt int64  `json:"otp_expires_at"`
}

// InviteDisplayResponse is returned from GET /v1/invites/accept. It carries
// just enough for the acceptance page to render, with the email masked since
// the viewer has not proven ownership of the mailbox yet.
type InviteDisplayResponse struct {
	CompanyName  string       `json:"company_name"`
	MaskedEmail  string       `json:"masked_email"`
	NewAccount   bool         `json:"new_account"`
	Capabilities Capabilities `json:"capabilities"`
}

// ============================================================================
// OTP / Session Types
// ============================================================================

// VerifyOTPRequest is the body for POST /v1/accountant/otp/verify.
type VerifyOTPRequest struct {
	// Token is the opaque invite token from the emailed link
	Token string `json:"token"`

	// Code is the 6-digit one-time code from the same email
	Code string `json:"code"`
}

// VerifyOTPResponse is returned on successful acceptance. The session token
// itself is delivered via an httpOnly cookie, not the body.
type VerifyOTPResponse struct {
	PrincipalID string `json:"principal_id"`
	CompanyID   string `json:"company_id"`
	CompanyName string `json:"company_name"`
	ExpiresAt   int64  `json:"expires_at"`
}

// MeResponse is returned from GET /v1/accountant/me.
type MeResponse struct {
	PrincipalID  string       `json:"principal_id"`
	Email        string       `json:"email"`
	CompanyID    string       `json:"company_id"`
	Role         string       `json:"role"`
	Capabilities Capabilities `json:"capabilities"`
	ExpiresAt    int64        `json:"expires_at"`
}

// ============================================================================
// Grant Types
// ============================================================================

// Grant is one element of the GET /v1/accountant/grants listing, the owner's
// view of who can reach the company's books.
type Grant struct {
	GrantID      string       `json:"grant_id"`
	PrincipalID  string       `json:"principal_id"`
	Email        string       `json:"email"`
	Role         string       `json:"role"`
	Status       string       `json:"status"`
	Capabilities Capabilities `json:"capabilities"`
	CreatedAt    int64        `json:"created_at"`
}

// ListGrantsResponse is returned from GET /v1/accountant/grants.
type ListGrantsResponse struct {
	Grants []Grant `json:"grants"`
}

// RevokeGrantRequest is the body for POST /v1/accountant/revoke.
type RevokeGrantRequest struct {
	GrantID string `json:"grant_id"`
}

// ============================================================================
// Tenant Types
// ============================================================================

// TenantContextResponse is returned from GET /v1/tenant/context: the company
// the caller is currently operating on, and with which capabilities.
type TenantContextResponse struct {
	CompanyID    string       `json:"company_id"`
	OwnerContext bool         `json:"owner_context"`
	Capabilities Capabilities `json:"capabilities"`
}

// CompanyResponse is returned from GET /v1/accountant/company: the profile of
// the company an accountant session is scoped to.
type CompanyResponse struct {
	CompanyID string `json:"company_id"`
	Name      string `json:"name"`
	KvK       string `json:"kvk,omitempty"`
}

// ============================================================================
// Audit Types
// ============================================================================

// AuditEvent is one element of the GET /v1/audit listing.
type AuditEvent struct {
	EventID     string `json:"event_id"`
	PrincipalID string `json:"principal_id,omitempty"`
	Kind        string `json:"kind"`
	Detail      string `json:"detail,omitempty"`
	CreatedAt   int64  `json:"created_at"`
}

// ListAuditResponse is returned from GET /v1/audit.
type ListAuditResponse struct {
	Events []AuditEvent `json:"events"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthChecks reports per-dependency health in the readiness probe.
type HealthChecks struct {
	Database string `json:"database"`
	Mailer   string `json:"mailer,omitempty"`
}

// HealthResponse is returned from /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
