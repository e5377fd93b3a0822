package store

import (
	"context"
	"errors"
	"time"

	"github.com/zzpboek/zzpboek/internal/accountant/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable. No business rules live behind these methods; callers enforce the
// invariants.
type Store interface {
	Principals() Principals
	Companies() Companies
	Invites() Invites
	Grants() Grants
	Sessions() Sessions
	AuditEvents() AuditEvents

	ApplyMigrations() error

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Principals interface {
	// GetPrincipalByID returns a principal by id.
	GetPrincipalByID(ctx context.Context, id string) (domain.Principal, error)

	// GetPrincipalByEmail looks up by email, case-insensitive.
	GetPrincipalByEmail(ctx context.Context, email string) (domain.Principal, error)

	// CreatePrincipal inserts a new principal (id is provided by app via ULID).
	CreatePrincipal(ctx context.Context, p domain.Principal) error
}

type Companies interface {
	GetCompanyByID(ctx context.Context, id string) (domain.Company, error)

	// GetCompanyByOwner returns the company owned by the given principal.
	GetCompanyByOwner(ctx context.Context, ownerID string) (domain.Company, error)

	CreateCompany(ctx context.Context, c domain.Company) error
}

type Invites interface {
	// CreateInvite writes a new invite (token_hash is the SHA-256 fingerprint
	// of the opaque link token, otp_hash the argon2id hash of the code).
	CreateInvite(ctx context.Context, inv domain.Invite) error

	GetInviteByID(ctx context.Context, id string) (domain.Invite, error)

	// GetInviteByTokenHash returns an invite by fingerprint regardless of
	// status; callers decide how to report non-pending states.
	GetInviteByTokenHash(ctx context.Context, hash string) (domain.Invite, error)

	// GetPendingInvite returns the PENDING invite for a (company, email)
	// pair, if any.
	GetPendingInvite(ctx context.Context, companyID, email string) (domain.Invite, error)

	// ListPendingInvites returns PENDING invites for a company, newest first.
	ListPendingInvites(ctx context.Context, companyID string) ([]domain.Invite, error)

	// UpdateInviteStatus transitions a PENDING invite and records acceptance
	// data when the new status is ACCEPTED. Returns ErrNotFound when the
	// invite is missing or already left PENDING, so terminal transitions are
	// single-shot even under concurrent callers.
	UpdateInviteStatus(ctx context.Context, id string, status domain.InviteStatus, acceptedBy string, acceptedAt *time.Time) error

	// RotateInviteCredentials replaces token and OTP hashes and extends the
	// OTP expiry. Resets the failed-attempt counter.
	RotateInviteCredentials(ctx context.Context, id, tokenHash, otpHash string, otpExpiresAt time.Time) error

	// IncrementOTPAttempts bumps the failed-attempt counter and returns the
	// new value.
	IncrementOTPAttempts(ctx context.Context, id string) (int, error)

	// SetInviteLock sets or clears the OTP lockout deadline.
	SetInviteLock(ctx context.Context, id string, until *time.Time) error

	// ExpireOverdueInvites transitions PENDING invites past their overall
	// expiry to EXPIRED. Housekeeping only.
	ExpireOverdueInvites(ctx context.Context) error
}

type Grants interface {
	CreateGrant(ctx context.Context, g domain.AccessGrant) error

	GetGrantByID(ctx context.Context, id string) (domain.AccessGrant, error)

	// GetGrant returns the grant edge for (principal, company), any status.
	GetGrant(ctx context.Context, principalID, companyID string) (domain.AccessGrant, error)

	// ListGrantsForPrincipal returns all grants for a principal, newest first.
	ListGrantsForPrincipal(ctx context.Context, principalID string) ([]domain.AccessGrant, error)

	// ListGrantsForCompany returns all grants for a company, newest first.
	ListGrantsForCompany(ctx context.Context, companyID string) ([]domain.AccessGrant, error)

	// UpdateGrant sets status, role and capabilities on an existing edge.
	UpdateGrant(ctx context.Context, id string, status domain.GrantStatus, role domain.Role, caps domain.Capabilities) error
}

type Sessions interface {
	CreateSession(ctx context.Context, s domain.AccountantSession) error

	// GetSessionByTokenHash returns a session by the fingerprint of its
	// opaque cookie token.
	GetSessionByTokenHash(ctx context.Context, hash string) (domain.AccountantSession, error)

	DeleteSession(ctx context.Context, id string) error

	// DeleteSessionsForPrincipal removes every session held by a principal.
	DeleteSessionsForPrincipal(ctx context.Context, principalID string) error

	// DeleteExpiredSessions is housekeeping.
	DeleteExpiredSessions(ctx context.Context) error
}

type AuditEvents interface {
	// AppendAuditEvent writes an event. Events are never updated or deleted.
	AppendAuditEvent(ctx context.Context, e domain.AuditEvent) error

	// ListAuditEventsForCompany returns events for a company, newest first.
	ListAuditEventsForCompany(ctx context.Context, companyID string, limit int) ([]domain.AuditEvent, error)
}
