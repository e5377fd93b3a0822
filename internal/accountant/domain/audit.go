package domain

import "time"

// AuditKind identifies an audit event type.
type AuditKind string

const (
	AuditInviteCreated   AuditKind = "INVITE_CREATED"
	AuditInviteResent    AuditKind = "INVITE_RESENT"
	AuditInviteAccepted  AuditKind = "INVITE_ACCEPTED"
	AuditInviteCancelled AuditKind = "INVITE_CANCELLED"
	AuditGrantRevoked    AuditKind = "GRANT_REVOKED"
	AuditSessionCreated  AuditKind = "ACCOUNTANT_SESSION_CREATED"
	AuditSessionDeleted  AuditKind = "ACCOUNTANT_SESSION_DELETED"
)

// AuditEvent is an append-only record of a security-relevant action.
type AuditEvent struct {
	ID          string
	CompanyID   string
	PrincipalID string // acting principal, may be empty for public flows
	Kind        AuditKind
	Detail      string
	CreatedAt   time.Time
}
