package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/zzpboek/zzpboek/internal/accountant/domain"
	"github.com/zzpboek/zzpboek/internal/accountant/store"
	"github.com/zzpboek/zzpboek/pkg/cryptox"
	"github.com/zzpboek/zzpboek/pkg/idx"
	"github.com/zzpboek/zzpboek/pkg/slogx"
)

// DefaultSessionTTL is the absolute lifetime of an accountant session.
// There is no sliding renewal.
const DefaultSessionTTL = 30 * 24 * time.Hour

// SessionService issues, validates, and revokes accountant sessions. These
// are completely separate from the primary login: a different cookie, a
// different table, and a grant join-check on every validation.
type SessionService struct {
	Store      store.Store
	SessionTTL time.Duration
}

func (s *SessionService) ttl() time.Duration {
	if s.SessionTTL > 0 {
		return s.SessionTTL
	}
	return DefaultSessionTTL
}

// Issue creates a session for a principal acting on a company and returns
// the opaque cookie token. Only the fingerprint is persisted.
func (s *SessionService) Issue(
	ctx context.Context,
	principalID, emailAddr, companyID string,
	role domain.Role,
) (string, time.Time, error) {
	var (
		token  string
		expiry time.Time
	)
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		token, expiry, err = s.issueIn(ctx, tx, principalID, emailAddr, companyID, role)
		return err
	})
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiry, nil
}

// issueIn writes the session through the given store, so invite acceptance
// can issue inside its own transaction.
func (s *SessionService) issueIn(
	ctx context.Context,
	st store.Store,
	principalID, emailAddr, companyID string,
	role domain.Role,
) (string, time.Time, error) {
	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return "", time.Time{}, err
	}

	session := domain.AccountantSession{
		ID:          idx.New().String(),
		TokenHash:   cryptox.FingerprintToken(token),
		PrincipalID: principalID,
		Email:       emailAddr,
		CompanyID:   companyID,
		Role:        role,
		ExpiresAt:   time.Now().Add(s.ttl()).UTC(),
	}
	if err := st.Sessions().CreateSession(ctx, session); err != nil {
		return "", time.Time{}, err
	}

	if err := st.AuditEvents().AppendAuditEvent(ctx, domain.AuditEvent{
		ID:          idx.New().String(),
		CompanyID:   companyID,
		PrincipalID: principalID,
		Kind:        domain.AuditSessionCreated,
	}); err != nil {
		return "", time.Time{}, err
	}

	return token, session.ExpiresAt, nil
}

// Validate resolves a cookie token to a live session. It fails when the
// session is missing, expired, or when the backing grant for
// (principal, company) is no longer ACTIVE. The grant join-check runs on
// every call so a revocation takes effect before the stored expiry.
func (s *SessionService) Validate(ctx context.Context, token string) (domain.AccountantSession, error) {
	log := slogx.FromContext(ctx)

	if token == "" {
		return domain.AccountantSession{}, ErrSessionInvalid
	}

	session, err := s.Store.Sessions().GetSessionByTokenHash(ctx, cryptox.FingerprintToken(token))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.AccountantSession{}, ErrSessionInvalid
		}
		return domain.AccountantSession{}, err
	}

	if time.Now().After(session.ExpiresAt) {
		return domain.AccountantSession{}, ErrSessionInvalid
	}

	grant, err := s.Store.Grants().GetGrant(ctx, session.PrincipalID, session.CompanyID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.AccountantSession{}, ErrSessionInvalid
		}
		return domain.AccountantSession{}, err
	}
	if grant.Status != domain.GrantActive {
		log.Warn("session rejected for revoked grant",
			slog.String("session_id", session.ID),
			slog.String("company_id", session.CompanyID),
		)
		return domain.AccountantSession{}, ErrSessionInvalid
	}

	return session, nil
}

// Describe validates a cookie token and also resolves the capability set of
// the backing grant, for the "who am I" endpoint.
func (s *SessionService) Describe(ctx context.Context, token string) (domain.AccountantSession, domain.Capabilities, error) {
	session, err := s.Validate(ctx, token)
	if err != nil {
		return domain.AccountantSession{}, domain.Capabilities{}, err
	}

	grant, err := s.Store.Grants().GetGrant(ctx, session.PrincipalID, session.CompanyID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.AccountantSession{}, domain.Capabilities{}, ErrSessionInvalid
		}
		return domain.AccountantSession{}, domain.Capabilities{}, err
	}

	return session, CapabilitiesFor(&grant), nil
}

// Authorize validates a cookie token and checks that the backing grant holds
// the named capability. A live session whose grant lacks the capability fails
// with ErrForbidden, never with a generic error.
func (s *SessionService) Authorize(ctx context.Context, token string, c Capability) (domain.AccountantSession, error) {
	session, caps, err := s.Describe(ctx, token)
	if err != nil {
		return domain.AccountantSession{}, err
	}
	if !Allowed(caps, c) {
		return domain.AccountantSession{}, ErrForbidden
	}
	return session, nil
}

// Destroy deletes the session behind a cookie token. Unknown tokens are not
// an error; logout is idempotent.
func (s *SessionService) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	session, err := s.Store.Sessions().GetSessionByTokenHash(ctx, cryptox.FingerprintToken(token))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Sessions().DeleteSession(ctx, session.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
		return tx.AuditEvents().AppendAuditEvent(ctx, domain.AuditEvent{
			ID:          idx.New().String(),
			CompanyID:   session.CompanyID,
			PrincipalID: session.PrincipalID,
			Kind:        domain.AuditSessionDeleted,
		})
	})
}

// ClearOnPrimaryLogin removes every accountant session of a principal. The
// primary login path calls this so a browser that switches to owner login
// cannot keep a lingering accountant cookie alive.
func (s *SessionService) ClearOnPrimaryLogin(ctx context.Context, principalID string) error {
	return s.Store.Sessions().DeleteSessionsForPrincipal(ctx, principalID)
}
