package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zzpboek/zzpboek/internal/accountant/domain"
	"github.com/zzpboek/zzpboek/pkg/cryptox"
	"github.com/zzpboek/zzpboek/pkg/idx"
)

func TestSessionIssueAndValidate(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	owner := seedPrincipal(t, st, "eigenaar@zzp.nl", domain.RoleOwner)
	company := seedCompany(t, st, owner.ID, "Jansen Advies")
	accountant := seedPrincipal(t, st, "bk@kantoor.nl", domain.RoleAccountant)

	require.NoError(t, st.Grants().CreateGrant(ctx, domain.AccessGrant{
		ID:           idx.New().String(),
		PrincipalID:  accountant.ID,
		CompanyID:    company.ID,
		Role:         domain.RoleAccountant,
		Capabilities: domain.Capabilities{CanRead: true, CanExport: true},
		Status:       domain.GrantActive,
	}))

	svc := &SessionService{Store: st}

	token, expiry, err := svc.Issue(ctx, accountant.ID, accountant.Email, company.ID, domain.RoleAccountant)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.WithinDuration(t, time.Now().Add(DefaultSessionTTL), expiry, time.Minute)

	session, err := svc.Validate(ctx, token)
	require.NoError(t, err)
	require.Equal(t, accountant.ID, session.PrincipalID)
	require.Equal(t, company.ID, session.CompanyID)
	require.Equal(t, "bk@kantoor.nl", session.Email)

	// Only the fingerprint hits the table.
	stored, err := st.Sessions().GetSessionByTokenHash(ctx, cryptox.FingerprintToken(token))
	require.NoError(t, err)
	require.NotEqual(t, token, stored.TokenHash)

	t.Run("describe resolves grant capabilities", func(t *testing.T) {
		described, caps, err := svc.Describe(ctx, token)
		require.NoError(t, err)
		require.Equal(t, session.ID, described.ID)
		require.True(t, caps.CanRead)
		require.False(t, caps.CanEdit)
	})

	t.Run("garbage token invalid", func(t *testing.T) {
		_, err := svc.Validate(ctx, "nonsense")
		require.ErrorIs(t, err, ErrSessionInvalid)
	})

	t.Run("empty token invalid", func(t *testing.T) {
		_, err := svc.Validate(ctx, "")
		require.ErrorIs(t, err, ErrSessionInvalid)
	})
}

func TestSessionAbsoluteExpiry(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	owner := seedPrincipal(t, st, "eigenaar@zzp.nl", domain.RoleOwner)
	company := seedCompany(t, st, owner.ID, "Jansen Advies")
	accountant := seedPrincipal(t, st, "bk@kantoor.nl", domain.RoleAccountant)

	require.NoError(t, st.Grants().CreateGrant(ctx, domain.AccessGrant{
		ID:          idx.New().String(),
		PrincipalID: accountant.ID,
		CompanyID:   company.ID,
		Role:        domain.RoleAccountant,
		Status:      domain.GrantActive,
	}))

	token := "expired-session-token"
	require.NoError(t, st.Sessions().CreateSession(ctx, domain.AccountantSession{
		ID:          idx.New().String(),
		TokenHash:   cryptox.FingerprintToken(token),
		PrincipalID: accountant.ID,
		Email:       accountant.Email,
		CompanyID:   company.ID,
		Role:        domain.RoleAccountant,
		ExpiresAt:   time.Now().Add(-time.Minute),
	}))

	svc := &SessionService{Store: st}
	_, err := svc.Validate(ctx, token)
	require.ErrorIs(t, err, ErrSessionInvalid)

	// Housekeeping removes it entirely.
	require.NoError(t, st.Sessions().DeleteExpiredSessions(ctx))
	_, err = st.Sessions().GetSessionByTokenHash(ctx, cryptox.FingerprintToken(token))
	require.Error(t, err)
}

func TestSessionAuthorizeCapability(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	owner := seedPrincipal(t, st, "eigenaar@zzp.nl", domain.RoleOwner)
	company := seedCompany(t, st, owner.ID, "Jansen Advies")
	accountant := seedPrincipal(t, st, "bk@kantoor.nl", domain.RoleAccountant)
	seedGrant(t, st, accountant.ID, company.ID, domain.GrantActive, domain.Capabilities{CanRead: true})

	svc := &SessionService{Store: st}
	token, _, err := svc.Issue(ctx, accountant.ID, accountant.Email, company.ID, domain.RoleAccountant)
	require.NoError(t, err)

	session, err := svc.Authorize(ctx, token, CapabilityRead)
	require.NoError(t, err)
	require.Equal(t, company.ID, session.CompanyID)

	// A read-only grant cannot edit; the failure is forbidden, not a dead
	// session.
	_, err = svc.Authorize(ctx, token, CapabilityEdit)
	require.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Authorize(ctx, "nonsense", CapabilityRead)
	require.ErrorIs(t, err, ErrSessionInvalid)
}

func TestSessionDestroyIsIdempotent(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	owner := seedPrincipal(t, st, "eigenaar@zzp.nl", domain.RoleOwner)
	company := seedCompany(t, st, owner.ID, "Jansen Advies")
	accountant := seedPrincipal(t, st, "bk@kantoor.nl", domain.RoleAccountant)

	require.NoError(t, st.Grants().CreateGrant(ctx, domain.AccessGrant{
		ID:          idx.New().String(),
		PrincipalID: accountant.ID,
		CompanyID:   company.ID,
		Role:        domain.RoleAccountant,
		Status:      domain.GrantActive,
	}))

	svc := &SessionService{Store: st}
	token, _, err := svc.Issue(ctx, accountant.ID, accountant.Email, company.ID, domain.RoleAccountant)
	require.NoError(t, err)

	require.NoError(t, svc.Destroy(ctx, token))
	_, err = svc.Validate(ctx, token)
	require.ErrorIs(t, err, ErrSessionInvalid)

	// Unknown and empty tokens are fine too.
	require.NoError(t, svc.Destroy(ctx, token))
	require.NoError(t, svc.Destroy(ctx, ""))
}

func TestClearOnPrimaryLogin(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	owner := seedPrincipal(t, st, "eigenaar@zzp.nl", domain.RoleOwner)
	companyA := seedCompany(t, st, owner.ID, "Jansen Advies")
	accountant := seedPrincipal(t, st, "bk@kantoor.nl", domain.RoleAccountant)

	require.NoError(t, st.Grants().CreateGrant(ctx, domain.AccessGrant{
		ID:          idx.New().String(),
		PrincipalID: accountant.ID,
		CompanyID:   companyA.ID,
		Role:        domain.RoleAccountant,
		Status:      domain.GrantActive,
	}))

	svc := &SessionService{Store: st}
	tokenA, _, err := svc.Issue(ctx, accountant.ID, accountant.Email, companyA.ID, domain.RoleAccountant)
	require.NoError(t, err)
	tokenB, _, err := svc.Issue(ctx, accountant.ID, accountant.Email, companyA.ID, domain.RoleAccountant)
	require.NoError(t, err)

	require.NoError(t, svc.ClearOnPrimaryLogin(ctx, accountant.ID))

	_, err = svc.Validate(ctx, tokenA)
	require.ErrorIs(t, err, ErrSessionInvalid)
	_, err = svc.Validate(ctx, tokenB)
	require.ErrorIs(t, err, ErrSessionInvalid)
}
