package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zzpboek/zzpboek/internal/accountant/domain"
	"github.com/zzpboek/zzpboek/pkg/cryptox"
	"github.com/zzpboek/zzpboek/pkg/idx"
)

func TestHousekeepingCleanup(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	owner := seedPrincipal(t, st, "eigenaar@zzp.nl", domain.RoleOwner)
	company := seedCompany(t, st, owner.ID, "Jansen Advies")

	// One invite past its overall expiry, one still fresh.
	overdue := domain.Invite{
		ID:           idx.New().String(),
		CompanyID:    company.ID,
		Email:        "oud@kantoor.nl",
		Role:         domain.RoleAccountant,
		TokenHash:    cryptox.FingerprintToken("overdue"),
		OTPHash:      "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		OTPExpiresAt: time.Now().Add(-8 * 24 * time.Hour),
		ExpiresAt:    time.Now().Add(-24 * time.Hour),
		Status:       domain.InvitePending,
		CreatedBy:    owner.ID,
	}
	require.NoError(t, st.Invites().CreateInvite(ctx, overdue))

	fresh := overdue
	fresh.ID = idx.New().String()
	fresh.Email = "nieuw@kantoor.nl"
	fresh.TokenHash = cryptox.FingerprintToken("fresh")
	fresh.OTPExpiresAt = time.Now().Add(10 * time.Minute)
	fresh.ExpiresAt = time.Now().Add(7 * 24 * time.Hour)
	require.NoError(t, st.Invites().CreateInvite(ctx, fresh))

	// One expired session.
	require.NoError(t, st.Sessions().CreateSession(ctx, domain.AccountantSession{
		ID:          idx.New().String(),
		TokenHash:   cryptox.FingerprintToken("dead-session"),
		PrincipalID: owner.ID,
		Email:       owner.Email,
		CompanyID:   company.ID,
		Role:        domain.RoleAccountant,
		ExpiresAt:   time.Now().Add(-time.Hour),
	}))

	hk := NewHousekeepingService(st, slog.Default(), time.Hour)
	hk.Start()
	hk.Stop()

	expired, err := st.Invites().GetInviteByID(ctx, overdue.ID)
	require.NoError(t, err)
	require.Equal(t, domain.InviteExpired, expired.Status)

	kept, err := st.Invites().GetInviteByID(ctx, fresh.ID)
	require.NoError(t, err)
	require.Equal(t, domain.InvitePending, kept.Status)

	_, err = st.Sessions().GetSessionByTokenHash(ctx, cryptox.FingerprintToken("dead-session"))
	require.Error(t, err)
}
