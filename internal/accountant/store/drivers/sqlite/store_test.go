package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zzpboek/zzpboek/internal/accountant/domain"
	"github.com/zzpboek/zzpboek/internal/accountant/store"
	"github.com/zzpboek/zzpboek/pkg/idx"
)

func newStore(t *testing.T) *Store {
	t.Helper()

	st, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func seedPair(t *testing.T, st *Store) (domain.Principal, domain.Company) {
	t.Helper()
	ctx := context.Background()

	p := domain.Principal{
		ID:           idx.New().String(),
		Email:        "eigenaar@zzp.nl",
		PasswordHash: "hash",
		Role:         domain.RoleOwner,
	}
	require.NoError(t, st.Principals().CreatePrincipal(ctx, p))

	c := domain.Company{ID: idx.New().String(), Name: "Jansen Advies", OwnerID: p.ID}
	require.NoError(t, st.Companies().CreateCompany(ctx, c))
	return p, c
}

func testInvite(companyID, email, tokenHash, createdBy string) domain.Invite {
	return domain.Invite{
		ID:           idx.New().String(),
		CompanyID:    companyID,
		Email:        email,
		Role:         domain.RoleAccountant,
		TokenHash:    tokenHash,
		OTPHash:      "otp-hash",
		OTPExpiresAt: time.Now().Add(10 * time.Minute),
		ExpiresAt:    time.Now().Add(7 * 24 * time.Hour),
		Status:       domain.InvitePending,
		Capabilities: domain.Capabilities{CanRead: true},
		CreatedBy:    createdBy,
	}
}

func TestPendingInviteUniquePerPair(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	owner, company := seedPair(t, st)

	first := testInvite(company.ID, "bk@kantoor.nl", "hash-1", owner.ID)
	require.NoError(t, st.Invites().CreateInvite(ctx, first))

	// A second PENDING invite for the same pair trips the partial index.
	second := testInvite(company.ID, "bk@kantoor.nl", "hash-2", owner.ID)
	err := st.Invites().CreateInvite(ctx, second)
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	// Once the first leaves PENDING, the pair is free again.
	require.NoError(t, st.Invites().UpdateInviteStatus(ctx, first.ID, domain.InviteExpired, "", nil))
	require.NoError(t, st.Invites().CreateInvite(ctx, second))

	// A different email for the same company is never blocked.
	third := testInvite(company.ID, "anders@kantoor.nl", "hash-3", owner.ID)
	require.NoError(t, st.Invites().CreateInvite(ctx, third))
}

func TestInviteTokenHashUnique(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	owner, company := seedPair(t, st)

	require.NoError(t, st.Invites().CreateInvite(ctx, testInvite(company.ID, "a@kantoor.nl", "same-hash", owner.ID)))
	err := st.Invites().CreateInvite(ctx, testInvite(company.ID, "b@kantoor.nl", "same-hash", owner.ID))
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestInviteStatusTransitionSingleShot(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	owner, company := seedPair(t, st)

	inv := testInvite(company.ID, "bk@kantoor.nl", "hash-1", owner.ID)
	require.NoError(t, st.Invites().CreateInvite(ctx, inv))

	acceptedAt := time.Now().UTC()
	require.NoError(t, st.Invites().UpdateInviteStatus(ctx, inv.ID, domain.InviteAccepted, owner.ID, &acceptedAt))

	// The invite left PENDING, so a rival transition finds no row to update.
	err := st.Invites().UpdateInviteStatus(ctx, inv.ID, domain.InviteAccepted, owner.ID, &acceptedAt)
	require.ErrorIs(t, err, store.ErrNotFound)

	got, err := st.Invites().GetInviteByID(ctx, inv.ID)
	require.NoError(t, err)
	require.Equal(t, domain.InviteAccepted, got.Status)
	require.Equal(t, owner.ID, got.AcceptedBy)
}

func TestIncrementOTPAttempts(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	owner, company := seedPair(t, st)

	inv := testInvite(company.ID, "bk@kantoor.nl", "hash-1", owner.ID)
	require.NoError(t, st.Invites().CreateInvite(ctx, inv))

	for want := 1; want <= 3; want++ {
		got, err := st.Invites().IncrementOTPAttempts(ctx, inv.ID)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	_, err := st.Invites().IncrementOTPAttempts(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestPrincipalEmailCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)

	p := domain.Principal{
		ID:           idx.New().String(),
		Email:        "bk@kantoor.nl",
		PasswordHash: "hash",
		Role:         domain.RoleAccountant,
	}
	require.NoError(t, st.Principals().CreatePrincipal(ctx, p))

	found, err := st.Principals().GetPrincipalByEmail(ctx, "BK@Kantoor.NL")
	require.NoError(t, err)
	require.Equal(t, p.ID, found.ID)

	// The unique index is case-insensitive too.
	dup := domain.Principal{
		ID:           idx.New().String(),
		Email:        "BK@KANTOOR.NL",
		PasswordHash: "hash",
		Role:         domain.RoleAccountant,
	}
	err = st.Principals().CreatePrincipal(ctx, dup)
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestGrantUniquePerEdge(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	owner, company := seedPair(t, st)

	g := domain.AccessGrant{
		ID:          idx.New().String(),
		PrincipalID: owner.ID,
		CompanyID:   company.ID,
		Role:        domain.RoleAccountant,
		Status:      domain.GrantActive,
	}
	require.NoError(t, st.Grants().CreateGrant(ctx, g))

	dup := g
	dup.ID = idx.New().String()
	require.ErrorIs(t, st.Grants().CreateGrant(ctx, dup), store.ErrAlreadyExists)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	owner, company := seedPair(t, st)

	sentinel := errors.New("boom")
	err := st.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Invites().CreateInvite(ctx, testInvite(company.ID, "bk@kantoor.nl", "hash-1", owner.ID)); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	// Nothing from the failed transaction is visible.
	invites, err := st.Invites().ListPendingInvites(ctx, company.ID)
	require.NoError(t, err)
	require.Empty(t, invites)
}

func TestWithTxCommits(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	owner, company := seedPair(t, st)

	err := st.WithTx(ctx, func(tx store.Tx) error {
		return tx.Invites().CreateInvite(ctx, testInvite(company.ID, "bk@kantoor.nl", "hash-1", owner.ID))
	})
	require.NoError(t, err)

	invites, err := st.Invites().ListPendingInvites(ctx, company.ID)
	require.NoError(t, err)
	require.Len(t, invites, 1)
}
