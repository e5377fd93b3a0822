package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zzpboek/zzpboek/internal/accountant/domain"
	"github.com/zzpboek/zzpboek/internal/accountant/store"
	"github.com/zzpboek/zzpboek/pkg/idx"
)

func seedGrant(t *testing.T, st store.Store, principalID, companyID string, status domain.GrantStatus, caps domain.Capabilities) domain.AccessGrant {
	t.Helper()

	g := domain.AccessGrant{
		ID:           idx.New().String(),
		PrincipalID:  principalID,
		CompanyID:    companyID,
		Role:         domain.RoleAccountant,
		Capabilities: caps,
		Status:       status,
	}
	require.NoError(t, st.Grants().CreateGrant(context.Background(), g))
	return g
}

func TestTenantResolveOwner(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	owner := seedPrincipal(t, st, "eigenaar@zzp.nl", domain.RoleOwner)
	own := seedCompany(t, st, owner.ID, "Eigen Zaak")
	otherOwner := seedPrincipal(t, st, "ander@zzp.nl", domain.RoleOwner)
	other := seedCompany(t, st, otherOwner.ID, "Andere Zaak")

	svc := &TenantService{Store: st}

	t.Run("defaults to own company", func(t *testing.T) {
		tc, err := svc.Resolve(ctx, owner, "")
		require.NoError(t, err)
		require.Equal(t, own.ID, tc.ActiveCompanyID)
		require.True(t, tc.IsOwnerContext)
		require.Nil(t, tc.ActiveGrant)
	})

	t.Run("cookie ignored without cross-company grants", func(t *testing.T) {
		tc, err := svc.Resolve(ctx, owner, other.ID)
		require.NoError(t, err)
		require.Equal(t, own.ID, tc.ActiveCompanyID)
		require.True(t, tc.IsOwnerContext)
	})
}

func TestTenantResolveOwnerMultiCompany(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	owner := seedPrincipal(t, st, "eigenaar@zzp.nl", domain.RoleOwner)
	own := seedCompany(t, st, owner.ID, "Eigen Zaak")
	otherOwner := seedPrincipal(t, st, "ander@zzp.nl", domain.RoleOwner)
	other := seedCompany(t, st, otherOwner.ID, "Andere Zaak")

	// A non-owner grant elsewhere unlocks company switching.
	grant := seedGrant(t, st, owner.ID, other.ID, domain.GrantActive, domain.Capabilities{CanRead: true})

	svc := &TenantService{Store: st}

	t.Run("cookie switches to granted company", func(t *testing.T) {
		tc, err := svc.Resolve(ctx, owner, other.ID)
		require.NoError(t, err)
		require.Equal(t, other.ID, tc.ActiveCompanyID)
		require.False(t, tc.IsOwnerContext)
		require.NotNil(t, tc.ActiveGrant)
		require.Equal(t, grant.ID, tc.ActiveGrant.ID)
	})

	t.Run("no cookie still lands on own company", func(t *testing.T) {
		tc, err := svc.Resolve(ctx, owner, "")
		require.NoError(t, err)
		require.Equal(t, own.ID, tc.ActiveCompanyID)
		require.True(t, tc.IsOwnerContext)
	})

	t.Run("cookie for an ungranted company is ignored", func(t *testing.T) {
		tc, err := svc.Resolve(ctx, owner, idx.New().String())
		require.NoError(t, err)
		require.Equal(t, own.ID, tc.ActiveCompanyID)
	})
}

func TestTenantResolveAccountant(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	ownerA := seedPrincipal(t, st, "a@zzp.nl", domain.RoleOwner)
	companyA := seedCompany(t, st, ownerA.ID, "Zaak A")
	ownerB := seedPrincipal(t, st, "b@zzp.nl", domain.RoleOwner)
	companyB := seedCompany(t, st, ownerB.ID, "Zaak B")
	accountant := seedPrincipal(t, st, "bk@kantoor.nl", domain.RoleAccountant)

	grantA := seedGrant(t, st, accountant.ID, companyA.ID, domain.GrantActive, domain.Capabilities{CanRead: true})
	grantB := seedGrant(t, st, accountant.ID, companyB.ID, domain.GrantActive, domain.Capabilities{CanRead: true})

	svc := &TenantService{Store: st}

	t.Run("cookie picks the granted company", func(t *testing.T) {
		tc, err := svc.Resolve(ctx, accountant, companyA.ID)
		require.NoError(t, err)
		require.Equal(t, companyA.ID, tc.ActiveCompanyID)
		require.False(t, tc.IsOwnerContext)
		require.Equal(t, grantA.ID, tc.ActiveGrant.ID)
	})

	t.Run("no cookie falls back to newest grant", func(t *testing.T) {
		tc, err := svc.Resolve(ctx, accountant, "")
		require.NoError(t, err)
		require.Equal(t, companyB.ID, tc.ActiveCompanyID)
		require.Equal(t, grantB.ID, tc.ActiveGrant.ID)
	})

	t.Run("revoked grants never resolve", func(t *testing.T) {
		require.NoError(t, st.Grants().UpdateGrant(ctx, grantB.ID, domain.GrantRevoked, grantB.Role, grantB.Capabilities))

		tc, err := svc.Resolve(ctx, accountant, companyB.ID)
		require.NoError(t, err)
		// Cookie points at the revoked edge, so the remaining active grant wins.
		require.Equal(t, companyA.ID, tc.ActiveCompanyID)
	})
}

func TestTenantResolveWithoutAnyGrant(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	staff := seedPrincipal(t, st, "staff@zzp.nl", domain.RoleStaff)
	company := seedCompany(t, st, staff.ID, "Eigen Zaak")

	svc := &TenantService{Store: st}

	tc, err := svc.Resolve(ctx, staff, "")
	require.NoError(t, err)
	require.Equal(t, company.ID, tc.ActiveCompanyID)
	require.True(t, tc.IsOwnerContext)

	t.Run("no company at all resolves empty", func(t *testing.T) {
		floating := seedPrincipal(t, st, "los@kantoor.nl", domain.RoleAccountant)
		tc, err := svc.Resolve(ctx, floating, "")
		require.NoError(t, err)
		require.Empty(t, tc.ActiveCompanyID)
	})
}
