package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zzpboek/zzpboek/internal/accountant/domain"
)

func TestAuditRecordAndList(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	owner := seedPrincipal(t, st, "eigenaar@zzp.nl", domain.RoleOwner)
	company := seedCompany(t, st, owner.ID, "Jansen Advies")

	svc := &AuditService{Store: st}

	require.NoError(t, svc.Record(ctx, company.ID, owner.ID, domain.AuditInviteCreated, "b***@kantoor.nl"))
	require.NoError(t, svc.Record(ctx, company.ID, owner.ID, domain.AuditGrantRevoked, ""))

	events, err := svc.ListForCompany(ctx, company.ID, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	// Newest first.
	require.Equal(t, domain.AuditGrantRevoked, events[0].Kind)
	require.Equal(t, domain.AuditInviteCreated, events[1].Kind)
}

func TestAuditListAuthorization(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	owner := seedPrincipal(t, st, "eigenaar@zzp.nl", domain.RoleOwner)
	outsider := seedPrincipal(t, st, "ander@zzp.nl", domain.RoleStaff)
	admin := seedPrincipal(t, st, "admin@zzpboek.nl", domain.RoleAdmin)
	company := seedCompany(t, st, owner.ID, "Jansen Advies")

	svc := &AuditService{Store: st}
	require.NoError(t, svc.Record(ctx, company.ID, owner.ID, domain.AuditInviteCreated, ""))

	_, err := svc.ListForCompanyAs(ctx, company.ID, outsider.ID, 10)
	require.ErrorIs(t, err, ErrForbidden)

	events, err := svc.ListForCompanyAs(ctx, company.ID, owner.ID, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)

	events, err = svc.ListForCompanyAs(ctx, company.ID, admin.ID, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)

	_, err = svc.ListForCompanyAs(ctx, "missing-company", owner.ID, 10)
	require.ErrorIs(t, err, ErrCompanyNotFound)
}
