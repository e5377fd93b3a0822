package service

import (
	"context"
	"errors"

	"github.com/zzpboek/zzpboek/internal/accountant/domain"
	"github.com/zzpboek/zzpboek/internal/accountant/store"
	"github.com/zzpboek/zzpboek/pkg/idx"
)

// AuditService exposes the append-only audit trail. Writes happen inside the
// transactions of the flows that emit them; this service covers standalone
// emission and the owner-facing listing.
type AuditService struct {
	Store store.Store
}

// Record appends a single event.
func (s *AuditService) Record(ctx context.Context, companyID, principalID string, kind domain.AuditKind, detail string) error {
	return s.Store.AuditEvents().AppendAuditEvent(ctx, domain.AuditEvent{
		ID:          idx.New().String(),
		CompanyID:   companyID,
		PrincipalID: principalID,
		Kind:        kind,
		Detail:      detail,
	})
}

// ListForCompany returns recent events for a company, newest first.
func (s *AuditService) ListForCompany(ctx context.Context, companyID string, limit int) ([]domain.AuditEvent, error) {
	return s.Store.AuditEvents().ListAuditEventsForCompany(ctx, companyID, limit)
}

// ListForCompanyAs is the owner-facing listing: only the company owner or a
// platform admin may read the trail.
func (s *AuditService) ListForCompanyAs(ctx context.Context, companyID, requestedBy string, limit int) ([]domain.AuditEvent, error) {
	company, err := s.Store.Companies().GetCompanyByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, err
	}

	if company.OwnerID != requestedBy {
		principal, err := s.Store.Principals().GetPrincipalByID(ctx, requestedBy)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, ErrForbidden
			}
			return nil, err
		}
		if principal.Role != domain.RoleAdmin {
			return nil, ErrForbidden
		}
	}

	return s.ListForCompany(ctx, companyID, limit)
}
