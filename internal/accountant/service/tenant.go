package service

import (
	"context"
	"errors"

	"github.com/zzpboek/zzpboek/internal/accountant/domain"
	"github.com/zzpboek/zzpboek/internal/accountant/store"
)

// TenantContext is the resolved company a principal is operating on for the
// current request.
type TenantContext struct {
	ActiveCompanyID string
	ActiveGrant     *domain.AccessGrant // nil in owner context
	IsOwnerContext  bool
}

// TenantService resolves the active company for a principal. The resolver is
// side-effect-free and cheap; it runs on every tenant-scoped request.
type TenantService struct {
	Store store.Store
}

// Resolve determines the active company for a principal, honoring an
// optional company hint from the selection cookie. Rules in priority order:
//
//  1. Owning roles default to their own company. The cookie only switches
//     them when multi-company mode is unlocked (at least one non-owner grant
//     exists) and an ACTIVE grant covers the hinted company.
//  2. Other principals follow the cookie when it maps to an ACTIVE grant,
//     else the most recently created ACTIVE grant, else their own company.
//
// Non-ACTIVE grants never participate in selection.
func (s *TenantService) Resolve(
	ctx context.Context,
	principal domain.Principal,
	cookieCompanyID string,
) (TenantContext, error) {
	grants, err := s.Store.Grants().ListGrantsForPrincipal(ctx, principal.ID)
	if err != nil {
		return TenantContext{}, err
	}

	active := make([]domain.AccessGrant, 0, len(grants))
	for _, g := range grants {
		if g.Status == domain.GrantActive {
			active = append(active, g)
		}
	}

	if principal.Role.IsOwning() {
		return s.resolveOwner(ctx, principal, cookieCompanyID, active)
	}
	return s.resolveGranted(ctx, principal, cookieCompanyID, active)
}

// ResolveForPrincipalID loads the principal and resolves, for callers that
// only hold the authenticated id.
func (s *TenantService) ResolveForPrincipalID(
	ctx context.Context,
	principalID string,
	cookieCompanyID string,
) (TenantContext, error) {
	principal, err := s.Store.Principals().GetPrincipalByID(ctx, principalID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return TenantContext{}, ErrForbidden
		}
		return TenantContext{}, err
	}
	return s.Resolve(ctx, principal, cookieCompanyID)
}

func (s *TenantService) resolveOwner(
	ctx context.Context,
	principal domain.Principal,
	cookieCompanyID string,
	active []domain.AccessGrant,
) (TenantContext, error) {
	own, err := s.ownCompany(ctx, principal.ID)
	if err != nil {
		return TenantContext{}, err
	}

	// Multi-company mode unlocks only when the owner also holds a grant
	// somewhere else; otherwise the cookie is ignored outright.
	unlocked := false
	for _, g := range active {
		if g.Role != domain.RoleOwner {
			unlocked = true
			break
		}
	}

	if cookieCompanyID != "" && unlocked {
		for _, g := range active {
			if g.CompanyID == cookieCompanyID {
				grant := g
				return TenantContext{
					ActiveCompanyID: g.CompanyID,
					ActiveGrant:     &grant,
					IsOwnerContext:  g.Role == domain.RoleOwner,
				}, nil
			}
		}
	}

	return TenantContext{ActiveCompanyID: own, IsOwnerContext: true}, nil
}

func (s *TenantService) resolveGranted(
	ctx context.Context,
	principal domain.Principal,
	cookieCompanyID string,
	active []domain.AccessGrant,
) (TenantContext, error) {
	if cookieCompanyID != "" {
		for _, g := range active {
			if g.CompanyID == cookieCompanyID {
				grant := g
				return TenantContext{
					ActiveCompanyID: g.CompanyID,
					ActiveGrant:     &grant,
					IsOwnerContext:  false,
				}, nil
			}
		}
	}

	// ListGrantsForPrincipal is newest-first, so the first active grant is
	// the most recently created one.
	if len(active) > 0 {
		grant := active[0]
		return TenantContext{
			ActiveCompanyID: grant.CompanyID,
			ActiveGrant:     &grant,
			IsOwnerContext:  false,
		}, nil
	}

	// Last resort: the principal's own company, owner context.
	own, err := s.ownCompany(ctx, principal.ID)
	if err != nil {
		return TenantContext{}, err
	}
	return TenantContext{ActiveCompanyID: own, IsOwnerContext: true}, nil
}

// CompanyByID loads a company profile for handlers that already resolved the
// active company id.
func (s *TenantService) CompanyByID(ctx context.Context, companyID string) (domain.Company, error) {
	company, err := s.Store.Companies().GetCompanyByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Company{}, ErrCompanyNotFound
		}
		return domain.Company{}, err
	}
	return company, nil
}

func (s *TenantService) ownCompany(ctx context.Context, principalID string) (string, error) {
	company, err := s.Store.Companies().GetCompanyByOwner(ctx, principalID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Principals without a company of their own (pure accountants)
			// still resolve; the empty id simply scopes nothing.
			return "", nil
		}
		return "", err
	}
	return company.ID, nil
}
