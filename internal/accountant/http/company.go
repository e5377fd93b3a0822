package http

import (
	"errors"
	"net/http"

	"github.com/zzpboek/zzpboek/internal/accountant/service"
	"github.com/zzpboek/zzpboek/pkg/accountantapi"
	"github.com/zzpboek/zzpboek/pkg/httpx"
	"github.com/zzpboek/zzpboek/pkg/slogx"
)

type CompanyHandler struct {
	SessionService *service.SessionService
	TenantService  *service.TenantService
}

// ServeHTTP handles GET /v1/accountant/company, the company header shown on
// the accountant surface. Reading it requires the read capability on the
// backing grant; a grant without it gets 403, not a generic error.
func (h *CompanyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	httpx.NoCache(w)

	session, err := h.SessionService.Authorize(ctx, httpx.SessionTokenFromRequest(r), service.CapabilityRead)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionInvalid):
			httpx.ClearSessionCookie(w)
			httpx.WriteJSON(w, http.StatusUnauthorized, accountantapi.ErrorResponse{
				Error:            "session_invalid",
				ErrorDescription: "Accountant session is missing, expired, or revoked",
			})
		case errors.Is(err, service.ErrForbidden):
			httpx.WriteJSON(w, http.StatusForbidden, accountantapi.ErrorResponse{
				Error:            "forbidden",
				ErrorDescription: "This grant does not include read access",
			})
		default:
			log.Error("failed to authorize accountant session", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, accountantapi.ErrorResponse{
				Error:            "server_error",
				ErrorDescription: "Failed to resolve session",
			})
		}
		return
	}

	company, err := h.TenantService.CompanyByID(ctx, session.CompanyID)
	if err != nil {
		if errors.Is(err, service.ErrCompanyNotFound) {
			httpx.WriteJSON(w, http.StatusNotFound, accountantapi.ErrorResponse{
				Error:            "company_not_found",
				ErrorDescription: "Company not found",
			})
			return
		}
		log.Error("failed to load company", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, accountantapi.ErrorResponse{
			Error:            "server_error",
			ErrorDescription: "Failed to load company",
		})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accountantapi.CompanyResponse{
		CompanyID: company.ID,
		Name:      company.Name,
		KvK:       company.KvK,
	})
}
