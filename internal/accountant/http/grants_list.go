package http

import (
	"errors"
	"net/http"

	"github.com/zzpboek/zzpboek/internal/accountant/service"
	"github.com/zzpboek/zzpboek/pkg/accountantapi"
	"github.com/zzpboek/zzpboek/pkg/httpx"
	"github.com/zzpboek/zzpboek/pkg/slogx"
)

type GrantsListHandler struct {
	InviteService *service.InviteService
}

// ServeHTTP handles GET /v1/accountant/grants?company_id=, the owner's
// overview of who holds access. Revoked grants are included so the history
// stays visible.
func (h *GrantsListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	companyID := r.URL.Query().Get("company_id")
	if companyID == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, accountantapi.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "company_id is required",
		})
		return
	}

	grants, err := h.InviteService.ListGrants(ctx, companyID, httpx.PrincipalIDFromCtx(ctx))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCompanyNotFound):
			httpx.WriteJSON(w, http.StatusNotFound, accountantapi.ErrorResponse{
				Error:            "company_not_found",
				ErrorDescription: "Company not found",
			})
		case errors.Is(err, service.ErrForbidden):
			httpx.WriteJSON(w, http.StatusForbidden, accountantapi.ErrorResponse{
				Error:            "forbidden",
				ErrorDescription: "Only the company owner can list grants",
			})
		default:
			log.Error("failed to list grants", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, accountantapi.ErrorResponse{
				Error:            "server_error",
				ErrorDescription: "Failed to list grants",
			})
		}
		return
	}

	out := accountantapi.ListGrantsResponse{Grants: make([]accountantapi.Grant, 0, len(grants))}
	for _, g := range grants {
		out.Grants = append(out.Grants, accountantapi.Grant{
			GrantID:      g.ID,
			PrincipalID:  g.PrincipalID,
			Email:        g.Email,
			Role:         string(g.Role),
			Status:       string(g.Status),
			Capabilities: capsToAPI(g.Capabilities),
			CreatedAt:    g.CreatedAt.Unix(),
		})
	}

	httpx.WriteJSON(w, http.StatusOK, out)
}
