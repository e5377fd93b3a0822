package http

import (
	"errors"
	"net/http"

	"github.com/zzpboek/zzpboek/internal/accountant/service"
	"github.com/zzpboek/zzpboek/pkg/accountantapi"
	"github.com/zzpboek/zzpboek/pkg/httpx"
	"github.com/zzpboek/zzpboek/pkg/slogx"
)

type InviteListHandler struct {
	InviteService *service.InviteService
}

// ServeHTTP handles GET /v1/invites?company_id=. Only PENDING invites are
// listed; completed and withdrawn ones live in the audit trail.
func (h *InviteListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
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

	invites, err := h.InviteService.ListPending(ctx, companyID, httpx.PrincipalIDFromCtx(ctx))
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
				ErrorDescription: "Only the company owner can list invites",
			})
		default:
			log.Error("failed to list invites", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, accountantapi.ErrorResponse{
				Error:            "server_error",
				ErrorDescription: "Failed to list invites",
			})
		}
		return
	}

	out := accountantapi.ListInvitesResponse{Invites: make([]accountantapi.PendingInvite, 0, len(invites))}
	for _, inv := range invites {
		out.Invites = append(out.Invites, accountantapi.PendingInvite{
			InviteID:     inv.ID,
			Email:        inv.Email,
			Capabilities: capsToAPI(inv.Capabilities),
			CreatedAt:    inv.CreatedAt.Unix(),
			ExpiresAt:    inv.ExpiresAt.Unix(),
		})
	}

	httpx.WriteJSON(w, http.StatusOK, out)
}
