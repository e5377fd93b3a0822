package http

import (
	"errors"
	"net/http"

	"github.com/zzpboek/zzpboek/internal/accountant/service"
	"github.com/zzpboek/zzpboek/pkg/accountantapi"
	"github.com/zzpboek/zzpboek/pkg/httpx"
	"github.com/zzpboek/zzpboek/pkg/slogx"
)

type InviteAcceptHandler struct {
	InviteService *service.InviteService
}

// ServeHTTP handles GET /v1/invites/accept?token=. This is the public landing
// validation for the emailed link: it renders display data without consuming
// the invite, and the email comes back masked because the viewer has not yet
// proven anything.
func (h *InviteAcceptHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	httpx.NoCache(w)

	summary, err := h.InviteService.ValidateForDisplay(ctx, r.URL.Query().Get("token"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInviteNotFound):
			httpx.WriteJSON(w, http.StatusNotFound, accountantapi.ErrorResponse{
				Error:            "invite_not_found",
				ErrorDescription: "This invitation link is not valid",
			})
		case errors.Is(err, service.ErrInviteExpired):
			httpx.WriteJSON(w, http.StatusGone, accountantapi.ErrorResponse{
				Error:            "invite_expired",
				ErrorDescription: "This invitation has expired, ask for a new one",
			})
		case errors.Is(err, service.ErrInviteUsed):
			httpx.WriteJSON(w, http.StatusGone, accountantapi.ErrorResponse{
				Error:            "invite_used",
				ErrorDescription: "This invitation has already been accepted",
			})
		case errors.Is(err, service.ErrInviteRevoked):
			httpx.WriteJSON(w, http.StatusGone, accountantapi.ErrorResponse{
				Error:            "invite_revoked",
				ErrorDescription: "This invitation has been withdrawn",
			})
		default:
			log.Error("failed to validate invite for display", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, accountantapi.ErrorResponse{
				Error:            "server_error",
				ErrorDescription: "Failed to validate invite",
			})
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accountantapi.InviteDisplayResponse{
		CompanyName:  summary.CompanyName,
		MaskedEmail:  summary.MaskedEmail,
		NewAccount:   summary.IsNewPrincipal,
		Capabilities: capsToAPI(summary.Capabilities),
	})
}
