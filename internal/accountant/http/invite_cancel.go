package http

import (
	"errors"
	"net/http"

	"github.com/zzpboek/zzpboek/internal/accountant/service"
	"github.com/zzpboek/zzpboek/pkg/accountantapi"
	"github.com/zzpboek/zzpboek/pkg/httpx"
	"github.com/zzpboek/zzpboek/pkg/slogx"
)

type InviteCancelHandler struct {
	InviteService *service.InviteService
}

// ServeHTTP handles POST /v1/invites/{id}/cancel, withdrawing a pending
// invitation before it is accepted.
func (h *InviteCancelHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	inviteID := r.PathValue("id")
	if inviteID == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, accountantapi.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "invite id is required",
		})
		return
	}

	err := h.InviteService.CancelPendingInvite(ctx, inviteID, httpx.PrincipalIDFromCtx(ctx))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInviteNotFound):
			httpx.WriteJSON(w, http.StatusNotFound, accountantapi.ErrorResponse{
				Error:            "invite_not_found",
				ErrorDescription: "Invite not found or no longer pending",
			})
		case errors.Is(err, service.ErrForbidden):
			httpx.WriteJSON(w, http.StatusForbidden, accountantapi.ErrorResponse{
				Error:            "forbidden",
				ErrorDescription: "Only the company owner can cancel invites",
			})
		default:
			log.Error("failed to cancel invite", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, accountantapi.ErrorResponse{
				Error:            "server_error",
				ErrorDescription: "Failed to cancel invite",
			})
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
