package http

import (
	"errors"
	"net/http"

	"github.com/zzpboek/zzpboek/internal/accountant/service"
	"github.com/zzpboek/zzpboek/pkg/accountantapi"
	"github.com/zzpboek/zzpboek/pkg/httpx"
	"github.com/zzpboek/zzpboek/pkg/slogx"
)

type InviteResendHandler struct {
	InviteService *service.InviteService
}

// ServeHTTP handles POST /v1/invites/{id}/resend. Both the link token and the
// OTP rotate, so the previous email stops working entirely.
func (h *InviteResendHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
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

	invite, _, err := h.InviteService.Resend(ctx, inviteID, httpx.PrincipalIDFromCtx(ctx))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInviteNotFound):
			httpx.WriteJSON(w, http.StatusNotFound, accountantapi.ErrorResponse{
				Error:            "invite_not_found",
				ErrorDescription: "Invite not found",
			})
		case errors.Is(err, service.ErrResendNotAllowed):
			httpx.WriteJSON(w, http.StatusConflict, accountantapi.ErrorResponse{
				Error:            "resend_not_allowed",
				ErrorDescription: "Only a pending, unexpired invite can be resent",
			})
		case errors.Is(err, service.ErrForbidden):
			httpx.WriteJSON(w, http.StatusForbidden, accountantapi.ErrorResponse{
				Error:            "forbidden",
				ErrorDescription: "Only the company owner can resend invites",
			})
		default:
			log.Error("failed to resend invite", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, accountantapi.ErrorResponse{
				Error:            "server_error",
				ErrorDescription: "Failed to resend invite",
			})
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accountantapi.ResendInviteResponse{
		InviteID:     invite.ID,
		OTPExpiresAt: invite.OTPExpiresAt.Unix(),
	})
}
