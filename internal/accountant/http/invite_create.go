package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/zzpboek/zzpboek/internal/accountant/domain"
	"github.com/zzpboek/zzpboek/internal/accountant/service"
	"github.com/zzpboek/zzpboek/pkg/accountantapi"
	"github.com/zzpboek/zzpboek/pkg/httpx"
	"github.com/zzpboek/zzpboek/pkg/slogx"
)

type InviteCreateHandler struct {
	InviteService *service.InviteService
}

// ServeHTTP handles POST /v1/invites. The caller must be the company owner
// or a platform admin. The OTP reaches the invitee by email only; the invite
// URL comes back in the response so the owner can share the link manually
// when delivery fails.
func (h *InviteCreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req accountantapi.CreateInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, accountantapi.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Invalid JSON body",
		})
		return
	}

	if req.CompanyID == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, accountantapi.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "company_id is required",
		})
		return
	}
	if req.Email == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, accountantapi.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "email is required",
		})
		return
	}

	principalID := httpx.PrincipalIDFromCtx(ctx)
	if principalID == "" {
		httpx.WriteJSON(w, http.StatusUnauthorized, accountantapi.ErrorResponse{
			Error:            "unauthorized",
			ErrorDescription: "Authentication required",
		})
		return
	}

	invite, inviteURL, err := h.InviteService.Create(
		ctx,
		req.CompanyID,
		req.Email,
		domain.RoleAccountant,
		capsFromAPI(req.Capabilities),
		principalID,
	)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailInvalid):
			httpx.WriteJSON(w, http.StatusBadRequest, accountantapi.ErrorResponse{
				Error:            "email_invalid",
				ErrorDescription: "The email address is not valid",
			})
		case errors.Is(err, service.ErrAlreadyMember):
			httpx.WriteJSON(w, http.StatusConflict, accountantapi.ErrorResponse{
				Error:            "already_member",
				ErrorDescription: "This accountant already has access to the company",
			})
		case errors.Is(err, service.ErrCompanyNotFound):
			httpx.WriteJSON(w, http.StatusNotFound, accountantapi.ErrorResponse{
				Error:            "company_not_found",
				ErrorDescription: "Company not found",
			})
		case errors.Is(err, service.ErrForbidden):
			httpx.WriteJSON(w, http.StatusForbidden, accountantapi.ErrorResponse{
				Error:            "forbidden",
				ErrorDescription: "Only the company owner can invite accountants",
			})
		default:
			log.Error("failed to create invite", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, accountantapi.ErrorResponse{
				Error:            "server_error",
				ErrorDescription: "Failed to create invite",
			})
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, accountantapi.CreateInviteResponse{
		InviteID:  invite.ID,
		Email:     invite.Email,
		InviteURL: inviteURL,
		ExpiresAt: invite.ExpiresAt.Unix(),
	})
}
