package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/zzpboek/zzpboek/internal/accountant/service"
	"github.com/zzpboek/zzpboek/pkg/accountantapi"
	"github.com/zzpboek/zzpboek/pkg/httpx"
	"github.com/zzpboek/zzpboek/pkg/slogx"
)

type OTPVerifyHandler struct {
	InviteService *service.InviteService
}

// ServeHTTP handles POST /v1/accountant/otp/verify, the second half of the
// acceptance flow. On success the accountant session lands in an httpOnly
// cookie and the active-company hint is set; the body never carries the token.
func (h *OTPVerifyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req accountantapi.VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, accountantapi.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Invalid JSON body",
		})
		return
	}
	if req.Token == "" || req.Code == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, accountantapi.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "token and code are required",
		})
		return
	}

	result, err := h.InviteService.Accept(ctx, req.Token, req.Code)
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
		case errors.Is(err, service.ErrOTPExpired):
			httpx.WriteJSON(w, http.StatusUnauthorized, accountantapi.ErrorResponse{
				Error:            "otp_expired",
				ErrorDescription: "The verification code has expired, request a new email",
			})
		case errors.Is(err, service.ErrOTPInvalid):
			httpx.WriteJSON(w, http.StatusUnauthorized, accountantapi.ErrorResponse{
				Error:            "otp_invalid",
				ErrorDescription: "The verification code is incorrect",
			})
		case errors.Is(err, service.ErrOTPLocked):
			httpx.WriteJSON(w, http.StatusTooManyRequests, accountantapi.ErrorResponse{
				Error:            "otp_locked",
				ErrorDescription: "Too many incorrect codes, try again later",
			})
		case errors.Is(err, service.ErrEmailInvalid):
			httpx.WriteJSON(w, http.StatusUnprocessableEntity, accountantapi.ErrorResponse{
				Error:            "email_invalid",
				ErrorDescription: "The invited email address is not valid",
			})
		default:
			log.Error("failed to accept invite", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, accountantapi.ErrorResponse{
				Error:            "server_error",
				ErrorDescription: "Failed to accept invite",
			})
		}
		return
	}

	httpx.SetSessionCookie(w, result.SessionToken, result.SessionExpiry)
	http.SetCookie(w, &http.Cookie{
		Name:     httpx.ActiveCompanyCookie,
		Value:    result.Grant.CompanyID,
		Path:     "/",
		Expires:  result.SessionExpiry,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})

	httpx.WriteJSON(w, http.StatusOK, accountantapi.VerifyOTPResponse{
		PrincipalID: result.Principal.ID,
		CompanyID:   result.Grant.CompanyID,
		CompanyName: result.CompanyName,
		ExpiresAt:   result.SessionExpiry.Unix(),
	})
}
