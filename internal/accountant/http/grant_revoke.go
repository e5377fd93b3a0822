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

type GrantRevokeHandler struct {
	InviteService *service.InviteService
}

// ServeHTTP handles POST /v1/accountant/revoke. The grant flips to REVOKED
// and any session riding on it dies at its next validation.
func (h *GrantRevokeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req accountantapi.RevokeGrantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, accountantapi.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Invalid JSON body",
		})
		return
	}
	if req.GrantID == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, accountantapi.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "grant_id is required",
		})
		return
	}

	err := h.InviteService.RevokeGrant(ctx, req.GrantID, httpx.PrincipalIDFromCtx(ctx))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGrantNotFound):
			httpx.WriteJSON(w, http.StatusNotFound, accountantapi.ErrorResponse{
				Error:            "grant_not_found",
				ErrorDescription: "Grant not found",
			})
		case errors.Is(err, service.ErrForbidden):
			httpx.WriteJSON(w, http.StatusForbidden, accountantapi.ErrorResponse{
				Error:            "forbidden",
				ErrorDescription: "Only the company owner can revoke access",
			})
		default:
			log.Error("failed to revoke grant", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, accountantapi.ErrorResponse{
				Error:            "server_error",
				ErrorDescription: "Failed to revoke grant",
			})
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
