package http

import (
	"net/http"

	"github.com/zzpboek/zzpboek/internal/accountant/service"
	"github.com/zzpboek/zzpboek/pkg/accountantapi"
	"github.com/zzpboek/zzpboek/pkg/httpx"
	"github.com/zzpboek/zzpboek/pkg/slogx"
)

type LogoutHandler struct {
	SessionService *service.SessionService
}

// ServeHTTP handles POST /v1/accountant/logout. Idempotent: an absent or
// already-dead session still clears the cookie and returns 204.
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if err := h.SessionService.Destroy(ctx, httpx.SessionTokenFromRequest(r)); err != nil {
		log.Error("failed to destroy accountant session", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, accountantapi.ErrorResponse{
			Error:            "server_error",
			ErrorDescription: "Failed to log out",
		})
		return
	}

	httpx.ClearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}
