package http

import (
	"errors"
	"net/http"

	"github.com/zzpboek/zzpboek/internal/accountant/service"
	"github.com/zzpboek/zzpboek/pkg/accountantapi"
	"github.com/zzpboek/zzpboek/pkg/httpx"
	"github.com/zzpboek/zzpboek/pkg/slogx"
)

type MeHandler struct {
	SessionService *service.SessionService
}

// ServeHTTP handles GET /v1/accountant/me, authenticated by the accountant
// session cookie. Every call revalidates the backing grant, so a freshly
// revoked accountant sees 401 here even with an unexpired cookie.
func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	httpx.NoCache(w)

	session, caps, err := h.SessionService.Describe(ctx, httpx.SessionTokenFromRequest(r))
	if err != nil {
		if errors.Is(err, service.ErrSessionInvalid) {
			httpx.ClearSessionCookie(w)
			httpx.WriteJSON(w, http.StatusUnauthorized, accountantapi.ErrorResponse{
				Error:            "session_invalid",
				ErrorDescription: "Accountant session is missing, expired, or revoked",
			})
			return
		}
		log.Error("failed to resolve accountant session", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, accountantapi.ErrorResponse{
			Error:            "server_error",
			ErrorDescription: "Failed to resolve session",
		})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accountantapi.MeResponse{
		PrincipalID:  session.PrincipalID,
		Email:        session.Email,
		CompanyID:    session.CompanyID,
		Role:         string(session.Role),
		Capabilities: capsToAPI(caps),
		ExpiresAt:    session.ExpiresAt.Unix(),
	})
}
