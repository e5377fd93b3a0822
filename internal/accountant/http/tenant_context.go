package http

import (
	"errors"
	"net/http"

	"github.com/zzpboek/zzpboek/internal/accountant/service"
	"github.com/zzpboek/zzpboek/pkg/accountantapi"
	"github.com/zzpboek/zzpboek/pkg/httpx"
	"github.com/zzpboek/zzpboek/pkg/slogx"
)

type TenantContextHandler struct {
	TenantService *service.TenantService
}

// ServeHTTP handles GET /v1/tenant/context. It resolves which company the
// authenticated principal is operating on, honoring the selection cookie, and
// reports the capability set the rest of the API will enforce.
func (h *TenantContextHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	httpx.NoCache(w)

	tc, err := h.TenantService.ResolveForPrincipalID(
		ctx,
		httpx.PrincipalIDFromCtx(ctx),
		httpx.ActiveCompanyFromRequest(r),
	)
	if err != nil {
		if errors.Is(err, service.ErrForbidden) {
			httpx.WriteJSON(w, http.StatusUnauthorized, accountantapi.ErrorResponse{
				Error:            "unauthorized",
				ErrorDescription: "Unknown principal",
			})
			return
		}
		log.Error("failed to resolve tenant context", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, accountantapi.ErrorResponse{
			Error:            "server_error",
			ErrorDescription: "Failed to resolve tenant context",
		})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accountantapi.TenantContextResponse{
		CompanyID:    tc.ActiveCompanyID,
		OwnerContext: tc.IsOwnerContext,
		Capabilities: capsToAPI(service.CapabilitiesFor(tc.ActiveGrant)),
	})
}
