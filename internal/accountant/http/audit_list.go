package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/zzpboek/zzpboek/internal/accountant/service"
	"github.com/zzpboek/zzpboek/pkg/accountantapi"
	"github.com/zzpboek/zzpboek/pkg/httpx"
	"github.com/zzpboek/zzpboek/pkg/slogx"
)

const defaultAuditLimit = 100

type AuditListHandler struct {
	AuditService *service.AuditService
}

// ServeHTTP handles GET /v1/audit?company_id=&limit=, the owner's view of the
// access trail: invites, acceptances, revocations, sessions.
func (h *AuditListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
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

	limit := defaultAuditLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 1000 {
			limit = n
		}
	}

	events, err := h.AuditService.ListForCompanyAs(ctx, companyID, httpx.PrincipalIDFromCtx(ctx), limit)
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
				ErrorDescription: "Only the company owner can read the audit trail",
			})
		default:
			log.Error("failed to list audit events", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, accountantapi.ErrorResponse{
				Error:            "server_error",
				ErrorDescription: "Failed to list audit events",
			})
		}
		return
	}

	out := accountantapi.ListAuditResponse{Events: make([]accountantapi.AuditEvent, 0, len(events))}
	for _, ev := range events {
		out.Events = append(out.Events, accountantapi.AuditEvent{
			EventID:     ev.ID,
			PrincipalID: ev.PrincipalID,
			Kind:        string(ev.Kind),
			Detail:      ev.Detail,
			CreatedAt:   ev.CreatedAt.Unix(),
		})
	}

	httpx.WriteJSON(w, http.StatusOK, out)
}
