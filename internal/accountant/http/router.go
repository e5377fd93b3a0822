package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/zzpboek/zzpboek/internal/accountant/service"
	"github.com/zzpboek/zzpboek/internal/accountant/store"
	"github.com/zzpboek/zzpboek/pkg/httpx"
	"github.com/zzpboek/zzpboek/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	jwtSecret    []byte
	jwtIssuer    string
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store          store.Store
	InviteService  *service.InviteService
	SessionService *service.SessionService
	TenantService  *service.TenantService
	AuditService   *service.AuditService
}

func NewRouter(
	jwtSecret []byte,
	jwtIssuer, buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		jwtSecret:    jwtSecret,
		jwtIssuer:    jwtIssuer,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerInvites()
	r.registerAccountant()
	r.registerTenant()
	r.registerAudit()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerInvites() {
	authn := httpx.AuthnMiddleware(r.jwtSecret, r.jwtIssuer)

	// Owner-side invite management, all behind the primary bearer token.
	createHandler := &InviteCreateHandler{InviteService: r.InviteService}
	r.Mux.Handle("POST /v1/invites",
		httpx.Chain(createHandler,
			authn,
			httpx.RateLimitByPrincipal(httpx.ModerateLimit),
		),
	)

	listHandler := &InviteListHandler{InviteService: r.InviteService}
	r.Mux.Handle("GET /v1/invites",
		httpx.Chain(listHandler,
			authn,
			httpx.RateLimitByPrincipal(httpx.LenientLimit),
		),
	)

	resendHandler := &InviteResendHandler{InviteService: r.InviteService}
	r.Mux.Handle("POST /v1/invites/{id}/resend",
		httpx.Chain(resendHandler,
			authn,
			httpx.RateLimitByPrincipal(httpx.ModerateLimit),
		),
	)

	cancelHandler := &InviteCancelHandler{InviteService: r.InviteService}
	r.Mux.Handle("POST /v1/invites/{id}/cancel",
		httpx.Chain(cancelHandler,
			authn,
			httpx.RateLimitByPrincipal(httpx.ModerateLimit),
		),
	)

	// Public landing validation for the emailed link. Rate limited by IP so
	// token guessing stays impractical on top of the 256-bit token space.
	acceptHandler := &InviteAcceptHandler{InviteService: r.InviteService}
	r.Mux.Handle("GET /v1/invites/accept",
		httpx.Chain(acceptHandler,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerAccountant() {
	authn := httpx.AuthnMiddleware(r.jwtSecret, r.jwtIssuer)

	// POST /otp/verify - strict rate limit by IP (6-digit code guessing)
	verifyHandler := &OTPVerifyHandler{InviteService: r.InviteService}
	r.Mux.Handle("POST /v1/accountant/otp/verify",
		httpx.Chain(verifyHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	revokeHandler := &GrantRevokeHandler{InviteService: r.InviteService}
	r.Mux.Handle("POST /v1/accountant/revoke",
		httpx.Chain(revokeHandler,
			authn,
			httpx.RateLimitByPrincipal(httpx.ModerateLimit),
		),
	)

	grantsHandler := &GrantsListHandler{InviteService: r.InviteService}
	r.Mux.Handle("GET /v1/accountant/grants",
		httpx.Chain(grantsHandler,
			authn,
			httpx.RateLimitByPrincipal(httpx.LenientLimit),
		),
	)

	// Cookie-authenticated endpoints; the handlers validate the accountant
	// session themselves since the bearer middleware never sees the cookie.
	meHandler := &MeHandler{SessionService: r.SessionService}
	r.Mux.Handle("GET /v1/accountant/me",
		httpx.Chain(meHandler,
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	companyHandler := &CompanyHandler{SessionService: r.SessionService, TenantService: r.TenantService}
	r.Mux.Handle("GET /v1/accountant/company",
		httpx.Chain(companyHandler,
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	logoutHandler := &LogoutHandler{SessionService: r.SessionService}
	r.Mux.Handle("POST /v1/accountant/logout",
		httpx.Chain(logoutHandler,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerTenant() {
	h := &TenantContextHandler{TenantService: r.TenantService}
	r.Mux.Handle("GET /v1/tenant/context",
		httpx.Chain(h,
			httpx.AuthnMiddleware(r.jwtSecret, r.jwtIssuer),
			httpx.RateLimitByPrincipal(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerAudit() {
	h := &AuditListHandler{AuditService: r.AuditService}
	r.Mux.Handle("GET /v1/audit",
		httpx.Chain(h,
			httpx.AuthnMiddleware(r.jwtSecret, r.jwtIssuer),
			httpx.RateLimitByPrincipal(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring may poll often)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
