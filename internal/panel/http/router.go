package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/brightforge/sitepanel/internal/panel/service"
	"github.com/brightforge/sitepanel/internal/panel/store"
	"github.com/brightforge/sitepanel/pkg/httpx"
	"github.com/brightforge/sitepanel/pkg/jwtx"
	"github.com/brightforge/sitepanel/pkg/slogx"

	_ "github.com/brightforge/sitepanel/api/panel" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router wires handlers to routes and carries the dependencies they share.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier      jwtx.Verifier
	buildVersion  string
	startTime     time.Time
	logger        *slog.Logger
	secureCookies bool

	store          store.Store
	SessionService *service.SessionService
	AccountService *service.AccountService
	ResetService   *service.ResetService
	ClientService  *service.ClientService
	SiteService    *service.SiteService
	BackupService  *service.BackupService
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	secureCookies bool,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:           http.NewServeMux(),
		verifier:      verifier,
		buildVersion:  buildVersion,
		startTime:     time.Now(),
		secureCookies: secureCookies,
		store:         st,
		logger:        logger,
	}

	// Global chain; per-route middleware is added at registration time.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerAccount()
	r.registerClients()
	r.registerSites()
	r.registerBackups()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP runs every request through the global middleware chain before
// the mux dispatches it.
//
//	@title			SitePanel API
//	@version		0.1.0
//	@description	Backend for the agency site-management dashboard: magic-link authentication with rotating refresh cookies, client/site credential records, and database backups.
//
//	@contact.name	BrightForge Team
//	@contact.url	https://github.com/brightforge/sitepanel
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &SessionHandler{
		SessionService: r.SessionService,
		SecureCookies:  r.secureCookies,
	}

	// POST /login - strict rate limit (credential guessing)
	r.Mux.Handle("POST /api/users/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// GET /login-verify/{validationId} - strict rate limit (token guessing)
	r.Mux.Handle("GET /api/users/login-verify/{validationId}",
		httpx.Chain(http.HandlerFunc(h.HandleLoginVerify),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /refresh-token - moderate rate limit (one call per session per ~14m)
	r.Mux.Handle("POST /api/users/refresh-token",
		httpx.Chain(http.HandlerFunc(h.HandleRefresh),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("POST /api/users/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerAccount() {
	account := &AccountHandler{AccountService: r.AccountService}
	reset := &ResetHandler{ResetService: r.ResetService}

	r.Mux.Handle("POST /api/users/saveUser",
		httpx.Chain(http.HandlerFunc(account.HandleRegister),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("GET /api/users/magic_link/{token}",
		httpx.Chain(http.HandlerFunc(account.HandleVerifyEmail),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("POST /api/users/resend-verification/{token}",
		httpx.Chain(http.HandlerFunc(account.HandleResendByToken),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /api/users/resend-verification",
		httpx.Chain(http.HandlerFunc(account.HandleResendByEmail),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("POST /api/users/forgot-password",
		httpx.Chain(http.HandlerFunc(reset.HandleForgot),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("GET /api/users/reset-password/{token}",
		httpx.Chain(http.HandlerFunc(reset.HandleVerifyToken),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /api/users/reset-password",
		httpx.Chain(http.HandlerFunc(reset.HandleReset),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerClients() {
	h := &ClientsHandler{ClientService: r.ClientService}

	secured := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		)
	}

	r.Mux.Handle("GET /api/clients/user/{userId}", secured(h.HandleList))
	r.Mux.Handle("GET /api/clients/{id}", secured(h.HandleGet))
	r.Mux.Handle("POST /api/clients", secured(h.HandleCreate))
	r.Mux.Handle("PUT /api/clients/{id}", secured(h.HandleUpdate))
	r.Mux.Handle("DELETE /api/clients/{id}", secured(h.HandleDelete))
}

func (r *Router) registerSites() {
	h := &SitesHandler{SiteService: r.SiteService}

	secured := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		)
	}

	r.Mux.Handle("GET /api/sites", secured(h.HandleList))
	r.Mux.Handle("GET /api/sites/{id}", secured(h.HandleGet))
	r.Mux.Handle("POST /api/sites", secured(h.HandleCreate))
	r.Mux.Handle("PUT /api/sites/{id}", secured(h.HandleUpdate))
	r.Mux.Handle("DELETE /api/sites/{id}", secured(h.HandleDelete))
}

func (r *Router) registerBackups() {
	h := &BackupsHandler{BackupService: r.BackupService}

	secured := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("GET /api/backups", secured(h.HandleList))
	r.Mux.Handle("POST /api/backups", secured(h.HandleTrigger))
	r.Mux.Handle("GET /api/backups/settings", secured(h.HandleGetSettings))
	r.Mux.Handle("POST /api/backups/settings", secured(h.HandleSaveSettings))
}

func (r *Router) registerSystem() {
	// Probes get the lenient profile; monitors poll these constantly.
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
