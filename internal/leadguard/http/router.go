package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/leadguard/internal/leadguard/service"
	"github.com/aussiebroadwan/leadguard/internal/leadguard/store"
	"github.com/aussiebroadwan/leadguard/pkg/formtoken"
	"github.com/aussiebroadwan/leadguard/pkg/httpx"
	"github.com/aussiebroadwan/leadguard/pkg/jwtx"
	"github.com/aussiebroadwan/leadguard/pkg/slogx"

	_ "github.com/aussiebroadwan/leadguard/api/leadguard" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Pinger is implemented by dependencies /readyz can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	limits       httpx.RateLimitProfiles

	store     store.Store
	singleUse formtoken.SingleUseStore

	IntegrityService  *service.IntegrityService
	SubmissionService *service.SubmissionService
	ReviewService     *service.ReviewService
	AdminService      *service.AdminService
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	singleUse formtoken.SingleUseStore,
	limits httpx.RateLimitProfiles,
	trusted httpx.TrustedProxies,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		limits:       limits,
		store:        st,
		singleUse:    singleUse,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.ClientIPMiddleware(trusted),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerForms()
	r.registerSubmissions()
	r.registerAdmin()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			LeadGuard Form Integrity Service API
//	@version		0.1.0
//	@description	Single-use, route-bound form tokens and heuristic abuse screening for lead capture forms.
//	@description
//	@description				Every form submission needs a fresh token from /v1/forms/token. Suspicious submissions are accepted and flagged for review.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/leadguard
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Admin session token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerForms() {
	h := &FormTokenHandler{IntegrityService: r.IntegrityService}

	// Token minting happens on every page view - lenient limit by IP
	r.Mux.Handle("GET /v1/forms/token",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			httpx.RateLimitByIP(r.limits.Lenient),
		),
	)
	r.Mux.Handle("POST /v1/forms/token",
		httpx.Chain(http.HandlerFunc(h.HandlePost),
			httpx.RateLimitByIP(r.limits.Lenient),
		),
	)
}

func (r *Router) registerSubmissions() {
	// Submissions - strict limit by IP, in front of the fingerprint heuristics
	for _, route := range r.IntegrityService.Routes {
		h := &SubmitHandler{Route: route, SubmissionService: r.SubmissionService}
		r.Mux.Handle("POST "+route,
			httpx.Chain(h,
				httpx.RateLimitByIP(r.limits.Strict),
			),
		)
	}
}

func (r *Router) registerAdmin() {
	login := &AdminLoginHandler{AdminService: r.AdminService}

	// POST /admin/login - strict limit by IP (password guessing)
	r.Mux.Handle("POST /v1/admin/login",
		httpx.Chain(login,
			httpx.RateLimitByIP(r.limits.Strict),
		),
	)

	h := &LeadsHandler{ReviewService: r.ReviewService}
	secure := func(next http.HandlerFunc) http.Handler {
		return httpx.Chain(next,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope(service.ScopeLeadsReview),
			httpx.RateLimitByUser(r.limits.Moderate),
		)
	}

	r.Mux.Handle("GET /v1/admin/leads", secure(h.HandleList))
	r.Mux.Handle("GET /v1/admin/leads/summary", secure(h.HandleSummary))
	r.Mux.Handle("POST /v1/admin/leads/{id}/review", secure(h.HandleReview))
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(r.limits.Lenient),
		),
	)

	var singleUse Pinger
	if p, ok := r.singleUse.(Pinger); ok {
		singleUse = p
	}
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, singleUse),
			httpx.RateLimitByIP(r.limits.Lenient),
		),
	)
}
