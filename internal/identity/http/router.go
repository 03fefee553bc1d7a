package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	_ "github.com/tea0112/ecm-identity-service-sub004/docs"
	"github.com/tea0112/ecm-identity-service-sub004/internal/identity/service"
	"github.com/tea0112/ecm-identity-service-sub004/internal/identity/store"
	"github.com/tea0112/ecm-identity-service-sub004/pkg/httpx"
	"github.com/tea0112/ecm-identity-service-sub004/pkg/slogx"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 64 << 10

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	metrics      *httpx.Metrics
	gatherer     prometheus.Gatherer

	store       store.Store
	RoleService *service.RoleService
	RoleLookup  service.RoleLookup
	UserService *service.UserService
}

// NewRouter creates a router. HTTP metrics are registered on reg and served
// from /metrics.
func NewRouter(
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
	reg *prometheus.Registry,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
		metrics:      httpx.NewMetrics(reg, "identity"),
		gatherer:     reg,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerRoles()
	r.registerUsers()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// handle registers h under pattern with route metrics.
func (r *Router) handle(pattern string, h http.Handler, mws ...httpx.Middleware) {
	mws = append([]httpx.Middleware{r.metrics.Instrument(pattern)}, mws...)
	r.Mux.Handle(pattern, httpx.Chain(h, mws...))
}

func (r *Router) registerRoles() {
	h := &RolesHandler{RoleService: r.RoleService}
	lookup := &RoleLookupHandler{Lookup: r.RoleLookup}

	r.handle("GET /v1/roles", http.HandlerFunc(h.HandleList),
		httpx.RateLimitByIP(httpx.ReadLimit),
	)

	// Role creation is the only write; keep it on the tighter budget.
	r.handle("POST /v1/roles", http.HandlerFunc(h.HandleCreate),
		httpx.RateLimitByIP(httpx.WriteLimit),
	)

	r.handle("GET /v1/roles/lookup", http.HandlerFunc(lookup.HandleLookup),
		httpx.RateLimitByIP(httpx.ReadLimit),
	)
	r.handle("POST /v1/roles/names", http.HandlerFunc(lookup.HandleNames),
		httpx.RateLimitByIP(httpx.ReadLimit),
	)
}

func (r *Router) registerUsers() {
	h := &UsersHandler{UserService: r.UserService, Lookup: r.RoleLookup}

	r.handle("GET /v1/users", http.HandlerFunc(h.HandleList),
		httpx.RateLimitByIP(httpx.ReadLimit),
	)
	r.handle("GET /v1/users/{id}", http.HandlerFunc(h.HandleGet),
		httpx.RateLimitByIP(httpx.ReadLimit),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
	r.Mux.Handle("GET /metrics", promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{}))
	r.Mux.Handle("GET /swagger/", httpSwagger.Handler())
}
