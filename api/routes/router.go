package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/thesisvault/backend/api/controllers"
	"github.com/thesisvault/backend/api/middleware"
	"github.com/thesisvault/backend/internal/access"
	"github.com/thesisvault/backend/internal/auth"
	"github.com/thesisvault/backend/internal/borrow"
	"github.com/thesisvault/backend/internal/scans"
	"github.com/thesisvault/backend/internal/theses"
	"github.com/thesisvault/backend/internal/users"
	"github.com/thesisvault/backend/pkg/auth/session"
	"github.com/thesisvault/backend/pkg/config"
	"github.com/thesisvault/backend/pkg/logger"
	"github.com/thesisvault/backend/pkg/metrics"
	"github.com/thesisvault/backend/pkg/redis"
)

// Deps carries everything the HTTP surface needs. cmd/api builds one from the
// wired clients and services.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	Registry *prometheus.Registry

	DBPinger      controllers.Pinger
	RedisClient   *redis.Client
	StoragePinger controllers.Pinger

	Sessions session.AccessSessionChecker

	AuthService     auth.Service
	RegisterService auth.RegisterService
	UsersService    users.Service
	ThesesService   theses.Service
	AccessService   access.Service
	ScansService    scans.Service
	BorrowService   borrow.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.CORS(),
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics(deps.Registry)),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginUsernameLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterUsernameLimit,
	)

	pingers := map[string]controllers.Pinger{}
	if deps.DBPinger != nil {
		pingers["postgres"] = deps.DBPinger
	}
	if deps.RedisClient != nil {
		pingers["redis"] = deps.RedisClient
	}
	if deps.StoragePinger != nil {
		pingers["storage"] = deps.StoragePinger
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, pingers))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.RedisClient, logg)).Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, deps.RedisClient, logg)).Post("/register", controllers.AuthRegister(deps.RegisterService, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(deps.AuthService, cfg.JWT, logg))
		r.Post("/restore", controllers.AuthRestore(deps.AuthService, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

		r.Get("/ping", controllers.PrivatePing())

		r.Route("/v1", func(r chi.Router) {
			r.Get("/me", controllers.MeProfile(deps.UsersService, logg))

			r.Post("/scan", controllers.Scan(deps.ThesesService, deps.ScansService, deps.AccessService, logg))

			r.Route("/theses", func(r chi.Router) {
				r.Get("/", controllers.ThesisSearch(deps.ThesesService, logg))
				r.Get("/recent", controllers.RecentScans(deps.ScansService, logg))
				r.Route("/{thesisId}", func(r chi.Router) {
					r.Get("/", controllers.ThesisGet(deps.ThesesService, logg))
					r.Get("/pdf", controllers.ThesisPDF(deps.ThesesService, deps.AccessService, logg))
					r.Get("/access", controllers.AccessStatus(deps.AccessService, logg))
					r.Post("/access", controllers.AccessRequestCreate(deps.AccessService, logg))
					r.Post("/borrow", controllers.BorrowIssueQR(deps.BorrowService, logg))
				})
			})

			r.Route("/bookshelf", func(r chi.Router) {
				r.Post("/logs", controllers.BookshelfLogCreate(deps.BorrowService, logg))
				r.Get("/logs", controllers.BorrowHistory(deps.BorrowService, logg))
			})
		})
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
		r.Use(middleware.RequireRole("admin", logg))

		r.Get("/ping", controllers.AdminPing())

		r.Route("/v1", func(r chi.Router) {
			r.Route("/access-requests", func(r chi.Router) {
				r.Get("/", controllers.AdminAccessPending(deps.AccessService, logg))
				r.Post("/{requestId}/approve", controllers.AdminAccessApprove(deps.AccessService, logg))
				r.Post("/{requestId}/deny", controllers.AdminAccessDeny(deps.AccessService, logg))
			})
			r.Route("/theses", func(r chi.Router) {
				r.Post("/", controllers.AdminThesisCreate(deps.ThesesService, logg))
				r.Put("/{thesisId}/inventory", controllers.AdminThesisSetCopies(deps.ThesesService, logg))
			})
		})
	})

	return r
}

// httpMetrics avoids handing NewHTTPMetrics a typed-nil *prometheus.Registry,
// which would slip past its nil-registerer guard.
func httpMetrics(registry *prometheus.Registry) *metrics.HTTPMetrics {
	if registry == nil {
		return metrics.NewHTTPMetrics(nil)
	}
	return metrics.NewHTTPMetrics(registry)
}
