package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/monoshelf/monoshelf-backend/api/controllers"
	"github.com/monoshelf/monoshelf-backend/api/middleware"
	"github.com/monoshelf/monoshelf-backend/internal/auth"
	"github.com/monoshelf/monoshelf-backend/internal/dashboard"
	incidentsvc "github.com/monoshelf/monoshelf-backend/internal/incidents"
	productsvc "github.com/monoshelf/monoshelf-backend/internal/products"
	usagesvc "github.com/monoshelf/monoshelf-backend/internal/usagelogs"
	"github.com/monoshelf/monoshelf-backend/internal/users"
	"github.com/monoshelf/monoshelf-backend/pkg/auth/session"
	"github.com/monoshelf/monoshelf-backend/pkg/config"
	"github.com/monoshelf/monoshelf-backend/pkg/db"
	"github.com/monoshelf/monoshelf-backend/pkg/logger"
	"github.com/monoshelf/monoshelf-backend/pkg/metrics"
	"github.com/monoshelf/monoshelf-backend/pkg/redis"
)

// Deps collects everything the HTTP surface needs.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          db.Pinger
	Redis       *redis.Client
	Sessions    session.AccessSessionChecker
	HTTPMetrics *metrics.HTTPMetrics

	AuthService      auth.Service
	UsersRepo        *users.Repository
	ProductService   productsvc.Service
	UsageLogService  usagesvc.Service
	IncidentService  incidentsvc.Service
	DashboardService dashboard.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
		middleware.Metrics(deps.HTTPMetrics),
	)

	signInPolicy := middleware.NewAuthRateLimitPolicy(
		"signin",
		cfg.AuthRateLimit.SignInWindow,
		cfg.AuthRateLimit.SignInIPLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(signInPolicy, deps.Redis, logg)).Post("/github", controllers.AuthSignIn(deps.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.AuthService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

		r.Get("/ping", controllers.PrivatePing())
		r.Post("/auth/logout", controllers.AuthLogout(deps.AuthService, logg))
		r.Get("/users/me", controllers.CurrentUser(deps.UsersRepo, logg))
		r.Get("/dashboard", controllers.DashboardSummary(deps.DashboardService, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductsList(deps.ProductService, logg))
			r.Post("/", controllers.ProductCreate(deps.ProductService, logg))

			r.Route("/{productId}", func(r chi.Router) {
				r.Get("/", controllers.ProductGet(deps.ProductService, logg))
				r.Put("/", controllers.ProductUpdate(deps.ProductService, logg))
				r.Delete("/", controllers.ProductDelete(deps.ProductService, logg))
				r.Get("/metrics", controllers.ProductMetrics(deps.ProductService, logg))

				r.Route("/usage", func(r chi.Router) {
					r.Get("/", controllers.UsageLogsList(deps.UsageLogService, logg))
					r.Post("/", controllers.UsageLogCreate(deps.UsageLogService, logg))
				})
				r.Route("/incidents", func(r chi.Router) {
					r.Get("/", controllers.IncidentsList(deps.IncidentService, logg))
					r.Post("/", controllers.IncidentCreate(deps.IncidentService, logg))
				})
			})
		})
	})

	return r
}
