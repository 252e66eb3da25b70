package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/monoshelf/monoshelf-backend/api/routes"
	"github.com/monoshelf/monoshelf-backend/internal/auth"
	"github.com/monoshelf/monoshelf-backend/internal/dashboard"
	"github.com/monoshelf/monoshelf-backend/internal/incidents"
	"github.com/monoshelf/monoshelf-backend/internal/ownership"
	"github.com/monoshelf/monoshelf-backend/internal/products"
	"github.com/monoshelf/monoshelf-backend/internal/usagelogs"
	"github.com/monoshelf/monoshelf-backend/internal/users"
	"github.com/monoshelf/monoshelf-backend/pkg/auth/session"
	"github.com/monoshelf/monoshelf-backend/pkg/config"
	"github.com/monoshelf/monoshelf-backend/pkg/db"
	"github.com/monoshelf/monoshelf-backend/pkg/github"
	"github.com/monoshelf/monoshelf-backend/pkg/logger"
	"github.com/monoshelf/monoshelf-backend/pkg/metrics"
	"github.com/monoshelf/monoshelf-backend/pkg/migrate"
	"github.com/monoshelf/monoshelf-backend/pkg/redis"
)

const shutdownGrace = 10 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	githubClient, err := github.NewClient(context.Background(), cfg.GitHub, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create github client", err)
		os.Exit(1)
	}

	usersRepo := users.NewRepository(dbClient.DB())
	productsRepo := products.NewRepository(dbClient.DB())
	usageLogsRepo := usagelogs.NewRepository(dbClient.DB())
	incidentsRepo := incidents.NewRepository(dbClient.DB())

	guard, err := ownership.NewGuard(productsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create ownership guard", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		GitHubClient:   githubClient,
		UserRepo:       usersRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	productService, err := products.NewService(products.ServiceParams{
		Repo:      productsRepo,
		Guard:     guard,
		UsageLogs: usageLogsRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	usageLogService, err := usagelogs.NewService(usagelogs.ServiceParams{
		Repo:  usageLogsRepo,
		Guard: guard,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create usage log service", err)
		os.Exit(1)
	}

	incidentService, err := incidents.NewService(incidents.ServiceParams{
		Repo:  incidentsRepo,
		Guard: guard,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create incident service", err)
		os.Exit(1)
	}

	dashboardService, err := dashboard.NewService(dashboard.ServiceParams{
		Products:  productsRepo,
		UsageLogs: usageLogsRepo,
		Incidents: incidentsRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create dashboard service", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:           cfg,
			Logger:           logg,
			DB:               dbClient,
			Redis:            redisClient,
			Sessions:         sessionManager,
			HTTPMetrics:      httpMetrics,
			AuthService:      authService,
			UsersRepo:        usersRepo,
			ProductService:   productService,
			UsageLogService:  usageLogService,
			IncidentService:  incidentService,
			DashboardService: dashboardService,
		}),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
