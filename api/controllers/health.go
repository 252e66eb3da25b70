package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/monoshelf/monoshelf-backend/api/responses"
	"github.com/monoshelf/monoshelf-backend/pkg/config"
	"github.com/monoshelf/monoshelf-backend/pkg/db"
	"github.com/monoshelf/monoshelf-backend/pkg/logger"
	"github.com/monoshelf/monoshelf-backend/pkg/redis"
)

const readyCheckTimeout = 2 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Monoshelf-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the backing stores and reports per-dependency status.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyCheckTimeout)
		defer cancel()

		w.Header().Set("X-Monoshelf-Env", cfg.App.Env)

		checks := map[string]string{}
		healthy := true

		checks["postgres"] = pingStatus(ctx, logg, "postgres", dbP, &healthy)
		checks["redis"] = pingStatus(ctx, logg, "redis", redisP, &healthy)

		status := "ready"
		httpStatus := http.StatusOK
		if !healthy {
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
		}

		responses.WriteSuccessStatus(w, httpStatus, map[string]any{
			"status": status,
			"checks": checks,
		})
	}
}

type pinger interface {
	Ping(context.Context) error
}

func pingStatus(ctx context.Context, logg *logger.Logger, name string, p pinger, healthy *bool) string {
	if p == nil {
		return "skipped"
	}
	if err := p.Ping(ctx); err != nil {
		*healthy = false
		if logg != nil {
			logCtx := logg.WithFields(ctx, map[string]any{"dependency": name, "error": err.Error()})
			logg.Warn(logCtx, "health.ready.dependency_down")
		}
		return "down"
	}
	return "ok"
}
