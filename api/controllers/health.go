package controllers

import (
	"context"
	"net/http"

	"github.com/Kobby-jnrr/kstore-backend/api/responses"
	"github.com/Kobby-jnrr/kstore-backend/pkg/config"
	pkgerrors "github.com/Kobby-jnrr/kstore-backend/pkg/errors"
	"github.com/Kobby-jnrr/kstore-backend/pkg/logger"
)

const envHeader = "X-KStore-Env"

type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports readiness only when the database and redis answer.
func HealthReady(cfg *config.Config, logg *logger.Logger, db, cache pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		checks := map[string]string{"db": "ok", "redis": "ok"}
		healthy := true

		if db == nil {
			checks["db"] = "not configured"
			healthy = false
		} else if err := db.Ping(r.Context()); err != nil {
			checks["db"] = err.Error()
			healthy = false
		}

		if cache == nil {
			checks["redis"] = "not configured"
			healthy = false
		} else if err := cache.Ping(r.Context()); err != nil {
			checks["redis"] = err.Error()
			healthy = false
		}

		if !healthy {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeDependency, "dependencies unavailable").WithDetails(checks))
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
