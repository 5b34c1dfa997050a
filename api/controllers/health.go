package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/angelmondragon/boq-builder/api/responses"
	"github.com/angelmondragon/boq-builder/pkg/config"
	pkgerrors "github.com/angelmondragon/boq-builder/pkg/errors"
	"github.com/angelmondragon/boq-builder/pkg/logger"
)

const envHeader = "X-BOQ-Env"

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the database with a short deadline.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		if dbP == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "database not configured"))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := dbP.Ping(ctx); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database not ready"))
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready", "database": "ok"})
	}
}
