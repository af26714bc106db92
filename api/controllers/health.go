package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/samansa/movie-store/api/responses"
	"github.com/samansa/movie-store/pkg/config"
	pkgerrors "github.com/samansa/movie-store/pkg/errors"
	"github.com/samansa/movie-store/pkg/logger"
)

const (
	envHeader    = "X-MovieStore-Env"
	readyTimeout = 2 * time.Second
)

// Pinger is a dependency the readiness check must reach.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteStatus(w, "live")
	}
}

// HealthReady pings every named dependency. Nil pingers are skipped so an
// unconfigured Redis does not fail readiness.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		failed := map[string]string{}
		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				failed[name] = err.Error()
			}
		}
		if len(failed) > 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "dependencies unavailable").
				WithDetails(map[string]any{"failed": failed}))
			return
		}
		responses.WriteStatus(w, "ready")
	}
}
