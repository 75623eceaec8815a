package ui

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// ReadyCheck probes one dependency. A nil error means ready.
type ReadyCheck func(ctx context.Context) error

// NewOpsRouter builds the operational endpoints served away from the
// public API port: liveness, readiness, and build information.
func NewOpsRouter(version string, checks map[string]ReadyCheck) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	started := time.Now()

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status": "ok",
			"uptime": time.Since(started).Truncate(time.Second).String(),
		})
	})

	r.Get("/readyz", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 5*time.Second)
		defer cancel()

		status := http.StatusOK
		results := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				results[name] = err.Error()
				status = http.StatusServiceUnavailable
			} else {
				results[name] = "ok"
			}
		}
		writeJSON(w, status, map[string]interface{}{
			"ready":  status == http.StatusOK,
			"checks": results,
		})
	})

	r.Get("/buildinfo", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"version":    version,
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
