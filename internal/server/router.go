// internal/server/router.go
//
// Debug/observability router.
//
// Context
// -------
// The engine exposes a small local HTTP surface for the UI and for
// operators: a JSON cache-stats snapshot, the Prometheus registry, and a
// liveness probe.  Everything is read-only; nothing here mutates cache
// state.
package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yanizio/onionskin/internal/cache"
)

// Router builds the chi mux serving /healthz, /stats, and /metrics.
func Router(c *cache.FrameCache) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/stats", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(c.Stats())
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
