// Package handlers exposes the cache facade's operational surface over HTTP:
// the remote-tier health probe, facade statistics, and a forced eviction
// pass. Domain routes live with their features, not here.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"storefront-cache/internal/cache"
	"storefront-cache/internal/common/logging"
)

type Handlers struct {
	cache  *cache.Cache
	logger logging.Logger
}

func New(c *cache.Cache, logger logging.Logger) *Handlers {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	return &Handlers{
		cache:  c,
		logger: logger,
	}
}

// Routes registers the operational endpoints on the given router.
func (h *Handlers) Routes(router *mux.Router) {
	router.HandleFunc("/health", h.HealthCheck).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/cache/stats", h.CacheStats).Methods("GET")
	api.HandleFunc("/cache/cleanup", h.ForceCleanup).Methods("POST")
}

// HealthCheck reports the remote tier's health. A degraded remote tier
// answers 503 so load balancers and monitors can alert, even though cache
// reads and writes keep working through the local fallback.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := h.cache.HealthCheck(r.Context())

	code := http.StatusOK
	if status.Status != cache.StatusHealthy {
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, status)
}

// CacheStats reports whether the remote tier is configured and how many
// entries the fallback tier currently holds.
func (h *Handlers) CacheStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.cache.Stats())
}

// ForceCleanup runs one eviction pass over the local tier immediately.
func (h *Handlers) ForceCleanup(w http.ResponseWriter, r *http.Request) {
	removed := h.cache.Cleanup()
	h.logger.Info("forced local cache cleanup", logging.Int("removed", removed))

	writeJSON(w, http.StatusOK, map[string]int{"removed": removed})
}

func writeJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
