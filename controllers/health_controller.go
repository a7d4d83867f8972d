package controllers

import (
	"context"
	"database/sql"
	"net/http"
	"runtime"
	"time"

	"posts-api/apperrors"
	"posts-api/middlewares"

	"github.com/gorilla/mux"
)

// HealthHandler answers liveness and storage-reachability probes.
type HealthHandler struct {
	DB          *sql.DB
	Environment string
	startedAt   time.Time
}

func NewHealthHandler(database *sql.DB, environment string) *HealthHandler {
	return &HealthHandler{
		DB:          database,
		Environment: environment,
		startedAt:   time.Now(),
	}
}

func (h *HealthHandler) SetupHealthRoutes(r *mux.Router) {
	healthRouter := r.PathPrefix("/health").Subrouter()
	healthRouter.HandleFunc("", h.Health).Methods("GET")
	healthRouter.HandleFunc("/detailed", h.HealthDetailed).Methods("GET")
	healthRouter.HandleFunc("/database", h.HealthDatabase).Methods("GET")
}

// Health is the basic liveness probe.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	middlewares.RespondJSON(w, map[string]interface{}{
		"success":     true,
		"status":      "ok",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"uptime":      time.Since(h.startedAt).Seconds(),
		"environment": h.Environment,
	}, http.StatusOK)
}

// HealthDetailed adds process and memory information.
func (h *HealthHandler) HealthDetailed(w http.ResponseWriter, r *http.Request) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	middlewares.RespondJSON(w, map[string]interface{}{
		"success":     true,
		"status":      "ok",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"uptime":      time.Since(h.startedAt).Seconds(),
		"environment": h.Environment,
		"memory": map[string]interface{}{
			"allocMB":      memStats.Alloc / 1024 / 1024,
			"totalAllocMB": memStats.TotalAlloc / 1024 / 1024,
			"sysMB":        memStats.Sys / 1024 / 1024,
			"numGC":        memStats.NumGC,
		},
		"process": map[string]interface{}{
			"goVersion":  runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}, http.StatusOK)
}

// HealthDatabase pings the storage backend and reports 503 when it is
// unreachable.
func (h *HealthHandler) HealthDatabase(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.DB.PingContext(ctx); err != nil {
		middlewares.WriteError(w, r, apperrors.NewUnavailable("Service temporarily unavailable", err))
		return
	}

	middlewares.RespondJSON(w, map[string]interface{}{
		"success":   true,
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}
