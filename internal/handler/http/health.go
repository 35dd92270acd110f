// Package http holds the API's shared middleware, health endpoints and
// router. Resource handlers live in the sub-packages.
package http

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/summarize/inference"
)

// Check states.
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// HealthResponse represents the JSON response for health check endpoints.
type HealthResponse struct {
	Status    string                 `json:"status"`    // "healthy" or "unhealthy"
	Timestamp string                 `json:"timestamp"` // ISO 8601 format
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version"`
}

// CheckStatus represents the status of a single health check.
type CheckStatus struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// ModelStatus reports the inference model state. *inference.Holder satisfies it.
type ModelStatus interface {
	Status() inference.Status
}

// HealthHandler performs database connectivity and model checks and returns
// detailed health status.
//
// An unloaded model only degrades health: account and history endpoints keep
// working while summarize calls fail.
type HealthHandler struct {
	DB      *sql.DB
	Models  ModelStatus
	Version string
}

// ServeHTTP returns 200 OK if healthy or degraded, or 503 Service Unavailable
// if any check fails.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]CheckStatus)
	allHealthy := true

	if h.DB != nil {
		dbCheck := h.checkDatabase(ctx)
		checks["database"] = dbCheck
		if dbCheck.Status == StatusUnhealthy {
			allHealthy = false
		}
	} else {
		checks["database"] = CheckStatus{
			Status:  StatusUnhealthy,
			Message: "not configured",
		}
		allHealthy = false
	}

	if h.Models != nil {
		checks["model"] = checkModel(h.Models.Status())
	}

	status := StatusHealthy
	statusCode := http.StatusOK
	if !allHealthy {
		status = StatusUnhealthy
		statusCode = http.StatusServiceUnavailable
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Warn("health: failed to encode response", slog.Any("error", err))
	}
}

// checkDatabase checks database connectivity and returns connection pool statistics.
func (h *HealthHandler) checkDatabase(ctx context.Context) CheckStatus {
	if err := h.DB.PingContext(ctx); err != nil {
		return CheckStatus{
			Status:  StatusUnhealthy,
			Message: err.Error(),
		}
	}

	stats := h.DB.Stats()
	details := map[string]any{
		"max_open_connections": stats.MaxOpenConnections,
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"wait_count":           stats.WaitCount,
		"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
	}

	// Zero means unlimited.
	if stats.MaxOpenConnections == 0 {
		return CheckStatus{
			Status:  StatusDegraded,
			Message: "connection pool max connections not configured",
			Details: details,
		}
	}

	utilizationPercent := float64(stats.InUse) / float64(stats.MaxOpenConnections) * 100
	details["utilization_percent"] = utilizationPercent

	// A single-connection sqlite pool is fully used by any in-flight query.
	if stats.MaxOpenConnections > 1 && utilizationPercent >= 80.0 {
		return CheckStatus{
			Status:  StatusDegraded,
			Message: "connection pool utilization above 80%",
			Details: details,
		}
	}

	return CheckStatus{
		Status:  StatusHealthy,
		Details: details,
	}
}

func checkModel(s inference.Status) CheckStatus {
	details := map[string]any{"backend": s.Backend}
	if !s.Loaded {
		msg := "model not loaded"
		if s.LastError != "" {
			msg += ": " + s.LastError
		}
		return CheckStatus{Status: StatusDegraded, Message: msg, Details: details}
	}
	details["loaded_at"] = s.LoadedAt.UTC().Format(time.RFC3339)
	return CheckStatus{Status: StatusHealthy, Details: details}
}

// ReadyHandler handles Kubernetes readiness probe requests. The instance is
// ready once the database answers and the model is loaded.
type ReadyHandler struct {
	DB     *sql.DB
	Models ModelStatus
}

// ServeHTTP returns 200 OK if ready, or 503 Service Unavailable otherwise.
func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if h.DB == nil {
		http.Error(w, "database not configured", http.StatusServiceUnavailable)
		return
	}

	if err := h.DB.PingContext(ctx); err != nil {
		http.Error(w, "database not ready", http.StatusServiceUnavailable)
		return
	}

	if h.Models != nil && !h.Models.Status().Loaded {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("ready")); err != nil {
		slog.Warn("ready: failed to write response", slog.Any("error", err))
	}
}

// LiveHandler handles Kubernetes liveness probe requests.
type LiveHandler struct{}

// ServeHTTP always returns 200 OK if the process is able to respond.
func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("alive")); err != nil {
		slog.Warn("alive: failed to write response", slog.Any("error", err))
	}
}
