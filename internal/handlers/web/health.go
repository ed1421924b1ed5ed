// file: internal/handlers/web/health.go
package web

import (
	"encoding/json"
	"net/http"
	"time"

	"speakerhub/internal/database"
)

// HealthResponse aggregates component health for the /health endpoint.
type HealthResponse struct {
	Status    string                `json:"status"`
	Timestamp time.Time             `json:"timestamp"`
	Database  database.HealthStatus `json:"database"`
	Cache     string                `json:"cache"`
}

// Health reports service health. Degraded components return 503 so load
// balancers rotate the instance out.
// GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	dbStatus := h.services.DB.Check(r.Context())

	cacheStatus := database.StatusHealthy
	if err := h.services.Cache.Health(r.Context()); err != nil {
		cacheStatus = database.StatusDegraded
	}

	overall := dbStatus.Status
	if overall == database.StatusHealthy && cacheStatus != database.StatusHealthy {
		overall = database.StatusDegraded
	}

	statusCode := http.StatusOK
	if overall == database.StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(HealthResponse{
		Status:    overall,
		Timestamp: time.Now(),
		Database:  dbStatus,
		Cache:     cacheStatus,
	})
}
