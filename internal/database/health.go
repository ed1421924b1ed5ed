// file: internal/database/health.go
package database

import (
	"context"
	"time"
)

// Health status values reported by Check.
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// HealthStatus is the result of a database health probe.
type HealthStatus struct {
	Status          string        `json:"status"`
	PingLatency     time.Duration `json:"ping_latency"`
	OpenConnections int           `json:"open_connections"`
	InUse           int           `json:"in_use"`
	Idle            int           `json:"idle"`
	Error           string        `json:"error,omitempty"`
	CheckedAt       time.Time     `json:"checked_at"`
}

// Check pings the database and reports pool statistics.
func (m *Manager) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{CheckedAt: time.Now()}

	start := time.Now()
	err := m.db.PingContext(ctx)
	status.PingLatency = time.Since(start)

	stats := m.db.Stats()
	status.OpenConnections = stats.OpenConnections
	status.InUse = stats.InUse
	status.Idle = stats.Idle

	switch {
	case err != nil:
		status.Status = StatusUnhealthy
		status.Error = err.Error()
	case status.PingLatency > 500*time.Millisecond:
		status.Status = StatusDegraded
	default:
		status.Status = StatusHealthy
	}

	return status
}
