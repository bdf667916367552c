package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"outflow/internal/infrastructure/storage/postgres"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	pool    *postgres.Pool
	started time.Time
	version string
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(pool *postgres.Pool, version string) *HealthHandler {
	return &HealthHandler{
		pool:    pool,
		started: time.Now(),
		version: version,
	}
}

// Live handles GET /health/live.
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready handles GET /health/ready. Verifies database connectivity.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.pool.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"error":  "database unreachable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// Info handles GET /health/info.
func (h *HealthHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":        "outflow",
		"version":        h.version,
		"uptime_seconds": int(time.Since(h.started).Seconds()),
	})
}
