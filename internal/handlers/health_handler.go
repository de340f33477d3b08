package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lakeview/cottage-admin-console/internal/database"
	"github.com/lakeview/cottage-admin-console/internal/services"
)

// HealthHandler reports process health. db is nil when the audit trail is disabled.
type HealthHandler struct {
	registry *services.SessionRegistry
	db       database.DB
	version  string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(registry *services.SessionRegistry, db database.DB, version string) *HealthHandler {
	return &HealthHandler{registry: registry, db: db, version: version}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	auditStatus := "disabled"
	if h.db != nil {
		auditStatus = "healthy"
		if err := h.db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
				"error":    err.Error(),
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"database":  auditStatus,
		"sessions":  h.registry.Len(),
		"version":   h.version,
		"timestamp": time.Now().Unix(),
	})
}
