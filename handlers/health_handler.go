package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports database reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles GET /health
type HealthHandler struct {
	db          Pinger
	modelLoaded func() bool
	env         string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db Pinger, modelLoaded func() bool, env string) *HealthHandler {
	return &HealthHandler{db: db, modelLoaded: modelLoaded, env: env}
}

// Check reports service status. It always returns 200; degraded
// dependencies show up in the body.
func (h *HealthHandler) Check(c *gin.Context) {
	dbStatus := "connected"
	if h.db == nil || h.db.Ping(c.Request.Context()) != nil {
		dbStatus = "disconnected"
	}

	modelStatus := "loaded"
	if h.modelLoaded == nil || !h.modelLoaded() {
		modelStatus = "not loaded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"environment": h.env,
		"model":       modelStatus,
		"database":    dbStatus,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"request_id":  requestID(c),
	})
}
