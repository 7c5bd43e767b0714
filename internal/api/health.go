// Package api provides HTTP handlers for the recommender.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// readinessTimeout bounds how long /ready waits on an in-flight load.
const readinessTimeout = 3 * time.Second

// HealthHandler serves health check endpoints.
type HealthHandler struct {
	artifacts ArtifactStatus
	log       *logrus.Logger
	version   string
	startTime time.Time
}

// NewHealthHandler creates a HealthHandler with the given dependencies.
func NewHealthHandler(artifacts ArtifactStatus, log *logrus.Logger, version string) *HealthHandler {
	return &HealthHandler{
		artifacts: artifacts,
		log:       log,
		version:   version,
		startTime: time.Now(),
	}
}

// healthResponse is the JSON payload returned by the liveness endpoint.
type healthResponse struct {
	Status          string  `json:"status"`
	ArtifactsLoaded bool    `json:"artifacts_loaded"`
	Version         string  `json:"version"`
	UptimeSeconds   float64 `json:"uptime_seconds"`
}

// readinessResponse is the JSON payload returned by the readiness endpoint.
type readinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Liveness handles GET /health. It never triggers a load.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{
		Status:          "ok",
		ArtifactsLoaded: h.artifacts.IsLoaded(),
		Version:         h.version,
		UptimeSeconds:   time.Since(h.startTime).Seconds(),
	})
}

// Readiness handles GET /ready. It starts the snapshot load if needed and
// reports not_ready until the load has finished.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	checks := map[string]string{"artifacts": "ok", "models": "not_loaded"}

	if err := h.artifacts.EnsureLoaded(ctx); err != nil {
		h.log.WithError(err).Warn("readiness: artifacts not loaded yet")
		checks["artifacts"] = "loading"
		c.JSON(http.StatusServiceUnavailable, readinessResponse{Status: "not_ready", Checks: checks})
		return
	}

	stats := h.artifacts.Stats()
	if stats.ModelsLoaded {
		checks["models"] = "unavailable"
		if stats.ModelsAvailable {
			checks["models"] = "ok"
		}
	}
	if stats.Products == 0 {
		checks["artifacts"] = "empty"
	}

	c.JSON(http.StatusOK, readinessResponse{Status: "ready", Checks: checks})
}

// Stats handles GET /stats. It reports the current snapshot without loading it.
func (h *HealthHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.artifacts.Stats())
}
