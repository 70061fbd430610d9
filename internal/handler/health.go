package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studyace/studyace-server/internal/health"
)

// RegisterHealthRoutes registers the liveness and readiness endpoints.
// Liveness stays shallow so a flaky dependency never restarts the process;
// readiness probes the database and chat cache.
func RegisterHealthRoutes(router *gin.Engine, checker *health.Checker) {
	router.GET("/health", func(c *gin.Context) {
		payload := checker.Collect(c.Request.Context(), false)
		c.JSON(http.StatusOK, payload)
	})

	router.GET("/health/ready", func(c *gin.Context) {
		payload := checker.Collect(c.Request.Context(), true)
		status := http.StatusOK
		if payload.Status != "ok" {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, payload)
	})
}
