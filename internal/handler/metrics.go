package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studyace/studyace-server/internal/metrics"
)

// MetricsHandler exposes the AI relay call counters.
type MetricsHandler struct {
	metrics *metrics.Store
}

// NewMetricsHandler builds the metrics handler.
func NewMetricsHandler(store *metrics.Store) *MetricsHandler {
	return &MetricsHandler{metrics: store}
}

// RegisterRoutes registers the metrics route.
func (h *MetricsHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/api/ai/metrics", h.handleSnapshot)
}

func (h *MetricsHandler) handleSnapshot(c *gin.Context) {
	c.JSON(http.StatusOK, h.metrics.Snapshot())
}
