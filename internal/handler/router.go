package handler

import (
	"log/slog"
	"strings"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/studyace/studyace-server/internal/config"
	"github.com/studyace/studyace-server/internal/health"
	"github.com/studyace/studyace-server/internal/middleware"
)

// NewRouter assembles the HTTP router.
func NewRouter(
	cfg *config.Config,
	logger *slog.Logger,
	checker *health.Checker,
	userHandler *UserHandler,
	paperHandler *PaperHandler,
	resourceHandler *ResourceHandler,
	examHandler *ExamHandler,
	postHandler *PostHandler,
	chatHandler *ChatHandler,
	analyticsHandler *AnalyticsHandler,
	dashboardHandler *DashboardHandler,
	metricsHandler *MetricsHandler,
) *gin.Engine {
	setGinMode(cfg.Logging.Level)

	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(logger),
		gin.Recovery(),
		middleware.APIKeyAuth(cfg),
		middleware.RateLimit(cfg),
		gzip.Gzip(gzip.DefaultCompression),
	)

	RegisterHealthRoutes(router, checker)
	userHandler.RegisterRoutes(router)
	paperHandler.RegisterRoutes(router)
	resourceHandler.RegisterRoutes(router)
	examHandler.RegisterRoutes(router)
	postHandler.RegisterRoutes(router)
	chatHandler.RegisterRoutes(router)
	analyticsHandler.RegisterRoutes(router)
	dashboardHandler.RegisterRoutes(router)
	metricsHandler.RegisterRoutes(router)

	return router
}

func setGinMode(level string) {
	if strings.EqualFold(strings.TrimSpace(level), "debug") {
		gin.SetMode(gin.DebugMode)
		return
	}
	gin.SetMode(gin.ReleaseMode)
}
