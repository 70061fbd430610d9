package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/studyace/studyace-server/internal/config"
	"github.com/studyace/studyace-server/internal/httperror"
	"github.com/studyace/studyace-server/internal/store"
)

// StudyHoursRequest logs a block of study time.
type StudyHoursRequest struct {
	Hours int `json:"hours" binding:"required,gt=0"`
}

// DailyAnalyticsResponse lists recent per-day counters, newest first.
type DailyAnalyticsResponse struct {
	Days []store.StudyAnalytics `json:"days"`
}

// AnalyticsHandler serves the study analytics API.
type AnalyticsHandler struct {
	cfg    *config.Config
	store  *store.Store
	logger *slog.Logger
}

// NewAnalyticsHandler builds the analytics handler.
func NewAnalyticsHandler(cfg *config.Config, st *store.Store, logger *slog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{cfg: cfg, store: st, logger: logger}
}

// RegisterRoutes registers the analytics routes.
func (h *AnalyticsHandler) RegisterRoutes(router *gin.Engine) {
	group := router.Group("/api/analytics")
	group.GET("/:userId", h.handleSummary)
	group.GET("/:userId/daily", h.handleDaily)
	group.POST("/:userId/study-hours", h.handleStudyHours)
}

// handleSummary returns lifetime totals. A user with no recorded activity
// gets an all-zero summary rather than a 404.
func (h *AnalyticsHandler) handleSummary(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	summary, err := h.store.GetAnalyticsSummary(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("analytics_summary_failed", "user_id", userID, "error", err)
		writeError(c, httperror.NewPersistenceError("read analytics summary"))
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *AnalyticsHandler) handleDaily(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}
	days, ok := parseDays(c, 7)
	if !ok {
		return
	}

	rows, err := h.store.ListDailyAnalytics(c.Request.Context(), userID, days)
	if err != nil {
		h.logger.Error("analytics_daily_failed", "user_id", userID, "error", err)
		writeError(c, httperror.NewPersistenceError("read daily analytics"))
		return
	}

	c.JSON(http.StatusOK, DailyAnalyticsResponse{Days: rows})
}

// handleStudyHours adds hours to today's counter and the user's lifetime
// total. The user is verified first so a bad id never creates counters.
func (h *AnalyticsHandler) handleStudyHours(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	var req StudyHoursRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()

	if _, err := h.store.GetUser(ctx, userID); err != nil {
		writeError(c, err)
		return
	}

	day := store.DayOf(time.Now())
	if err := h.store.IncrementAnalytics(ctx, userID, store.CounterStudyHours, req.Hours, day); err != nil {
		h.logger.Error("analytics_increment_failed", "user_id", userID, "counter", store.CounterStudyHours, "error", err)
		writeError(c, httperror.NewPersistenceError("record study hours"))
		return
	}
	if err := h.store.AddUserStudyHours(ctx, userID, req.Hours); err != nil {
		h.logger.Error("user_counter_update_failed", "user_id", userID, "error", err)
		writeError(c, httperror.NewPersistenceError("record study hours"))
		return
	}

	c.JSON(http.StatusOK, messageResponse{Message: "study hours recorded"})
}
