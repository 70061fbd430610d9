package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/studyace/studyace-server/internal/config"
	"github.com/studyace/studyace-server/internal/store"
)

// DashboardResponse aggregates everything the landing view needs in one
// round trip.
type DashboardResponse struct {
	User           *store.User             `json:"user"`
	Analytics      *store.AnalyticsSummary `json:"analytics"`
	RecentActivity []store.StudyAnalytics  `json:"recentActivity"`
	Papers         []store.QuestionPaper   `json:"papers"`
	Exams          []store.ExamSchedule    `json:"exams"`
	Resources      []store.StudyResource   `json:"resources"`
}

// DashboardHandler serves the aggregated dashboard API.
type DashboardHandler struct {
	cfg    *config.Config
	store  *store.Store
	logger *slog.Logger
}

// NewDashboardHandler builds the dashboard handler.
func NewDashboardHandler(cfg *config.Config, st *store.Store, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{cfg: cfg, store: st, logger: logger}
}

// RegisterRoutes registers the dashboard route.
func (h *DashboardHandler) RegisterRoutes(router *gin.Engine) {
	group := router.Group("/api/dashboard")
	group.GET("/:userId", h.handleDashboard)
}

// handleDashboard verifies the user, then fans out the section fetches
// concurrently. Any section failure fails the whole request.
func (h *DashboardHandler) handleDashboard(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	user, err := h.store.GetUser(ctx, userID)
	if err != nil {
		writeError(c, err)
		return
	}

	response := DashboardResponse{User: user}
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		summary, err := h.store.GetAnalyticsSummary(groupCtx, userID)
		response.Analytics = summary
		return err
	})
	group.Go(func() error {
		rows, err := h.store.ListDailyAnalytics(groupCtx, userID, 7)
		response.RecentActivity = rows
		return err
	})
	group.Go(func() error {
		papers, err := h.store.ListPapersByUser(groupCtx, userID)
		response.Papers = papers
		return err
	})
	group.Go(func() error {
		exams, err := h.store.ListExamsByUser(groupCtx, userID)
		response.Exams = exams
		return err
	})
	group.Go(func() error {
		resources, err := h.store.ListStudyResources(groupCtx, userID, nil)
		response.Resources = resources
		return err
	})
	if err := group.Wait(); err != nil {
		h.logger.Error("dashboard_fetch_failed", "user_id", userID, "error", err)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
