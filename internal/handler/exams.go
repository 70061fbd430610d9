package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/studyace/studyace-server/internal/ai"
	"github.com/studyace/studyace-server/internal/config"
	"github.com/studyace/studyace-server/internal/httperror"
	"github.com/studyace/studyace-server/internal/store"
)

// StudyPlanner is the slice of the AI relay the exam handler needs.
type StudyPlanner interface {
	GenerateStudyPlan(ctx context.Context, examName string, daysUntilExam int, topics []string) (*ai.StudyPlan, error)
}

// CreateExamRequest is the exam schedule payload.
type CreateExamRequest struct {
	UserID         int64     `json:"userId" binding:"required,gt=0"`
	ExamName       string    `json:"examName" binding:"required"`
	ExamType       string    `json:"examType" binding:"required"`
	Date           time.Time `json:"date" binding:"required"`
	Location       *string   `json:"location"`
	ReadinessLevel *int      `json:"readinessLevel" binding:"omitempty,min=0,max=100"`
	RelatedPapers  []int64   `json:"relatedPapers"`
}

// UpdateExamRequest carries a partial exam update.
type UpdateExamRequest struct {
	ExamName       *string    `json:"examName"`
	ExamType       *string    `json:"examType"`
	Date           *time.Time `json:"date"`
	Location       *string    `json:"location"`
	ReadinessLevel *int       `json:"readinessLevel" binding:"omitempty,min=0,max=100"`
	RelatedPapers  []int64    `json:"relatedPapers"`
}

// StudyPlanRequest names the topics a generated plan must cover.
type StudyPlanRequest struct {
	Topics []string `json:"topics" binding:"required,min=1,dive,required"`
}

// ExamHandler serves the exam schedule API, including plan generation.
type ExamHandler struct {
	cfg     *config.Config
	store   *store.Store
	planner StudyPlanner
	logger  *slog.Logger
}

// NewExamHandler builds the exam handler.
func NewExamHandler(cfg *config.Config, st *store.Store, planner StudyPlanner, logger *slog.Logger) *ExamHandler {
	return &ExamHandler{cfg: cfg, store: st, planner: planner, logger: logger}
}

// RegisterRoutes registers the exam schedule routes.
func (h *ExamHandler) RegisterRoutes(router *gin.Engine) {
	group := router.Group("/api/exam-schedule")
	group.POST("", h.handleCreate)
	group.GET("", h.handleList)
	group.PATCH("/:id", h.handleUpdate)
	group.DELETE("/:id", h.handleDelete)
	group.POST("/:id/study-plan", h.handleStudyPlan)
}

func (h *ExamHandler) handleCreate(c *gin.Context) {
	var req CreateExamRequest
	if !bindJSON(c, &req) {
		return
	}

	exam := &store.ExamSchedule{
		UserID:        req.UserID,
		ExamName:      req.ExamName,
		ExamType:      req.ExamType,
		Date:          req.Date,
		Location:      req.Location,
		RelatedPapers: store.Int64List(req.RelatedPapers),
	}
	if req.ReadinessLevel != nil {
		exam.ReadinessLevel = *req.ReadinessLevel
	}
	if err := h.store.CreateExam(c.Request.Context(), exam); err != nil {
		h.logger.Error("exam_create_failed", "error", err)
		writeError(c, httperror.NewPersistenceError("create exam schedule"))
		return
	}

	c.JSON(http.StatusCreated, exam)
}

func (h *ExamHandler) handleList(c *gin.Context) {
	userID, _, ok := parseUserIDQuery(c, true)
	if !ok {
		return
	}

	exams, err := h.store.ListExamsByUser(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("exam_list_failed", "error", err)
		writeError(c, httperror.NewPersistenceError("list exam schedules"))
		return
	}

	c.JSON(http.StatusOK, exams)
}

func (h *ExamHandler) handleUpdate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateExamRequest
	if !bindJSON(c, &req) {
		return
	}

	updates := map[string]any{}
	if req.ExamName != nil {
		updates["exam_name"] = *req.ExamName
	}
	if req.ExamType != nil {
		updates["exam_type"] = *req.ExamType
	}
	if req.Date != nil {
		updates["date"] = *req.Date
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.ReadinessLevel != nil {
		updates["readiness_level"] = *req.ReadinessLevel
	}
	if req.RelatedPapers != nil {
		updates["related_papers"] = store.Int64List(req.RelatedPapers)
	}

	exam, err := h.store.UpdateExam(c.Request.Context(), id, updates)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, exam)
}

func (h *ExamHandler) handleDelete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.store.DeleteExam(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, messageResponse{Message: "exam schedule deleted"})
}

// handleStudyPlan generates a day-by-day preparation plan for the exam.
// The horizon passed to the relay never goes below one day, so plans for
// imminent or past exams still come back usable.
func (h *ExamHandler) handleStudyPlan(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req StudyPlanRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()

	exam, err := h.store.GetExam(ctx, id)
	if err != nil {
		writeError(c, err)
		return
	}

	days := ai.DaysUntil(exam.Date, time.Now())
	plan, err := h.planner.GenerateStudyPlan(ctx, exam.ExamName, days, req.Topics)
	if err != nil {
		h.logger.Warn("study_plan_failed", "exam_id", id, "error", err)
		writeError(c, err)
		return
	}

	h.recordAIInteraction(ctx, exam.UserID)
	c.JSON(http.StatusOK, plan)
}

// recordAIInteraction bumps the daily counter and the user's lifetime
// counter. The plan already exists, so failures are logged and swallowed.
func (h *ExamHandler) recordAIInteraction(ctx context.Context, userID int64) {
	day := store.DayOf(time.Now())
	if err := h.store.IncrementAnalytics(ctx, userID, store.CounterAIInteractions, 1, day); err != nil {
		h.logger.Warn("analytics_increment_failed", "user_id", userID, "counter", store.CounterAIInteractions, "error", err)
	}
	if err := h.store.AddUserAIInteractions(ctx, userID, 1); err != nil {
		h.logger.Warn("user_counter_update_failed", "user_id", userID, "error", err)
	}
}
