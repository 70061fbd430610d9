package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"

	"github.com/studyace/studyace-server/internal/ai"
	"github.com/studyace/studyace-server/internal/config"
	"github.com/studyace/studyace-server/internal/httperror"
	"github.com/studyace/studyace-server/internal/store"
)

// PaperAnalyzer is the slice of the AI relay the paper handler needs.
type PaperAnalyzer interface {
	AnalyzePaper(ctx context.Context, paperContent string, subject string) (*ai.AnalysisResult, error)
	RecommendTopics(ctx context.Context, paperContent string, subject string) ([]string, error)
}

// CreatePaperRequest is the paper upload payload.
type CreatePaperRequest struct {
	UserID        int64    `json:"userId" binding:"required,gt=0"`
	Title         string   `json:"title" binding:"required"`
	Subject       string   `json:"subject" binding:"required"`
	Description   *string  `json:"description"`
	Difficulty    string   `json:"difficulty" binding:"required"`
	NumQuestions  *int     `json:"numQuestions"`
	EstimatedTime *int     `json:"estimatedTime"`
	PaperContent  string   `json:"paperContent" binding:"required"`
	Tags          []string `json:"tags"`
}

// RecommendTopicsResponse lists follow-up study topics for a paper.
type RecommendTopicsResponse struct {
	Topics []string `json:"topics"`
}

// PaperHandler serves the question paper API, including AI analysis.
type PaperHandler struct {
	cfg    *config.Config
	store  *store.Store
	relay  PaperAnalyzer
	logger *slog.Logger
}

// NewPaperHandler builds the paper handler.
func NewPaperHandler(cfg *config.Config, st *store.Store, relay PaperAnalyzer, logger *slog.Logger) *PaperHandler {
	return &PaperHandler{cfg: cfg, store: st, relay: relay, logger: logger}
}

// RegisterRoutes registers the question paper routes.
func (h *PaperHandler) RegisterRoutes(router *gin.Engine) {
	group := router.Group("/api/question-papers")
	group.POST("", h.handleCreate)
	group.GET("", h.handleList)
	group.GET("/:id", h.handleGet)
	group.DELETE("/:id", h.handleDelete)
	group.POST("/:id/analyze", h.handleAnalyze)
	group.POST("/:id/recommend-topics", h.handleRecommendTopics)
}

func (h *PaperHandler) handleCreate(c *gin.Context) {
	var req CreatePaperRequest
	if !bindJSON(c, &req) {
		return
	}

	paper := &store.QuestionPaper{
		UserID:        req.UserID,
		Title:         req.Title,
		Subject:       req.Subject,
		Description:   req.Description,
		Difficulty:    req.Difficulty,
		NumQuestions:  req.NumQuestions,
		EstimatedTime: req.EstimatedTime,
		PaperContent:  req.PaperContent,
		Tags:          store.StringList(req.Tags),
	}
	if err := h.store.CreatePaper(c.Request.Context(), paper); err != nil {
		h.logger.Error("paper_create_failed", "error", err)
		writeError(c, httperror.NewPersistenceError("create question paper"))
		return
	}

	c.JSON(http.StatusCreated, paper)
}

func (h *PaperHandler) handleList(c *gin.Context) {
	userID, _, ok := parseUserIDQuery(c, true)
	if !ok {
		return
	}

	papers, err := h.store.ListPapersByUser(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("paper_list_failed", "error", err)
		writeError(c, httperror.NewPersistenceError("list question papers"))
		return
	}

	c.JSON(http.StatusOK, papers)
}

func (h *PaperHandler) handleGet(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	paper, err := h.store.GetPaper(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, paper)
}

func (h *PaperHandler) handleDelete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.store.DeletePaper(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, messageResponse{Message: "question paper deleted"})
}

// handleAnalyze runs AI analysis over the stored paper content. The paper
// row is only updated after the relay succeeds, so a failed call leaves the
// paper unanalyzed and the daily counter untouched.
func (h *PaperHandler) handleAnalyze(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	paper, err := h.store.GetPaper(ctx, id)
	if err != nil {
		writeError(c, err)
		return
	}

	result, err := h.relay.AnalyzePaper(ctx, paper.PaperContent, paper.Subject)
	if err != nil {
		h.logger.Warn("paper_analyze_failed", "paper_id", id, "error", err)
		writeError(c, err)
		return
	}
	if skew := result.DistributionSkew(); skew > 5 {
		h.logger.Debug("question_type_distribution_skewed", "paper_id", id, "skew", skew)
	}

	results, err := analysisToMap(result)
	if err != nil {
		h.logger.Error("paper_analysis_encode_failed", "paper_id", id, "error", err)
		writeError(c, httperror.NewInternalError("failed to store analysis results"))
		return
	}

	updated, err := h.store.MarkPaperAnalyzed(ctx, id, results)
	if err != nil {
		writeError(c, err)
		return
	}

	h.incrementPapersAnalyzed(ctx, paper.UserID)
	c.JSON(http.StatusOK, updated)
}

func (h *PaperHandler) handleRecommendTopics(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	paper, err := h.store.GetPaper(ctx, id)
	if err != nil {
		writeError(c, err)
		return
	}

	topics, err := h.relay.RecommendTopics(ctx, paper.PaperContent, paper.Subject)
	if err != nil {
		h.logger.Warn("paper_recommend_failed", "paper_id", id, "error", err)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, RecommendTopicsResponse{Topics: topics})
}

// incrementPapersAnalyzed bumps the owner's daily counter. The analysis
// itself already succeeded, so counter failures are logged and swallowed.
func (h *PaperHandler) incrementPapersAnalyzed(ctx context.Context, userID int64) {
	err := h.store.IncrementAnalytics(ctx, userID, store.CounterPapersAnalyzed, 1, store.DayOf(time.Now()))
	if err != nil {
		h.logger.Warn("analytics_increment_failed", "user_id", userID, "counter", store.CounterPapersAnalyzed, "error", err)
	}
}

func analysisToMap(result *ai.AnalysisResult) (store.JSONMap, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	var out store.JSONMap
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
