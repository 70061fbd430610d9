package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studyace/studyace-server/internal/chat"
	"github.com/studyace/studyace-server/internal/config"
	"github.com/studyace/studyace-server/internal/llm"
)

// ChatRequest is one user turn sent to the study assistant.
type ChatRequest struct {
	UserID int64  `json:"userId" binding:"required,gt=0"`
	Prompt string `json:"prompt" binding:"required"`
}

// ChatResponse returns the assistant reply plus the full stored transcript.
type ChatResponse struct {
	Reply   string        `json:"reply"`
	History []llm.Message `json:"history"`
}

// ChatHistoryResponse is the stored transcript for one user.
type ChatHistoryResponse struct {
	History []llm.Message `json:"history"`
}

// ChatHandler serves the AI chat API.
type ChatHandler struct {
	cfg     *config.Config
	service *chat.Service
	logger  *slog.Logger
}

// NewChatHandler builds the chat handler.
func NewChatHandler(cfg *config.Config, service *chat.Service, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{cfg: cfg, service: service, logger: logger}
}

// RegisterRoutes registers the chat routes.
func (h *ChatHandler) RegisterRoutes(router *gin.Engine) {
	group := router.Group("/api/ai/chat")
	group.POST("", h.handleSend)
	group.GET("/:userId", h.handleHistory)
}

func (h *ChatHandler) handleSend(c *gin.Context) {
	var req ChatRequest
	if !bindJSON(c, &req) {
		return
	}

	reply, history, err := h.service.Send(c.Request.Context(), req.UserID, req.Prompt)
	if err != nil {
		h.logger.Warn("chat_send_failed", "user_id", req.UserID, "error", err)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, ChatResponse{Reply: reply, History: history})
}

func (h *ChatHandler) handleHistory(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	history, err := h.service.History(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	if history == nil {
		history = []llm.Message{}
	}

	c.JSON(http.StatusOK, ChatHistoryResponse{History: history})
}
