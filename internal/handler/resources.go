package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/studyace/studyace-server/internal/config"
	"github.com/studyace/studyace-server/internal/httperror"
	"github.com/studyace/studyace-server/internal/store"
)

// CreateStudyResourceRequest is the study material payload.
type CreateStudyResourceRequest struct {
	UserID       int64    `json:"userId" binding:"required,gt=0"`
	Title        string   `json:"title" binding:"required"`
	Description  *string  `json:"description"`
	ResourceType string   `json:"resourceType" binding:"required"`
	URL          *string  `json:"url" binding:"omitempty,url"`
	Content      *string  `json:"content"`
	Tags         []string `json:"tags"`
	Rating       *int     `json:"rating" binding:"omitempty,min=1,max=5"`
}

// CreateVideoResourceRequest is the shared video payload.
type CreateVideoResourceRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description *string  `json:"description"`
	YoutubeURL  string   `json:"youtubeUrl" binding:"required,url"`
	Thumbnail   *string  `json:"thumbnail"`
	Duration    *int     `json:"duration" binding:"omitempty,gt=0"`
	Tags        []string `json:"tags"`
}

// ResourceHandler serves study and video resources.
type ResourceHandler struct {
	cfg    *config.Config
	store  *store.Store
	logger *slog.Logger
}

// NewResourceHandler builds the resource handler.
func NewResourceHandler(cfg *config.Config, st *store.Store, logger *slog.Logger) *ResourceHandler {
	return &ResourceHandler{cfg: cfg, store: st, logger: logger}
}

// RegisterRoutes registers the resource routes.
func (h *ResourceHandler) RegisterRoutes(router *gin.Engine) {
	study := router.Group("/api/study-resources")
	study.POST("", h.handleCreateStudy)
	study.GET("", h.handleListStudy)
	study.GET("/:id", h.handleGetStudy)
	study.DELETE("/:id", h.handleDeleteStudy)

	video := router.Group("/api/video-resources")
	video.POST("", h.handleCreateVideo)
	video.GET("", h.handleListVideo)
}

func (h *ResourceHandler) handleCreateStudy(c *gin.Context) {
	var req CreateStudyResourceRequest
	if !bindJSON(c, &req) {
		return
	}

	resource := &store.StudyResource{
		UserID:       req.UserID,
		Title:        req.Title,
		Description:  req.Description,
		ResourceType: req.ResourceType,
		URL:          req.URL,
		Content:      req.Content,
		Tags:         store.StringList(req.Tags),
		Rating:       req.Rating,
	}
	if err := h.store.CreateStudyResource(c.Request.Context(), resource); err != nil {
		h.logger.Error("study_resource_create_failed", "error", err)
		writeError(c, httperror.NewPersistenceError("create study resource"))
		return
	}

	c.JSON(http.StatusCreated, resource)
}

// handleListStudy lists a user's resources, or resources matching tags for
// recommendations. One of the two filters is required.
func (h *ResourceHandler) handleListStudy(c *gin.Context) {
	userID, hasUser, ok := parseUserIDQuery(c, false)
	if !ok {
		return
	}
	tags := splitTagsQuery(c.Query("tags"))
	if !hasUser && len(tags) == 0 {
		writeError(c, httperror.NewInvalidInput("userId or tags query parameter is required"))
		return
	}

	resources, err := h.store.ListStudyResources(c.Request.Context(), userID, tags)
	if err != nil {
		h.logger.Error("study_resource_list_failed", "error", err)
		writeError(c, httperror.NewPersistenceError("list study resources"))
		return
	}

	c.JSON(http.StatusOK, resources)
}

func (h *ResourceHandler) handleGetStudy(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	resource, err := h.store.GetStudyResource(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resource)
}

func (h *ResourceHandler) handleDeleteStudy(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.store.DeleteStudyResource(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, messageResponse{Message: "study resource deleted"})
}

func (h *ResourceHandler) handleCreateVideo(c *gin.Context) {
	var req CreateVideoResourceRequest
	if !bindJSON(c, &req) {
		return
	}

	video := &store.VideoResource{
		Title:       req.Title,
		Description: req.Description,
		YoutubeURL:  req.YoutubeURL,
		Thumbnail:   req.Thumbnail,
		Duration:    req.Duration,
		Tags:        store.StringList(req.Tags),
	}
	if err := h.store.CreateVideoResource(c.Request.Context(), video); err != nil {
		h.logger.Error("video_resource_create_failed", "error", err)
		writeError(c, httperror.NewPersistenceError("create video resource"))
		return
	}

	c.JSON(http.StatusCreated, video)
}

func (h *ResourceHandler) handleListVideo(c *gin.Context) {
	videos, err := h.store.ListVideoResources(c.Request.Context())
	if err != nil {
		h.logger.Error("video_resource_list_failed", "error", err)
		writeError(c, httperror.NewPersistenceError("list video resources"))
		return
	}

	c.JSON(http.StatusOK, videos)
}

func splitTagsQuery(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	return tags
}
