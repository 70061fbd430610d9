package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studyace/studyace-server/internal/config"
	"github.com/studyace/studyace-server/internal/httperror"
	"github.com/studyace/studyace-server/internal/store"
)

// CreatePostRequest is the community post payload.
type CreatePostRequest struct {
	UserID  int64    `json:"userId" binding:"required,gt=0"`
	Title   string   `json:"title" binding:"required"`
	Content string   `json:"content" binding:"required"`
	Tags    []string `json:"tags"`
}

// UpdatePostRequest carries a partial post update.
type UpdatePostRequest struct {
	Title    *string  `json:"title"`
	Content  *string  `json:"content"`
	Likes    *int     `json:"likes" binding:"omitempty,min=0"`
	Comments *int     `json:"comments" binding:"omitempty,min=0"`
	Tags     []string `json:"tags"`
	Solved   *bool    `json:"solved"`
}

// PostHandler serves the community post API.
type PostHandler struct {
	cfg    *config.Config
	store  *store.Store
	logger *slog.Logger
}

// NewPostHandler builds the community post handler.
func NewPostHandler(cfg *config.Config, st *store.Store, logger *slog.Logger) *PostHandler {
	return &PostHandler{cfg: cfg, store: st, logger: logger}
}

// RegisterRoutes registers the community post routes.
func (h *PostHandler) RegisterRoutes(router *gin.Engine) {
	group := router.Group("/api/community-posts")
	group.POST("", h.handleCreate)
	group.GET("", h.handleList)
	group.PATCH("/:id", h.handleUpdate)
	group.DELETE("/:id", h.handleDelete)
}

func (h *PostHandler) handleCreate(c *gin.Context) {
	var req CreatePostRequest
	if !bindJSON(c, &req) {
		return
	}

	post := &store.CommunityPost{
		UserID:  req.UserID,
		Title:   req.Title,
		Content: req.Content,
		Tags:    store.StringList(req.Tags),
	}
	if err := h.store.CreatePost(c.Request.Context(), post); err != nil {
		h.logger.Error("post_create_failed", "error", err)
		writeError(c, httperror.NewPersistenceError("create community post"))
		return
	}

	c.JSON(http.StatusCreated, post)
}

func (h *PostHandler) handleList(c *gin.Context) {
	posts, err := h.store.ListPosts(c.Request.Context())
	if err != nil {
		h.logger.Error("post_list_failed", "error", err)
		writeError(c, httperror.NewPersistenceError("list community posts"))
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *PostHandler) handleUpdate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdatePostRequest
	if !bindJSON(c, &req) {
		return
	}

	updates := map[string]any{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Content != nil {
		updates["content"] = *req.Content
	}
	if req.Likes != nil {
		updates["likes"] = *req.Likes
	}
	if req.Comments != nil {
		updates["comments"] = *req.Comments
	}
	if req.Tags != nil {
		updates["tags"] = store.StringList(req.Tags)
	}
	if req.Solved != nil {
		updates["solved"] = *req.Solved
	}

	post, err := h.store.UpdatePost(c.Request.Context(), id, updates)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) handleDelete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.store.DeletePost(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, messageResponse{Message: "community post deleted"})
}
