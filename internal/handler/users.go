package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/studyace/studyace-server/internal/config"
	"github.com/studyace/studyace-server/internal/httperror"
	"github.com/studyace/studyace-server/internal/store"
)

// CreateUserRequest is the registration payload.
type CreateUserRequest struct {
	Username     string  `json:"username" binding:"required,min=3,max=64"`
	Password     string  `json:"password" binding:"required,min=8"`
	FirstName    *string `json:"firstName"`
	LastName     *string `json:"lastName"`
	Email        *string `json:"email" binding:"omitempty,email"`
	ProfileImage *string `json:"profileImage"`
}

// UpdateUserRequest carries a partial profile update. Absent fields are
// left untouched.
type UpdateUserRequest struct {
	FirstName    *string `json:"firstName"`
	LastName     *string `json:"lastName"`
	Email        *string `json:"email" binding:"omitempty,email"`
	ProfileImage *string `json:"profileImage"`
	Password     *string `json:"password" binding:"omitempty,min=8"`
}

// UserHandler serves the user account API.
type UserHandler struct {
	cfg    *config.Config
	store  *store.Store
	logger *slog.Logger
}

// NewUserHandler builds the user handler.
func NewUserHandler(cfg *config.Config, st *store.Store, logger *slog.Logger) *UserHandler {
	return &UserHandler{cfg: cfg, store: st, logger: logger}
}

// RegisterRoutes registers the user routes.
func (h *UserHandler) RegisterRoutes(router *gin.Engine) {
	group := router.Group("/api/users")
	group.POST("", h.handleCreate)
	group.GET("/:id", h.handleGet)
	group.PATCH("/:id", h.handleUpdate)
}

func (h *UserHandler) handleCreate(c *gin.Context) {
	var req CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("password_hash_failed", "error", err)
		writeError(c, httperror.NewInternalError("failed to create user"))
		return
	}

	user := &store.User{
		Username:     req.Username,
		Password:     string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		ProfileImage: req.ProfileImage,
	}
	if err := h.store.CreateUser(c.Request.Context(), user); err != nil {
		if errors.Is(err, store.ErrUsernameTaken) {
			writeError(c, httperror.NewInvalidInput("username or email already in use"))
			return
		}
		h.logger.Error("user_create_failed", "error", err)
		writeError(c, httperror.NewPersistenceError("create user"))
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) handleGet(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.store.GetUser(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) handleUpdate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	updates := map[string]any{}
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.ProfileImage != nil {
		updates["profile_image"] = *req.ProfileImage
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			h.logger.Error("password_hash_failed", "error", err)
			writeError(c, httperror.NewInternalError("failed to update user"))
			return
		}
		updates["password"] = string(hash)
	}

	user, err := h.store.UpdateUser(c.Request.Context(), id, updates)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
