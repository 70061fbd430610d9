package handler

import (
	"errors"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/studyace/studyace-server/internal/httperror"
	"github.com/studyace/studyace-server/internal/middleware"
)

// messageResponse is the body for delete-style acknowledgements.
type messageResponse struct {
	Message string `json:"message"`
}

func writeError(c *gin.Context, err error) {
	if c == nil {
		return
	}
	status, payload := httperror.Response(err, middleware.GetRequestID(c))
	c.JSON(status, payload)
}

func bindJSON(c *gin.Context, out any) bool {
	if c == nil {
		return false
	}
	if err := c.ShouldBindJSON(out); err != nil {
		writeError(c, httperror.NewValidationError(err))
		return false
	}
	return true
}

func bindJSONAllowEmpty(c *gin.Context, out any) bool {
	if c == nil {
		return false
	}
	if err := c.ShouldBindJSON(out); err != nil {
		if errors.Is(err, io.EOF) {
			return true
		}
		writeError(c, httperror.NewValidationError(err))
		return false
	}
	return true
}

// parseIDParam reads a positive integer path parameter. On failure it writes
// the error response and returns false.
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	parsed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || parsed <= 0 {
		writeError(c, httperror.NewInvalidInput(name+" must be a positive integer"))
		return 0, false
	}
	return parsed, true
}

// parseUserIDQuery reads the userId query parameter. required controls
// whether an absent value is an error or reported as ok=false.
func parseUserIDQuery(c *gin.Context, required bool) (int64, bool, bool) {
	raw := c.Query("userId")
	if raw == "" {
		if required {
			writeError(c, httperror.NewMissingField("userId"))
			return 0, false, false
		}
		return 0, false, true
	}
	parsed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || parsed <= 0 {
		writeError(c, httperror.NewInvalidInput("userId must be a positive integer"))
		return 0, false, false
	}
	return parsed, true, true
}

func parseDays(c *gin.Context, defaultDays int) (int, bool) {
	raw := c.Query("days")
	if raw == "" {
		return defaultDays, true
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		writeError(c, httperror.NewInvalidInput("days must be a positive integer"))
		return 0, false
	}
	return parsed, true
}
