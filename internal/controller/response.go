package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"marketadmin/internal/service"
)

// ==================== Response helpers ====================

// respondError maps service errors onto the marketplace API's error bodies
func respondError(c *gin.Context, log *zap.Logger, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{verr.Field: []string{verr.Message}})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	case errors.Is(err, service.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Authentication credentials were not provided."})
	case errors.Is(err, service.ErrPermissionDenied), errors.Is(err, service.ErrDeleteSelf):
		c.JSON(http.StatusForbidden, gin.H{"detail": capitalize(err.Error())})
	case errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrBusinessNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
	default:
		log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error."})
	}
}

// bindError 400 for an unparsable or incomplete body
func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request body: " + err.Error()})
}

// pathID parses ":id"; writes 404 and returns false when it is not a number
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return 0, false
	}
	return id, true
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b) + "."
}
