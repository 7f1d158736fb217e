package handlers

import (
	"net/http"

	"github.com/ArowuTest/pointhub-backend/internal/apperrors"
	"github.com/ArowuTest/pointhub-backend/internal/middleware"
	"github.com/ArowuTest/pointhub-backend/internal/models"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slog"
)

// respondError writes err as {success:false, message} with the status of its kind.
// Internal errors are logged and never expose their cause.
func respondError(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		slog.Error("Request failed", "error", err, "path", c.FullPath(), "requestId", c.GetString("RequestID"))
		_ = c.Error(err)
	}
	c.JSON(status, gin.H{"success": false, "message": apperrors.PublicMessage(err)})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": message})
}

// currentUser reads the authenticated identity or answers 401.
func currentUser(c *gin.Context) (models.CurrentUser, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return models.CurrentUser{}, false
	}
	return user, true
}
