package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"budgetapp/services"
	"budgetapp/utils"
)

// respondServiceError maps the service error taxonomy onto HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation error", "errors": verr.Fields})
		return
	}

	switch {
	case errors.Is(err, services.ErrNotAMember):
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, services.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, services.ErrAlreadyMember):
		c.JSON(http.StatusConflict, gin.H{"error": "User is already a member"})
	case errors.Is(err, services.ErrDuplicateInvite):
		c.JSON(http.StatusConflict, gin.H{"error": "Invitation already sent"})
	case errors.Is(err, services.ErrAlreadyResponded):
		c.JSON(http.StatusConflict, gin.H{"error": "Invitation already responded"})
	default:
		utils.LogError("internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
