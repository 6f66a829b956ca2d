package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"budgetapp/middleware"
	"budgetapp/services"
)

type NotificationHandler struct {
	Notifications *services.NotificationService
}

// GetNotifications returns the caller's notifications, newest first,
// capped at the service page size. Responses are marked uncacheable so
// polling clients always see fresh state.
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	userID := middleware.GetUserID(c)
	unreadOnly := c.Query("unread_only") == "1"

	c.Header("Cache-Control", "no-store, no-cache, must-revalidate")
	c.Header("Pragma", "no-cache")

	notifications, err := h.Notifications.List(c.Request.Context(), userID, unreadOnly)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// MarkRead flips the read flag on one of the caller's notifications.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID := middleware.GetUserID(c)
	notificationID := c.Param("notification_id")

	if err := h.Notifications.MarkRead(c.Request.Context(), notificationID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

// MarkAllRead flips every unread notification of the caller.
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID := middleware.GetUserID(c)

	if err := h.Notifications.MarkAllRead(c.Request.Context(), userID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read"})
}
