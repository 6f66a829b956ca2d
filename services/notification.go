package services

import (
	"context"

	"budgetapp/models"
	"budgetapp/store"
	"budgetapp/utils"
)

// notificationPageSize bounds poll responses.
const notificationPageSize = 100

// NotificationService is the append-only per-user event log. Appends are
// advisory side effects of invitation transitions: a failed append never
// fails the operation that triggered it.
type NotificationService struct {
	store store.NotificationStore
}

func NewNotificationService(s store.NotificationStore) *NotificationService {
	return &NotificationService{store: s}
}

// Append records a notification for recipientID. Fire-and-forget: failures
// are logged and swallowed.
func (s *NotificationService) Append(ctx context.Context, recipientID, notifType, title, message, entityType, entityID string) {
	n := &models.Notification{
		UserID:     recipientID,
		Type:       notifType,
		Title:      title,
		Message:    message,
		EntityType: entityType,
		EntityID:   entityID,
	}
	if err := s.store.CreateNotification(ctx, n); err != nil {
		utils.LogWarn("failed to record %s notification for user %s: %v", notifType, recipientID, err)
	}
}

func (s *NotificationService) List(ctx context.Context, userID string, unreadOnly bool) ([]models.Notification, error) {
	return s.store.ListNotifications(ctx, userID, unreadOnly, notificationPageSize)
}

// MarkRead flips the read flag only when the notification belongs to
// userID. Foreign and missing notifications both return ErrNotFound.
func (s *NotificationService) MarkRead(ctx context.Context, notificationID, userID string) error {
	err := s.store.MarkNotificationRead(ctx, notificationID, userID)
	if err == store.ErrNotFound {
		return ErrNotFound
	}
	return err
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.store.MarkAllNotificationsRead(ctx, userID)
}
