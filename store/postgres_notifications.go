package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"budgetapp/models"
)

func (p *Postgres) CreateNotification(ctx context.Context, n *models.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	n.CreatedAt = time.Now()

	var entityType, entityID sql.NullString
	if n.EntityType != "" {
		entityType = sql.NullString{String: n.EntityType, Valid: true}
	}
	if n.EntityID != "" {
		entityID = sql.NullString{String: n.EntityID, Valid: true}
	}

	_, err := p.db.ExecContext(ctx, `
		INSERT INTO notifications (id, user_id, type, title, message, entity_type, entity_id, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE, $8)
	`, n.ID, n.UserID, n.Type, n.Title, n.Message, entityType, entityID, n.CreatedAt)
	return err
}

func (p *Postgres) ListNotifications(ctx context.Context, userID string, unreadOnly bool, limit int) ([]models.Notification, error) {
	query := `
		SELECT id, user_id, type, title, message, entity_type, entity_id, is_read, created_at
		FROM notifications
		WHERE user_id = $1`
	if unreadOnly {
		query += ` AND is_read = FALSE`
	}
	query += ` ORDER BY created_at DESC LIMIT $2`

	rows, err := p.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		var entityType, entityID sql.NullString
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message,
			&entityType, &entityID, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		n.EntityType = entityType.String
		n.EntityID = entityID.String
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (p *Postgres) MarkNotificationRead(ctx context.Context, notificationID, userID string) error {
	result, err := p.db.ExecContext(ctx, `
		UPDATE notifications
		SET is_read = TRUE
		WHERE id = $1 AND user_id = $2
	`, notificationID, userID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	_, err := p.db.ExecContext(ctx, `
		UPDATE notifications
		SET is_read = TRUE
		WHERE user_id = $1 AND is_read = FALSE
	`, userID)
	return err
}
