package models

import "time"

// Notification types emitted by the invitation lifecycle.
const (
	NotifyInviteReceived = "invite_received"
	NotifyInviteAccepted = "invite_accepted"
	NotifyInviteDeclined = "invite_declined"
)

// Entity types a notification may reference.
const (
	EntityInvite = "invite"
)

type Notification struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Type       string    `json:"type"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	EntityType string    `json:"entity_type,omitempty"`
	EntityID   string    `json:"entity_id,omitempty"`
	IsRead     bool      `json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
}
