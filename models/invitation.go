package models

import "time"

// Invitation statuses. A pending invitation transitions exactly once.
const (
	InviteStatusPending  = "pending"
	InviteStatusAccepted = "accepted"
	InviteStatusDeclined = "declined"
)

// Respond actions.
const (
	InviteActionAccept = "accept"
	InviteActionDeny   = "deny"
)

type Invitation struct {
	ID            string     `json:"id"`
	BudgetID      string     `json:"budget_id"`
	InvitedUserID string     `json:"invited_user_id"`
	InvitedBy     string     `json:"invited_by"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	RespondedAt   *time.Time `json:"responded_at,omitempty"`

	// Joined display fields, populated on list reads.
	BudgetName        string `json:"budget_name,omitempty"`
	InvitedByUsername string `json:"invited_by_username,omitempty"`
	InvitedUsername   string `json:"invited_username,omitempty"`
	InvitedEmail      string `json:"invited_email,omitempty"`
}

type InviteRequest struct {
	Identifier string `json:"identifier" binding:"required"`
}

type RespondInviteRequest struct {
	Action string `json:"action" binding:"required"`
}
