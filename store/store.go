package store

import (
	"context"
	"errors"
	"time"

	"budgetapp/models"
)

// Storage-level sentinel errors. The service layer translates these into
// its own taxonomy before they reach a handler.
var (
	ErrNotFound         = errors.New("store: not found")
	ErrDuplicatePending = errors.New("store: pending invitation already exists")
	ErrAlreadyMember    = errors.New("store: user is already a member")
	ErrNotPending       = errors.New("store: invitation is not pending")
)

// MembershipStore is the durable (budget, user) -> role mapping.
type MembershipStore interface {
	// GetMembership returns the membership row for the pair, or ErrNotFound.
	GetMembership(ctx context.Context, budgetID, userID string) (*models.BudgetMember, error)
	ListMembers(ctx context.Context, budgetID string) ([]models.BudgetMember, error)
}

type BudgetStore interface {
	// CreateBudget inserts the budget and its owner membership atomically.
	CreateBudget(ctx context.Context, budget *models.Budget) error
	GetBudget(ctx context.Context, budgetID string) (*models.Budget, error)
	ListBudgetsForUser(ctx context.Context, userID string) ([]models.Budget, error)
	DeleteBudget(ctx context.Context, budgetID string) error
}

type InvitationStore interface {
	// CreateInvitation inserts a pending invitation. Returns
	// ErrDuplicatePending if a pending invitation already exists for the
	// same (budget, invited user) pair, even under concurrent calls.
	CreateInvitation(ctx context.Context, inv *models.Invitation) error
	GetInvitation(ctx context.Context, inviteID string) (*models.Invitation, error)
	// AcceptInvitation flips a pending invitation to accepted and inserts
	// the contributor membership in one transaction. Returns ErrNotPending
	// if the invitation was already responded to.
	AcceptInvitation(ctx context.Context, inviteID string, respondedAt time.Time) error
	// DeclineInvitation flips a pending invitation to declined. Returns
	// ErrNotPending if the invitation was already responded to.
	DeclineInvitation(ctx context.Context, inviteID string, respondedAt time.Time) error
	ListPendingInvitations(ctx context.Context, invitedUserID string) ([]models.Invitation, error)
	ListSentInvitations(ctx context.Context, inviterID string, limit int) ([]models.Invitation, error)
}

type NotificationStore interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
	ListNotifications(ctx context.Context, userID string, unreadOnly bool, limit int) ([]models.Notification, error)
	// MarkNotificationRead flips the read flag only when the notification
	// belongs to userID; otherwise ErrNotFound.
	MarkNotificationRead(ctx context.Context, notificationID, userID string) error
	MarkAllNotificationsRead(ctx context.Context, userID string) error
}

type TransactionStore interface {
	// CreateTransaction resolves or creates the named category, then
	// inserts the row.
	CreateTransaction(ctx context.Context, t *models.Transaction) error
	GetTransaction(ctx context.Context, budgetID, transactionID string) (*models.Transaction, error)
	ListTransactions(ctx context.Context, budgetID string) ([]models.Transaction, error)
	UpdateTransaction(ctx context.Context, t *models.Transaction) error
	DeleteTransaction(ctx context.Context, budgetID, transactionID string) error
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetBudgetSummary(ctx context.Context, budgetID string) (*models.BudgetSummary, error)
}

// UserResolver looks up users for the invitation core. The auth stack owns
// user rows; only these reads are needed here.
type UserResolver interface {
	// ResolveUser finds a user by email or username, case-insensitively.
	ResolveUser(ctx context.Context, identifier string) (*models.User, error)
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
}

// Store is the full persistence surface consumed by the service layer.
type Store interface {
	MembershipStore
	BudgetStore
	InvitationStore
	NotificationStore
	TransactionStore
	UserResolver
}
