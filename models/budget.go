package models

import "time"

// Budget member roles.
const (
	RoleOwner       = "owner"
	RoleContributor = "contributor"
)

type Budget struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Currency  string         `json:"currency"`
	StartDate string         `json:"start_date"`
	EndDate   string         `json:"end_date"`
	OwnerID   string         `json:"owner_id"`
	CreatedAt time.Time      `json:"created_at"`
	IsOwner   bool           `json:"is_owner"`
	Role      string         `json:"role,omitempty"`
	Members   []BudgetMember `json:"members,omitempty"`
}

type BudgetMember struct {
	ID       string    `json:"id"`
	BudgetID string    `json:"budget_id"`
	UserID   string    `json:"user_id"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
	Username string    `json:"username,omitempty"`
	Email    string    `json:"email,omitempty"`
}

type CreateBudgetRequest struct {
	Name      string `json:"name" binding:"required"`
	Currency  string `json:"currency" binding:"required"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

// BudgetSummary is the signed aggregation over a budget's transactions.
type BudgetSummary struct {
	BudgetID     string  `json:"budget_id"`
	Currency     string  `json:"currency"`
	TotalIncome  float64 `json:"total_income"`
	TotalExpense float64 `json:"total_expense"`
	Net          float64 `json:"net"`
}
