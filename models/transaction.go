package models

import "time"

// Transaction types. INCOME adds to the budget total, EXPENSE subtracts.
const (
	TransactionIncome  = "INCOME"
	TransactionExpense = "EXPENSE"
)

type Transaction struct {
	ID           string    `json:"id"`
	BudgetID     string    `json:"budget_id"`
	UserID       string    `json:"user_id"`
	CategoryID   string    `json:"category_id"`
	CategoryName string    `json:"category_name,omitempty"`
	Amount       float64   `json:"amount"`
	Currency     string    `json:"currency"`
	Type         string    `json:"type"`
	Date         string    `json:"date"`
	Description  string    `json:"description,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	Username     string    `json:"username,omitempty"`
}

type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type TransactionRequest struct {
	Category    string  `json:"category" binding:"required"`
	Amount      float64 `json:"amount" binding:"required"`
	Currency    string  `json:"currency" binding:"required"`
	Type        string  `json:"type" binding:"required"`
	Date        string  `json:"date" binding:"required"`
	Description string  `json:"description"`
}
