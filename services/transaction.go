package services

import (
	"context"
	"errors"
	"strings"

	"budgetapp/models"
	"budgetapp/store"
)

type TransactionService struct {
	store store.Store
	gate  *AccessGate
}

func NewTransactionService(s store.Store, gate *AccessGate) *TransactionService {
	return &TransactionService{store: s, gate: gate}
}

// Create records a transaction for any member of the budget.
func (s *TransactionService) Create(ctx context.Context, budgetID, userID string, req models.TransactionRequest) (*models.Transaction, error) {
	if _, err := s.gate.Require(ctx, budgetID, userID); err != nil {
		return nil, err
	}

	t, err := buildTransaction(budgetID, userID, req)
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateTransaction(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func buildTransaction(budgetID, userID string, req models.TransactionRequest) (*models.Transaction, error) {
	category := strings.TrimSpace(req.Category)
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	txType := strings.ToUpper(strings.TrimSpace(req.Type))
	date := strings.TrimSpace(req.Date)

	verr := newValidationError()
	if category == "" {
		verr.add("category", "Category is required.")
	}
	if req.Amount <= 0 {
		verr.add("amount", "Amount must be a positive number.")
	}
	if currency == "" {
		verr.add("currency", "Currency is required.")
	} else if !currencyPattern.MatchString(currency) {
		verr.add("currency", "Currency must be a 3-letter code.")
	}
	if txType != models.TransactionIncome && txType != models.TransactionExpense {
		verr.add("type", "Type must be INCOME or EXPENSE.")
	}
	validateDate(verr, "date", date)
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	return &models.Transaction{
		BudgetID:     budgetID,
		UserID:       userID,
		CategoryName: category,
		Amount:       req.Amount,
		Currency:     currency,
		Type:         txType,
		Date:         date,
		Description:  strings.TrimSpace(req.Description),
	}, nil
}

func (s *TransactionService) List(ctx context.Context, budgetID, userID string) ([]models.Transaction, error) {
	if _, err := s.gate.Require(ctx, budgetID, userID); err != nil {
		return nil, err
	}
	return s.store.ListTransactions(ctx, budgetID)
}

// Update rewrites a transaction. Owners may edit any row; contributors only
// their own.
func (s *TransactionService) Update(ctx context.Context, budgetID, transactionID, userID string, req models.TransactionRequest) (*models.Transaction, error) {
	member, err := s.gate.Require(ctx, budgetID, userID)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.GetTransaction(ctx, budgetID, transactionID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if !CanMutateTransaction(member.Role, existing.UserID, userID) {
		return nil, ErrForbidden
	}

	t, err := buildTransaction(budgetID, existing.UserID, req)
	if err != nil {
		return nil, err
	}
	t.ID = transactionID
	if err := s.store.UpdateTransaction(ctx, t); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

// Delete removes a transaction, under the same policy as Update.
func (s *TransactionService) Delete(ctx context.Context, budgetID, transactionID, userID string) error {
	member, err := s.gate.Require(ctx, budgetID, userID)
	if err != nil {
		return err
	}

	existing, err := s.store.GetTransaction(ctx, budgetID, transactionID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	if !CanMutateTransaction(member.Role, existing.UserID, userID) {
		return ErrForbidden
	}

	err = s.store.DeleteTransaction(ctx, budgetID, transactionID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// Summary aggregates signed totals over the budget's transactions.
func (s *TransactionService) Summary(ctx context.Context, budgetID, userID string) (*models.BudgetSummary, error) {
	if _, err := s.gate.Require(ctx, budgetID, userID); err != nil {
		return nil, err
	}
	summary, err := s.store.GetBudgetSummary(ctx, budgetID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	return summary, err
}

func (s *TransactionService) Categories(ctx context.Context) ([]models.Category, error) {
	return s.store.ListCategories(ctx)
}
