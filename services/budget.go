package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"budgetapp/models"
	"budgetapp/store"
)

var currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

const maxBudgetNameLen = 50

type BudgetService struct {
	store store.Store
	gate  *AccessGate
}

func NewBudgetService(s store.Store, gate *AccessGate) *BudgetService {
	return &BudgetService{store: s, gate: gate}
}

// Create validates the request and inserts the budget together with its
// owner membership. Budgets are immutable once created, except deletion.
func (s *BudgetService) Create(ctx context.Context, ownerID string, req models.CreateBudgetRequest) (*models.Budget, error) {
	name := strings.TrimSpace(req.Name)
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	startDate := strings.TrimSpace(req.StartDate)
	endDate := strings.TrimSpace(req.EndDate)

	verr := newValidationError()
	if name == "" {
		verr.add("name", "Budget name is required.")
	} else if len(name) > maxBudgetNameLen {
		verr.add("name", "Budget name must be at most 50 characters.")
	}
	if currency == "" {
		verr.add("currency", "Currency is required.")
	} else if !currencyPattern.MatchString(currency) {
		verr.add("currency", "Currency must be a 3-letter code (e.g. EUR).")
	}
	validateDate(verr, "start_date", startDate)
	validateDate(verr, "end_date", endDate)
	if len(verr.Fields) == 0 && startDate > endDate {
		verr.add("end_date", "End date must be after start date.")
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	budget := &models.Budget{
		Name:      name,
		Currency:  currency,
		StartDate: startDate,
		EndDate:   endDate,
		OwnerID:   ownerID,
	}
	if err := s.store.CreateBudget(ctx, budget); err != nil {
		return nil, err
	}
	budget.IsOwner = true
	budget.Role = models.RoleOwner
	return budget, nil
}

func validateDate(verr *ValidationError, field, value string) {
	if value == "" {
		verr.add(field, "Date is required.")
		return
	}
	if _, err := time.Parse("2006-01-02", value); err != nil {
		verr.add(field, "Date must be yyyy-mm-dd.")
	}
}

func (s *BudgetService) List(ctx context.Context, userID string) ([]models.Budget, error) {
	return s.store.ListBudgetsForUser(ctx, userID)
}

// Get returns a budget with its member list. Non-members get ErrNotAMember
// regardless of whether the budget exists.
func (s *BudgetService) Get(ctx context.Context, budgetID, userID string) (*models.Budget, error) {
	member, err := s.gate.Require(ctx, budgetID, userID)
	if err != nil {
		return nil, err
	}

	budget, err := s.store.GetBudget(ctx, budgetID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	members, err := s.store.ListMembers(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	budget.Members = members
	budget.Role = member.Role
	budget.IsOwner = budget.OwnerID == userID
	return budget, nil
}

// Delete removes a budget and everything scoped to it. Owner only.
func (s *BudgetService) Delete(ctx context.Context, budgetID, userID string) error {
	if _, err := s.gate.RequireOwner(ctx, budgetID, userID); err != nil {
		return err
	}
	err := s.store.DeleteBudget(ctx, budgetID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
