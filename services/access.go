package services

import (
	"context"
	"errors"

	"budgetapp/models"
	"budgetapp/store"
)

// AccessGate resolves whether a user may view or act on a budget. Every
// budget-scoped operation routes through it; nothing bypasses the gate.
type AccessGate struct {
	memberships store.MembershipStore
}

func NewAccessGate(memberships store.MembershipStore) *AccessGate {
	return &AccessGate{memberships: memberships}
}

// Require returns the caller's membership row, or ErrNotAMember. Missing
// budgets also surface as ErrNotAMember so listing endpoints cannot probe
// for budget existence.
func (g *AccessGate) Require(ctx context.Context, budgetID, userID string) (*models.BudgetMember, error) {
	member, err := g.memberships.GetMembership(ctx, budgetID, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotAMember
	}
	if err != nil {
		return nil, err
	}
	return member, nil
}

// RequireOwner returns the membership row only when the caller holds the
// owner role; members without it get ErrForbidden.
func (g *AccessGate) RequireOwner(ctx context.Context, budgetID, userID string) (*models.BudgetMember, error) {
	member, err := g.Require(ctx, budgetID, userID)
	if err != nil {
		return nil, err
	}
	if member.Role != models.RoleOwner {
		return nil, ErrForbidden
	}
	return member, nil
}
