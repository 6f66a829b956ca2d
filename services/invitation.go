package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"budgetapp/models"
	"budgetapp/store"
	"budgetapp/utils"
)

const sentInvitesPageSize = 100

// InviteMailerFunc delivers the invitation email. Nil disables email.
type InviteMailerFunc func(toEmail, inviterName, budgetName string) error

// InvitationService drives the invitation lifecycle: a pending invitation
// transitions exactly once to accepted or declined, and acceptance is the
// only path that creates a contributor membership.
type InvitationService struct {
	store         store.Store
	gate          *AccessGate
	notifications *NotificationService
	mail          InviteMailerFunc
}

func NewInvitationService(s store.Store, gate *AccessGate, notifications *NotificationService, mail InviteMailerFunc) *InvitationService {
	return &InvitationService{
		store:         s,
		gate:          gate,
		notifications: notifications,
		mail:          mail,
	}
}

// Issue creates a pending invitation from an owner to the user named by
// identifier (email or username). The duplicate check and the insert are
// one atomic unit: concurrent issues for the same pair cannot both succeed.
func (s *InvitationService) Issue(ctx context.Context, budgetID, inviterID, identifier string) (*models.Invitation, error) {
	if strings.TrimSpace(identifier) == "" {
		verr := newValidationError()
		verr.add("identifier", "Email or username is required.")
		return nil, verr
	}

	if _, err := s.gate.RequireOwner(ctx, budgetID, inviterID); err != nil {
		return nil, err
	}

	target, err := s.store.ResolveUser(ctx, identifier)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	// A self-invite lands here too: the inviter already holds a
	// membership row for the budget.
	if _, err := s.store.GetMembership(ctx, budgetID, target.ID); err == nil {
		return nil, ErrAlreadyMember
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	inv := &models.Invitation{
		BudgetID:      budgetID,
		InvitedUserID: target.ID,
		InvitedBy:     inviterID,
	}
	if err := s.store.CreateInvitation(ctx, inv); err != nil {
		if errors.Is(err, store.ErrDuplicatePending) {
			return nil, ErrDuplicateInvite
		}
		return nil, err
	}

	s.notifyInviteIssued(ctx, inv, target)
	return inv, nil
}

func (s *InvitationService) notifyInviteIssued(ctx context.Context, inv *models.Invitation, target *models.User) {
	budgetName := "a budget"
	if budget, err := s.store.GetBudget(ctx, inv.BudgetID); err == nil {
		budgetName = budget.Name
	}
	inviterName := "A user"
	if inviter, err := s.store.GetUserByID(ctx, inv.InvitedBy); err == nil {
		inviterName = inviter.Username
	}

	s.notifications.Append(ctx, target.ID, models.NotifyInviteReceived,
		"Budget invitation",
		fmt.Sprintf("%s invited you to join %s.", inviterName, budgetName),
		models.EntityInvite, inv.ID)

	if s.mail != nil {
		if err := s.mail(target.Email, inviterName, budgetName); err != nil {
			utils.LogWarn("failed to send invitation email to %s: %v", target.Email, err)
		}
	}
}

// Respond applies the invited user's decision. Accept atomically flips the
// status and inserts the contributor membership; deny only flips the
// status. Either way the inviter is notified.
func (s *InvitationService) Respond(ctx context.Context, inviteID, responderID, action string) (string, error) {
	inv, err := s.store.GetInvitation(ctx, inviteID)
	if errors.Is(err, store.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}

	if inv.InvitedUserID != responderID {
		return "", ErrForbidden
	}
	if inv.Status != models.InviteStatusPending {
		return "", ErrAlreadyResponded
	}

	switch strings.ToLower(strings.TrimSpace(action)) {
	case models.InviteActionAccept:
		if err := s.store.AcceptInvitation(ctx, inviteID, time.Now()); err != nil {
			return "", s.respondErr(err)
		}
		s.notifyResponse(ctx, inv, models.NotifyInviteAccepted, "Invite accepted", "accepted")
		return models.InviteStatusAccepted, nil

	case models.InviteActionDeny:
		if err := s.store.DeclineInvitation(ctx, inviteID, time.Now()); err != nil {
			return "", s.respondErr(err)
		}
		s.notifyResponse(ctx, inv, models.NotifyInviteDeclined, "Invite declined", "declined")
		return models.InviteStatusDeclined, nil

	default:
		verr := newValidationError()
		verr.add("action", "Action must be accept or deny.")
		return "", verr
	}
}

func (s *InvitationService) respondErr(err error) error {
	switch {
	case errors.Is(err, store.ErrNotPending):
		return ErrAlreadyResponded
	case errors.Is(err, store.ErrAlreadyMember):
		return ErrAlreadyMember
	case errors.Is(err, store.ErrNotFound):
		return ErrNotFound
	default:
		return err
	}
}

func (s *InvitationService) notifyResponse(ctx context.Context, inv *models.Invitation, notifType, title, verb string) {
	responderName := "A user"
	if responder, err := s.store.GetUserByID(ctx, inv.InvitedUserID); err == nil {
		responderName = responder.Username
	}
	budgetName := "a budget"
	if budget, err := s.store.GetBudget(ctx, inv.BudgetID); err == nil {
		budgetName = budget.Name
	}

	s.notifications.Append(ctx, inv.InvitedBy, notifType, title,
		fmt.Sprintf("%s %s your invite to %s.", responderName, verb, budgetName),
		models.EntityInvite, inv.ID)
}

// ListPending returns the open invitations addressed to a user, newest
// first. Polling clients call this; it never mutates state.
func (s *InvitationService) ListPending(ctx context.Context, userID string) ([]models.Invitation, error) {
	return s.store.ListPendingInvitations(ctx, userID)
}

// ListSent returns the invitations a user has issued, any status, newest
// first.
func (s *InvitationService) ListSent(ctx context.Context, inviterID string) ([]models.Invitation, error) {
	return s.store.ListSentInvitations(ctx, inviterID, sentInvitesPageSize)
}
