package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"budgetapp/models"
	"budgetapp/services"
	"budgetapp/store"
)

type testEnv struct {
	store   *store.Memory
	budgets *services.BudgetService
	invites *services.InvitationService
	notifs  *services.NotificationService
	txs     *services.TransactionService
}

func newTestEnv() *testEnv {
	st := store.NewMemory()
	gate := services.NewAccessGate(st)
	notifs := services.NewNotificationService(st)
	return &testEnv{
		store:   st,
		budgets: services.NewBudgetService(st, gate),
		invites: services.NewInvitationService(st, gate, notifs, nil),
		notifs:  notifs,
		txs:     services.NewTransactionService(st, gate),
	}
}

func (e *testEnv) user(t *testing.T, username string) models.User {
	t.Helper()
	return e.store.AddUser(models.User{
		Email:    username + "@example.com",
		Username: username,
	})
}

func (e *testEnv) budget(t *testing.T, ownerID, name string) *models.Budget {
	t.Helper()
	b, err := e.budgets.Create(context.Background(), ownerID, models.CreateBudgetRequest{
		Name:      name,
		Currency:  "EUR",
		StartDate: "2026-01-01",
		EndDate:   "2026-12-31",
	})
	if err != nil {
		t.Fatalf("create budget: %v", err)
	}
	return b
}

func TestIssueInvitation(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	owner := env.user(t, "alice")
	invitee := env.user(t, "bob")
	b := env.budget(t, owner.ID, "Household")

	inv, err := env.invites.Issue(ctx, b.ID, owner.ID, "bob")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if inv.Status != models.InviteStatusPending {
		t.Errorf("status = %q, want %q", inv.Status, models.InviteStatusPending)
	}
	if inv.InvitedUserID != invitee.ID {
		t.Errorf("invited user = %q, want %q", inv.InvitedUserID, invitee.ID)
	}

	pending, err := env.invites.ListPending(ctx, invitee.ID)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("pending invites = %d, want 1", len(pending))
	}

	notifs, err := env.notifs.List(ctx, invitee.ID, false)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	if len(notifs) != 1 {
		t.Fatalf("notifications = %d, want 1", len(notifs))
	}
	if notifs[0].Type != models.NotifyInviteReceived {
		t.Errorf("notification type = %q, want %q", notifs[0].Type, models.NotifyInviteReceived)
	}
	if notifs[0].EntityID != inv.ID {
		t.Errorf("notification entity = %q, want %q", notifs[0].EntityID, inv.ID)
	}
}

func TestIssueInvitationByEmail(t *testing.T) {
	env := newTestEnv()
	owner := env.user(t, "alice")
	invitee := env.user(t, "bob")
	b := env.budget(t, owner.ID, "Household")

	inv, err := env.invites.Issue(context.Background(), b.ID, owner.ID, "BOB@Example.COM")
	if err != nil {
		t.Fatalf("issue by email: %v", err)
	}
	if inv.InvitedUserID != invitee.ID {
		t.Errorf("invited user = %q, want %q", inv.InvitedUserID, invitee.ID)
	}
}

func TestIssueInvitationAuthorization(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	owner := env.user(t, "alice")
	contributor := env.user(t, "bob")
	outsider := env.user(t, "carol")
	env.user(t, "dave")
	b := env.budget(t, owner.ID, "Household")

	inv, err := env.invites.Issue(ctx, b.ID, owner.ID, "bob")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := env.invites.Respond(ctx, inv.ID, contributor.ID, "accept"); err != nil {
		t.Fatalf("accept: %v", err)
	}

	// Contributors hold membership but not the invite permission.
	if _, err := env.invites.Issue(ctx, b.ID, contributor.ID, "dave"); !errors.Is(err, services.ErrForbidden) {
		t.Errorf("contributor issue err = %v, want ErrForbidden", err)
	}

	if _, err := env.invites.Issue(ctx, b.ID, outsider.ID, "dave"); !errors.Is(err, services.ErrNotAMember) {
		t.Errorf("outsider issue err = %v, want ErrNotAMember", err)
	}
}

func TestIssueInvitationTargetErrors(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	owner := env.user(t, "alice")
	env.user(t, "bob")
	b := env.budget(t, owner.ID, "Household")

	if _, err := env.invites.Issue(ctx, b.ID, owner.ID, "nobody"); !errors.Is(err, services.ErrUserNotFound) {
		t.Errorf("unknown target err = %v, want ErrUserNotFound", err)
	}

	if _, err := env.invites.Issue(ctx, b.ID, owner.ID, ""); err == nil {
		t.Error("blank identifier: want validation error, got nil")
	} else {
		var verr *services.ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("blank identifier err = %v, want *ValidationError", err)
		}
	}

	// Inviting yourself reports membership, same as inviting any member.
	if _, err := env.invites.Issue(ctx, b.ID, owner.ID, "alice"); !errors.Is(err, services.ErrAlreadyMember) {
		t.Errorf("self-invite err = %v, want ErrAlreadyMember", err)
	}
}

func TestIssueInvitationDuplicatePending(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	owner := env.user(t, "alice")
	env.user(t, "bob")
	b := env.budget(t, owner.ID, "Household")

	first, err := env.invites.Issue(ctx, b.ID, owner.ID, "bob")
	if err != nil {
		t.Fatalf("first issue: %v", err)
	}
	if _, err := env.invites.Issue(ctx, b.ID, owner.ID, "bob"); !errors.Is(err, services.ErrDuplicateInvite) {
		t.Errorf("second issue err = %v, want ErrDuplicateInvite", err)
	}

	pending, err := env.invites.ListPending(ctx, first.InvitedUserID)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 1 {
		t.Errorf("pending after duplicate attempt = %d, want still 1", len(pending))
	}
}

func TestIssueInvitationConcurrent(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	owner := env.user(t, "alice")
	env.user(t, "bob")
	b := env.budget(t, owner.ID, "Household")

	const attempts = 8
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.invites.Issue(ctx, b.ID, owner.ID, "bob")
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, services.ErrDuplicateInvite):
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if successes != 1 {
		t.Errorf("successful issues = %d, want exactly 1", successes)
	}
}

func TestAcceptInvitation(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	owner := env.user(t, "alice")
	invitee := env.user(t, "bob")
	b := env.budget(t, owner.ID, "Household")

	inv, err := env.invites.Issue(ctx, b.ID, owner.ID, "bob")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	status, err := env.invites.Respond(ctx, inv.ID, invitee.ID, "Accept")
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if status != models.InviteStatusAccepted {
		t.Errorf("status = %q, want %q", status, models.InviteStatusAccepted)
	}

	// Acceptance grants exactly a contributor membership.
	got, err := env.budgets.Get(ctx, b.ID, invitee.ID)
	if err != nil {
		t.Fatalf("member access after accept: %v", err)
	}
	if got.Role != models.RoleContributor {
		t.Errorf("role = %q, want %q", got.Role, models.RoleContributor)
	}
	if got.IsOwner {
		t.Error("accepted invitee reported as owner")
	}

	notifs, err := env.notifs.List(ctx, owner.ID, false)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	if len(notifs) != 1 || notifs[0].Type != models.NotifyInviteAccepted {
		t.Errorf("inviter notifications = %+v, want one invite_accepted", notifs)
	}

	pending, _ := env.invites.ListPending(ctx, invitee.ID)
	if len(pending) != 0 {
		t.Errorf("pending after accept = %d, want 0", len(pending))
	}
}

func TestDeclineInvitation(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	owner := env.user(t, "alice")
	invitee := env.user(t, "bob")
	b := env.budget(t, owner.ID, "Household")

	inv, err := env.invites.Issue(ctx, b.ID, owner.ID, "bob")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	status, err := env.invites.Respond(ctx, inv.ID, invitee.ID, "deny")
	if err != nil {
		t.Fatalf("deny: %v", err)
	}
	if status != models.InviteStatusDeclined {
		t.Errorf("status = %q, want %q", status, models.InviteStatusDeclined)
	}

	if _, err := env.budgets.Get(ctx, b.ID, invitee.ID); !errors.Is(err, services.ErrNotAMember) {
		t.Errorf("declined invitee access err = %v, want ErrNotAMember", err)
	}

	notifs, _ := env.notifs.List(ctx, owner.ID, false)
	if len(notifs) != 1 || notifs[0].Type != models.NotifyInviteDeclined {
		t.Errorf("inviter notifications = %+v, want one invite_declined", notifs)
	}

	// A decline does not block a fresh invitation for the same pair.
	if _, err := env.invites.Issue(ctx, b.ID, owner.ID, "bob"); err != nil {
		t.Errorf("re-invite after decline: %v", err)
	}
}

func TestRespondInvitationErrors(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	owner := env.user(t, "alice")
	invitee := env.user(t, "bob")
	other := env.user(t, "carol")
	b := env.budget(t, owner.ID, "Household")

	inv, err := env.invites.Issue(ctx, b.ID, owner.ID, "bob")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := env.invites.Respond(ctx, "no-such-invite", invitee.ID, "accept"); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("missing invite err = %v, want ErrNotFound", err)
	}

	if _, err := env.invites.Respond(ctx, inv.ID, other.ID, "accept"); !errors.Is(err, services.ErrForbidden) {
		t.Errorf("wrong responder err = %v, want ErrForbidden", err)
	}

	if _, err := env.invites.Respond(ctx, inv.ID, invitee.ID, "shrug"); err == nil {
		t.Error("bad action: want validation error, got nil")
	}

	if _, err := env.invites.Respond(ctx, inv.ID, invitee.ID, "accept"); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if _, err := env.invites.Respond(ctx, inv.ID, invitee.ID, "deny"); !errors.Is(err, services.ErrAlreadyResponded) {
		t.Errorf("second response err = %v, want ErrAlreadyResponded", err)
	}
}

func TestListSentInvitations(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	owner := env.user(t, "alice")
	bob := env.user(t, "bob")
	env.user(t, "carol")
	b := env.budget(t, owner.ID, "Household")

	first, err := env.invites.Issue(ctx, b.ID, owner.ID, "bob")
	if err != nil {
		t.Fatalf("issue bob: %v", err)
	}
	if _, err := env.invites.Issue(ctx, b.ID, owner.ID, "carol"); err != nil {
		t.Fatalf("issue carol: %v", err)
	}
	if _, err := env.invites.Respond(ctx, first.ID, bob.ID, "deny"); err != nil {
		t.Fatalf("deny: %v", err)
	}

	sent, err := env.invites.ListSent(ctx, owner.ID)
	if err != nil {
		t.Fatalf("list sent: %v", err)
	}
	if len(sent) != 2 {
		t.Fatalf("sent invites = %d, want 2 (responded invites stay listed)", len(sent))
	}
	// Newest first.
	if sent[0].InvitedUsername != "carol" {
		t.Errorf("sent[0] invitee = %q, want carol", sent[0].InvitedUsername)
	}
	if sent[1].Status != models.InviteStatusDeclined {
		t.Errorf("sent[1] status = %q, want declined", sent[1].Status)
	}
}
