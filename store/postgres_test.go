package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"budgetapp/config"
	"budgetapp/models"
)

// openTestDB connects to the database named by TEST_DATABASE_URL and runs
// the migrations. Tests are skipped when the variable is unset.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}
	if err := config.RunMigrations(db); err != nil {
		t.Fatalf("migrations: %v", err)
	}
	return db
}

func insertTestUser(t *testing.T, db *sql.DB, username string) string {
	t.Helper()

	// Unique per run so repeated test invocations do not collide.
	suffix := uuid.New().String()[:8]
	var id string
	err := db.QueryRow(`
		INSERT INTO users (email, username, password_hash)
		VALUES ($1, $2, 'x')
		RETURNING id
	`, fmt.Sprintf("%s-%s@test.local", username, suffix), username+"-"+suffix).Scan(&id)
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}
	return id
}

func TestPostgresInvitationLifecycle(t *testing.T) {
	db := openTestDB(t)
	p := NewPostgres(db)
	ctx := context.Background()

	ownerID := insertTestUser(t, db, "alice")
	inviteeID := insertTestUser(t, db, "bob")

	budget := &models.Budget{
		Name:      "Household",
		Currency:  "EUR",
		StartDate: "2026-01-01",
		EndDate:   "2026-12-31",
		OwnerID:   ownerID,
	}
	if err := p.CreateBudget(ctx, budget); err != nil {
		t.Fatalf("create budget: %v", err)
	}
	t.Cleanup(func() { p.DeleteBudget(ctx, budget.ID) })

	owner, err := p.GetMembership(ctx, budget.ID, ownerID)
	if err != nil {
		t.Fatalf("owner membership: %v", err)
	}
	if owner.Role != models.RoleOwner {
		t.Errorf("owner role = %q, want owner", owner.Role)
	}

	inv := &models.Invitation{BudgetID: budget.ID, InvitedUserID: inviteeID, InvitedBy: ownerID}
	if err := p.CreateInvitation(ctx, inv); err != nil {
		t.Fatalf("create invitation: %v", err)
	}

	dup := &models.Invitation{BudgetID: budget.ID, InvitedUserID: inviteeID, InvitedBy: ownerID}
	if err := p.CreateInvitation(ctx, dup); !errors.Is(err, ErrDuplicatePending) {
		t.Errorf("duplicate create err = %v, want ErrDuplicatePending", err)
	}

	if err := p.AcceptInvitation(ctx, inv.ID, time.Now()); err != nil {
		t.Fatalf("accept: %v", err)
	}
	member, err := p.GetMembership(ctx, budget.ID, inviteeID)
	if err != nil {
		t.Fatalf("membership after accept: %v", err)
	}
	if member.Role != models.RoleContributor {
		t.Errorf("role = %q, want contributor", member.Role)
	}

	if err := p.AcceptInvitation(ctx, inv.ID, time.Now()); !errors.Is(err, ErrNotPending) {
		t.Errorf("second accept err = %v, want ErrNotPending", err)
	}

	got, err := p.GetInvitation(ctx, inv.ID)
	if err != nil {
		t.Fatalf("get invitation: %v", err)
	}
	if got.Status != models.InviteStatusAccepted || got.RespondedAt == nil {
		t.Errorf("invitation = %+v, want accepted with responded_at", got)
	}
}

func TestPostgresNotificationScoping(t *testing.T) {
	db := openTestDB(t)
	p := NewPostgres(db)
	ctx := context.Background()

	aliceID := insertTestUser(t, db, "alice")
	bobID := insertTestUser(t, db, "bob")

	n := &models.Notification{UserID: aliceID, Type: models.NotifyInviteReceived, Title: "Hello", Message: "test"}
	if err := p.CreateNotification(ctx, n); err != nil {
		t.Fatalf("create notification: %v", err)
	}

	if err := p.MarkNotificationRead(ctx, n.ID, bobID); !errors.Is(err, ErrNotFound) {
		t.Errorf("foreign mark-read err = %v, want ErrNotFound", err)
	}
	if err := p.MarkNotificationRead(ctx, n.ID, aliceID); err != nil {
		t.Fatalf("mark read: %v", err)
	}

	unread, err := p.ListNotifications(ctx, aliceID, true, 100)
	if err != nil {
		t.Fatalf("list unread: %v", err)
	}
	if len(unread) != 0 {
		t.Errorf("unread = %d, want 0", len(unread))
	}
}
