package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"budgetapp/models"
	"budgetapp/services"
)

func TestNotificationIsolationAndRead(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")

	env.notifs.Append(ctx, alice.ID, models.NotifyInviteReceived, "Hello", "first", models.EntityInvite, "inv-1")
	env.notifs.Append(ctx, alice.ID, models.NotifyInviteAccepted, "Hello", "second", models.EntityInvite, "inv-2")
	env.notifs.Append(ctx, bob.ID, models.NotifyInviteReceived, "Hello", "for bob", models.EntityInvite, "inv-3")

	got, err := env.notifs.List(ctx, alice.ID, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("alice notifications = %d, want 2", len(got))
	}
	// Newest first.
	if got[0].Message != "second" {
		t.Errorf("got[0].Message = %q, want %q", got[0].Message, "second")
	}

	// Reading someone else's notification is indistinguishable from a
	// missing one.
	if err := env.notifs.MarkRead(ctx, got[0].ID, bob.ID); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("foreign mark-read err = %v, want ErrNotFound", err)
	}

	if err := env.notifs.MarkRead(ctx, got[0].ID, alice.ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	unread, err := env.notifs.List(ctx, alice.ID, true)
	if err != nil {
		t.Fatalf("list unread: %v", err)
	}
	if len(unread) != 1 || unread[0].Message != "first" {
		t.Errorf("unread = %+v, want only the first notification", unread)
	}
}

func TestMarkAllNotificationsRead(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")

	for i := 0; i < 3; i++ {
		env.notifs.Append(ctx, alice.ID, models.NotifyInviteReceived, "Hello", fmt.Sprintf("n%d", i), models.EntityInvite, "")
	}
	env.notifs.Append(ctx, bob.ID, models.NotifyInviteReceived, "Hello", "bob's", models.EntityInvite, "")

	if err := env.notifs.MarkAllRead(ctx, alice.ID); err != nil {
		t.Fatalf("mark all read: %v", err)
	}

	unread, _ := env.notifs.List(ctx, alice.ID, true)
	if len(unread) != 0 {
		t.Errorf("alice unread after mark-all = %d, want 0", len(unread))
	}
	bobUnread, _ := env.notifs.List(ctx, bob.ID, true)
	if len(bobUnread) != 1 {
		t.Errorf("bob unread = %d, want 1 (mark-all must not cross users)", len(bobUnread))
	}
}

func TestNotificationListCap(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	alice := env.user(t, "alice")

	for i := 0; i < 120; i++ {
		env.notifs.Append(ctx, alice.ID, models.NotifyInviteReceived, "Hello", fmt.Sprintf("n%d", i), models.EntityInvite, "")
	}

	got, err := env.notifs.List(ctx, alice.ID, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 100 {
		t.Fatalf("notifications = %d, want the 100-item page", len(got))
	}
	// The cap keeps the newest entries.
	if got[0].Message != "n119" {
		t.Errorf("got[0].Message = %q, want n119", got[0].Message)
	}
}
