package notification

import (
	"context"
	"testing"
	"time"

	"appointly/database/repository/memory"
	"appointly/models"
	"appointly/utils"
)

func newTestService(t *testing.T) (*DefaultNotificationService, *memory.UserRepo) {
	t.Helper()
	users := memory.NewUserRepo()
	for _, u := range []models.User{
		{ID: "admin-1", Email: "a1@example.com", Role: models.RoleAdmin},
		{ID: "admin-2", Email: "a2@example.com", Role: models.RoleAdmin},
		{ID: "user-1", Email: "u1@example.com", Role: models.RoleUser},
	} {
		u := u
		if err := users.Create(context.Background(), &u); err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}
	clock := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := &DefaultNotificationService{
		Repo:  memory.NewNotificationRepo(),
		Users: users,
		Now: func() time.Time {
			clock = clock.Add(time.Second)
			return clock
		},
	}
	return svc, users
}

func TestSendFansOutToAdmins(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	err := svc.Send(ctx,
		ToUser("user-1", "Your appointment has been created."),
		ToAdmins("Jane booked an appointment with Dr. Who."),
	)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	for _, id := range []string{"admin-1", "admin-2"} {
		notes, _ := svc.List(ctx, id)
		if len(notes) != 1 || notes[0].Message != "Jane booked an appointment with Dr. Who." {
			t.Errorf("%s notes = %+v", id, notes)
		}
	}
	notes, _ := svc.List(ctx, "user-1")
	if len(notes) != 1 || notes[0].Read {
		t.Fatalf("user notes = %+v", notes)
	}
}

func TestInboxOperationsAreOwnerScoped(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_ = svc.Send(ctx, ToUser("user-1", "first"))
	_ = svc.Send(ctx, ToUser("user-1", "second"), ToUser("admin-1", "other"))
	notes, _ := svc.List(ctx, "user-1")
	if len(notes) != 2 || notes[0].Message != "second" {
		t.Fatalf("expected newest first, got %+v", notes)
	}

	foreign, _ := svc.List(ctx, "admin-1")
	if err := svc.MarkRead(ctx, "user-1", foreign[0].ID); utils.KindOf(err) != utils.KindNotFound {
		t.Errorf("marking someone else's notification: err = %v", err)
	}
	if err := svc.Delete(ctx, "user-1", foreign[0].ID); utils.KindOf(err) != utils.KindNotFound {
		t.Errorf("deleting someone else's notification: err = %v", err)
	}

	for _, id := range []string{"", "note-1"} {
		if err := svc.MarkRead(ctx, "user-1", id); utils.KindOf(err) != utils.KindValidation {
			t.Errorf("MarkRead(%q): err = %v, want validation", id, err)
		}
		if err := svc.Delete(ctx, "user-1", id); utils.KindOf(err) != utils.KindValidation {
			t.Errorf("Delete(%q): err = %v, want validation", id, err)
		}
	}

	if err := svc.MarkRead(ctx, "user-1", notes[0].ID); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	n, err := svc.MarkAllRead(ctx, "user-1")
	if err != nil || n != 1 {
		t.Errorf("MarkAllRead = %d, %v; want 1", n, err)
	}

	n, err = svc.Clear(ctx, "user-1")
	if err != nil || n != 2 {
		t.Errorf("Clear = %d, %v; want 2", n, err)
	}
	if left, _ := svc.List(ctx, "admin-1"); len(left) != 1 {
		t.Errorf("clear leaked into other inbox: %+v", left)
	}
}
