package scheduling

import (
	"context"
	"testing"
	"time"

	"appointly/database/repository"
	"appointly/database/repository/memory"
	"appointly/models"
	"appointly/services/events"
	"appointly/services/notification"
	"appointly/utils"
)

var (
	alice = models.Principal{UserID: "user-alice", Role: models.RoleUser}
	bob   = models.Principal{UserID: "user-bob", Role: models.RoleUser}
	admin = models.Principal{UserID: "admin-1", Role: models.RoleAdmin}
)

const (
	providerID = "5b3f0c2e-8d1a-4c6b-9f7e-2a1d3c4b5e6f"
	// unknownID is well formed but matches nothing.
	unknownID = "00000000-0000-4000-8000-000000000000"
	monday     = "2025-03-03"
)

type harness struct {
	t      *testing.T
	ctx    context.Context
	clock  time.Time
	store  *repository.Store
	notes  *notification.DefaultNotificationService
	events *events.Recorder
	svc    *DefaultSchedulingService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		t:      t,
		ctx:    context.Background(),
		clock:  time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		store:  memory.NewStore(),
		events: &events.Recorder{},
	}
	h.notes = &notification.DefaultNotificationService{
		Repo:  h.store.Notifications,
		Users: h.store.Users,
		Now:   func() time.Time { return h.clock },
	}
	h.svc = &DefaultSchedulingService{
		Appointments: h.store.Appointments,
		Providers:    h.store.Providers,
		Users:        h.store.Users,
		Tx:           h.store.Tx,
		Notifier:     h.notes,
		Events:       h.events,
		Now:          func() time.Time { return h.clock },
	}

	for _, u := range []models.User{
		{ID: alice.UserID, Name: "Alice", Email: "alice@example.com", Role: models.RoleUser},
		{ID: bob.UserID, Name: "Bob", Email: "bob@example.com", Role: models.RoleUser},
		{ID: admin.UserID, Name: "Ada", Email: "ada@example.com", Role: models.RoleAdmin},
	} {
		u := u
		if err := h.store.Users.Create(h.ctx, &u); err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}

	week, err := BuildWeek([]models.AvailabilityInput{
		{Day: "monday", StartTime: "09:00", EndTime: "12:00", SlotMinutes: 30},
		{Day: "Wednesday", StartTime: "14:00", EndTime: "16:00", SlotMinutes: 60},
	})
	if err != nil {
		t.Fatalf("BuildWeek: %v", err)
	}
	provider := &models.Provider{
		ID:                 providerID,
		Name:               "Dr. Grey",
		Speciality:         "Dentist",
		WeeklyAvailability: week,
		UnavailableDates:   []string{"2025-03-10"},
	}
	if err := h.store.Providers.Create(h.ctx, provider); err != nil {
		t.Fatalf("seed provider: %v", err)
	}
	return h
}

func at(date, clock string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", date+" "+clock)
	if err != nil {
		panic(err)
	}
	return t
}

func (h *harness) bookSlot(actor models.Principal, date, slot string) (*models.Appointment, error) {
	return h.svc.BookSlot(h.ctx, actor, BookSlotRequest{ProviderID: providerID, Date: date, SlotTime: slot})
}

func (h *harness) mustBook(actor models.Principal, start, end time.Time) *models.Appointment {
	h.t.Helper()
	appt, err := h.svc.Book(h.ctx, actor, BookRequest{ProviderID: providerID, Start: start, End: end})
	if err != nil {
		h.t.Fatalf("Book: %v", err)
	}
	return appt
}

func (h *harness) inbox(userID string) []string {
	h.t.Helper()
	notes, err := h.notes.List(h.ctx, userID)
	if err != nil {
		h.t.Fatalf("List: %v", err)
	}
	out := make([]string, len(notes))
	for i, n := range notes {
		out[len(notes)-1-i] = n.Message
	}
	return out
}

func (h *harness) slotBooked(date, label string) bool {
	h.t.Helper()
	view, err := h.svc.GetAvailableSlots(h.ctx, providerID, date)
	if err != nil {
		h.t.Fatalf("GetAvailableSlots: %v", err)
	}
	for _, s := range view.Slots {
		if s.Time == label {
			return s.IsBooked
		}
	}
	h.t.Fatalf("slot %s not offered on %s", label, date)
	return false
}

func wantKind(t *testing.T, err error, kind utils.ErrorKind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	if got := utils.KindOf(err); got != kind {
		t.Fatalf("error kind = %s (%v), want %s", got, err, kind)
	}
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
