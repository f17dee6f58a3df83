package provider

import (
	"context"
	"reflect"
	"testing"
	"time"

	appointmentRepo "appointly/database/repository/appointment"
	"appointly/database/repository/memory"
	"appointly/models"
	"appointly/utils"
)

var (
	admin = models.Principal{UserID: "admin-1", Role: models.RoleAdmin}
	user  = models.Principal{UserID: "user-1", Role: models.RoleUser}
)

func newTestService() (*DefaultProviderService, *memory.AppointmentRepo) {
	appts := memory.NewAppointmentRepo()
	return &DefaultProviderService{
		Repo:         memory.NewProviderRepo(),
		Appointments: appts,
		Now:          func() time.Time { return time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC) },
	}, appts
}

var input = models.ProviderInput{Name: "Dr. Grey", Speciality: "Dentist", HourlyPrice: 80, Address: "1 Main St", City: "Nairobi"}

func TestCreateProviderRequiresAdmin(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.CreateProvider(ctx, user, input); utils.KindOf(err) != utils.KindForbidden {
		t.Fatalf("user create: err = %v", err)
	}
	bad := input
	bad.Name = "Al"
	if _, err := svc.CreateProvider(ctx, admin, bad); utils.KindOf(err) != utils.KindValidation {
		t.Fatalf("short name: err = %v", err)
	}

	p, err := svc.CreateProvider(ctx, admin, input)
	if err != nil {
		t.Fatalf("CreateProvider: %v", err)
	}
	got, err := svc.GetProvider(ctx, p.ID)
	if err != nil || got.Name != "Dr. Grey" {
		t.Fatalf("GetProvider = %+v, %v", got, err)
	}
	if _, err := svc.GetProvider(ctx, "00000000-0000-4000-8000-000000000000"); utils.KindOf(err) != utils.KindNotFound {
		t.Errorf("missing provider: err = %v", err)
	}
	if _, err := svc.GetProvider(ctx, "missing"); utils.KindOf(err) != utils.KindValidation {
		t.Errorf("malformed provider id: err = %v", err)
	}
	if _, err := svc.UpdateProvider(ctx, admin, "prov-1", input); utils.KindOf(err) != utils.KindValidation {
		t.Errorf("malformed id on update: err = %v", err)
	}
	if err := svc.DeleteProvider(ctx, admin, "prov-1"); utils.KindOf(err) != utils.KindValidation {
		t.Errorf("malformed id on delete: err = %v", err)
	}
}

func TestSetAvailabilityKeepsHolds(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	p, _ := svc.CreateProvider(ctx, admin, input)

	_, err := svc.SetAvailability(ctx, admin, p.ID, []models.AvailabilityInput{
		{Day: "monday", StartTime: "09:00", EndTime: "10:00", SlotMinutes: 30},
	})
	if err != nil {
		t.Fatalf("SetAvailability: %v", err)
	}
	if _, err := svc.Repo.SetSlotHeld(ctx, p.ID, "Monday", "09:30 - 10:00", true); err != nil {
		t.Fatalf("SetSlotHeld: %v", err)
	}

	updated, err := svc.SetAvailability(ctx, admin, p.ID, []models.AvailabilityInput{
		{Day: "Monday", StartTime: "09:00", EndTime: "11:00", SlotMinutes: 30},
	})
	if err != nil {
		t.Fatalf("SetAvailability: %v", err)
	}
	held := []bool{}
	for _, s := range updated.WeeklyAvailability[0].Slots {
		held = append(held, s.Held)
	}
	if want := []bool{false, true, false, false}; !reflect.DeepEqual(held, want) {
		t.Errorf("held = %v, want %v", held, want)
	}

	_, err = svc.SetAvailability(ctx, admin, p.ID, []models.AvailabilityInput{
		{Day: "Moonday", StartTime: "09:00", EndTime: "11:00", SlotMinutes: 30},
	})
	if utils.KindOf(err) != utils.KindValidation {
		t.Errorf("bad weekday: err = %v", err)
	}
}

func TestUnavailableDates(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	p, _ := svc.CreateProvider(ctx, admin, input)

	updated, err := svc.AddUnavailableDates(ctx, admin, p.ID, []string{"2025-04-02", "2025-04-01"})
	if err != nil {
		t.Fatalf("AddUnavailableDates: %v", err)
	}
	updated, err = svc.AddUnavailableDates(ctx, admin, p.ID, []string{"2025-04-01", "2025-03-20"})
	if err != nil {
		t.Fatalf("AddUnavailableDates: %v", err)
	}
	if want := []string{"2025-03-20", "2025-04-01", "2025-04-02"}; !reflect.DeepEqual(updated.UnavailableDates, want) {
		t.Errorf("dates = %v, want %v", updated.UnavailableDates, want)
	}

	updated, err = svc.RemoveUnavailableDates(ctx, admin, p.ID, []string{"2025-04-01"})
	if err != nil {
		t.Fatalf("RemoveUnavailableDates: %v", err)
	}
	if want := []string{"2025-03-20", "2025-04-02"}; !reflect.DeepEqual(updated.UnavailableDates, want) {
		t.Errorf("dates = %v, want %v", updated.UnavailableDates, want)
	}

	if _, err := svc.AddUnavailableDates(ctx, admin, p.ID, []string{"April 1"}); utils.KindOf(err) != utils.KindValidation {
		t.Errorf("bad date: err = %v", err)
	}
	if _, err := svc.AddUnavailableDates(ctx, user, p.ID, []string{"2025-04-01"}); utils.KindOf(err) != utils.KindForbidden {
		t.Errorf("user edit: err = %v", err)
	}
}

func TestDeleteProviderWithUpcomingAppointments(t *testing.T) {
	svc, appts := newTestService()
	ctx := context.Background()
	p, _ := svc.CreateProvider(ctx, admin, input)

	start := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	_ = appts.Create(ctx, &models.Appointment{ID: "a1", ProviderID: p.ID, Status: models.StatusApproved, Start: start, End: start.Add(time.Hour)})

	if err := svc.DeleteProvider(ctx, admin, p.ID); utils.KindOf(err) != utils.KindConflict {
		t.Fatalf("delete with bookings: err = %v", err)
	}

	_ = appts.Create(ctx, &models.Appointment{ID: "a0", ProviderID: p.ID, Status: models.StatusApproved, Start: start.AddDate(0, 0, -7), End: start.AddDate(0, 0, -7).Add(time.Hour)})
	_, _ = appts.TransitionStatus(ctx, transition("a1"), start)
	if err := svc.DeleteProvider(ctx, admin, p.ID); err != nil {
		t.Fatalf("DeleteProvider: %v", err)
	}
	if err := svc.DeleteProvider(ctx, admin, p.ID); utils.KindOf(err) != utils.KindNotFound {
		t.Errorf("second delete: err = %v", err)
	}
}

func transition(id string) appointmentRepo.StatusChange {
	return appointmentRepo.StatusChange{ID: id, FromStatus: models.StatusApproved, ToStatus: models.StatusCancelled}
}
