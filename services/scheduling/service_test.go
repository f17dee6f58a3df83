package scheduling

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"appointly/database"
	"appointly/models"
	"appointly/services/events"
	"appointly/utils"
)

func TestBookSlotTwiceConflicts(t *testing.T) {
	h := newHarness(t)

	appt, err := h.bookSlot(alice, monday, "09:00 - 09:30")
	if err != nil {
		t.Fatalf("first booking: %v", err)
	}
	if appt.Status != models.StatusPending || appt.SlotTime != "09:00 - 09:30" {
		t.Fatalf("appointment = %+v", appt)
	}
	if !appt.Start.Equal(at(monday, "09:00")) || !appt.End.Equal(at(monday, "09:30")) {
		t.Errorf("interval = %v - %v", appt.Start, appt.End)
	}

	_, err = h.bookSlot(bob, monday, "09:00 - 09:30")
	wantKind(t, err, utils.KindConflict)

	if !h.slotBooked(monday, "09:00 - 09:30") {
		t.Error("booked slot reported free")
	}
	if h.slotBooked(monday, "09:30 - 10:00") {
		t.Error("neighbouring slot reported booked")
	}

	if got := h.inbox(alice.UserID); !contains(got, "Your appointment has been created with Dr. Grey and is pending approval.") {
		t.Errorf("owner inbox = %v", got)
	}
	if got := h.inbox(admin.UserID); !contains(got, "Alice booked an appointment with Dr. Grey.") {
		t.Errorf("admin inbox = %v", got)
	}
	if got := h.events.Types(); len(got) != 1 || got[0] != events.TypeCreated {
		t.Errorf("events = %v", got)
	}
}

func TestBookSlotValidation(t *testing.T) {
	h := newHarness(t)

	_, err := h.svc.BookSlot(h.ctx, alice, BookSlotRequest{ProviderID: providerID, Date: monday, Day: "MONDAY", SlotTime: "09:00 - 09:30"})
	if err != nil {
		t.Fatalf("case-insensitive day: %v", err)
	}

	cases := []struct {
		name string
		req  BookSlotRequest
		kind utils.ErrorKind
	}{
		{"wrong weekday", BookSlotRequest{ProviderID: providerID, Date: monday, Day: "Tuesday", SlotTime: "09:30 - 10:00"}, utils.KindValidation},
		{"unknown slot", BookSlotRequest{ProviderID: providerID, Date: monday, SlotTime: "09:15 - 09:45"}, utils.KindNotFound},
		{"blocked date", BookSlotRequest{ProviderID: providerID, Date: "2025-03-10", SlotTime: "09:00 - 09:30"}, utils.KindValidation},
		{"no template that day", BookSlotRequest{ProviderID: providerID, Date: "2025-03-04", SlotTime: "09:00 - 09:30"}, utils.KindNotFound},
		{"bad date", BookSlotRequest{ProviderID: providerID, Date: "03/03/2025", SlotTime: "09:00 - 09:30"}, utils.KindValidation},
		{"in the past", BookSlotRequest{ProviderID: providerID, Date: "2025-02-24", SlotTime: "09:00 - 09:30"}, utils.KindValidation},
		{"unknown provider", BookSlotRequest{ProviderID: unknownID, Date: monday, SlotTime: "09:00 - 09:30"}, utils.KindNotFound},
		{"malformed provider id", BookSlotRequest{ProviderID: "prov-1", Date: monday, SlotTime: "09:00 - 09:30"}, utils.KindValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := h.svc.BookSlot(h.ctx, bob, tc.req)
			wantKind(t, err, tc.kind)
		})
	}
}

func TestBookRejectsInvertedInterval(t *testing.T) {
	h := newHarness(t)
	start := at(monday, "09:00")
	for _, end := range []time.Time{start, start.Add(-time.Minute)} {
		_, err := h.svc.Book(h.ctx, alice, BookRequest{ProviderID: providerID, Start: start, End: end})
		wantKind(t, err, utils.KindValidation)
	}
	_, err := h.svc.Book(h.ctx, alice, BookRequest{ProviderID: unknownID, Start: start, End: start.Add(time.Hour)})
	wantKind(t, err, utils.KindNotFound)
}

func TestBackToBackBookingsDoNotConflict(t *testing.T) {
	h := newHarness(t)
	h.mustBook(alice, at(monday, "09:00"), at(monday, "09:30"))
	h.mustBook(bob, at(monday, "09:30"), at(monday, "10:00"))

	_, err := h.svc.Book(h.ctx, bob, BookRequest{ProviderID: providerID, Start: at(monday, "09:15"), End: at(monday, "09:45")})
	wantKind(t, err, utils.KindConflict)
}

func TestConcurrentBookingsNeverOverlap(t *testing.T) {
	h := newHarness(t)
	const workers = 16

	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			actor := models.Principal{UserID: fmt.Sprintf("user-%d", i), Role: models.RoleUser}
			offset := time.Duration(i%4) * 10 * time.Minute
			_, err := h.svc.Book(h.ctx, actor, BookRequest{
				ProviderID: providerID,
				Start:      at(monday, "09:00").Add(offset),
				End:        at(monday, "09:45").Add(offset),
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		switch {
		case err == nil:
			succeeded++
		case utils.KindOf(err) != utils.KindConflict:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Errorf("%d overlapping bookings succeeded, want exactly 1", succeeded)
	}

	all, _ := h.svc.ListAll(h.ctx, admin)
	for i := range all {
		for j := i + 1; j < len(all); j++ {
			if all[i].Status.IsLive() && all[j].Status.IsLive() && Overlaps(all[i].Start, all[i].End, all[j].Start, all[j].End) {
				t.Fatalf("live appointments %s and %s overlap", all[i].ID, all[j].ID)
			}
		}
	}
}

func TestRejectFreesFixedSlot(t *testing.T) {
	h := newHarness(t)
	appt, err := h.bookSlot(alice, monday, "10:00 - 10:30")
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	rejected, err := h.svc.Reject(h.ctx, admin, appt.ID, "provider on leave")
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if rejected.Status != models.StatusRejected || rejected.Reason != "provider on leave" || rejected.Version != appt.Version+1 {
		t.Errorf("rejected = %+v", rejected)
	}
	if h.slotBooked(monday, "10:00 - 10:30") {
		t.Error("rejected appointment still blocks its slot")
	}
	if _, err := h.bookSlot(bob, monday, "10:00 - 10:30"); err != nil {
		t.Errorf("rebooking freed slot: %v", err)
	}
	if got := h.inbox(alice.UserID); !contains(got, "Your appointment with Dr. Grey has been rejected.") {
		t.Errorf("owner inbox = %v", got)
	}
}

func TestCancelledAndMissedDoNotBlock(t *testing.T) {
	h := newHarness(t)
	first := h.mustBook(alice, at(monday, "09:00"), at(monday, "09:30"))
	if _, err := h.svc.Cancel(h.ctx, alice, first.ID, ""); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	h.mustBook(bob, at(monday, "09:00"), at(monday, "09:30"))

	second := h.mustBook(alice, at(monday, "11:00"), at(monday, "11:30"))
	h.clock = at(monday, "11:20")
	if _, err := NewEscalator(h.svc).Sweep(h.ctx, h.clock); err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if got, _ := h.svc.Get(h.ctx, alice, second.ID); got.Status != models.StatusMissed {
		t.Fatalf("status = %s, want missed", got.Status)
	}
	h.mustBook(bob, at(monday, "11:00"), at(monday, "11:30"))
}

func TestCancelNotifications(t *testing.T) {
	h := newHarness(t)
	byOwner := h.mustBook(alice, at(monday, "09:00"), at(monday, "09:30"))
	byAdmin := h.mustBook(alice, at(monday, "10:00"), at(monday, "10:30"))

	if _, err := h.svc.Cancel(h.ctx, bob, byOwner.ID, ""); utils.KindOf(err) != utils.KindForbidden {
		t.Fatalf("stranger cancel: err = %v", err)
	}
	if _, err := h.svc.Cancel(h.ctx, alice, byOwner.ID, "changed plans"); err != nil {
		t.Fatalf("owner cancel: %v", err)
	}
	if _, err := h.svc.Cancel(h.ctx, admin, byAdmin.ID, ""); err != nil {
		t.Fatalf("admin cancel: %v", err)
	}

	adminInbox := h.inbox(admin.UserID)
	n := 0
	for _, m := range adminInbox {
		if m == "Alice cancelled their appointment with Dr. Grey." {
			n++
		}
	}
	if n != 1 {
		t.Errorf("admins told about %d cancellations, want 1: %v", n, adminInbox)
	}
	ownerInbox := h.inbox(alice.UserID)
	n = 0
	for _, m := range ownerInbox {
		if m == "Your appointment with Dr. Grey has been cancelled." {
			n++
		}
	}
	if n != 2 {
		t.Errorf("owner told about %d cancellations, want 2", n)
	}

	_, err := h.svc.Cancel(h.ctx, alice, byOwner.ID, "")
	wantKind(t, err, utils.KindValidation)
}

func TestApproveRespectsDeadline(t *testing.T) {
	h := newHarness(t)
	onTime := h.mustBook(alice, at(monday, "09:00"), at(monday, "09:30"))
	late := h.mustBook(bob, at(monday, "10:00"), at(monday, "10:30"))

	if _, err := h.svc.Approve(h.ctx, alice, onTime.ID); utils.KindOf(err) != utils.KindForbidden {
		t.Fatalf("user approve: err = %v", err)
	}

	h.clock = at(monday, "09:14").Add(59 * time.Second)
	approved, err := h.svc.Approve(h.ctx, admin, onTime.ID)
	if err != nil {
		t.Fatalf("Approve within window: %v", err)
	}
	if approved.Status != models.StatusApproved {
		t.Errorf("status = %s", approved.Status)
	}
	if got := h.inbox(alice.UserID); !contains(got, "Your appointment with Dr. Grey has been approved.") {
		t.Errorf("owner inbox = %v", got)
	}

	h.clock = at(monday, "10:15").Add(time.Second)
	_, err = h.svc.Approve(h.ctx, admin, late.ID)
	wantKind(t, err, utils.KindDeadline)

	_, err = h.svc.Approve(h.ctx, admin, unknownID)
	wantKind(t, err, utils.KindNotFound)
}

func TestEscalationBeatsLateApproval(t *testing.T) {
	h := newHarness(t)
	appt := h.mustBook(alice, at(monday, "09:00"), at(monday, "09:30"))

	h.clock = at(monday, "09:20")
	if _, err := NewEscalator(h.svc).Sweep(h.ctx, h.clock); err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	_, err := h.svc.Approve(h.ctx, admin, appt.ID)
	wantKind(t, err, utils.KindValidation)
}

func TestRescheduleExcludesItself(t *testing.T) {
	h := newHarness(t)
	appt := h.mustBook(alice, at(monday, "09:00"), at(monday, "10:00"))
	approved, err := h.svc.Approve(h.ctx, admin, appt.ID)
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}

	moved, err := h.svc.Reschedule(h.ctx, alice, appt.ID, RescheduleRequest{Start: at(monday, "09:30"), End: at(monday, "10:30")})
	if err != nil {
		t.Fatalf("Reschedule over own interval: %v", err)
	}
	if moved.Status != models.StatusPending || moved.Version != approved.Version+1 {
		t.Errorf("moved = %+v", moved)
	}
	if !moved.Start.Equal(at(monday, "09:30")) {
		t.Errorf("start = %v", moved.Start)
	}
	if got := h.inbox(alice.UserID); !contains(got, "Your appointment has been rescheduled and is pending approval.") {
		t.Errorf("owner inbox = %v", got)
	}
	if got := h.inbox(admin.UserID); !contains(got, "Alice rescheduled their appointment with Dr. Grey.") {
		t.Errorf("admin inbox = %v", got)
	}

	other := h.mustBook(bob, at(monday, "11:00"), at(monday, "11:30"))
	_, err = h.svc.Reschedule(h.ctx, bob, other.ID, RescheduleRequest{Start: at(monday, "10:00"), End: at(monday, "11:00")})
	wantKind(t, err, utils.KindConflict)

	_, err = h.svc.Reschedule(h.ctx, bob, appt.ID, RescheduleRequest{Start: at(monday, "11:30"), End: at(monday, "12:00")})
	wantKind(t, err, utils.KindForbidden)

	_, err = h.svc.Reschedule(h.ctx, alice, appt.ID, RescheduleRequest{Start: at(monday, "12:00"), End: at(monday, "11:30")})
	wantKind(t, err, utils.KindValidation)
}

func TestRescheduleCancelledFails(t *testing.T) {
	h := newHarness(t)
	appt := h.mustBook(alice, at(monday, "09:00"), at(monday, "09:30"))
	if _, err := h.svc.Cancel(h.ctx, alice, appt.ID, ""); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	_, err := h.svc.Reschedule(h.ctx, alice, appt.ID, RescheduleRequest{Start: at(monday, "10:00"), End: at(monday, "10:30")})
	wantKind(t, err, utils.KindValidation)
	_, err = h.svc.Reschedule(h.ctx, admin, appt.ID, RescheduleRequest{Start: at(monday, "10:00"), End: at(monday, "10:30")})
	wantKind(t, err, utils.KindValidation)
}

func TestRescheduleMissed(t *testing.T) {
	h := newHarness(t)
	mine := h.mustBook(alice, at(monday, "09:00"), at(monday, "09:30"))
	theirs := h.mustBook(bob, at(monday, "10:00"), at(monday, "10:30"))
	h.clock = at(monday, "11:00")
	if _, err := NewEscalator(h.svc).Sweep(h.ctx, h.clock); err != nil {
		t.Fatalf("Sweep: %v", err)
	}

	byOwner, err := h.svc.Reschedule(h.ctx, alice, mine.ID, RescheduleRequest{Start: at("2025-03-05", "14:00"), End: at("2025-03-05", "15:00")})
	if err != nil {
		t.Fatalf("owner reschedule: %v", err)
	}
	if byOwner.Status != models.StatusRescheduled {
		t.Errorf("status = %s, want rescheduled", byOwner.Status)
	}
	if got := h.inbox(alice.UserID); !contains(got, "Your missed appointment has been rescheduled and is awaiting approval.") {
		t.Errorf("owner inbox = %v", got)
	}
	if _, err := h.svc.Approve(h.ctx, admin, byOwner.ID); err != nil {
		t.Errorf("approving rescheduled appointment: %v", err)
	}

	byAdmin, err := h.svc.Reschedule(h.ctx, admin, theirs.ID, RescheduleRequest{Start: at("2025-03-05", "15:00"), End: at("2025-03-05", "16:00")})
	if err != nil {
		t.Fatalf("admin reschedule: %v", err)
	}
	if byAdmin.Status != models.StatusApproved {
		t.Errorf("status = %s, want approved", byAdmin.Status)
	}
	if got := h.inbox(bob.UserID); !contains(got, "Your appointment has been rescheduled by admin and approved.") {
		t.Errorf("owner inbox = %v", got)
	}
	for _, m := range h.inbox(admin.UserID) {
		if m == "Bob rescheduled their appointment with Dr. Grey." {
			t.Error("admins notified about an admin reschedule")
		}
	}
}

func TestRescheduleGridBookingMustLandOnSlot(t *testing.T) {
	h := newHarness(t)
	appt, err := h.bookSlot(alice, monday, "09:00 - 09:30")
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if err := h.svc.LockSlot(h.ctx, admin, providerID, monday, "11:30 - 12:00"); err != nil {
		t.Fatalf("LockSlot: %v", err)
	}

	cases := []struct {
		name       string
		start, end time.Time
		kind       utils.ErrorKind
	}{
		{"off grid", at(monday, "10:15"), at(monday, "10:45"), utils.KindNotFound},
		{"spans two slots", at(monday, "10:00"), at(monday, "11:00"), utils.KindNotFound},
		{"blocked date", at("2025-03-10", "09:00"), at("2025-03-10", "09:30"), utils.KindValidation},
		{"held slot", at(monday, "11:30"), at(monday, "12:00"), utils.KindConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := h.svc.Reschedule(h.ctx, alice, appt.ID, RescheduleRequest{Start: tc.start, End: tc.end})
			wantKind(t, err, tc.kind)
		})
	}

	moved, err := h.svc.Reschedule(h.ctx, alice, appt.ID, RescheduleRequest{Start: at(monday, "10:00"), End: at(monday, "10:30")})
	if err != nil {
		t.Fatalf("Reschedule: %v", err)
	}
	if moved.SlotTime != "10:00 - 10:30" {
		t.Errorf("slotTime = %q", moved.SlotTime)
	}
	if h.slotBooked(monday, "09:00 - 09:30") || !h.slotBooked(monday, "10:00 - 10:30") {
		t.Error("slot views did not follow the reschedule")
	}
}

func TestLockAndUnlockSlot(t *testing.T) {
	h := newHarness(t)
	const slot = "11:00 - 11:30"

	wantKind(t, h.svc.LockSlot(h.ctx, alice, providerID, monday, slot), utils.KindForbidden)
	if err := h.svc.LockSlot(h.ctx, admin, providerID, monday, slot); err != nil {
		t.Fatalf("LockSlot: %v", err)
	}
	if !h.slotBooked(monday, slot) || !h.slotBooked("2025-03-17", slot) {
		t.Error("held slot reported free")
	}
	_, err := h.bookSlot(alice, monday, slot)
	wantKind(t, err, utils.KindConflict)

	if err := h.svc.UnlockSlot(h.ctx, admin, providerID, monday, slot); err != nil {
		t.Fatalf("UnlockSlot: %v", err)
	}
	if h.slotBooked(monday, slot) {
		t.Error("released slot reported booked")
	}
	if _, err := h.bookSlot(alice, monday, slot); err != nil {
		t.Errorf("booking released slot: %v", err)
	}

	if err := h.svc.LockSlot(h.ctx, admin, providerID, monday, "07:00 - 07:30"); err != nil {
		t.Errorf("unknown slot should be a no-op, got %v", err)
	}
	wantKind(t, h.svc.LockSlot(h.ctx, admin, unknownID, monday, slot), utils.KindNotFound)
	wantKind(t, h.svc.LockSlot(h.ctx, admin, "not-a-uuid", monday, slot), utils.KindValidation)
}

func TestGetAvailableSlots(t *testing.T) {
	h := newHarness(t)
	view, err := h.svc.GetAvailableSlots(h.ctx, providerID, monday)
	if err != nil {
		t.Fatalf("GetAvailableSlots: %v", err)
	}
	if view.Day != "Monday" || len(view.Slots) != 6 {
		t.Fatalf("view = %+v", view)
	}
	blocked, _ := h.svc.GetAvailableSlots(h.ctx, providerID, "2025-03-10")
	if len(blocked.Slots) != 0 {
		t.Errorf("blocked date offered %d slots", len(blocked.Slots))
	}
	_, err = h.svc.GetAvailableSlots(h.ctx, providerID, "tomorrow")
	wantKind(t, err, utils.KindValidation)
}

func TestListingAndAccess(t *testing.T) {
	h := newHarness(t)
	early := h.mustBook(alice, at(monday, "11:00"), at(monday, "11:30"))
	h.clock = h.clock.Add(time.Minute)
	late := h.mustBook(alice, at(monday, "09:00"), at(monday, "09:30"))
	h.mustBook(bob, at(monday, "10:00"), at(monday, "10:30"))

	mine, err := h.svc.ListMine(h.ctx, alice)
	if err != nil || len(mine) != 2 || mine[0].ID != late.ID || mine[1].ID != early.ID {
		t.Fatalf("ListMine = %+v, %v", mine, err)
	}

	_, err = h.svc.ListAll(h.ctx, alice)
	wantKind(t, err, utils.KindForbidden)
	all, err := h.svc.ListAll(h.ctx, admin)
	if err != nil || len(all) != 3 || all[0].ID != early.ID {
		t.Fatalf("ListAll = %+v, %v", all, err)
	}

	if _, err := h.svc.Get(h.ctx, bob, early.ID); utils.KindOf(err) != utils.KindForbidden {
		t.Errorf("stranger Get: err = %v", err)
	}
	if _, err := h.svc.Get(h.ctx, admin, early.ID); err != nil {
		t.Errorf("admin Get: %v", err)
	}
	_, err = h.svc.Get(h.ctx, alice, unknownID)
	wantKind(t, err, utils.KindNotFound)
}

func TestMalformedIDsRejectedBeforeLookup(t *testing.T) {
	h := newHarness(t)
	start := at(monday, "09:00")

	_, err := h.svc.Book(h.ctx, alice, BookRequest{ProviderID: "%%not an id%%", Start: start, End: start.Add(time.Hour)})
	wantKind(t, err, utils.KindValidation)
	_, err = h.svc.GetAvailableSlots(h.ctx, "prov-1", monday)
	wantKind(t, err, utils.KindValidation)

	for _, id := range []string{"", "   ", "appt-1", "5b3f0c2e-8d1a-4c6b-9f7e"} {
		_, err = h.svc.Approve(h.ctx, admin, id)
		wantKind(t, err, utils.KindValidation)
		_, err = h.svc.Cancel(h.ctx, alice, id, "")
		wantKind(t, err, utils.KindValidation)
		_, err = h.svc.Reschedule(h.ctx, alice, id, RescheduleRequest{Start: start, End: start.Add(time.Hour)})
		wantKind(t, err, utils.KindValidation)
		_, err = h.svc.Get(h.ctx, alice, id)
		wantKind(t, err, utils.KindValidation)
	}
}

func TestStoreErrorMapping(t *testing.T) {
	wantKind(t, storeError(fmt.Errorf("tx: %w", database.ErrStale), "appointment"), utils.KindConflict)
	wantKind(t, storeError(fmt.Errorf("tx: %w", database.ErrNotFound), "provider"), utils.KindNotFound)
	wantKind(t, storeError(fmt.Errorf("tx: %w", utils.ConflictError("time slot already booked")), "provider"), utils.KindConflict)
	wantKind(t, storeError(fmt.Errorf("socket closed"), "provider"), utils.KindInternal)
}
