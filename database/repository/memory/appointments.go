package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"appointly/database"
	appointmentRepo "appointly/database/repository/appointment"
	"appointly/models"
)

// AppointmentRepo is an in-memory AppointmentRepository.
type AppointmentRepo struct {
	mu    sync.RWMutex
	items map[string]models.Appointment
}

var _ appointmentRepo.AppointmentRepository = (*AppointmentRepo)(nil)

func NewAppointmentRepo() *AppointmentRepo {
	return &AppointmentRepo{items: make(map[string]models.Appointment)}
}

func (r *AppointmentRepo) EnsureIndexes(context.Context) error { return nil }

func (r *AppointmentRepo) Create(_ context.Context, appt *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[appt.ID]; ok {
		return fmt.Errorf("appointment %s: %w", appt.ID, database.ErrDuplicate)
	}
	r.items[appt.ID] = *appt
	return nil
}

func (r *AppointmentRepo) GetByID(_ context.Context, id string) (*models.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	appt, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("appointment %s: %w", id, database.ErrNotFound)
	}
	return &appt, nil
}

func overlaps(a models.Appointment, start, end time.Time) bool {
	return a.Start.Before(end) && a.End.After(start)
}

func (r *AppointmentRepo) FindConflict(_ context.Context, providerID string, start, end time.Time, excludeID string) (*models.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.sorted(func(a, b models.Appointment) bool { return a.Start.Before(b.Start) }) {
		if a.ProviderID != providerID || a.ID == excludeID || !a.Status.IsLive() {
			continue
		}
		if overlaps(a, start, end) {
			return &a, nil
		}
	}
	return nil, nil
}

func (r *AppointmentRepo) ListLiveBetween(_ context.Context, providerID string, from, to time.Time) ([]models.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.filter(
		func(a models.Appointment) bool {
			return a.ProviderID == providerID && a.Status.IsLive() && overlaps(a, from, to)
		},
		func(a, b models.Appointment) bool { return a.Start.Before(b.Start) },
	), nil
}

func (r *AppointmentRepo) CountLiveFrom(_ context.Context, providerID string, from time.Time) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, a := range r.items {
		if a.ProviderID == providerID && a.Status.IsLive() && a.End.After(from) {
			n++
		}
	}
	return n, nil
}

func (r *AppointmentRepo) ListByUser(_ context.Context, userID string) ([]models.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.filter(
		func(a models.Appointment) bool { return a.UserID == userID },
		func(a, b models.Appointment) bool { return a.CreatedAt.After(b.CreatedAt) },
	), nil
}

func (r *AppointmentRepo) ListAll(context.Context) ([]models.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.filter(
		func(models.Appointment) bool { return true },
		func(a, b models.Appointment) bool { return a.Start.After(b.Start) },
	), nil
}

func (r *AppointmentRepo) ListPendingStartedBefore(_ context.Context, cutoff time.Time) ([]models.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.filter(
		func(a models.Appointment) bool { return a.Status == models.StatusPending && a.Start.Before(cutoff) },
		func(a, b models.Appointment) bool { return a.Start.Before(b.Start) },
	), nil
}

func (r *AppointmentRepo) TransitionStatus(_ context.Context, ch appointmentRepo.StatusChange, now time.Time) (*models.Appointment, error) {
	return r.cas(ch.ID, ch.FromStatus, ch.FromVersion, func(a *models.Appointment) {
		a.Status = ch.ToStatus
		if ch.Reason != "" {
			a.Reason = ch.Reason
		}
		a.UpdatedAt = now
	})
}

func (r *AppointmentRepo) Reschedule(_ context.Context, ch appointmentRepo.ScheduleChange, now time.Time) (*models.Appointment, error) {
	return r.cas(ch.ID, ch.FromStatus, ch.FromVersion, func(a *models.Appointment) {
		a.Status = ch.ToStatus
		a.Start = ch.Start
		a.End = ch.End
		a.SlotTime = ch.SlotTime
		a.UpdatedAt = now
	})
}

func (r *AppointmentRepo) cas(id string, status models.AppointmentStatus, version int, apply func(*models.Appointment)) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.items[id]
	if !ok || a.Status != status || a.Version != version {
		return nil, fmt.Errorf("appointment %s: %w", id, database.ErrStale)
	}
	apply(&a)
	a.Version++
	r.items[id] = a
	return &a, nil
}

func (r *AppointmentRepo) sorted(less func(a, b models.Appointment) bool) []models.Appointment {
	return r.filter(func(models.Appointment) bool { return true }, less)
}

// filter must be called with r.mu held.
func (r *AppointmentRepo) filter(keep func(models.Appointment) bool, less func(a, b models.Appointment) bool) []models.Appointment {
	out := []models.Appointment{}
	for _, a := range r.items {
		if keep(a) {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
