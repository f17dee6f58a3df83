package appointmentRepo

import (
	"context"
	"time"

	"appointly/models"
)

// StatusChange is a compare-and-set status write. It applies only while the
// stored appointment still has FromStatus and FromVersion.
type StatusChange struct {
	ID          string
	FromStatus  models.AppointmentStatus
	FromVersion int
	ToStatus    models.AppointmentStatus
	Reason      string
}

// ScheduleChange moves an appointment to a new interval under the same
// compare-and-set guard as StatusChange.
type ScheduleChange struct {
	ID          string
	FromStatus  models.AppointmentStatus
	FromVersion int
	ToStatus    models.AppointmentStatus
	Start       time.Time
	End         time.Time
	SlotTime    string
}

// AppointmentRepository defines methods for appointment data access.
// Appointments are never deleted.
type AppointmentRepository interface {
	// Create inserts a new appointment.
	Create(ctx context.Context, appt *models.Appointment) error
	// GetByID returns database.ErrNotFound when no appointment has the id.
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	// FindConflict returns a live appointment of the provider overlapping
	// [start, end), ignoring excludeID. It returns nil when there is none.
	FindConflict(ctx context.Context, providerID string, start, end time.Time, excludeID string) (*models.Appointment, error)
	// ListLiveBetween returns the provider's live appointments overlapping [from, to).
	ListLiveBetween(ctx context.Context, providerID string, from, to time.Time) ([]models.Appointment, error)
	// CountLiveFrom counts the provider's live appointments ending after from.
	CountLiveFrom(ctx context.Context, providerID string, from time.Time) (int64, error)
	// ListByUser returns the user's appointments, newest created first.
	ListByUser(ctx context.Context, userID string) ([]models.Appointment, error)
	// ListAll returns every appointment, latest start first.
	ListAll(ctx context.Context) ([]models.Appointment, error)
	// ListPendingStartedBefore returns pending appointments whose start is before cutoff.
	ListPendingStartedBefore(ctx context.Context, cutoff time.Time) ([]models.Appointment, error)
	// TransitionStatus applies ch and returns the updated appointment, or
	// database.ErrStale when the guard no longer holds.
	TransitionStatus(ctx context.Context, ch StatusChange, now time.Time) (*models.Appointment, error)
	// Reschedule applies ch and returns the updated appointment, or
	// database.ErrStale when the guard no longer holds.
	Reschedule(ctx context.Context, ch ScheduleChange, now time.Time) (*models.Appointment, error)
	// EnsureIndexes creates the collection's indexes.
	EnsureIndexes(ctx context.Context) error
}
