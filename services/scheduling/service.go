package scheduling

import (
	"context"
	"errors"
	"time"

	"appointly/database"
	appointmentRepo "appointly/database/repository/appointment"
	providerRepo "appointly/database/repository/provider"
	schedulerRepo "appointly/database/repository/scheduler"
	userRepo "appointly/database/repository/user"
	"appointly/models"
	"appointly/services/events"
	"appointly/services/notification"
	"appointly/utils"

	"go.uber.org/zap"
)

// DefaultApprovalGrace is how long after its start a pending appointment may still be approved.
const DefaultApprovalGrace = 15 * time.Minute

// BookRequest books a free-form interval.
type BookRequest struct {
	ProviderID string    `json:"providerId" binding:"required"`
	Start      time.Time `json:"start" binding:"required"`
	End        time.Time `json:"end" binding:"required"`
}

// BookSlotRequest books one slot of the weekly grid on a concrete date.
// Day is optional; when present it must match the weekday of Date.
type BookSlotRequest struct {
	ProviderID string `json:"providerId" binding:"required"`
	Date       string `json:"date" binding:"required"`
	Day        string `json:"day"`
	SlotTime   string `json:"slotTime" binding:"required"`
}

// RescheduleRequest moves an appointment to a new interval.
type RescheduleRequest struct {
	Start time.Time `json:"start" binding:"required"`
	End   time.Time `json:"end" binding:"required"`
}

// SchedulingService is the entry point for every appointment operation.
type SchedulingService interface {
	Book(ctx context.Context, actor models.Principal, req BookRequest) (*models.Appointment, error)
	BookSlot(ctx context.Context, actor models.Principal, req BookSlotRequest) (*models.Appointment, error)
	GetAvailableSlots(ctx context.Context, providerID, date string) (models.DaySlots, error)
	Approve(ctx context.Context, actor models.Principal, id string) (*models.Appointment, error)
	Reject(ctx context.Context, actor models.Principal, id, reason string) (*models.Appointment, error)
	Cancel(ctx context.Context, actor models.Principal, id, reason string) (*models.Appointment, error)
	Reschedule(ctx context.Context, actor models.Principal, id string, req RescheduleRequest) (*models.Appointment, error)
	LockSlot(ctx context.Context, actor models.Principal, providerID, date, slotTime string) error
	UnlockSlot(ctx context.Context, actor models.Principal, providerID, date, slotTime string) error
	ListMine(ctx context.Context, actor models.Principal) ([]models.Appointment, error)
	ListAll(ctx context.Context, actor models.Principal) ([]models.Appointment, error)
	Get(ctx context.Context, actor models.Principal, id string) (*models.Appointment, error)
}

// DefaultSchedulingService is the production implementation.
type DefaultSchedulingService struct {
	Appointments appointmentRepo.AppointmentRepository
	Providers    providerRepo.ProviderRepository
	Users        userRepo.UserRepository
	Tx           schedulerRepo.TxRunner
	Notifier     notification.Notifier
	Events       events.Publisher
	Logger       *zap.Logger

	// Location is the zone slot times are expressed in. Defaults to UTC.
	Location *time.Location
	// ApprovalGrace defaults to DefaultApprovalGrace.
	ApprovalGrace time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

func (s *DefaultSchedulingService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *DefaultSchedulingService) location() *time.Location {
	if s.Location == nil {
		return time.UTC
	}
	return s.Location
}

func (s *DefaultSchedulingService) grace() time.Duration {
	if s.ApprovalGrace <= 0 {
		return DefaultApprovalGrace
	}
	return s.ApprovalGrace
}

func (s *DefaultSchedulingService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// loadAppointment maps a missing appointment to a not-found error.
func (s *DefaultSchedulingService) loadAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	if err := utils.ValidateID(id, "appointment"); err != nil {
		return nil, err
	}
	appt, err := s.Appointments.GetByID(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, utils.NotFoundError("appointment not found")
	}
	if err != nil {
		return nil, utils.InternalError("failed to load appointment", err)
	}
	return appt, nil
}

func (s *DefaultSchedulingService) loadProvider(ctx context.Context, id string) (*models.Provider, error) {
	if err := utils.ValidateID(id, "provider"); err != nil {
		return nil, err
	}
	p, err := s.Providers.GetByID(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, utils.NotFoundError("provider not found")
	}
	if err != nil {
		return nil, utils.InternalError("failed to load provider", err)
	}
	return p, nil
}

// storeError maps repository failures raised inside a write path.
func storeError(err error, what string) error {
	var appErr *utils.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, database.ErrStale):
		return utils.ConflictError("appointment was modified concurrently")
	case errors.Is(err, database.ErrNotFound):
		return utils.NotFoundError("%s not found", what)
	default:
		return utils.InternalError("failed to save appointment", err)
	}
}

// displayNames resolves the names used in notification texts. Lookup
// failures fall back to generic wording.
func (s *DefaultSchedulingService) displayNames(ctx context.Context, appt *models.Appointment, provider *models.Provider) names {
	n := names{user: "A user", provider: "your provider"}
	if provider == nil {
		if p, err := s.Providers.GetByID(ctx, appt.ProviderID); err == nil {
			provider = p
		}
	}
	if provider != nil && provider.Name != "" {
		n.provider = provider.Name
	}
	if s.Users != nil {
		if u, err := s.Users.GetByID(ctx, appt.UserID); err == nil && u.Name != "" {
			n.user = u.Name
		}
	}
	return n
}

// afterCommit dispatches notifications and events. Failures are logged
// and never reach the caller.
func (s *DefaultSchedulingService) afterCommit(ctx context.Context, eventType string, appt *models.Appointment, actorID string, msgs []notification.Message) {
	if s.Notifier != nil && len(msgs) > 0 {
		if err := s.Notifier.Send(ctx, msgs...); err != nil {
			s.logger().Warn("notification dispatch failed",
				zap.String("appointmentId", appt.ID),
				zap.String("event", eventType),
				zap.Error(err),
			)
		}
	}
	if s.Events != nil {
		if err := s.Events.Publish(ctx, events.NewEvent(eventType, appt, actorID, s.now())); err != nil {
			s.logger().Warn("event publish failed",
				zap.String("appointmentId", appt.ID),
				zap.String("event", eventType),
				zap.Error(err),
			)
		}
	}
}

// Get returns one appointment to its owner or an admin.
func (s *DefaultSchedulingService) Get(ctx context.Context, actor models.Principal, id string) (*models.Appointment, error) {
	appt, err := s.loadAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && appt.UserID != actor.UserID {
		return nil, utils.ForbiddenError("you can only view your own appointments")
	}
	return appt, nil
}

// ListMine returns the caller's appointments, newest created first.
func (s *DefaultSchedulingService) ListMine(ctx context.Context, actor models.Principal) ([]models.Appointment, error) {
	appts, err := s.Appointments.ListByUser(ctx, actor.UserID)
	if err != nil {
		return nil, utils.InternalError("failed to fetch appointments", err)
	}
	return appts, nil
}

// ListAll returns every appointment, latest start first. Admin only.
func (s *DefaultSchedulingService) ListAll(ctx context.Context, actor models.Principal) ([]models.Appointment, error) {
	if !actor.IsAdmin() {
		return nil, utils.ForbiddenError("only admins can list all appointments")
	}
	appts, err := s.Appointments.ListAll(ctx)
	if err != nil {
		return nil, utils.InternalError("failed to fetch appointments", err)
	}
	return appts, nil
}
