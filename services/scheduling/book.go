package scheduling

import (
	"context"
	"time"

	"appointly/models"
	"appointly/services/events"
	"appointly/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Book creates a pending appointment for a free-form interval.
func (s *DefaultSchedulingService) Book(ctx context.Context, actor models.Principal, req BookRequest) (*models.Appointment, error) {
	if req.ProviderID == "" {
		return nil, utils.ValidationError("providerId is required")
	}
	if err := utils.ValidateID(req.ProviderID, "provider"); err != nil {
		return nil, err
	}
	if req.Start.IsZero() || req.End.IsZero() {
		return nil, utils.ValidationError("start and end are required")
	}
	if !req.End.After(req.Start) {
		return nil, utils.ValidationError("end time must be after start time")
	}
	provider, err := s.loadProvider(ctx, req.ProviderID)
	if err != nil {
		return nil, err
	}
	return s.create(ctx, actor, provider, req.Start.UTC(), req.End.UTC(), "")
}

// BookSlot creates a pending appointment for one grid slot on a date.
func (s *DefaultSchedulingService) BookSlot(ctx context.Context, actor models.Principal, req BookSlotRequest) (*models.Appointment, error) {
	if req.ProviderID == "" || req.Date == "" || req.SlotTime == "" {
		return nil, utils.ValidationError("providerId, date and slotTime are required")
	}
	provider, err := s.loadProvider(ctx, req.ProviderID)
	if err != nil {
		return nil, err
	}
	start, end, err := s.resolveSlot(provider, req.Date, req.Day, req.SlotTime)
	if err != nil {
		return nil, err
	}
	if !start.After(s.now()) {
		return nil, utils.ValidationError("cannot book a slot in the past")
	}
	return s.create(ctx, actor, provider, start, end, req.SlotTime)
}

// resolveSlot checks that slotTime is an open slot of the provider on date
// and returns its interval.
func (s *DefaultSchedulingService) resolveSlot(provider *models.Provider, date, day, slotTime string) (time.Time, time.Time, error) {
	d, err := ParseDate(date, s.location())
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	weekday := d.Weekday().String()
	if day != "" {
		canonical, ok := CanonicalDay(day)
		if !ok {
			return time.Time{}, time.Time{}, utils.ValidationError("unknown weekday %q", day)
		}
		if canonical != weekday {
			return time.Time{}, time.Time{}, utils.ValidationError("%s is a %s, not a %s", date, weekday, canonical)
		}
	}
	if IsUnavailable(provider, d.Format(dateLayout)) {
		return time.Time{}, time.Time{}, utils.ValidationError("provider is unavailable on %s", date)
	}
	slot, ok := FindSlot(provider, weekday, slotTime)
	if !ok {
		return time.Time{}, time.Time{}, utils.NotFoundError("provider has no %s slot on %s", slotTime, weekday)
	}
	if slot.Held {
		return time.Time{}, time.Time{}, utils.ConflictError("slot %s on %s is not available", slotTime, date)
	}
	start, end, err := SlotInterval(d, slot)
	if err != nil {
		return time.Time{}, time.Time{}, utils.InternalError("stored slot is malformed", err)
	}
	return start, end, nil
}

// create runs the fenced conflict check and insert, then notifies.
func (s *DefaultSchedulingService) create(ctx context.Context, actor models.Principal, provider *models.Provider, start, end time.Time, slotTime string) (*models.Appointment, error) {
	now := s.now()
	appt := &models.Appointment{
		ID:         uuid.New().String(),
		UserID:     actor.UserID,
		ProviderID: provider.ID,
		Start:      start,
		End:        end,
		Status:     models.StatusPending,
		SlotTime:   slotTime,
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err := s.Tx.WithProviderLock(ctx, provider.ID, func(ctx context.Context) error {
		clash, err := s.Appointments.FindConflict(ctx, provider.ID, start, end, "")
		if err != nil {
			return err
		}
		if clash != nil {
			return utils.ConflictError("time slot already booked")
		}
		return s.Appointments.Create(ctx, appt)
	})
	if err != nil {
		return nil, storeError(err, "provider")
	}

	s.logger().Info("appointment created",
		zap.String("appointmentId", appt.ID),
		zap.String("providerId", provider.ID),
		zap.String("userId", actor.UserID),
		zap.Time("start", start),
	)
	s.afterCommit(ctx, events.TypeCreated, appt, actor.UserID, createdMessages(appt, s.displayNames(ctx, appt, provider)))
	return appt, nil
}
