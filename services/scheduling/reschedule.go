package scheduling

import (
	"context"
	"time"

	appointmentRepo "appointly/database/repository/appointment"
	"appointly/models"
	"appointly/services/events"
	"appointly/utils"

	"go.uber.org/zap"
)

// Reschedule moves an appointment to a new interval. The conflict scan
// excludes the appointment itself, so moving within or onto its own
// interval never conflicts.
func (s *DefaultSchedulingService) Reschedule(ctx context.Context, actor models.Principal, id string, req RescheduleRequest) (*models.Appointment, error) {
	if req.Start.IsZero() || req.End.IsZero() {
		return nil, utils.ValidationError("start and end are required")
	}
	if !req.End.After(req.Start) {
		return nil, utils.ValidationError("end time must be after start time")
	}

	before, err := s.loadAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	to, err := Decide(ActionReschedule, actor, before, s.grace(), now)
	if err != nil {
		return nil, err
	}

	start, end := req.Start.UTC(), req.End.UTC()
	slotTime := ""
	var provider *models.Provider
	if before.GridBooked() {
		provider, err = s.loadProvider(ctx, before.ProviderID)
		if err != nil {
			return nil, err
		}
		slotTime, err = s.matchGridSlot(provider, start, end)
		if err != nil {
			return nil, err
		}
	}

	var after *models.Appointment
	err = s.Tx.WithProviderLock(ctx, before.ProviderID, func(ctx context.Context) error {
		clash, err := s.Appointments.FindConflict(ctx, before.ProviderID, start, end, before.ID)
		if err != nil {
			return err
		}
		if clash != nil {
			return utils.ConflictError("new time slot conflicts with another appointment")
		}
		after, err = s.Appointments.Reschedule(ctx, appointmentRepo.ScheduleChange{
			ID:          before.ID,
			FromStatus:  before.Status,
			FromVersion: before.Version,
			ToStatus:    to,
			Start:       start,
			End:         end,
			SlotTime:    slotTime,
		}, now)
		return err
	})
	if err != nil {
		return nil, storeError(err, "provider")
	}

	s.logger().Info("appointment rescheduled",
		zap.String("appointmentId", after.ID),
		zap.String("from", string(before.Status)),
		zap.String("to", string(after.Status)),
		zap.Time("start", start),
		zap.String("actorId", actor.UserID),
	)
	msgs := transitionMessages(ActionReschedule, actor, before, after, s.displayNames(ctx, after, provider))
	s.afterCommit(ctx, events.TypeRescheduled, after, actor.UserID, msgs)
	return after, nil
}

// matchGridSlot requires [start, end) to be exactly one open slot of the
// provider's grid on a date that is not blocked, and returns its label.
func (s *DefaultSchedulingService) matchGridSlot(provider *models.Provider, start, end time.Time) (string, error) {
	local := start.In(s.location())
	date := local.Format(dateLayout)
	if IsUnavailable(provider, date) {
		return "", utils.ValidationError("provider is unavailable on %s", date)
	}
	entry := DaySlotsOf(provider, local.Weekday().String())
	if entry != nil {
		for _, slot := range entry.Slots {
			slotStart, slotEnd, err := SlotInterval(local, slot)
			if err != nil || !slotStart.Equal(start) || !slotEnd.Equal(end) {
				continue
			}
			if slot.Held {
				return "", utils.ConflictError("slot %s on %s is not available", slot.Time, date)
			}
			return slot.Time, nil
		}
	}
	return "", utils.NotFoundError("no slot of the provider matches the new time on %s", date)
}
