package scheduling

import (
	"context"

	"appointly/models"
	"appointly/utils"

	"go.uber.org/zap"
)

// GetAvailableSlots returns the provider's grid for date with booked flags
// derived from holds and live appointments.
func (s *DefaultSchedulingService) GetAvailableSlots(ctx context.Context, providerID, date string) (models.DaySlots, error) {
	provider, err := s.loadProvider(ctx, providerID)
	if err != nil {
		return models.DaySlots{}, err
	}
	day, err := ParseDate(date, s.location())
	if err != nil {
		return models.DaySlots{}, err
	}
	from, to := dayBounds(day)
	live, err := s.Appointments.ListLiveBetween(ctx, providerID, from, to)
	if err != nil {
		return models.DaySlots{}, utils.InternalError("failed to load appointments", err)
	}
	return SlotsForDate(provider, day, live), nil
}

// LockSlot places an administrative hold on one weekly slot. The hold
// applies to that weekday in every week.
func (s *DefaultSchedulingService) LockSlot(ctx context.Context, actor models.Principal, providerID, date, slotTime string) error {
	return s.setHold(ctx, actor, providerID, date, slotTime, true)
}

// UnlockSlot releases an administrative hold.
func (s *DefaultSchedulingService) UnlockSlot(ctx context.Context, actor models.Principal, providerID, date, slotTime string) error {
	return s.setHold(ctx, actor, providerID, date, slotTime, false)
}

func (s *DefaultSchedulingService) setHold(ctx context.Context, actor models.Principal, providerID, date, slotTime string, held bool) error {
	if !actor.IsAdmin() {
		return utils.ForbiddenError("only admins can lock or unlock slots")
	}
	if slotTime == "" {
		return utils.ValidationError("slotTime is required")
	}
	if _, err := s.loadProvider(ctx, providerID); err != nil {
		return err
	}
	day, err := ParseDate(date, s.location())
	if err != nil {
		return err
	}
	weekday := day.Weekday().String()
	matched, err := s.Providers.SetSlotHeld(ctx, providerID, weekday, slotTime, held)
	if err != nil {
		return utils.InternalError("failed to update slot", err)
	}
	s.logger().Info("slot hold updated",
		zap.String("providerId", providerID),
		zap.String("day", weekday),
		zap.String("slot", slotTime),
		zap.Bool("held", held),
		zap.Bool("matched", matched),
	)
	return nil
}
