package scheduling

import (
	"context"

	appointmentRepo "appointly/database/repository/appointment"
	"appointly/models"
	"appointly/services/events"

	"go.uber.org/zap"
)

var eventTypes = map[Action]string{
	ActionApprove:    events.TypeApproved,
	ActionReject:     events.TypeRejected,
	ActionCancel:     events.TypeCancelled,
	ActionReschedule: events.TypeRescheduled,
	ActionMiss:       events.TypeMissed,
}

// Approve moves a pending or rescheduled appointment to approved while
// the approval window is open.
func (s *DefaultSchedulingService) Approve(ctx context.Context, actor models.Principal, id string) (*models.Appointment, error) {
	return s.transition(ctx, actor, ActionApprove, id, "")
}

// Reject frees the appointment's interval.
func (s *DefaultSchedulingService) Reject(ctx context.Context, actor models.Principal, id, reason string) (*models.Appointment, error) {
	return s.transition(ctx, actor, ActionReject, id, reason)
}

// Cancel frees the appointment's interval on behalf of its owner or an admin.
func (s *DefaultSchedulingService) Cancel(ctx context.Context, actor models.Principal, id, reason string) (*models.Appointment, error) {
	return s.transition(ctx, actor, ActionCancel, id, reason)
}

// transition applies a status-only action with a compare-and-set write.
func (s *DefaultSchedulingService) transition(ctx context.Context, actor models.Principal, action Action, id, reason string) (*models.Appointment, error) {
	before, err := s.loadAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	to, err := Decide(action, actor, before, s.grace(), now)
	if err != nil {
		return nil, err
	}

	after, err := s.Appointments.TransitionStatus(ctx, appointmentRepo.StatusChange{
		ID:          before.ID,
		FromStatus:  before.Status,
		FromVersion: before.Version,
		ToStatus:    to,
		Reason:      reason,
	}, now)
	if err != nil {
		return nil, storeError(err, "appointment")
	}

	s.logger().Info("appointment status changed",
		zap.String("appointmentId", after.ID),
		zap.String("action", string(action)),
		zap.String("from", string(before.Status)),
		zap.String("to", string(after.Status)),
		zap.String("actorId", actor.UserID),
	)
	msgs := transitionMessages(action, actor, before, after, s.displayNames(ctx, after, nil))
	s.afterCommit(ctx, eventTypes[action], after, actor.UserID, msgs)
	return after, nil
}
