package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"appointly/database"
	appointmentRepo "appointly/database/repository/appointment"
	"appointly/models"
	"appointly/services/events"

	"go.uber.org/zap"
)

// SweepResult summarizes one escalation pass.
type SweepResult struct {
	Scanned int      `json:"scanned"`
	Missed  []string `json:"missed"`
	Skipped int      `json:"skipped"`
	Failed  int      `json:"failed"`
}

// Escalator marks pending appointments whose approval window closed as missed.
type Escalator struct {
	Service *DefaultSchedulingService
}

// NewEscalator shares the service's repositories, notifier and clock.
func NewEscalator(svc *DefaultSchedulingService) *Escalator {
	return &Escalator{Service: svc}
}

// Sweep transitions every pending appointment with start before now minus
// the approval grace. Each appointment is handled on its own; one failure
// does not stop the rest. An appointment that changed since it was listed
// is skipped, which makes repeated sweeps no-ops.
func (e *Escalator) Sweep(ctx context.Context, now time.Time) (SweepResult, error) {
	s := e.Service
	now = now.UTC()
	result := SweepResult{Missed: []string{}}

	stale, err := s.Appointments.ListPendingStartedBefore(ctx, now.Add(-s.grace()))
	if err != nil {
		return result, fmt.Errorf("failed to list stale appointments: %w", err)
	}
	result.Scanned = len(stale)

	var errs []error
	for i := range stale {
		appt := &stale[i]
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		after, err := e.markMissed(ctx, appt, now)
		switch {
		case errors.Is(err, database.ErrStale):
			result.Skipped++
		case err != nil:
			result.Failed++
			errs = append(errs, fmt.Errorf("appointment %s: %w", appt.ID, err))
			s.logger().Error("failed to mark appointment missed", zap.String("appointmentId", appt.ID), zap.Error(err))
		default:
			result.Missed = append(result.Missed, after.ID)
		}
	}

	if len(result.Missed) > 0 || len(errs) > 0 {
		s.logger().Info("escalation sweep finished",
			zap.Int("scanned", result.Scanned),
			zap.Int("missed", len(result.Missed)),
			zap.Int("skipped", result.Skipped),
			zap.Int("failed", result.Failed),
		)
	}
	return result, errors.Join(errs...)
}

func (e *Escalator) markMissed(ctx context.Context, appt *models.Appointment, now time.Time) (*models.Appointment, error) {
	s := e.Service
	system := models.Principal{UserID: "system", Role: models.RoleAdmin}
	to, err := Decide(ActionMiss, system, appt, s.grace(), now)
	if err != nil {
		return nil, err
	}
	after, err := s.Appointments.TransitionStatus(ctx, appointmentRepo.StatusChange{
		ID:          appt.ID,
		FromStatus:  appt.Status,
		FromVersion: appt.Version,
		ToStatus:    to,
	}, now)
	if err != nil {
		return nil, err
	}
	msgs := transitionMessages(ActionMiss, system, appt, after, s.displayNames(ctx, after, nil))
	s.afterCommit(ctx, events.TypeMissed, after, system.UserID, msgs)
	return after, nil
}
