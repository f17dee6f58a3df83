package scheduling

import (
	"fmt"
	"time"

	"appointly/models"
	"appointly/utils"
)

// Action is a requested appointment transition.
type Action string

const (
	ActionApprove    Action = "approve"
	ActionReject     Action = "reject"
	ActionCancel     Action = "cancel"
	ActionReschedule Action = "reschedule"
	ActionMiss       Action = "miss"
)

// allowedFrom lists the statuses each action may start from.
var allowedFrom = map[Action][]models.AppointmentStatus{
	ActionApprove:    {models.StatusPending, models.StatusRescheduled},
	ActionReject:     {models.StatusPending, models.StatusApproved, models.StatusRescheduled},
	ActionCancel:     {models.StatusPending, models.StatusApproved, models.StatusRescheduled},
	ActionReschedule: {models.StatusPending, models.StatusApproved, models.StatusMissed, models.StatusRescheduled},
	ActionMiss:       {models.StatusPending},
}

// CanTransition reports whether action is valid from status.
func CanTransition(action Action, from models.AppointmentStatus) bool {
	for _, s := range allowedFrom[action] {
		if s == from {
			return true
		}
	}
	return false
}

// ApprovalDeadline is the last instant an appointment may still be approved.
func ApprovalDeadline(appt *models.Appointment, grace time.Duration) time.Time {
	return appt.Start.Add(grace)
}

// PastDeadline reports whether now is strictly after the approval deadline.
func PastDeadline(appt *models.Appointment, grace time.Duration, now time.Time) bool {
	return now.After(ApprovalDeadline(appt, grace))
}

// checkAccess enforces who may perform action on appt.
func checkAccess(action Action, actor models.Principal, appt *models.Appointment) error {
	switch action {
	case ActionApprove, ActionReject:
		if !actor.IsAdmin() {
			return utils.ForbiddenError("only admins can %s appointments", action)
		}
	case ActionCancel, ActionReschedule:
		if !actor.IsAdmin() && appt.UserID != actor.UserID {
			return utils.ForbiddenError("you can only %s your own appointments", action)
		}
	}
	return nil
}

// Decide validates action against appt and returns the status it leads to.
// It performs no writes.
func Decide(action Action, actor models.Principal, appt *models.Appointment, grace time.Duration, now time.Time) (models.AppointmentStatus, error) {
	if !appt.Status.Valid() {
		return "", utils.InternalError("appointment has an unknown status", fmt.Errorf("appointment %s: status %q", appt.ID, appt.Status))
	}
	if err := checkAccess(action, actor, appt); err != nil {
		return "", err
	}
	if !CanTransition(action, appt.Status) {
		return "", utils.ValidationError("cannot %s an appointment that is %s", action, appt.Status)
	}

	switch action {
	case ActionApprove:
		if PastDeadline(appt, grace, now) {
			return "", utils.DeadlineError("approval deadline has passed; the appointment can only be rejected or rescheduled")
		}
		return models.StatusApproved, nil
	case ActionReject:
		return models.StatusRejected, nil
	case ActionCancel:
		return models.StatusCancelled, nil
	case ActionMiss:
		if !PastDeadline(appt, grace, now) {
			return "", utils.ValidationError("appointment is still within its approval window")
		}
		return models.StatusMissed, nil
	case ActionReschedule:
		switch {
		case actor.IsAdmin():
			return models.StatusApproved, nil
		case appt.Status == models.StatusMissed:
			return models.StatusRescheduled, nil
		default:
			return models.StatusPending, nil
		}
	}
	return "", utils.ValidationError("unknown action %q", action)
}
