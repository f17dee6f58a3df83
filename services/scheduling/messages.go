package scheduling

import (
	"fmt"

	"appointly/models"
	"appointly/services/notification"
)

// names carries the display names used in notification texts.
type names struct {
	user     string
	provider string
}

func createdMessages(appt *models.Appointment, n names) []notification.Message {
	return []notification.Message{
		notification.ToUser(appt.UserID, fmt.Sprintf("Your appointment has been created with %s and is pending approval.", n.provider)),
		notification.ToAdmins(fmt.Sprintf("%s booked an appointment with %s.", n.user, n.provider)),
	}
}

func transitionMessages(action Action, actor models.Principal, before, after *models.Appointment, n names) []notification.Message {
	owner := after.UserID
	switch action {
	case ActionApprove:
		return []notification.Message{
			notification.ToUser(owner, fmt.Sprintf("Your appointment with %s has been approved.", n.provider)),
		}
	case ActionReject:
		return []notification.Message{
			notification.ToUser(owner, fmt.Sprintf("Your appointment with %s has been rejected.", n.provider)),
		}
	case ActionCancel:
		msgs := []notification.Message{
			notification.ToUser(owner, fmt.Sprintf("Your appointment with %s has been cancelled.", n.provider)),
		}
		if !actor.IsAdmin() {
			msgs = append(msgs, notification.ToAdmins(fmt.Sprintf("%s cancelled their appointment with %s.", n.user, n.provider)))
		}
		return msgs
	case ActionReschedule:
		var text string
		switch {
		case actor.IsAdmin():
			text = "Your appointment has been rescheduled by admin and approved."
		case before.Status == models.StatusMissed:
			text = "Your missed appointment has been rescheduled and is awaiting approval."
		default:
			text = "Your appointment has been rescheduled and is pending approval."
		}
		msgs := []notification.Message{notification.ToUser(owner, text)}
		if !actor.IsAdmin() {
			msgs = append(msgs, notification.ToAdmins(fmt.Sprintf("%s rescheduled their appointment with %s.", n.user, n.provider)))
		}
		return msgs
	case ActionMiss:
		return []notification.Message{
			notification.ToUser(owner, fmt.Sprintf("Your appointment with %s was marked as missed because it was not approved in time. You can reschedule it.", n.provider)),
			notification.ToAdmins(fmt.Sprintf("%s's appointment with %s was marked as missed (not approved in time).", n.user, n.provider)),
		}
	}
	return nil
}
