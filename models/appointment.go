package models

import "time"

// AppointmentStatus is the lifecycle state of an appointment.
type AppointmentStatus string

const (
	StatusPending     AppointmentStatus = "pending"
	StatusApproved    AppointmentStatus = "approved"
	StatusRejected    AppointmentStatus = "rejected"
	StatusCancelled   AppointmentStatus = "cancelled"
	StatusMissed      AppointmentStatus = "missed"
	StatusRescheduled AppointmentStatus = "rescheduled"
)

// LiveStatuses are the statuses that hold a provider's time.
var LiveStatuses = []AppointmentStatus{StatusPending, StatusApproved, StatusRescheduled}

// IsLive reports whether an appointment in this status blocks its interval.
func (s AppointmentStatus) IsLive() bool {
	for _, live := range LiveStatuses {
		if s == live {
			return true
		}
	}
	return false
}

// Valid reports whether s is a known status.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled, StatusMissed, StatusRescheduled:
		return true
	}
	return false
}

// Appointment is a booking of a provider's time by a user.
type Appointment struct {
	ID         string            `bson:"id" json:"id"`
	UserID     string            `bson:"userId" json:"userId"`
	ProviderID string            `bson:"providerId" json:"providerId"`
	Start      time.Time         `bson:"start" json:"start"`
	End        time.Time         `bson:"end" json:"end"`
	Status     AppointmentStatus `bson:"status" json:"status"`
	SlotTime   string            `bson:"slotTime,omitempty" json:"slotTime,omitempty"` // grid label, e.g. "09:00 - 09:30"
	Reason     string            `bson:"reason,omitempty" json:"reason,omitempty"`
	Version    int               `bson:"version" json:"version"`
	CreatedAt  time.Time         `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time         `bson:"updatedAt" json:"updatedAt"`
}

// GridBooked reports whether the appointment was booked against a weekly slot.
func (a *Appointment) GridBooked() bool {
	return a.SlotTime != ""
}
