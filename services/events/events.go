// Package events publishes appointment lifecycle events.
package events

import (
	"context"
	"sync"
	"time"

	"appointly/models"

	"github.com/google/uuid"
)

// Event types.
const (
	TypeCreated     = "appointment.created"
	TypeApproved    = "appointment.approved"
	TypeRejected    = "appointment.rejected"
	TypeCancelled   = "appointment.cancelled"
	TypeRescheduled = "appointment.rescheduled"
	TypeMissed      = "appointment.missed"
)

// Event is the payload written for every committed appointment transition.
type Event struct {
	ID            string                   `json:"id"`
	Type          string                   `json:"type"`
	AppointmentID string                   `json:"appointmentId"`
	ProviderID    string                   `json:"providerId"`
	UserID        string                   `json:"userId"`
	Status        models.AppointmentStatus `json:"status"`
	Start         time.Time                `json:"start"`
	End           time.Time                `json:"end"`
	ActorID       string                   `json:"actorId,omitempty"`
	OccurredAt    time.Time                `json:"occurredAt"`
}

// NewEvent describes appt after a transition of the given type.
func NewEvent(eventType string, appt *models.Appointment, actorID string, at time.Time) Event {
	return Event{
		ID:            uuid.New().String(),
		Type:          eventType,
		AppointmentID: appt.ID,
		ProviderID:    appt.ProviderID,
		UserID:        appt.UserID,
		Status:        appt.Status,
		Start:         appt.Start,
		End:           appt.End,
		ActorID:       actorID,
		OccurredAt:    at,
	}
}

// Publisher delivers events. Delivery is best effort.
type Publisher interface {
	Publish(ctx context.Context, evs ...Event) error
	Close() error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ...Event) error { return nil }
func (NopPublisher) Close() error                            { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	Events []Event
}

func (r *Recorder) Publish(_ context.Context, evs ...Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, evs...)
	return nil
}

func (r *Recorder) Close() error { return nil }

// Types lists the recorded event types in order.
func (r *Recorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]string, len(r.Events))
	for i, e := range r.Events {
		types[i] = e.Type
	}
	return types
}
