package notificationRepo

import (
	"context"

	"appointly/models"
)

// NotificationRepository stores per-user notifications. Every mutating
// call is scoped to the owning user.
type NotificationRepository interface {
	// CreateMany inserts notifications in one round trip.
	CreateMany(ctx context.Context, notes []models.Notification) error
	// ListByUser returns the user's notifications, newest first.
	ListByUser(ctx context.Context, userID string) ([]models.Notification, error)
	// MarkRead flags one notification as read.
	MarkRead(ctx context.Context, userID, id string) error
	// MarkAllRead flags every unread notification of the user and returns the count.
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	// Delete removes one notification.
	Delete(ctx context.Context, userID, id string) error
	// DeleteAll removes every notification of the user and returns the count.
	DeleteAll(ctx context.Context, userID string) (int64, error)
	// EnsureIndexes creates the collection's indexes.
	EnsureIndexes(ctx context.Context) error
}
