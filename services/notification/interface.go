package notification

import (
	"context"

	"appointly/models"
)

// Message is one notification text addressed either to a single user or to
// every admin.
type Message struct {
	UserID   string
	ToAdmins bool
	Text     string
}

// ToUser addresses text to one user.
func ToUser(userID, text string) Message {
	return Message{UserID: userID, Text: text}
}

// ToAdmins addresses text to every admin.
func ToAdmins(text string) Message {
	return Message{ToAdmins: true, Text: text}
}

// Notifier stores notifications on behalf of the scheduling core.
type Notifier interface {
	Send(ctx context.Context, msgs ...Message) error
}

// NotificationService adds the owner-scoped inbox operations.
type NotificationService interface {
	Notifier
	List(ctx context.Context, userID string) ([]models.Notification, error)
	MarkRead(ctx context.Context, userID, id string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, userID, id string) error
	Clear(ctx context.Context, userID string) (int64, error)
}
