package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"appointly/database"
	notificationRepo "appointly/database/repository/notification"
	userRepo "appointly/database/repository/user"
	"appointly/models"
	"appointly/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	Repo   notificationRepo.NotificationRepository
	Users  userRepo.UserRepository
	Logger *zap.Logger
	Now    func() time.Time
}

func (s *DefaultNotificationService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *DefaultNotificationService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// Send expands admin-addressed messages to every admin and stores the
// result in one batch.
func (s *DefaultNotificationService) Send(ctx context.Context, msgs ...Message) error {
	var admins []models.User
	adminsLoaded := false

	var notes []models.Notification
	createdAt := s.now()
	for _, m := range msgs {
		if !m.ToAdmins {
			if m.UserID == "" {
				continue
			}
			notes = append(notes, s.newNote(m.UserID, m.Text, createdAt))
			continue
		}
		if !adminsLoaded {
			var err error
			admins, err = s.Users.ListByRole(ctx, models.RoleAdmin)
			if err != nil {
				return fmt.Errorf("failed to resolve admin recipients: %w", err)
			}
			adminsLoaded = true
		}
		for _, admin := range admins {
			notes = append(notes, s.newNote(admin.ID, m.Text, createdAt))
		}
	}

	if err := s.Repo.CreateMany(ctx, notes); err != nil {
		return err
	}
	s.logger().Debug("notifications stored", zap.Int("count", len(notes)))
	return nil
}

func (s *DefaultNotificationService) newNote(userID, text string, at time.Time) models.Notification {
	return models.Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Message:   text,
		CreatedAt: at,
	}
}

// List returns the caller's notifications, newest first.
func (s *DefaultNotificationService) List(ctx context.Context, userID string) ([]models.Notification, error) {
	notes, err := s.Repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, utils.InternalError("failed to fetch notifications", err)
	}
	return notes, nil
}

// MarkRead flags one of the caller's notifications as read.
func (s *DefaultNotificationService) MarkRead(ctx context.Context, userID, id string) error {
	if err := utils.ValidateID(id, "notification"); err != nil {
		return err
	}
	return notFoundOr(s.Repo.MarkRead(ctx, userID, id), "failed to update notification")
}

// MarkAllRead flags all of the caller's notifications as read.
func (s *DefaultNotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	n, err := s.Repo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, utils.InternalError("failed to update notifications", err)
	}
	return n, nil
}

// Delete removes one of the caller's notifications.
func (s *DefaultNotificationService) Delete(ctx context.Context, userID, id string) error {
	if err := utils.ValidateID(id, "notification"); err != nil {
		return err
	}
	return notFoundOr(s.Repo.Delete(ctx, userID, id), "failed to delete notification")
}

// Clear removes all of the caller's notifications.
func (s *DefaultNotificationService) Clear(ctx context.Context, userID string) (int64, error) {
	n, err := s.Repo.DeleteAll(ctx, userID)
	if err != nil {
		return 0, utils.InternalError("failed to clear notifications", err)
	}
	return n, nil
}

// notFoundOr hides other users' notifications behind a plain not-found.
func notFoundOr(err error, message string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, database.ErrNotFound):
		return utils.NotFoundError("notification not found")
	default:
		return utils.InternalError(message, err)
	}
}
