package repository

import (
	"context"

	appointmentRepo "appointly/database/repository/appointment"
	notificationRepo "appointly/database/repository/notification"
	providerRepo "appointly/database/repository/provider"
	schedulerRepo "appointly/database/repository/scheduler"
	userRepo "appointly/database/repository/user"

	"go.mongodb.org/mongo-driver/mongo"
)

// Re-export the repository interfaces.
type (
	AppointmentRepository  = appointmentRepo.AppointmentRepository
	ProviderRepository     = providerRepo.ProviderRepository
	UserRepository         = userRepo.UserRepository
	NotificationRepository = notificationRepo.NotificationRepository
	TxRunner               = schedulerRepo.TxRunner
)

// Store groups every repository the application needs.
type Store struct {
	Appointments  AppointmentRepository
	Providers     ProviderRepository
	Users         UserRepository
	Notifications NotificationRepository
	Tx            TxRunner
}

// NewMongoStore builds a Store backed by db.
func NewMongoStore(client *mongo.Client, db *mongo.Database) *Store {
	providers := providerRepo.NewMongoProviderRepo(db)
	return &Store{
		Appointments:  appointmentRepo.NewMongoAppointmentRepo(db),
		Providers:     providers,
		Users:         userRepo.NewMongoUserRepo(db),
		Notifications: notificationRepo.NewMongoNotificationRepo(db),
		Tx:            schedulerRepo.NewMongoTxRunner(client, providers),
	}
}

type indexer interface {
	EnsureIndexes(ctx context.Context) error
}

// EnsureIndexes creates the indexes of every collection.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	for _, repo := range []indexer{s.Appointments, s.Providers, s.Users, s.Notifications} {
		if err := repo.EnsureIndexes(ctx); err != nil {
			return err
		}
	}
	return nil
}
