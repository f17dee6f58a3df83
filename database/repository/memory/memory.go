// Package memory holds in-process implementations of the repository
// interfaces. They back the test suites and `serve --memory`.
package memory

import "appointly/database/repository"

// NewStore returns an empty in-memory Store.
func NewStore() *repository.Store {
	providers := NewProviderRepo()
	return &repository.Store{
		Appointments:  NewAppointmentRepo(),
		Providers:     providers,
		Users:         NewUserRepo(),
		Notifications: NewNotificationRepo(),
		Tx:            NewTxRunner(providers),
	}
}
