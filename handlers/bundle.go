package handlers

import (
	userRepo "appointly/database/repository/user"
	"appointly/utils"
)

// HandlerBundle groups all endpoint handlers and what the auth middleware needs.
type HandlerBundle struct {
	UserRepo  userRepo.UserRepository
	RoleCache utils.RoleCache

	MaxRequestsPerMin int

	Auth          *AuthHandler
	Appointments  *AppointmentHandler
	Providers     *ProviderHandler
	Notifications *NotificationHandler
	Health        *HealthHandler
}
