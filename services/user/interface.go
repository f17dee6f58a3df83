package user

import (
	"context"

	"appointly/models"
)

// AuthResponse is returned by registration and login.
type AuthResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// RegisterInput carries the sign-up form.
type RegisterInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserService defines business logic for user operations.
type UserService interface {
	// RegisterUser creates a regular account and signs the caller in.
	RegisterUser(ctx context.Context, input RegisterInput) (*AuthResponse, error)
	// AuthenticateUser verifies credentials and returns a fresh token.
	AuthenticateUser(ctx context.Context, email, password string) (*AuthResponse, error)
	// CreateAdmin creates an admin account. Used by the bootstrap command.
	CreateAdmin(ctx context.Context, input RegisterInput) (*models.User, error)
	// SetRole changes the role of the account registered under email.
	SetRole(ctx context.Context, email string, role models.Role) (*models.User, error)
	// GetUserByID retrieves a user (safe view) by its unique ID.
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
}
