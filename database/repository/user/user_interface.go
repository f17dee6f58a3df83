package userRepo

import (
	"context"

	"appointly/models"
)

// UserRepository defines methods for user data access.
type UserRepository interface {
	// GetByID retrieves a user by its unique ID.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByEmail retrieves a user by its (lowercased) email address.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// ListByRole retrieves every user holding role.
	ListByRole(ctx context.Context, role models.Role) ([]models.User, error)
	// Create inserts a new user record; a taken email yields database.ErrDuplicate.
	Create(ctx context.Context, user *models.User) error
	// UpdateRole changes a user's role and returns the updated record.
	UpdateRole(ctx context.Context, id string, role models.Role) (*models.User, error)
	// EnsureIndexes creates the collection's indexes.
	EnsureIndexes(ctx context.Context) error
}
