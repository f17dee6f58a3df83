package providerRepo

import (
	"context"

	"appointly/models"
)

// ProviderRepository defines methods for provider data access.
type ProviderRepository interface {
	// GetByID retrieves a provider by its unique ID.
	GetByID(ctx context.Context, id string) (*models.Provider, error)
	// GetAll retrieves all providers ordered by name.
	GetAll(ctx context.Context) ([]models.Provider, error)
	// Create inserts a new provider record.
	Create(ctx context.Context, provider *models.Provider) error
	// UpdateProfile overwrites the editable profile fields.
	UpdateProfile(ctx context.Context, id string, input models.ProviderInput) (*models.Provider, error)
	// Delete removes a provider record by its ID.
	Delete(ctx context.Context, id string) error
	// SetWeeklyAvailability replaces the provider's weekly slot template.
	SetWeeklyAvailability(ctx context.Context, id string, week []models.DayAvailability) (*models.Provider, error)
	// SetUnavailableDates replaces the provider's blocked calendar dates.
	SetUnavailableDates(ctx context.Context, id string, dates []string) (*models.Provider, error)
	// SetSlotHeld flips the hold flag of the slot labelled slotTime on day.
	// It reports whether a slot matched; a miss is not an error.
	SetSlotHeld(ctx context.Context, id, day, slotTime string, held bool) (bool, error)
	// BumpScheduleVersion increments the provider's booking fence.
	BumpScheduleVersion(ctx context.Context, id string) error
	// EnsureIndexes creates the collection's indexes.
	EnsureIndexes(ctx context.Context) error
}
