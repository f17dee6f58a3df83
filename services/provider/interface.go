package provider

import (
	"context"

	"appointly/models"
)

// ProviderService manages providers and their bookable week.
type ProviderService interface {
	CreateProvider(ctx context.Context, actor models.Principal, input models.ProviderInput) (*models.Provider, error)
	GetProvider(ctx context.Context, id string) (*models.Provider, error)
	ListProviders(ctx context.Context) ([]models.Provider, error)
	UpdateProvider(ctx context.Context, actor models.Principal, id string, input models.ProviderInput) (*models.Provider, error)
	DeleteProvider(ctx context.Context, actor models.Principal, id string) error
	SetAvailability(ctx context.Context, actor models.Principal, id string, inputs []models.AvailabilityInput) (*models.Provider, error)
	AddUnavailableDates(ctx context.Context, actor models.Principal, id string, dates []string) (*models.Provider, error)
	RemoveUnavailableDates(ctx context.Context, actor models.Principal, id string, dates []string) (*models.Provider, error)
}
