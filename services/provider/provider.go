package provider

import (
	"context"
	"errors"
	"strings"
	"time"

	"appointly/database"
	appointmentRepo "appointly/database/repository/appointment"
	providerRepo "appointly/database/repository/provider"
	"appointly/models"
	"appointly/services/scheduling"
	"appointly/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultProviderService is the production implementation.
type DefaultProviderService struct {
	Repo         providerRepo.ProviderRepository
	Appointments appointmentRepo.AppointmentRepository
	Logger       *zap.Logger
	Now          func() time.Time
}

func (s *DefaultProviderService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *DefaultProviderService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func requireAdmin(actor models.Principal) error {
	if !actor.IsAdmin() {
		return utils.ForbiddenError("only admins can manage providers")
	}
	return nil
}

func validateInput(input models.ProviderInput) error {
	if len(strings.TrimSpace(input.Name)) < 3 {
		return utils.ValidationError("name must be at least 3 characters long")
	}
	if strings.TrimSpace(input.Speciality) == "" {
		return utils.ValidationError("speciality is required")
	}
	if input.HourlyPrice <= 0 {
		return utils.ValidationError("hourlyPrice must be positive")
	}
	return nil
}

func notFoundOr(err error, message string) error {
	if errors.Is(err, database.ErrNotFound) {
		return utils.NotFoundError("provider not found")
	}
	return utils.InternalError(message, err)
}

// CreateProvider registers a provider with an empty week.
func (s *DefaultProviderService) CreateProvider(ctx context.Context, actor models.Principal, input models.ProviderInput) (*models.Provider, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}
	now := s.now()
	p := &models.Provider{
		ID:                 uuid.New().String(),
		Name:               strings.TrimSpace(input.Name),
		Speciality:         strings.TrimSpace(input.Speciality),
		Bio:                input.Bio,
		HourlyPrice:        input.HourlyPrice,
		Address:            input.Address,
		City:               input.City,
		WeeklyAvailability: []models.DayAvailability{},
		UnavailableDates:   []string{},
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.Repo.Create(ctx, p); err != nil {
		return nil, utils.InternalError("failed to create provider", err)
	}
	s.logger().Info("provider created", zap.String("providerId", p.ID), zap.String("actorId", actor.UserID))
	return p, nil
}

// GetProvider returns one provider.
func (s *DefaultProviderService) GetProvider(ctx context.Context, id string) (*models.Provider, error) {
	if err := utils.ValidateID(id, "provider"); err != nil {
		return nil, err
	}
	p, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "failed to fetch provider")
	}
	return p, nil
}

// ListProviders returns every provider ordered by name.
func (s *DefaultProviderService) ListProviders(ctx context.Context) ([]models.Provider, error) {
	list, err := s.Repo.GetAll(ctx)
	if err != nil {
		return nil, utils.InternalError("failed to fetch providers", err)
	}
	return list, nil
}

// UpdateProvider replaces the profile fields.
func (s *DefaultProviderService) UpdateProvider(ctx context.Context, actor models.Principal, id string, input models.ProviderInput) (*models.Provider, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := utils.ValidateID(id, "provider"); err != nil {
		return nil, err
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}
	input.Name = strings.TrimSpace(input.Name)
	input.Speciality = strings.TrimSpace(input.Speciality)
	p, err := s.Repo.UpdateProfile(ctx, id, input)
	if err != nil {
		return nil, notFoundOr(err, "failed to update provider")
	}
	return p, nil
}

// DeleteProvider removes a provider that has no upcoming live appointments.
func (s *DefaultProviderService) DeleteProvider(ctx context.Context, actor models.Principal, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if _, err := s.GetProvider(ctx, id); err != nil {
		return err
	}
	n, err := s.Appointments.CountLiveFrom(ctx, id, s.now())
	if err != nil {
		return utils.InternalError("failed to check provider appointments", err)
	}
	if n > 0 {
		return utils.ConflictError("provider has %d upcoming appointments; cancel or reject them first", n)
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return notFoundOr(err, "failed to delete provider")
	}
	s.logger().Info("provider deleted", zap.String("providerId", id), zap.String("actorId", actor.UserID))
	return nil
}

// SetAvailability replaces the weekly template. Holds carry over to slots
// whose label survives the change.
func (s *DefaultProviderService) SetAvailability(ctx context.Context, actor models.Principal, id string, inputs []models.AvailabilityInput) (*models.Provider, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	week, err := scheduling.BuildWeek(inputs)
	if err != nil {
		return nil, err
	}
	current, err := s.GetProvider(ctx, id)
	if err != nil {
		return nil, err
	}
	for i := range week {
		for j := range week[i].Slots {
			if old, ok := scheduling.FindSlot(current, week[i].Day, week[i].Slots[j].Time); ok {
				week[i].Slots[j].Held = old.Held
			}
		}
	}

	p, err := s.Repo.SetWeeklyAvailability(ctx, id, week)
	if err != nil {
		return nil, notFoundOr(err, "failed to update availability")
	}
	s.logger().Info("availability updated", zap.String("providerId", id), zap.Int("days", len(week)))
	return p, nil
}

// AddUnavailableDates merges dates into the provider's blocklist.
func (s *DefaultProviderService) AddUnavailableDates(ctx context.Context, actor models.Principal, id string, dates []string) (*models.Provider, error) {
	return s.editDates(ctx, actor, id, func(current []string) []string {
		return append(current, dates...)
	}, dates)
}

// RemoveUnavailableDates drops dates from the provider's blocklist.
func (s *DefaultProviderService) RemoveUnavailableDates(ctx context.Context, actor models.Principal, id string, dates []string) (*models.Provider, error) {
	return s.editDates(ctx, actor, id, func(current []string) []string {
		drop := make(map[string]bool, len(dates))
		for _, d := range dates {
			drop[strings.TrimSpace(d)] = true
		}
		kept := []string{}
		for _, d := range current {
			if !drop[d] {
				kept = append(kept, d)
			}
		}
		return kept
	}, dates)
}

func (s *DefaultProviderService) editDates(ctx context.Context, actor models.Principal, id string, edit func([]string) []string, input []string) (*models.Provider, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if len(input) == 0 {
		return nil, utils.ValidationError("unavailableDates must not be empty")
	}
	if _, err := scheduling.NormalizeDates(input); err != nil {
		return nil, err
	}
	current, err := s.GetProvider(ctx, id)
	if err != nil {
		return nil, err
	}
	dates, err := scheduling.NormalizeDates(edit(current.UnavailableDates))
	if err != nil {
		return nil, err
	}
	p, err := s.Repo.SetUnavailableDates(ctx, id, dates)
	if err != nil {
		return nil, notFoundOr(err, "failed to update unavailable dates")
	}
	return p, nil
}
