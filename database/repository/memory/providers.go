package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"appointly/database"
	providerRepo "appointly/database/repository/provider"
	"appointly/models"
)

// ProviderRepo is an in-memory ProviderRepository.
type ProviderRepo struct {
	mu    sync.RWMutex
	items map[string]models.Provider
}

var _ providerRepo.ProviderRepository = (*ProviderRepo)(nil)

func NewProviderRepo() *ProviderRepo {
	return &ProviderRepo{items: make(map[string]models.Provider)}
}

func (r *ProviderRepo) EnsureIndexes(context.Context) error { return nil }

func (r *ProviderRepo) Create(_ context.Context, p *models.Provider) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[p.ID]; ok {
		return fmt.Errorf("provider %s: %w", p.ID, database.ErrDuplicate)
	}
	r.items[p.ID] = cloneProvider(*p)
	return nil
}

func (r *ProviderRepo) GetByID(_ context.Context, id string) (*models.Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("provider %s: %w", id, database.ErrNotFound)
	}
	p = cloneProvider(p)
	return &p, nil
}

func (r *ProviderRepo) GetAll(context.Context) ([]models.Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Provider, 0, len(r.items))
	for _, p := range r.items {
		out = append(out, cloneProvider(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *ProviderRepo) UpdateProfile(_ context.Context, id string, in models.ProviderInput) (*models.Provider, error) {
	return r.update(id, func(p *models.Provider) {
		p.Name = in.Name
		p.Speciality = in.Speciality
		p.Bio = in.Bio
		p.HourlyPrice = in.HourlyPrice
		p.Address = in.Address
		p.City = in.City
	})
}

func (r *ProviderRepo) SetWeeklyAvailability(_ context.Context, id string, week []models.DayAvailability) (*models.Provider, error) {
	return r.update(id, func(p *models.Provider) { p.WeeklyAvailability = week })
}

func (r *ProviderRepo) SetUnavailableDates(_ context.Context, id string, dates []string) (*models.Provider, error) {
	return r.update(id, func(p *models.Provider) { p.UnavailableDates = dates })
}

func (r *ProviderRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return fmt.Errorf("provider %s: %w", id, database.ErrNotFound)
	}
	delete(r.items, id)
	return nil
}

func (r *ProviderRepo) SetSlotHeld(_ context.Context, id, day, slotTime string, held bool) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.items[id]
	if !ok {
		return false, nil
	}
	p = cloneProvider(p)
	for i := range p.WeeklyAvailability {
		if p.WeeklyAvailability[i].Day != day {
			continue
		}
		for j := range p.WeeklyAvailability[i].Slots {
			if p.WeeklyAvailability[i].Slots[j].Time == slotTime {
				p.WeeklyAvailability[i].Slots[j].Held = held
				p.UpdatedAt = time.Now()
				r.items[id] = p
				return true, nil
			}
		}
	}
	return false, nil
}

func (r *ProviderRepo) BumpScheduleVersion(_ context.Context, id string) error {
	_, err := r.update(id, func(p *models.Provider) { p.ScheduleVersion++ })
	return err
}

func (r *ProviderRepo) update(id string, apply func(*models.Provider)) (*models.Provider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("provider %s: %w", id, database.ErrNotFound)
	}
	p = cloneProvider(p)
	apply(&p)
	p.UpdatedAt = time.Now()
	r.items[id] = p
	out := cloneProvider(p)
	return &out, nil
}

func cloneProvider(p models.Provider) models.Provider {
	week := make([]models.DayAvailability, len(p.WeeklyAvailability))
	for i, d := range p.WeeklyAvailability {
		week[i] = models.DayAvailability{Day: d.Day, Slots: append([]models.Slot(nil), d.Slots...)}
	}
	p.WeeklyAvailability = week
	p.UnavailableDates = append([]string(nil), p.UnavailableDates...)
	return p
}
