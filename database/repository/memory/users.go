package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"appointly/database"
	userRepo "appointly/database/repository/user"
	"appointly/models"
)

// UserRepo is an in-memory UserRepository.
type UserRepo struct {
	mu    sync.RWMutex
	items map[string]models.User
}

var _ userRepo.UserRepository = (*UserRepo)(nil)

func NewUserRepo() *UserRepo {
	return &UserRepo{items: make(map[string]models.User)}
}

func (r *UserRepo) EnsureIndexes(context.Context) error { return nil }

func (r *UserRepo) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.Email == u.Email {
			return fmt.Errorf("user %s: %w", u.Email, database.ErrDuplicate)
		}
	}
	if _, ok := r.items[u.ID]; ok {
		return fmt.Errorf("user %s: %w", u.ID, database.ErrDuplicate)
	}
	r.items[u.ID] = *u
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, database.ErrNotFound)
	}
	return &u, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.items {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, database.ErrNotFound)
}

func (r *UserRepo) UpdateRole(_ context.Context, id string, role models.Role) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, database.ErrNotFound)
	}
	u.Role = role
	u.UpdatedAt = time.Now().UTC()
	r.items[id] = u
	return &u, nil
}

func (r *UserRepo) ListByRole(_ context.Context, role models.Role) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []models.User{}
	for _, u := range r.items {
		if u.Role == role {
			u.PasswordHash = ""
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
