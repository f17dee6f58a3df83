package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"appointly/database"
	userRepo "appointly/database/repository/user"
	"appointly/models"
	"appointly/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo     userRepo.UserRepository
	TokenTTL time.Duration
	Logger   *zap.Logger
	// RoleCache, when set, is cleared for a user whose role changes.
	RoleCache utils.RoleCache
}

func (s *DefaultUserService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func (s *DefaultUserService) tokenTTL() time.Duration {
	if s.TokenTTL <= 0 {
		return 24 * time.Hour
	}
	return s.TokenTTL
}

// RegisterUser validates the form, hashes the password, persists the user
// and returns a signed token.
func (s *DefaultUserService) RegisterUser(ctx context.Context, input RegisterInput) (*AuthResponse, error) {
	u, err := s.create(ctx, input, models.RoleUser)
	if err != nil {
		return nil, err
	}
	return s.issue(u)
}

// CreateAdmin creates an account with the admin role.
func (s *DefaultUserService) CreateAdmin(ctx context.Context, input RegisterInput) (*models.User, error) {
	return s.create(ctx, input, models.RoleAdmin)
}

func (s *DefaultUserService) create(ctx context.Context, input RegisterInput, role models.Role) (*models.User, error) {
	email := normalizeEmail(input.Email)
	if err := validateName(input.Name); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, utils.InternalError("failed to hash password", err)
	}
	now := time.Now().UTC()
	u := &models.User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, utils.ConflictError("an account with this email already exists")
		}
		return nil, utils.InternalError("failed to create user", err)
	}
	s.logger().Info("user registered", zap.String("userId", u.ID), zap.String("role", string(role)))
	return u, nil
}

// AuthenticateUser verifies credentials and returns the user and a token.
func (s *DefaultUserService) AuthenticateUser(ctx context.Context, email, password string) (*AuthResponse, error) {
	u, err := s.Repo.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, database.ErrNotFound) {
		return nil, utils.UnauthorizedError("invalid email or password")
	}
	if err != nil {
		return nil, utils.InternalError("authentication failed, please try again", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, utils.UnauthorizedError("invalid email or password")
	}
	return s.issue(u)
}

// SetRole promotes or demotes an account. The cached role is dropped so the
// change applies to the user's next request.
func (s *DefaultUserService) SetRole(ctx context.Context, email string, role models.Role) (*models.User, error) {
	if role != models.RoleUser && role != models.RoleAdmin {
		return nil, utils.ValidationError("unknown role %q", role)
	}
	current, err := s.Repo.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, database.ErrNotFound) {
		return nil, utils.NotFoundError("user not found")
	}
	if err != nil {
		return nil, utils.InternalError("failed to fetch user", err)
	}
	u, err := s.Repo.UpdateRole(ctx, current.ID, role)
	if err != nil {
		return nil, utils.InternalError("failed to update role", err)
	}
	if s.RoleCache != nil {
		if err := s.RoleCache.Forget(ctx, u.ID); err != nil {
			return nil, utils.InternalError("role updated but the cached role could not be cleared", err)
		}
	}
	s.logger().Info("user role changed",
		zap.String("userId", u.ID),
		zap.String("from", string(current.Role)),
		zap.String("to", string(role)),
	)
	return u, nil
}

// GetUserByID retrieves a user by ID.
func (s *DefaultUserService) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, utils.NotFoundError("user not found")
	}
	if err != nil {
		return nil, utils.InternalError("failed to fetch user", err)
	}
	return u, nil
}

func (s *DefaultUserService) issue(u *models.User) (*AuthResponse, error) {
	token, err := utils.GenerateToken(u.ID, u.Role, s.tokenTTL())
	if err != nil {
		return nil, utils.InternalError("failed to generate token", err)
	}
	return &AuthResponse{User: u, Token: token}, nil
}
