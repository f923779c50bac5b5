package service

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/taskflow/taskflow-api/internal/domain"
	"github.com/taskflow/taskflow-api/internal/store"
)

// UserUpdate carries a partial update for a user. Nil fields are left
// unchanged; a non-nil Password is re-hashed before storage.
type UserUpdate struct {
	Username  *string
	Email     *string
	Password  *string
	FirstName *string
	LastName  *string
	IsActive  *bool
}

// UserService coordinates user operations. Passwords are hashed with bcrypt
// before they reach the store; the plaintext is never persisted or logged.
type UserService struct {
	users  store.UserStore
	logger *slog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(users store.UserStore, logger *slog.Logger) *UserService {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for UserService")
	}

	return &UserService{
		users:  users,
		logger: logger.With(slog.String("component", "user_service")),
	}
}

// Create validates, hashes the password, and persists a new user.
func (s *UserService) Create(ctx context.Context, username, email, password, firstName, lastName string) (*domain.User, error) {
	if password == "" {
		return nil, domain.ErrUserPasswordEmpty
	}

	user, err := domain.NewUser(username, email, firstName, lastName)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hash)

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user created", slog.Int64("user_id", user.ID))
	return user, nil
}

// Get retrieves a user by ID.
func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// List retrieves all users.
func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

// Update applies a partial update to an existing user.
func (s *UserService) Update(ctx context.Context, id int64, upd UserUpdate) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Username != nil {
		user.Username = *upd.Username
	}
	if upd.Email != nil {
		user.Email = *upd.Email
	}
	if upd.FirstName != nil {
		user.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		user.LastName = *upd.LastName
	}
	if upd.IsActive != nil {
		user.IsActive = *upd.IsActive
	}
	if upd.Password != nil {
		if *upd.Password == "" {
			return nil, domain.ErrUserPasswordEmpty
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*upd.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Delete removes a user by ID.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "user deleted", slog.Int64("user_id", id))
	return nil
}
