package store

import (
	"context"

	"github.com/taskflow/taskflow-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user and assigns its ID and timestamps.
	// Returns ErrUsernameExists or ErrEmailExists on unique constraint
	// violations.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by its unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// List retrieves all users, oldest first.
	List(ctx context.Context) ([]*domain.User, error)

	// Update persists changes to an existing user and refreshes updated_at.
	// Returns ErrUserNotFound if the user does not exist.
	Update(ctx context.Context, user *domain.User) error

	// Delete removes a user by ID. Tasks referencing the user keep their
	// user_id; ownership is informational only.
	// Returns ErrUserNotFound if the user does not exist.
	Delete(ctx context.Context, id int64) error
}
