package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/taskflow/taskflow-api/internal/domain"
	"github.com/taskflow/taskflow-api/internal/store"
)

// UserStore implements the store.UserStore interface using SQLite.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a new SQLite implementation of the UserStore interface.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// Ensure UserStore implements store.UserStore interface
var _ store.UserStore = (*UserStore)(nil)

// mapUniqueViolation translates a SQLite unique-constraint failure on the
// users table into the matching sentinel error. SQLite reports the violated
// column in the error text ("UNIQUE constraint failed: users.username").
func mapUniqueViolation(err error) error {
	msg := err.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") {
		return nil
	}
	if strings.Contains(msg, "users.username") {
		return store.ErrUsernameExists
	}
	if strings.Contains(msg, "users.email") {
		return store.ErrEmailExists
	}
	return store.ErrDuplicate
}

// Create implements store.UserStore.Create
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	user.CreatedAt = now
	user.UpdatedAt = now

	query := `
		INSERT INTO users (username, email, password_hash, first_name, last_name, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	res, err := s.db.ExecContext(ctx, query,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.IsActive,
		formatTime(user.CreatedAt),
		formatTime(user.UpdatedAt),
	)
	if err != nil {
		if dup := mapUniqueViolation(err); dup != nil {
			return dup
		}
		return store.NewStoreError("user", "create", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return store.NewStoreError("user", "create", err)
	}
	user.ID = id

	return nil
}

// GetByID implements store.UserStore.GetByID
func (s *UserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := userSelectColumns + ` FROM users WHERE id = ?`

	user, err := scanUser(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrUserNotFound
	}
	if err != nil {
		return nil, store.NewStoreError("user", "get_by_id", err)
	}

	return user, nil
}

// List implements store.UserStore.List
func (s *UserStore) List(ctx context.Context) ([]*domain.User, error) {
	query := userSelectColumns + ` FROM users ORDER BY id ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, store.NewStoreError("user", "list", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, store.NewStoreError("user", "list", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("user", "list", err)
	}

	return users, nil
}

// Update implements store.UserStore.Update
func (s *UserStore) Update(ctx context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	user.UpdatedAt = time.Now().UTC().Truncate(time.Second)

	query := `
		UPDATE users
		SET username = ?, email = ?, password_hash = ?, first_name = ?, last_name = ?, is_active = ?, updated_at = ?
		WHERE id = ?
	`

	res, err := s.db.ExecContext(ctx, query,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.IsActive,
		formatTime(user.UpdatedAt),
		user.ID,
	)
	if err != nil {
		if dup := mapUniqueViolation(err); dup != nil {
			return dup
		}
		return store.NewStoreError("user", "update", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return store.NewStoreError("user", "update", err)
	}
	if affected == 0 {
		return store.ErrUserNotFound
	}

	return nil
}

// Delete implements store.UserStore.Delete
func (s *UserStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return store.NewStoreError("user", "delete", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return store.NewStoreError("user", "delete", err)
	}
	if affected == 0 {
		return store.ErrUserNotFound
	}

	return nil
}

const userSelectColumns = `SELECT id, username, email, password_hash, first_name, last_name, is_active, created_at, updated_at`

// scanUser is the explicit typed mapping from a raw row to a domain.User.
func scanUser(row rowScanner) (*domain.User, error) {
	var (
		user      domain.User
		firstName sql.NullString
		lastName  sql.NullString
		createdAt sql.NullString
		updatedAt sql.NullString
	)

	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&firstName,
		&lastName,
		&user.IsActive,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.FirstName = firstName.String
	user.LastName = lastName.String

	created, err := parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("created_at: %w", err)
	}
	if created != nil {
		user.CreatedAt = *created
	}

	updated, err := parseTime(updatedAt)
	if err != nil {
		return nil, fmt.Errorf("updated_at: %w", err)
	}
	if updated != nil {
		user.UpdatedAt = *updated
	}

	return &user, nil
}
