package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskflow/taskflow-api/internal/domain"
)

// mockUserStore is a function-field mock of the store.UserStore interface.
type mockUserStore struct {
	createFn  func(ctx context.Context, user *domain.User) error
	getByIDFn func(ctx context.Context, id int64) (*domain.User, error)
	listFn    func(ctx context.Context) ([]*domain.User, error)
	updateFn  func(ctx context.Context, user *domain.User) error
	deleteFn  func(ctx context.Context, id int64) error
}

func (m *mockUserStore) Create(ctx context.Context, user *domain.User) error {
	return m.createFn(ctx, user)
}

func (m *mockUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockUserStore) List(ctx context.Context) ([]*domain.User, error) {
	return m.listFn(ctx)
}

func (m *mockUserStore) Update(ctx context.Context, user *domain.User) error {
	return m.updateFn(ctx, user)
}

func (m *mockUserStore) Delete(ctx context.Context, id int64) error {
	return m.deleteFn(ctx, id)
}

func TestUserCreateHashesPassword(t *testing.T) {
	var saved *domain.User
	mock := &mockUserStore{
		createFn: func(ctx context.Context, user *domain.User) error {
			saved = user
			user.ID = 1
			return nil
		},
	}

	svc := NewUserService(mock, testLogger)

	user, err := svc.Create(context.Background(), "jane_smith", "jane@example.com", "password123", "Jane", "Smith")
	require.NoError(t, err)
	require.Equal(t, int64(1), user.ID)

	require.NotNil(t, saved)
	require.NotEqual(t, "password123", saved.PasswordHash, "plaintext must never reach the store")
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(saved.PasswordHash), []byte("password123")))
}

func TestUserCreateRejectsEmptyPassword(t *testing.T) {
	mock := &mockUserStore{
		createFn: func(ctx context.Context, user *domain.User) error {
			t.Fatal("store create must not run for an empty password")
			return nil
		},
	}

	svc := NewUserService(mock, testLogger)

	_, err := svc.Create(context.Background(), "jane_smith", "jane@example.com", "", "Jane", "Smith")
	require.ErrorIs(t, err, domain.ErrUserPasswordEmpty)
}

func TestUserUpdateRehashesPassword(t *testing.T) {
	existing := &domain.User{
		ID:           3,
		Username:     "bob_johnson",
		Email:        "bob@example.com",
		PasswordHash: "old-hash",
		IsActive:     true,
	}

	var saved *domain.User
	mock := &mockUserStore{
		getByIDFn: func(ctx context.Context, id int64) (*domain.User, error) {
			copied := *existing
			return &copied, nil
		},
		updateFn: func(ctx context.Context, user *domain.User) error {
			saved = user
			return nil
		},
	}

	svc := NewUserService(mock, testLogger)

	newPassword := "correct horse battery staple"
	_, err := svc.Update(context.Background(), 3, UserUpdate{Password: &newPassword})
	require.NoError(t, err)
	require.NotNil(t, saved)
	require.NotEqual(t, "old-hash", saved.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(saved.PasswordHash), []byte(newPassword)))
}
