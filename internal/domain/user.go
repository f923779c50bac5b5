package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// User-specific validation errors
var (
	ErrUserUsernameEmpty = errors.New("username cannot be empty")
	ErrUserEmailEmpty    = errors.New("email cannot be empty")
	ErrUserEmailInvalid  = errors.New("invalid email format")
	ErrUserPasswordEmpty = errors.New("password cannot be empty")
)

// emailPattern is a deliberately loose format check; uniqueness and
// deliverability are not this layer's concern.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// User represents a registered user of the TaskFlow application.
// PasswordHash holds the bcrypt hash and must never be serialized.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser creates a new User with the given identity fields. The caller is
// responsible for hashing the password and setting PasswordHash before the
// user is stored; the ID and timestamps are assigned by the store.
func NewUser(username, email, firstName, lastName string) (*User, error) {
	user := &User{
		Username:  username,
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		IsActive:  true,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if strings.TrimSpace(u.Username) == "" {
		return ErrUserUsernameEmpty
	}

	if u.Email == "" {
		return ErrUserEmailEmpty
	}

	if !emailPattern.MatchString(u.Email) {
		return ErrUserEmailInvalid
	}

	return nil
}
