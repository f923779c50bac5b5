package api

import (
	"errors"
	"net/http"

	"github.com/taskflow/taskflow-api/internal/domain"
	"github.com/taskflow/taskflow-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var verr *domain.ValidationError

	switch {
	// Query parameter validation errors
	case errors.As(err, &verr):
		return http.StatusBadRequest

	// Not found errors
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrTaskTitleEmpty),
		errors.Is(err, domain.ErrTaskTitleTooLong),
		errors.Is(err, domain.ErrTaskStatusInvalid),
		errors.Is(err, domain.ErrTaskPriorityInvalid),
		errors.Is(err, domain.ErrUserUsernameEmpty),
		errors.Is(err, domain.ErrUserEmailEmpty),
		errors.Is(err, domain.ErrUserEmailInvalid),
		errors.Is(err, domain.ErrUserPasswordEmpty):
		return http.StatusBadRequest

	// Default: internal server error (storage failures land here)
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "Internal server error"
	}

	var verr *domain.ValidationError

	switch {
	case errors.As(err, &verr):
		return verr.Detail()

	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrUsernameExists):
		return "Username already exists"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	// Domain validation messages are written for clients and safe to expose.
	case errors.Is(err, domain.ErrTaskTitleEmpty),
		errors.Is(err, domain.ErrTaskTitleTooLong),
		errors.Is(err, domain.ErrTaskStatusInvalid),
		errors.Is(err, domain.ErrTaskPriorityInvalid),
		errors.Is(err, domain.ErrUserUsernameEmpty),
		errors.Is(err, domain.ErrUserEmailEmpty),
		errors.Is(err, domain.ErrUserEmailInvalid),
		errors.Is(err, domain.ErrUserPasswordEmpty):
		return capitalize(err.Error())

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	// Storage failures and anything unrecognized stay opaque.
	default:
		return "Internal server error"
	}
}

// capitalize upper-cases the first byte of an ASCII message for client display.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}
