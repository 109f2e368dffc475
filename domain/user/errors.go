/*
Package user 定义用户领域错误。
*/
package user

import (
	"errors"

	"storefront/domain/shared"
)

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrInvalidEmail           = errors.New("invalid email format")
	ErrInvalidName            = errors.New("name cannot be empty")
	ErrInvalidProvider        = errors.New("unknown login provider")
	ErrMissingPassword        = errors.New("password is required for email accounts")
	ErrUserSuspended          = errors.New("user is suspended")
	ErrConcurrentModification = errors.New("user was modified by another transaction, please retry")
	ErrEmailAlreadyExists     = errors.New("email already exists")
)

func NewUserNotFoundError(userID string) error {
	return &userDomainError{
		sentinel: ErrUserNotFound,
		category: shared.ErrNotFound,
		message:  "user not found: " + userID,
		stack:    shared.CaptureStack(3),
	}
}

func NewConcurrentModificationError(userID string) error {
	return &userDomainError{
		sentinel: ErrConcurrentModification,
		category: shared.ErrConflict,
		message:  "user " + userID + " was modified by another transaction, please retry",
		stack:    shared.CaptureStack(3),
	}
}

func NewInvalidEmailError(email string) error {
	return &userDomainError{
		sentinel: ErrInvalidEmail,
		category: shared.ErrInvalidInput,
		field:    "email",
		message:  "invalid email format: " + email,
		stack:    shared.CaptureStack(3),
	}
}

func NewInvalidNameError() error {
	return &userDomainError{
		sentinel: ErrInvalidName,
		category: shared.ErrInvalidInput,
		field:    "name",
		message:  "name cannot be empty",
		stack:    shared.CaptureStack(3),
	}
}

func NewInvalidProviderError(provider string) error {
	return &userDomainError{
		sentinel: ErrInvalidProvider,
		category: shared.ErrInvalidInput,
		field:    "provider",
		message:  "unknown login provider: " + provider,
		stack:    shared.CaptureStack(3),
	}
}

func NewMissingPasswordError() error {
	return &userDomainError{
		sentinel: ErrMissingPassword,
		category: shared.ErrInvalidInput,
		field:    "password",
		message:  ErrMissingPassword.Error(),
		stack:    shared.CaptureStack(3),
	}
}

func NewUserSuspendedError(userID string) error {
	return &userDomainError{
		sentinel: ErrUserSuspended,
		category: shared.ErrForbidden,
		message:  "user " + userID + " is suspended",
		stack:    shared.CaptureStack(3),
	}
}

func NewEmailAlreadyExistsError(email string) error {
	return &userDomainError{
		sentinel: ErrEmailAlreadyExists,
		category: shared.ErrConflict,
		field:    "email",
		message:  "email already exists: " + email,
		stack:    shared.CaptureStack(3),
	}
}

type userDomainError struct {
	sentinel error
	category error
	field    string
	message  string
	stack    []uintptr
}

func (e *userDomainError) Error() string   { return e.message }
func (e *userDomainError) Unwrap() []error { return []error{e.sentinel, e.category} }
func (e *userDomainError) Stack() []string { return shared.FormatStack(e.stack) }
func (e *userDomainError) Field() string   { return e.field }
