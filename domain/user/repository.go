package user

import (
	"context"

	"storefront/domain/shared"
)

// Repository User repository interface
// Users are never hard-deleted; suspension replaces removal.
type Repository interface {
	// Save inserts or updates with optimistic locking on Version.
	// Inserting a duplicate email returns NewEmailAlreadyExistsError.
	Save(ctx context.Context, user *User) error

	// FindByID returns NewUserNotFoundError when absent.
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByEmail matches case-insensitively.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindBySpecification lists matching users, newest first.
	FindBySpecification(ctx context.Context, spec shared.Specification[*User]) ([]*User, error)

	Count(ctx context.Context) (int, error)
}
