package order

import (
	"context"

	"storefront/domain/shared"
)

// Repository Order repository interface
type Repository interface {
	// Save inserts a new order or updates an existing one.
	// Updates use optimistic locking on Version and return
	// ErrConcurrentModification when the stored version moved on.
	// Repository only handles persistence, events are collected by UoW.
	Save(ctx context.Context, order *Order) error

	// FindByID returns NewOrderNotFoundError when absent.
	FindByID(ctx context.Context, id string) (*Order, error)

	// FindByUserID lists a customer's orders, newest first.
	FindByUserID(ctx context.Context, userID string) ([]*Order, error)

	// FindBySpecification lists matching orders, newest first.
	FindBySpecification(ctx context.Context, spec shared.Specification[*Order]) ([]*Order, error)
}
