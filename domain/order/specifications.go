package order

import (
	"context"
	"strings"
	"time"

	"storefront/domain/shared"
)

// ByUserIDSpecification filters orders by user ID
type ByUserIDSpecification struct {
	UserID string
}

// IsSatisfiedBy returns true if the order belongs to the specified user
func (spec ByUserIDSpecification) IsSatisfiedBy(ctx context.Context, entity *Order) bool {
	return entity.UserID() == spec.UserID
}

// ByStatusSpecification filters orders by status
type ByStatusSpecification struct {
	Status Status
}

// IsSatisfiedBy returns true if the order has the specified status
func (spec ByStatusSpecification) IsSatisfiedBy(ctx context.Context, entity *Order) bool {
	return entity.Status() == spec.Status
}

// ByDateRangeSpecification filters orders by creation date range
// Both Start and End are optional - if zero, they are ignored
type ByDateRangeSpecification struct {
	Start time.Time
	End   time.Time
}

// IsSatisfiedBy returns true if the order was created within the date range
func (spec ByDateRangeSpecification) IsSatisfiedBy(ctx context.Context, entity *Order) bool {
	createdAt := entity.CreatedAt()

	// Check start date (if specified)
	if !spec.Start.IsZero() && createdAt.Before(spec.Start) {
		return false
	}

	// Check end date (if specified)
	if !spec.End.IsZero() && createdAt.After(spec.End) {
		return false
	}

	return true
}

// Helper functions for common specifications

// NewByUserIDSpecification creates a specification to filter by user ID
func NewByUserIDSpecification(userID string) shared.Specification[*Order] {
	return ByUserIDSpecification{UserID: userID}
}

// NewByStatusSpecification creates a specification to filter by status
func NewByStatusSpecification(status Status) shared.Specification[*Order] {
	return ByStatusSpecification{Status: status}
}

// NewByDateRangeSpecification creates a specification to filter by date range
func NewByDateRangeSpecification(start, end time.Time) shared.Specification[*Order] {
	return ByDateRangeSpecification{Start: start, End: end}
}

// BySearchSpecification matches a case-insensitive substring of the order id
// or the recipient name.
type BySearchSpecification struct {
	Term string
}

func (spec BySearchSpecification) IsSatisfiedBy(ctx context.Context, entity *Order) bool {
	term := strings.ToLower(strings.TrimSpace(spec.Term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(entity.ID()), term) ||
		strings.Contains(strings.ToLower(entity.Shipping().Name), term)
}

func NewBySearchSpecification(term string) shared.Specification[*Order] {
	return BySearchSpecification{Term: term}
}

// NewAdminFilter combines the optional status and search filters of the
// administrator order list. An empty or "all" status matches every order.
func NewAdminFilter(status, search string) (shared.Specification[*Order], error) {
	var spec shared.Specification[*Order] = shared.All[*Order]{}
	if status != "" && status != "all" {
		st, ok := ParseStatus(status)
		if !ok {
			return nil, NewUnknownStatusError(status)
		}
		spec = shared.And(spec, NewByStatusSpecification(st))
	}
	if strings.TrimSpace(search) != "" {
		spec = shared.And(spec, NewBySearchSpecification(search))
	}
	return spec, nil
}
