package user

import (
	"context"
	"strings"

	"storefront/domain/shared"
)

type ByEmailSpecification struct {
	Email string
}

func (spec ByEmailSpecification) IsSatisfiedBy(ctx context.Context, entity *User) bool {
	return entity.Email().Value() == NormalizeEmail(spec.Email)
}

type ByStatusSpecification struct {
	Status Status
}

func (spec ByStatusSpecification) IsSatisfiedBy(ctx context.Context, entity *User) bool {
	return entity.Status() == spec.Status
}

// BySearchSpecification case-insensitive substring over name and email
type BySearchSpecification struct {
	Term string
}

func (spec BySearchSpecification) IsSatisfiedBy(ctx context.Context, entity *User) bool {
	term := strings.ToLower(strings.TrimSpace(spec.Term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(entity.Name()), term) ||
		strings.Contains(entity.Email().Value(), term)
}

func NewByEmailSpecification(email string) shared.Specification[*User] {
	return ByEmailSpecification{Email: email}
}

func NewByStatusSpecification(status Status) shared.Specification[*User] {
	return ByStatusSpecification{Status: status}
}

func NewBySearchSpecification(term string) shared.Specification[*User] {
	return BySearchSpecification{Term: term}
}

// NewAdminFilter builds the admin user list filter; "" or "all" skips the status filter.
func NewAdminFilter(status, search string) (shared.Specification[*User], error) {
	var spec shared.Specification[*User] = shared.All[*User]{}
	if status != "" && status != "all" {
		st, ok := ParseStatus(status)
		if !ok {
			return nil, &userDomainError{
				sentinel: shared.ErrInvalidInput,
				category: shared.ErrInvalidInput,
				field:    "status",
				message:  "unknown user status: " + status,
				stack:    shared.CaptureStack(2),
			}
		}
		spec = shared.And(spec, NewByStatusSpecification(st))
	}
	if strings.TrimSpace(search) != "" {
		spec = shared.And(spec, NewBySearchSpecification(search))
	}
	return spec, nil
}
