// Package identity holds the authenticated caller of a request.
package identity

import (
	"context"
	"errors"
)

// Role is the coarse permission level carried in a session token.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleAdmin
}

var (
	// ErrUnauthenticated no session token was presented
	ErrUnauthenticated = errors.New("authentication required")
	// ErrInvalidToken the token failed signature, expiry or claim checks
	ErrInvalidToken = errors.New("invalid or expired session token")
	// ErrForbidden the session is valid but its role does not grant the operation
	ErrForbidden = errors.New("insufficient permissions")
)

// Identity is the verified subject of a session.
type Identity struct {
	SubjectID string
	Role      Role
	Email     string
}

// Require returns ErrForbidden unless the identity carries role.
func (i Identity) Require(role Role) error {
	if i.Role != role {
		return ErrForbidden
	}
	return nil
}

type ctxKey struct{}

// NewContext attaches id to ctx.
func NewContext(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the identity stored by NewContext, or ErrUnauthenticated.
func FromContext(ctx context.Context) (Identity, error) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	if !ok || id.SubjectID == "" {
		return Identity{}, ErrUnauthenticated
	}
	return id, nil
}
