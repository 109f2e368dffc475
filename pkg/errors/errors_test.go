package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"storefront/domain/identity"
	"storefront/domain/order"
	"storefront/domain/shared"
	"storefront/domain/user"

	"github.com/stretchr/testify/assert"
)

func TestFromDomainError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode ErrorCode
		status   int
	}{
		{"unauthenticated", identity.ErrUnauthenticated, CodeUnauthorized, http.StatusUnauthorized},
		{"invalid token", fmt.Errorf("verify: %w", identity.ErrInvalidToken), CodeInvalidToken, http.StatusUnauthorized},
		{"forbidden", identity.ErrForbidden, CodeForbidden, http.StatusForbidden},
		{"order not found", order.NewOrderNotFoundError("ORDER_1"), CodeOrderNotFound, http.StatusNotFound},
		{"foreign order", order.NewNotOrderOwnerError("ORDER_1"), CodeOrderNotFound, http.StatusNotFound},
		{"illegal transition", order.NewInvalidStateTransitionError(order.StatusDelivered, order.StatusPaid), CodeInvalidOrderState, http.StatusUnprocessableEntity},
		{"order conflict", order.NewConcurrentModificationError("ORDER_1"), CodeConcurrentModification, http.StatusConflict},
		{"order validation", order.NewMissingShippingFieldError("phone"), CodeValidation, http.StatusBadRequest},
		{"user not found", user.NewUserNotFoundError("u1"), CodeUserNotFound, http.StatusNotFound},
		{"email exists", user.NewEmailAlreadyExistsError("a@b.co"), CodeEmailExists, http.StatusConflict},
		{"suspended", user.NewUserSuspendedError("u1"), CodeForbidden, http.StatusForbidden},
		{"shared validation", shared.NewValidationError("cart", "quantity", "bad"), CodeValidation, http.StatusBadRequest},
		{"unknown", errors.New("disk on fire"), CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := FromDomainError(tt.err)
			assert.Equal(t, tt.wantCode, appErr.Code)
			assert.Equal(t, tt.status, appErr.HTTPStatusCode())
			assert.ErrorIs(t, appErr, tt.err)
		})
	}
}

func TestFromDomainErrorHidesInternalMessage(t *testing.T) {
	appErr := FromDomainError(errors.New("dial tcp 10.0.0.1:3306: refused"))
	assert.Equal(t, "internal server error", appErr.Message)
}

func TestFromDomainErrorKeepsAppError(t *testing.T) {
	original := Upstream(errors.New("timeout"))
	wrapped := fmt.Errorf("proxy: %w", original)
	assert.Same(t, original, FromDomainError(wrapped))
	assert.Equal(t, http.StatusBadGateway, original.HTTPStatusCode())
	assert.True(t, Is(wrapped, CodeUpstream))
	assert.Nil(t, FromDomainError(nil))
}
