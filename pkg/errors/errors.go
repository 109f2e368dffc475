package errors

import (
	"errors"
	"fmt"
	"net/http"

	"storefront/domain/identity"
	"storefront/domain/order"
	"storefront/domain/shared"
	"storefront/domain/user"
)

// ErrorCode 错误码
type ErrorCode string

const (
	// 通用错误码
	CodeInternal       ErrorCode = "INTERNAL_ERROR"
	CodeBadRequest     ErrorCode = "BAD_REQUEST"
	CodeUnauthorized   ErrorCode = "UNAUTHENTICATED"
	CodeInvalidToken   ErrorCode = "INVALID_TOKEN"
	CodeForbidden      ErrorCode = "FORBIDDEN"
	CodeNotFound       ErrorCode = "NOT_FOUND"
	CodeConflict       ErrorCode = "CONFLICT"
	CodeTooManyRequest ErrorCode = "TOO_MANY_REQUESTS"
	CodeValidation     ErrorCode = "VALIDATION_ERROR"
	CodeUpstream       ErrorCode = "UPSTREAM_FAILURE"

	// 业务错误码
	CodeInvalidCredentials     ErrorCode = "INVALID_CREDENTIALS"
	CodeUserNotFound           ErrorCode = "USER_NOT_FOUND"
	CodeEmailExists            ErrorCode = "EMAIL_EXISTS"
	CodeOrderNotFound          ErrorCode = "ORDER_NOT_FOUND"
	CodeInvalidOrderState      ErrorCode = "INVALID_ORDER_STATE"
	CodeConcurrentModification ErrorCode = "CONCURRENT_MODIFICATION"
	CodePaymentFailed          ErrorCode = "PAYMENT_FAILED"
)

// AppError 应用错误
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatusCode 返回对应的HTTP状态码
func (e *AppError) HTTPStatusCode() int {
	switch e.Code {
	case CodeBadRequest, CodeValidation, CodePaymentFailed:
		return http.StatusBadRequest
	case CodeUnauthorized, CodeInvalidToken, CodeInvalidCredentials:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound, CodeUserNotFound, CodeOrderNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeEmailExists, CodeConcurrentModification:
		return http.StatusConflict
	case CodeTooManyRequest:
		return http.StatusTooManyRequests
	case CodeInvalidOrderState:
		return http.StatusUnprocessableEntity
	case CodeUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// New 创建新错误
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装错误
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// 业务错误

func InvalidCredentials() *AppError {
	return New(CodeInvalidCredentials, "invalid email or password")
}

func PaymentFailed(err error) *AppError {
	return Wrap(err, CodePaymentFailed, "Payment verification failed")
}

func Upstream(err error) *AppError {
	return Wrap(err, CodeUpstream, "payment gateway unavailable")
}

// Is 检查是否为特定错误码
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// FromDomainError 将领域错误映射为应用错误
// 先匹配具体哨兵，再按共享分类兜底；无法识别的错误归为内部错误，消息不外泄
func FromDomainError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, identity.ErrUnauthenticated):
		return Wrap(err, CodeUnauthorized, "authentication required")
	case errors.Is(err, identity.ErrInvalidToken):
		return Wrap(err, CodeInvalidToken, "invalid or expired session")
	case errors.Is(err, identity.ErrForbidden):
		return Wrap(err, CodeForbidden, "insufficient permissions")

	case errors.Is(err, order.ErrOrderNotFound), errors.Is(err, order.ErrNotOrderOwner):
		return Wrap(err, CodeOrderNotFound, "order not found")
	case errors.Is(err, order.ErrInvalidOrderState):
		return Wrap(err, CodeInvalidOrderState, err.Error())
	case errors.Is(err, order.ErrConcurrentModification), errors.Is(err, user.ErrConcurrentModification):
		return Wrap(err, CodeConcurrentModification, "resource was modified concurrently, please retry")

	case errors.Is(err, user.ErrUserNotFound):
		return Wrap(err, CodeUserNotFound, "user not found")
	case errors.Is(err, user.ErrEmailAlreadyExists):
		return Wrap(err, CodeEmailExists, "email already exists")
	case errors.Is(err, user.ErrUserSuspended):
		return Wrap(err, CodeForbidden, "account is suspended")

	case errors.Is(err, shared.ErrInvalidInput):
		return Wrap(err, CodeValidation, err.Error())
	case errors.Is(err, shared.ErrNotFound):
		return Wrap(err, CodeNotFound, err.Error())
	case errors.Is(err, shared.ErrConflict):
		return Wrap(err, CodeConflict, err.Error())
	case errors.Is(err, shared.ErrForbidden):
		return Wrap(err, CodeForbidden, err.Error())
	}

	return Wrap(err, CodeInternal, "internal server error")
}
