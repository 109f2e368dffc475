/*
Package order - 订单领域错误定义

设计原则:
1. 使用哨兵错误(sentinel errors)支持 errors.Is() 类型安全判断
2. 错误构造函数在创建时捕获堆栈，便于定位错误发生点
3. 每个错误同时归属一个共享分类(shared.ErrNotFound 等)，上层按分类映射错误码
4. 不包含 HTTP 状态码等非领域概念
*/
package order

import (
	"errors"
	"fmt"

	"storefront/domain/shared"
)

var (
	ErrOrderNotFound = errors.New("order not found")

	// ErrConcurrentModification 乐观锁冲突，调用方应重新加载后重试
	ErrConcurrentModification = errors.New("order was modified by another transaction, please retry")

	// ErrInvalidOrderState 状态机不允许的转换，订单保持原状
	ErrInvalidOrderState = errors.New("invalid order state transition")

	ErrEmptyOrderItems        = errors.New("order must have at least one item")
	ErrInvalidQuantity        = errors.New("quantity must be positive")
	ErrInvalidPrice           = errors.New("price must not be negative")
	ErrMissingShippingField   = errors.New("shipping information is incomplete")
	ErrTotalAmountNotPositive = errors.New("order total amount must be positive")
	ErrTotalMismatch          = errors.New("submitted total does not match the computed total")
	ErrMissingOwner           = errors.New("order must belong to a user")
	ErrUnknownStatus          = errors.New("unknown order status")
	ErrNotOrderOwner          = errors.New("order belongs to another user")
)

// orderDomainError 订单领域错误（内部类型）
// Unwrap 同时暴露具体哨兵和共享分类
type orderDomainError struct {
	sentinel error
	category error
	field    string
	message  string
	stack    []uintptr
}

func (e *orderDomainError) Error() string { return e.message }

func (e *orderDomainError) Unwrap() []error {
	if e.category == nil {
		return []error{e.sentinel}
	}
	return []error{e.sentinel, e.category}
}

func (e *orderDomainError) Stack() []string { return shared.FormatStack(e.stack) }

// Field 校验失败的字段名，可为空
func (e *orderDomainError) Field() string { return e.field }

func NewOrderNotFoundError(orderID string) error {
	return &orderDomainError{
		sentinel: ErrOrderNotFound,
		category: shared.ErrNotFound,
		message:  "order not found: " + orderID,
		stack:    shared.CaptureStack(3),
	}
}

func NewConcurrentModificationError(orderID string) error {
	return &orderDomainError{
		sentinel: ErrConcurrentModification,
		category: shared.ErrConflict,
		message:  "order " + orderID + " was modified concurrently",
		stack:    shared.CaptureStack(3),
	}
}

func NewInvalidStateTransitionError(from, to Status) error {
	return &orderDomainError{
		sentinel: ErrInvalidOrderState,
		field:    "status",
		message:  fmt.Sprintf("cannot transition order from %s to %s", from, to),
		stack:    shared.CaptureStack(3),
	}
}

func NewMissingShippingFieldError(field string) error {
	return &orderDomainError{
		sentinel: ErrMissingShippingField,
		category: shared.ErrInvalidInput,
		field:    "shippingInfo." + field,
		message:  "shipping " + field + " is required",
		stack:    shared.CaptureStack(3),
	}
}

func NewTotalMismatchError(submitted, computed int64) error {
	return &orderDomainError{
		sentinel: ErrTotalMismatch,
		category: shared.ErrInvalidInput,
		field:    "totalAmount",
		message:  fmt.Sprintf("total amount %d does not match computed total %d", submitted, computed),
		stack:    shared.CaptureStack(3),
	}
}

func NewNotOrderOwnerError(orderID string) error {
	// 对客户隐藏订单存在性：同时归类为 NotFound
	return &orderDomainError{
		sentinel: ErrNotOrderOwner,
		category: shared.ErrNotFound,
		message:  "order not found: " + orderID,
		stack:    shared.CaptureStack(3),
	}
}

// NewUnknownStatusError 请求中的状态名不属于订单状态集合
func NewUnknownStatusError(status string) error {
	return &orderDomainError{
		sentinel: ErrUnknownStatus,
		category: shared.ErrInvalidInput,
		field:    "status",
		message:  fmt.Sprintf("unknown order status %q", status),
		stack:    shared.CaptureStack(3),
	}
}

func newValidationError(sentinel error, field string) error {
	return &orderDomainError{
		sentinel: sentinel,
		category: shared.ErrInvalidInput,
		field:    field,
		message:  sentinel.Error(),
		stack:    shared.CaptureStack(3),
	}
}
