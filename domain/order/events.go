package order

import (
	"time"

	"storefront/domain/shared"
)

const (
	EventOrderPlaced        = "order.placed"
	EventOrderStatusChanged = "order.status_changed"
)

type OrderPlacedEvent struct {
	orderID     string
	userID      string
	totalAmount shared.Money
	occurredOn  time.Time
}

func NewOrderPlacedEvent(orderID, userID string, totalAmount shared.Money, at time.Time) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		orderID:     orderID,
		userID:      userID,
		totalAmount: totalAmount,
		occurredOn:  at,
	}
}

func (e *OrderPlacedEvent) EventName() string         { return EventOrderPlaced }
func (e *OrderPlacedEvent) OccurredOn() time.Time     { return e.occurredOn }
func (e *OrderPlacedEvent) GetAggregateID() string    { return e.orderID }
func (e *OrderPlacedEvent) OrderID() string           { return e.orderID }
func (e *OrderPlacedEvent) UserID() string            { return e.userID }
func (e *OrderPlacedEvent) TotalAmount() shared.Money { return e.totalAmount }

// Payload is the serialised form written to the outbox and the live feed.
func (e *OrderPlacedEvent) Payload() map[string]any {
	return map[string]any{
		"orderId":     e.orderID,
		"userId":      e.userID,
		"totalAmount": e.totalAmount.Amount(),
		"status":      StatusPending,
		"occurredOn":  e.occurredOn,
	}
}

// OrderStatusChangedEvent 每次合法状态转换产生一个
type OrderStatusChangedEvent struct {
	orderID     string
	userID      string
	from        Status
	to          Status
	description string
	occurredOn  time.Time
}

func NewOrderStatusChangedEvent(orderID, userID string, from, to Status, description string, at time.Time) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		orderID:     orderID,
		userID:      userID,
		from:        from,
		to:          to,
		description: description,
		occurredOn:  at,
	}
}

func (e *OrderStatusChangedEvent) EventName() string      { return EventOrderStatusChanged }
func (e *OrderStatusChangedEvent) OccurredOn() time.Time  { return e.occurredOn }
func (e *OrderStatusChangedEvent) GetAggregateID() string { return e.orderID }
func (e *OrderStatusChangedEvent) OrderID() string        { return e.orderID }
func (e *OrderStatusChangedEvent) UserID() string         { return e.userID }
func (e *OrderStatusChangedEvent) From() Status           { return e.from }
func (e *OrderStatusChangedEvent) To() Status             { return e.to }
func (e *OrderStatusChangedEvent) Description() string    { return e.description }

func (e *OrderStatusChangedEvent) Payload() map[string]any {
	return map[string]any{
		"orderId":     e.orderID,
		"userId":      e.userID,
		"from":        e.from,
		"status":      e.to,
		"description": e.description,
		"occurredOn":  e.occurredOn,
	}
}
