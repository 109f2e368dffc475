/*
Package order Order subdomain

An Order is created once per checkout from a snapshot of the cart. After
creation the line items and shipping information are frozen; only the
status moves, and every move appends one entry to the status history.

DDD Core Principles:
1. Domain layer does not depend on any other layer (pure business logic)
2. All fields are private, behavior exposed through methods
3. State transitions are validated against a single transition table
*/
package order

import (
	"fmt"
	"maps"
	"strings"
	"time"

	"storefront/domain/shared"

	"github.com/google/uuid"
)

// Order Order aggregate root
type Order struct {
	id             string
	userID         string
	items          []Item
	shipping       ShippingInfo
	totalAmount    shared.Money
	paymentMethod  string
	status         Status
	history        []HistoryEntry
	trackingNumber string
	payment        *PaymentRecord
	paidAt         *time.Time
	version        int // Optimistic lock version number for concurrency control
	createdAt      time.Time
	updatedAt      time.Time

	events []shared.DomainEvent
	isNew  bool
}

// PostOptions Create order options
type PostOptions struct {
	UserID        string
	Items         []ItemRequest
	Shipping      ShippingInfo
	PaymentMethod string
	// SubmittedTotal is the client's view of the total. Zero means not submitted.
	SubmittedTotal int64
	// PlacedAt defaults to time.Now()
	PlacedAt time.Time
}

// NewOrderID builds an identifier of the form ORDER_<unix millis>_<9 lowercase alphanumerics>.
func NewOrderID(at time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("ORDER_%d_%s", at.UnixMilli(), suffix)
}

// ============================================================================
// Factory Methods
// ============================================================================

// NewOrder Create new Order aggregate root in the pending state.
// The total is recomputed from the line items; a submitted total that
// disagrees is rejected.
func NewOrder(opts PostOptions) (*Order, error) {
	if strings.TrimSpace(opts.UserID) == "" {
		return nil, newValidationError(ErrMissingOwner, "userId")
	}
	if len(opts.Items) == 0 {
		return nil, newValidationError(ErrEmptyOrderItems, "items")
	}
	if err := opts.Shipping.Validate(); err != nil {
		return nil, err
	}

	items := make([]Item, len(opts.Items))
	total := shared.Won(0)
	for i, req := range opts.Items {
		if strings.TrimSpace(req.ProductID) == "" {
			return nil, newValidationError(ErrEmptyOrderItems, fmt.Sprintf("items[%d].id", i))
		}
		if req.Quantity <= 0 {
			return nil, newValidationError(ErrInvalidQuantity, fmt.Sprintf("items[%d].quantity", i))
		}
		if req.UnitPrice < 0 {
			return nil, newValidationError(ErrInvalidPrice, fmt.Sprintf("items[%d].price", i))
		}

		item := RebuildItem(req)
		subtotal, err := item.unitPrice.Multiply(item.quantity)
		if err != nil {
			return nil, newValidationError(err, fmt.Sprintf("items[%d]", i))
		}
		if total, err = total.Add(subtotal); err != nil {
			return nil, newValidationError(err, "items")
		}
		items[i] = item
	}

	if total.Amount() <= 0 {
		return nil, newValidationError(ErrTotalAmountNotPositive, "items")
	}
	if opts.SubmittedTotal != 0 && opts.SubmittedTotal != total.Amount() {
		return nil, NewTotalMismatchError(opts.SubmittedTotal, total.Amount())
	}

	now := opts.PlacedAt
	if now.IsZero() {
		now = time.Now()
	}

	o := &Order{
		id:            NewOrderID(now),
		userID:        opts.UserID,
		items:         items,
		shipping:      opts.Shipping,
		totalAmount:   total,
		paymentMethod: opts.PaymentMethod,
		status:        StatusPending,
		history: []HistoryEntry{{
			Status:      StatusPending,
			Timestamp:   now,
			Description: StatusPending.defaultDescription(),
		}},
		createdAt: now,
		updatedAt: now,
		isNew:     true,
	}
	o.events = append(o.events, NewOrderPlacedEvent(o.id, o.userID, total, now))

	return o, nil
}

// ============================================================================
// ReconstructionDTO - For Repository Layer Use Only
// ============================================================================

// ReconstructionDTO Order reconstruction data transfer object.
// ⚠️ Note: Only repository implementations should build orders from it.
type ReconstructionDTO struct {
	ID             string
	UserID         string
	Items          []ItemRequest
	Shipping       ShippingInfo
	TotalAmount    int64
	PaymentMethod  string
	Status         Status
	History        []HistoryEntry
	TrackingNumber string
	Payment        *PaymentRecord
	PaidAt         *time.Time
	Version        int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// RebuildFromDTO Reconstruct Order aggregate root from DTO
func RebuildFromDTO(dto ReconstructionDTO) *Order {
	items := make([]Item, len(dto.Items))
	for i, req := range dto.Items {
		items[i] = RebuildItem(req)
	}
	return &Order{
		id:             dto.ID,
		userID:         dto.UserID,
		items:          items,
		shipping:       dto.Shipping,
		totalAmount:    shared.Won(dto.TotalAmount),
		paymentMethod:  dto.PaymentMethod,
		status:         dto.Status,
		history:        append([]HistoryEntry(nil), dto.History...),
		trackingNumber: dto.TrackingNumber,
		payment:        clonePayment(dto.Payment),
		paidAt:         cloneTime(dto.PaidAt),
		version:        dto.Version,
		createdAt:      dto.CreatedAt,
		updatedAt:      dto.UpdatedAt,
	}
}

// Snapshot returns a deep copy of the persistent state.
// Repositories store snapshots so callers never share a live aggregate.
func (o *Order) Snapshot() ReconstructionDTO {
	items := make([]ItemRequest, len(o.items))
	for i, item := range o.items {
		items[i] = ItemRequest{
			ProductID: item.productID,
			Name:      item.name,
			UnitPrice: item.unitPrice.Amount(),
			Quantity:  item.quantity,
			Image:     item.image,
			Color:     item.color,
			Size:      item.size,
		}
	}
	return ReconstructionDTO{
		ID:             o.id,
		UserID:         o.userID,
		Items:          items,
		Shipping:       o.shipping,
		TotalAmount:    o.totalAmount.Amount(),
		PaymentMethod:  o.paymentMethod,
		Status:         o.status,
		History:        o.History(),
		TrackingNumber: o.trackingNumber,
		Payment:        clonePayment(o.payment),
		PaidAt:         cloneTime(o.paidAt),
		Version:        o.version,
		CreatedAt:      o.createdAt,
		UpdatedAt:      o.updatedAt,
	}
}

// ============================================================================
// State Change Methods - Domain Behavior
// ============================================================================
//
// Every method goes through transition(), which checks the table in
// status.go, appends exactly one history entry and records one event.
// Version is NOT incremented here; the repository does it after a
// successful save.

func (o *Order) transition(to Status, description string, at time.Time) error {
	if !o.status.CanTransitionTo(to) {
		return NewInvalidStateTransitionError(o.status, to)
	}
	if description == "" {
		description = to.defaultDescription()
	}
	if at.IsZero() {
		at = time.Now()
	}

	from := o.status
	o.status = to
	o.updatedAt = at
	o.history = append(o.history, HistoryEntry{Status: to, Timestamp: at, Description: description})
	o.events = append(o.events, NewOrderStatusChangedEvent(o.id, o.userID, from, to, description, at))
	return nil
}

// MarkPaid records a successful payment. Only pending orders can be paid.
func (o *Order) MarkPaid(record PaymentRecord, at time.Time) error {
	if err := o.transition(StatusPaid, "Payment completed (code "+record.Code+")", at); err != nil {
		return err
	}
	o.payment = clonePayment(&record)
	paidAt := o.updatedAt
	o.paidAt = &paidAt
	return nil
}

// MarkPaymentFailed records a rejected or unverifiable payment.
func (o *Order) MarkPaymentFailed(record PaymentRecord, at time.Time) error {
	if err := o.transition(StatusFailed, "Payment failed (code "+record.Code+")", at); err != nil {
		return err
	}
	o.payment = clonePayment(&record)
	return nil
}

// StartProcessing moves the order into preparation.
func (o *Order) StartProcessing(description string) error {
	return o.transition(StatusProcessing, description, time.Now())
}

// Ship marks the order as handed to the carrier. A tracking number is optional.
func (o *Order) Ship(trackingNumber, description string) error {
	trackingNumber = strings.TrimSpace(trackingNumber)
	if description == "" && trackingNumber != "" {
		description = StatusShipped.defaultDescription() + " (tracking: " + trackingNumber + ")"
	}
	if err := o.transition(StatusShipped, description, time.Now()); err != nil {
		return err
	}
	if trackingNumber != "" {
		o.trackingNumber = trackingNumber
	}
	return nil
}

// Deliver marks the order as received by the customer.
func (o *Order) Deliver(description string) error {
	return o.transition(StatusDelivered, description, time.Now())
}

// Cancel cancels a pending or processing order.
func (o *Order) Cancel(reason string) error {
	description := StatusCancelled.defaultDescription()
	if reason = strings.TrimSpace(reason); reason != "" {
		description += ": " + reason
	}
	return o.transition(StatusCancelled, description, time.Now())
}

// AdvanceFulfillment applies an administrator's status request.
// Administrators may only move orders forward through fulfilment;
// paid and failed are reserved for the payment flow.
func (o *Order) AdvanceFulfillment(target Status, trackingNumber, description string) error {
	switch target {
	case StatusProcessing:
		return o.StartProcessing(description)
	case StatusShipped:
		return o.Ship(trackingNumber, description)
	case StatusDelivered:
		return o.Deliver(description)
	default:
		return NewInvalidStateTransitionError(o.status, target)
	}
}

// EnsureOwnedBy hides orders that belong to another customer.
func (o *Order) EnsureOwnedBy(userID string) error {
	if o.userID != userID {
		return NewNotOrderOwnerError(o.id)
	}
	return nil
}

// IncrementVersionForSave Increments the version after successful persistence
func (o *Order) IncrementVersionForSave() {
	o.version++
	o.isNew = false
}

// ============================================================================
// Getters - Read-only Accessors
// ============================================================================

func (o *Order) ID() string                { return o.id }
func (o *Order) UserID() string            { return o.userID }
func (o *Order) Shipping() ShippingInfo    { return o.shipping }
func (o *Order) TotalAmount() shared.Money { return o.totalAmount }
func (o *Order) PaymentMethod() string     { return o.paymentMethod }
func (o *Order) Status() Status            { return o.status }
func (o *Order) TrackingNumber() string    { return o.trackingNumber }
func (o *Order) Version() int              { return o.version }
func (o *Order) CreatedAt() time.Time      { return o.createdAt }
func (o *Order) UpdatedAt() time.Time      { return o.updatedAt }
func (o *Order) IsNew() bool               { return o.isNew }
func (o *Order) PaidAt() *time.Time        { return cloneTime(o.paidAt) }
func (o *Order) Payment() *PaymentRecord   { return clonePayment(o.payment) }

// Items Return copy of order items
func (o *Order) Items() []Item {
	items := make([]Item, len(o.items))
	copy(items, o.items)
	return items
}

// History returns the status log, oldest first.
func (o *Order) History() []HistoryEntry {
	history := make([]HistoryEntry, len(o.history))
	copy(history, o.history)
	return history
}

// ItemCount is the sum of quantities.
func (o *Order) ItemCount() int {
	n := 0
	for _, item := range o.items {
		n += item.quantity
	}
	return n
}

// GoodsName summarises the order for the payment gateway, e.g. "Cap and 2 more".
func (o *Order) GoodsName() string {
	if len(o.items) == 0 {
		return ""
	}
	name := o.items[0].name
	if len(o.items) > 1 {
		name = fmt.Sprintf("%s and %d more", name, len(o.items)-1)
	}
	return name
}

// PullEvents Get and clear aggregate root's event list
func (o *Order) PullEvents() []shared.DomainEvent {
	events := o.events
	o.events = nil
	return events
}

func clonePayment(p *PaymentRecord) *PaymentRecord {
	if p == nil {
		return nil
	}
	c := *p
	c.Raw = maps.Clone(p.Raw)
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// Compile-time check that Order implements AggregateRoot interface
var _ shared.AggregateRoot = (*Order)(nil)
