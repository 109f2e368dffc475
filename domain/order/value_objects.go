package order

import (
	"strings"
	"time"

	"storefront/domain/shared"
)

// Item is a frozen snapshot of a cart line taken at checkout.
type Item struct {
	productID string
	name      string
	unitPrice shared.Money
	quantity  int
	image     string
	color     string
	size      string
}

// ItemRequest Create order item request
type ItemRequest struct {
	ProductID string
	Name      string
	UnitPrice int64
	Quantity  int
	Image     string
	Color     string
	Size      string
}

func (i Item) ProductID() string       { return i.productID }
func (i Item) Name() string            { return i.name }
func (i Item) UnitPrice() shared.Money { return i.unitPrice }
func (i Item) Quantity() int           { return i.quantity }
func (i Item) Image() string           { return i.image }
func (i Item) Color() string           { return i.color }
func (i Item) Size() string            { return i.size }

// Subtotal is unit price × quantity. Overflow is rejected at order creation.
func (i Item) Subtotal() shared.Money {
	subtotal, _ := i.unitPrice.Multiply(i.quantity)
	return subtotal
}

// RebuildItem restores a snapshot line from storage.
func RebuildItem(req ItemRequest) Item {
	return Item{
		productID: req.ProductID,
		name:      req.Name,
		unitPrice: shared.Won(req.UnitPrice),
		quantity:  req.Quantity,
		image:     req.Image,
		color:     req.Color,
		size:      req.Size,
	}
}

// ShippingInfo is the delivery address captured by one checkout.
type ShippingInfo struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zipCode,omitempty"`
}

// Validate requires recipient name, phone and address.
func (s ShippingInfo) Validate() error {
	switch {
	case strings.TrimSpace(s.Name) == "":
		return NewMissingShippingFieldError("name")
	case strings.TrimSpace(s.Phone) == "":
		return NewMissingShippingFieldError("phone")
	case strings.TrimSpace(s.Address) == "":
		return NewMissingShippingFieldError("address")
	}
	return nil
}

// HistoryEntry is one immutable line of the status log.
type HistoryEntry struct {
	Status      Status    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Description string    `json:"description"`
}

// PaymentRecord is the gateway outcome stored on the order for audit.
type PaymentRecord struct {
	Success bool           `json:"success"`
	Code    string         `json:"code"`
	Source  string         `json:"source"`
	Raw     map[string]any `json:"raw,omitempty"`
}
