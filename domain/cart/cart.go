/*
Package cart models the shopping cart held by a browsing session.

A cart is an ordered list of lines. Lines are identified by product id plus the
chosen variant (color, size); adding a line that already exists increments its
quantity. No cart operation fails: unknown product ids are ignored.
*/
package cart

import (
	"context"
	"errors"
)

// Item is one cart line. Price is in whole KRW.
type Item struct {
	ProductID string `json:"id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
	Image     string `json:"image,omitempty"`
	Color     string `json:"color,omitempty"`
	Size      string `json:"size,omitempty"`
}

// Subtotal is price×quantity for the line.
func (i Item) Subtotal() int64 {
	return i.Price * int64(i.Quantity)
}

func (i Item) sameLine(other Item) bool {
	return i.ProductID == other.ProductID && i.Color == other.Color && i.Size == other.Size
}

// Cart is not safe for concurrent use; stores hand out independent copies.
type Cart struct {
	items []Item
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// FromItems rebuilds a cart from stored lines, merging duplicates and dropping empty lines.
func FromItems(items []Item) *Cart {
	c := New()
	for _, item := range items {
		if item.Quantity > 0 {
			c.AddItem(item)
		}
	}
	return c
}

// AddItem appends item or increments the quantity of the matching line.
// A quantity below one is treated as one.
func (c *Cart) AddItem(item Item) {
	if item.ProductID == "" {
		return
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	for i := range c.items {
		if c.items[i].sameLine(item) {
			c.items[i].Quantity += item.Quantity
			return
		}
	}
	c.items = append(c.items, item)
}

// RemoveItem drops every line for productID, whatever the variant.
func (c *Cart) RemoveItem(productID string) {
	kept := c.items[:0]
	for _, item := range c.items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	c.items = kept
}

// UpdateQuantity sets the quantity of every line for productID.
// A quantity of zero or less removes those lines.
func (c *Cart) UpdateQuantity(productID string, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(productID)
		return
	}
	for i := range c.items {
		if c.items[i].ProductID == productID {
			c.items[i].Quantity = quantity
		}
	}
}

// Total is the sum of price×quantity over all lines.
func (c *Cart) Total() int64 {
	var total int64
	for _, item := range c.items {
		total += item.Subtotal()
	}
	return total
}

// ItemCount is the sum of quantities.
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.items {
		count += item.Quantity
	}
	return count
}

// Items returns a copy of the lines in insertion order.
func (c *Cart) Items() []Item {
	items := make([]Item, len(c.items))
	copy(items, c.items)
	return items
}

func (c *Cart) IsEmpty() bool { return len(c.items) == 0 }

func (c *Cart) Clear() { c.items = nil }

// ErrCacheMiss is returned by stores when no cart exists for the owner.
var ErrCacheMiss = errors.New("cart not found")

// Store persists session carts keyed by owner id.
type Store interface {
	Get(ctx context.Context, ownerID string) (*Cart, error)
	Set(ctx context.Context, ownerID string, c *Cart) error
	Delete(ctx context.Context, ownerID string) error
}
