package po

import (
	"time"

	"storefront/domain/order"
	"storefront/domain/shared"
)

// OrderPO Order persistence object
// Note: Only used for database mapping, does not contain any business logic
// Defining GORM associations is prohibited here
type OrderPO struct {
	ID              string                `gorm:"primaryKey;size:64"`
	UserID          string                `gorm:"size:64;index;not null"`
	Status          string                `gorm:"size:20;index;not null"`
	TotalAmount     int64                 `gorm:"not null"`
	Currency        string                `gorm:"size:3;not null"`
	PaymentMethod   string                `gorm:"size:32"`
	ShippingName    string                `gorm:"size:100;not null"`
	ShippingPhone   string                `gorm:"size:32;not null"`
	ShippingAddress string                `gorm:"size:255;not null"`
	ShippingCity    string                `gorm:"size:100"`
	ShippingState   string                `gorm:"size:100"`
	ShippingZipCode string                `gorm:"size:20"`
	TrackingNumber  string                `gorm:"size:64"`
	PaymentResult   *order.PaymentRecord  `gorm:"serializer:json;type:text"`
	History         []order.HistoryEntry  `gorm:"serializer:json;type:text;not null"`
	PaidAt          *time.Time
	Version         int       `gorm:"not null;default:0"`
	CreatedAt       time.Time `gorm:"index;not null"`
	UpdatedAt       time.Time `gorm:"not null"`
}

func (OrderPO) TableName() string {
	return "orders"
}

// OrderItemPO Order item persistence object
type OrderItemPO struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	OrderID   string `gorm:"size:64;index;not null"` // Only store ID, no GORM association
	LineNo    int    `gorm:"not null"`
	ProductID string `gorm:"size:64;not null"`
	Name      string `gorm:"size:255;not null"`
	UnitPrice int64  `gorm:"not null"`
	Quantity  int    `gorm:"not null"`
	Image     string `gorm:"size:512"`
	Color     string `gorm:"size:50"`
	Size      string `gorm:"size:50"`
}

func (OrderItemPO) TableName() string {
	return "order_items"
}

// FromOrderDomain Convert domain model to persistence objects
func FromOrderDomain(o *order.Order) (*OrderPO, []OrderItemPO) {
	dto := o.Snapshot()
	orderPO := &OrderPO{
		ID:              dto.ID,
		UserID:          dto.UserID,
		Status:          string(dto.Status),
		TotalAmount:     dto.TotalAmount,
		Currency:        shared.DefaultCurrency,
		PaymentMethod:   dto.PaymentMethod,
		ShippingName:    dto.Shipping.Name,
		ShippingPhone:   dto.Shipping.Phone,
		ShippingAddress: dto.Shipping.Address,
		ShippingCity:    dto.Shipping.City,
		ShippingState:   dto.Shipping.State,
		ShippingZipCode: dto.Shipping.ZipCode,
		TrackingNumber:  dto.TrackingNumber,
		PaymentResult:   dto.Payment,
		History:         dto.History,
		PaidAt:          dto.PaidAt,
		Version:         dto.Version,
		CreatedAt:       dto.CreatedAt,
		UpdatedAt:       dto.UpdatedAt,
	}

	itemPOs := make([]OrderItemPO, len(dto.Items))
	for i, item := range dto.Items {
		itemPOs[i] = OrderItemPO{
			OrderID:   dto.ID,
			LineNo:    i,
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			Image:     item.Image,
			Color:     item.Color,
			Size:      item.Size,
		}
	}
	return orderPO, itemPOs
}

// ToDomain Convert persistence objects to domain model. itemPOs must be ordered by LineNo.
func (po *OrderPO) ToDomain(itemPOs []OrderItemPO) *order.Order {
	items := make([]order.ItemRequest, len(itemPOs))
	for i, item := range itemPOs {
		items[i] = order.ItemRequest{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			Image:     item.Image,
			Color:     item.Color,
			Size:      item.Size,
		}
	}

	return order.RebuildFromDTO(order.ReconstructionDTO{
		ID:     po.ID,
		UserID: po.UserID,
		Items:  items,
		Shipping: order.ShippingInfo{
			Name:    po.ShippingName,
			Phone:   po.ShippingPhone,
			Address: po.ShippingAddress,
			City:    po.ShippingCity,
			State:   po.ShippingState,
			ZipCode: po.ShippingZipCode,
		},
		TotalAmount:    po.TotalAmount,
		PaymentMethod:  po.PaymentMethod,
		Status:         order.Status(po.Status),
		History:        po.History,
		TrackingNumber: po.TrackingNumber,
		Payment:        po.PaymentResult,
		PaidAt:         po.PaidAt,
		Version:        po.Version,
		CreatedAt:      po.CreatedAt,
		UpdatedAt:      po.UpdatedAt,
	})
}
