package order

import "time"

// OrderResponse 订单返回模型
type OrderResponse struct {
	ID             string                 `json:"id"`
	UserID         string                 `json:"userId"`
	Items          []OrderItemResponse    `json:"items"`
	TotalAmount    int64                  `json:"totalAmount"`
	Status         string                 `json:"status"`
	ShippingInfo   ShippingInfoResponse   `json:"shippingInfo"`
	PaymentMethod  string                 `json:"paymentMethod"`
	TrackingNumber string                 `json:"trackingNumber,omitempty"`
	StatusHistory  []StatusEntryResponse  `json:"statusHistory"`
	PaymentResult  *PaymentResultResponse `json:"paymentResult,omitempty"`
	CreatedAt      time.Time              `json:"createdAt"`
	PaidAt         *time.Time             `json:"paidAt,omitempty"`
}

// OrderItemResponse 订单项返回模型
type OrderItemResponse struct {
	ProductID string `json:"id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
	Image     string `json:"image,omitempty"`
	Color     string `json:"color,omitempty"`
	Size      string `json:"size,omitempty"`
}

type ShippingInfoResponse struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zipCode,omitempty"`
}

type StatusEntryResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Description string    `json:"description"`
}

// PaymentResultResponse 原始网关结果原样返回，便于对账
type PaymentResultResponse struct {
	Success bool           `json:"success"`
	Code    string         `json:"code"`
	Source  string         `json:"source"`
	Raw     map[string]any `json:"raw,omitempty"`
}
