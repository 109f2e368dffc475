package checkout

import "storefront/domain/payment"

// CreateOrderRequest 结账请求，来自浏览器购物车的快照
type CreateOrderRequest struct {
	Items         []ItemRequest       `json:"items" binding:"required,min=1,dive"`
	ShippingInfo  ShippingInfoRequest `json:"shippingInfo" binding:"required"`
	PaymentMethod string              `json:"paymentMethod" binding:"max=32"`
	// TotalAmount 可选；提交时必须等于服务端计算的总额
	TotalAmount int64 `json:"totalAmount" binding:"min=0"`
}

type ItemRequest struct {
	ID       string `json:"id" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Price    int64  `json:"price" binding:"min=0"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
	Image    string `json:"image"`
	Color    string `json:"color"`
	Size     string `json:"size"`
}

type ShippingInfoRequest struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone" binding:"required"`
	Address string `json:"address" binding:"required"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
}

// CreateOrderResponse carries the payload the browser hands to the gateway widget.
type CreateOrderResponse struct {
	OrderID     string          `json:"orderId"`
	PaymentData payment.Request `json:"paymentData"`
	Message     string          `json:"message"`
}
