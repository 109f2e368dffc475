package payment

import apporder "storefront/application/order"

// VerifyRequest 浏览器转交的网关结果
// PaymentResult 缺失或为 null 时按支付失败结算
type VerifyRequest struct {
	OrderID       string         `json:"orderId" binding:"required"`
	PaymentResult map[string]any `json:"paymentResult"`
}

type VerifyResponse struct {
	Success bool                    `json:"success"`
	Message string                  `json:"message"`
	Order   *apporder.OrderResponse `json:"order"`
}

// CallbackForm 网关以表单形式回调的字段
type CallbackForm struct {
	ResultCode string `form:"ResultCode"`
	OrderID    string `form:"Moid"`
	Amount     string `form:"Amt"`
	// Raw holds every posted field for the audit record.
	Raw map[string]any `form:"-"`
}
