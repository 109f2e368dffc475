package order

import "storefront/domain/order"

// ToResponse maps the aggregate to its JSON form.
func ToResponse(o *order.Order) *OrderResponse {
	items := o.Items()
	itemResponses := make([]OrderItemResponse, len(items))
	for i, item := range items {
		itemResponses[i] = OrderItemResponse{
			ProductID: item.ProductID(),
			Name:      item.Name(),
			Price:     item.UnitPrice().Amount(),
			Quantity:  item.Quantity(),
			Image:     item.Image(),
			Color:     item.Color(),
			Size:      item.Size(),
		}
	}

	history := o.History()
	entries := make([]StatusEntryResponse, len(history))
	for i, h := range history {
		entries[i] = StatusEntryResponse{
			Status:      string(h.Status),
			Timestamp:   h.Timestamp,
			Description: h.Description,
		}
	}

	shipping := o.Shipping()
	resp := &OrderResponse{
		ID:          o.ID(),
		UserID:      o.UserID(),
		Items:       itemResponses,
		TotalAmount: o.TotalAmount().Amount(),
		Status:      string(o.Status()),
		ShippingInfo: ShippingInfoResponse{
			Name:    shipping.Name,
			Phone:   shipping.Phone,
			Address: shipping.Address,
			City:    shipping.City,
			State:   shipping.State,
			ZipCode: shipping.ZipCode,
		},
		PaymentMethod:  o.PaymentMethod(),
		TrackingNumber: o.TrackingNumber(),
		StatusHistory:  entries,
		CreatedAt:      o.CreatedAt(),
		PaidAt:         o.PaidAt(),
	}
	if p := o.Payment(); p != nil {
		resp.PaymentResult = &PaymentResultResponse{
			Success: p.Success,
			Code:    p.Code,
			Source:  p.Source,
			Raw:     p.Raw,
		}
	}
	return resp
}

// ToResponses maps a list, preserving order.
func ToResponses(orders []*order.Order) []*OrderResponse {
	out := make([]*OrderResponse, len(orders))
	for i, o := range orders {
		out[i] = ToResponse(o)
	}
	return out
}
