package memory

import (
	"context"
	"fmt"
	"time"

	"storefront/domain/order"
	"storefront/domain/payment"
	"storefront/domain/user"
)

// SampleData 开发环境示例数据：三个用户（一个已停用）和三个处于不同履约阶段的订单
type SampleData struct {
	Users  []*user.User
	Orders []*order.Order
}

type sampleOrder struct {
	owner    int
	item     order.ItemRequest
	shipping order.ShippingInfo
	target   order.Status
	tracking string
	age      time.Duration
}

var sampleOrders = []sampleOrder{
	{
		owner:    0,
		item:     order.ItemRequest{ProductID: "1", Name: "클래식 베이스볼 캡", UnitPrice: 45000, Quantity: 1, Color: "black", Size: "free"},
		shipping: order.ShippingInfo{Name: "홍길동", Phone: "010-1234-5678", Address: "서울시 강남구 테헤란로 123", City: "서울", ZipCode: "06234"},
		target:   order.StatusDelivered,
		tracking: "CJ1000000001",
		age:      10 * 24 * time.Hour,
	},
	{
		owner:    1,
		item:     order.ItemRequest{ProductID: "2", Name: "스냅백 캡", UnitPrice: 38000, Quantity: 2, Color: "navy", Size: "free"},
		shipping: order.ShippingInfo{Name: "김철수", Phone: "010-9876-5432", Address: "부산시 해운대구 센텀로 456", City: "부산", ZipCode: "48058"},
		target:   order.StatusProcessing,
		age:      3 * 24 * time.Hour,
	},
	{
		owner:    2,
		item:     order.ItemRequest{ProductID: "3", Name: "버킷햇", UnitPrice: 42000, Quantity: 1, Color: "beige", Size: "M"},
		shipping: order.ShippingInfo{Name: "이영희", Phone: "010-5555-1234", Address: "대구시 중구 동성로 789", City: "대구", ZipCode: "41911"},
		target:   order.StatusShipped,
		tracking: "CJ1000000002",
		age:      5 * 24 * time.Hour,
	},
}

// Seed populates the repositories. passwordHash is used for the email account.
func Seed(ctx context.Context, users *UserRepository, orders *OrderRepository, passwordHash string) (*SampleData, error) {
	registrations := []struct {
		opts      user.RegisterOptions
		suspended bool
	}{
		{opts: user.RegisterOptions{Email: "hong@example.com", Name: "홍길동", Phone: "010-1234-5678", Provider: user.ProviderEmail, PasswordHash: passwordHash}},
		{opts: user.RegisterOptions{Email: "kim@example.com", Name: "김철수", Phone: "010-9876-5432", Provider: user.ProviderGoogle}},
		{opts: user.RegisterOptions{Email: "lee@example.com", Name: "이영희", Phone: "010-5555-1234", Provider: user.ProviderKakao}, suspended: true},
	}

	data := &SampleData{}
	for _, reg := range registrations {
		u, err := user.NewUser(reg.opts)
		if err != nil {
			return nil, fmt.Errorf("seed user %s: %w", reg.opts.Email, err)
		}
		if reg.suspended {
			u.Suspend()
		}
		u.PullEvents()
		if err := users.Save(ctx, u); err != nil {
			return nil, fmt.Errorf("seed user %s: %w", reg.opts.Email, err)
		}
		data.Users = append(data.Users, u)
	}

	now := time.Now()
	for _, s := range sampleOrders {
		o, err := order.NewOrder(order.PostOptions{
			UserID:        data.Users[s.owner].ID(),
			Items:         []order.ItemRequest{s.item},
			Shipping:      s.shipping,
			PaymentMethod: "card",
			PlacedAt:      now.Add(-s.age),
		})
		if err != nil {
			return nil, fmt.Errorf("seed order: %w", err)
		}
		if err := advance(o, s.target, s.tracking, now.Add(-s.age+time.Minute)); err != nil {
			return nil, fmt.Errorf("seed order %s: %w", o.ID(), err)
		}
		o.PullEvents()
		if err := orders.Save(ctx, o); err != nil {
			return nil, fmt.Errorf("seed order %s: %w", o.ID(), err)
		}
		data.Orders = append(data.Orders, o)
	}
	return data, nil
}

// advance walks a fresh order through payment and fulfilment up to target.
func advance(o *order.Order, target order.Status, tracking string, paidAt time.Time) error {
	result := payment.Normalize(payment.SourceClientVerify, "0000", map[string]any{"resultCode": "0000", "orderId": o.ID()})
	if err := o.MarkPaid(result.Record(), paidAt); err != nil {
		return err
	}
	for _, next := range []order.Status{order.StatusProcessing, order.StatusShipped, order.StatusDelivered} {
		if err := o.AdvanceFulfillment(next, tracking, ""); err != nil {
			return err
		}
		if next == target {
			return nil
		}
	}
	return nil
}
