// Package checkout 从购物车快照创建待支付订单
package checkout

import (
	"context"
	"time"

	"storefront/domain/identity"
	"storefront/domain/order"
	"storefront/domain/payment"
	"storefront/domain/shared"
	"storefront/domain/user"
	"storefront/pkg/logger"

	"go.uber.org/zap"
)

// GatewaySettings 构造支付载荷所需的公开参数
type GatewaySettings struct {
	ClientKey string
	ReturnURL string
}

type Service struct {
	orderRepo  order.Repository
	userRepo   user.Repository
	uowFactory shared.UnitOfWorkFactory
	gateway    GatewaySettings
	now        func() time.Time
}

func NewService(orderRepo order.Repository, userRepo user.Repository, uowFactory shared.UnitOfWorkFactory, gateway GatewaySettings) *Service {
	return &Service{
		orderRepo:  orderRepo,
		userRepo:   userRepo,
		uowFactory: uowFactory,
		gateway:    gateway,
		now:        time.Now,
	}
}

// CreateOrder validates the snapshot, stores a pending order and returns the gateway payload.
func (s *Service) CreateOrder(ctx context.Context, caller identity.Identity, req CreateOrderRequest) (*CreateOrderResponse, error) {
	buyer, err := s.userRepo.FindByID(ctx, caller.SubjectID)
	if err != nil {
		return nil, err
	}
	if err := buyer.EnsureActive(); err != nil {
		return nil, err
	}

	items := make([]order.ItemRequest, len(req.Items))
	for i, item := range req.Items {
		items[i] = order.ItemRequest{
			ProductID: item.ID,
			Name:      item.Name,
			UnitPrice: item.Price,
			Quantity:  item.Quantity,
			Image:     item.Image,
			Color:     item.Color,
			Size:      item.Size,
		}
	}

	o, err := order.NewOrder(order.PostOptions{
		UserID: buyer.ID(),
		Items:  items,
		Shipping: order.ShippingInfo{
			Name:    req.ShippingInfo.Name,
			Phone:   req.ShippingInfo.Phone,
			Address: req.ShippingInfo.Address,
			City:    req.ShippingInfo.City,
			State:   req.ShippingInfo.State,
			ZipCode: req.ShippingInfo.ZipCode,
		},
		PaymentMethod:  req.PaymentMethod,
		SubmittedTotal: req.TotalAmount,
		PlacedAt:       s.now(),
	})
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.New()
	err = uow.Execute(ctx, func(ctx context.Context) error {
		if err := s.orderRepo.Save(ctx, o); err != nil {
			return err
		}
		uow.RegisterNew(o)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("Order placed",
		zap.String("order_id", o.ID()),
		zap.String("user_id", o.UserID()),
		zap.Int64("total_amount", o.TotalAmount().Amount()),
		zap.Int("items", len(items)),
	)

	buyerEmail := caller.Email
	if buyerEmail == "" {
		buyerEmail = buyer.Email().Value()
	}
	return &CreateOrderResponse{
		OrderID:     o.ID(),
		PaymentData: payment.NewRequest(o, buyerEmail, s.gateway.ClientKey, s.gateway.ReturnURL),
		Message:     "Order created successfully",
	}, nil
}
