/*
Package admin 后台管理：订单与用户列表、订单履约推进、用户停用/启用、报表与仪表盘

所有方法都假定调用方已通过管理员角色校验。
*/
package admin

import (
	"context"
	"strings"
	"time"

	apporder "storefront/application/order"
	appuser "storefront/application/user"
	"storefront/domain/order"
	"storefront/domain/shared"
	"storefront/domain/user"
	"storefront/infrastructure/persistence/retry"
	"storefront/pkg/logger"

	"go.uber.org/zap"
)

type Service struct {
	orderRepo   order.Repository
	userRepo    user.Repository
	mutator     *apporder.Mutator
	uowFactory  shared.UnitOfWorkFactory
	retryConfig retry.Config
	now         func() time.Time
}

func NewService(
	orderRepo order.Repository,
	userRepo user.Repository,
	mutator *apporder.Mutator,
	uowFactory shared.UnitOfWorkFactory,
	retryConfig retry.Config,
) *Service {
	retryConfig.RetryOnConcurrentModification = true
	return &Service{
		orderRepo:   orderRepo,
		userRepo:    userRepo,
		mutator:     mutator,
		uowFactory:  uowFactory,
		retryConfig: retryConfig,
		now:         time.Now,
	}
}

// ListOrders status "" or "all" matches every order; search is a substring over id and recipient name.
func (s *Service) ListOrders(ctx context.Context, status, search string) ([]*apporder.OrderResponse, error) {
	spec, err := order.NewAdminFilter(status, search)
	if err != nil {
		return nil, err
	}
	orders, err := s.orderRepo.FindBySpecification(ctx, spec)
	if err != nil {
		return nil, err
	}
	return apporder.ToResponses(orders), nil
}

// UpdateOrder moves an order forward through fulfilment.
func (s *Service) UpdateOrder(ctx context.Context, orderID string, req UpdateOrderRequest) (*apporder.OrderResponse, error) {
	target, ok := order.ParseStatus(req.Status)
	if !ok {
		return nil, order.NewUnknownStatusError(req.Status)
	}

	o, err := s.mutator.Apply(ctx, orderID, func(o *order.Order) error {
		return o.AdvanceFulfillment(target, req.TrackingNumber, req.Description)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("Order status updated by admin",
		zap.String("order_id", orderID),
		zap.String("status", string(target)),
		zap.String("tracking_number", req.TrackingNumber),
	)
	return apporder.ToResponse(o), nil
}

// ListUsers status "" or "all" matches every user; search is a case-insensitive substring over name and email.
func (s *Service) ListUsers(ctx context.Context, status, search string) ([]*appuser.UserResponse, error) {
	spec, err := user.NewAdminFilter(status, search)
	if err != nil {
		return nil, err
	}
	users, err := s.userRepo.FindBySpecification(ctx, spec)
	if err != nil {
		return nil, err
	}
	return appuser.ToResponses(users), nil
}

// UpdateUser suspends or re-activates an account. Repeating the current state is a no-op.
func (s *Service) UpdateUser(ctx context.Context, userID string, req UpdateUserRequest) (*appuser.UserResponse, error) {
	u, err := appuser.Mutate(ctx, s.userRepo, s.uowFactory, s.retryConfig, userID, func(u *user.User) error {
		switch req.Action {
		case "suspend":
			u.Suspend()
		case "activate":
			u.Activate()
		default:
			return shared.NewValidationError("user", "action", "action must be suspend or activate")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("User status updated by admin",
		zap.String("user_id", userID),
		zap.String("action", req.Action),
	)
	return appuser.ToResponse(u), nil
}

// Report aggregates orders placed within the period ending now. An empty period means month.
func (s *Service) Report(ctx context.Context, period string) (*Report, error) {
	period = strings.ToLower(strings.TrimSpace(period))
	if period == "" {
		period = "month"
	}
	to := s.now()
	from, ok := windowStart(period, to)
	if !ok {
		return nil, shared.NewValidationError("report", "period", "period must be one of "+strings.Join(ReportPeriods, ", "))
	}

	orders, err := s.orderRepo.FindBySpecification(ctx, order.NewByDateRangeSpecification(from, to))
	if err != nil {
		return nil, err
	}
	return buildReport(period, from, to, orders), nil
}

func (s *Service) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	totalUsers, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := s.orderRepo.FindBySpecification(ctx, allOrders())
	if err != nil {
		return nil, err
	}
	stats := dashboardStats(totalUsers, orders)
	return &stats, nil
}
