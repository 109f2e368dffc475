/*
Package order 订单应用服务：顾客的订单历史查询，以及供支付和后台共用的订单变更器

应用服务不直接发布事件：UoW 从聚合收集事件，
内存存储交给进程内事件总线，SQL 存储写入 outbox 表。
*/
package order

import (
	"context"

	"storefront/domain/identity"
	"storefront/domain/order"
)

// ApplicationService 顾客订单查询
type ApplicationService struct {
	orderRepo order.Repository
}

func NewApplicationService(orderRepo order.Repository) *ApplicationService {
	return &ApplicationService{orderRepo: orderRepo}
}

// ListMine returns the caller's orders, newest first.
func (s *ApplicationService) ListMine(ctx context.Context, caller identity.Identity) ([]*OrderResponse, error) {
	orders, err := s.orderRepo.FindByUserID(ctx, caller.SubjectID)
	if err != nil {
		return nil, err
	}
	return ToResponses(orders), nil
}

// GetMine returns one of the caller's orders. Orders owned by someone else are reported as not found.
func (s *ApplicationService) GetMine(ctx context.Context, caller identity.Identity, orderID string) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := o.EnsureOwnedBy(caller.SubjectID); err != nil {
		return nil, err
	}
	return ToResponse(o), nil
}
