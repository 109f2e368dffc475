/*
Package memory 内存存储实现，用于开发环境和测试

仓储保存的是聚合快照而非指针：调用方拿到的每个聚合都是独立副本，
修改后必须经 Save 提交，并按版本号做乐观锁检查。
*/
package memory

import (
	"context"
	"sort"
	"sync"

	"storefront/domain/order"
	"storefront/domain/shared"
)

// OrderRepository In-memory order repository
type OrderRepository struct {
	mu     sync.RWMutex
	orders map[string]order.ReconstructionDTO
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{orders: make(map[string]order.ReconstructionDTO)}
}

func (r *OrderRepository) Save(ctx context.Context, o *order.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.orders[o.ID()]
	switch {
	case o.IsNew() && exists:
		return order.NewConcurrentModificationError(o.ID())
	case !o.IsNew() && !exists:
		return order.NewOrderNotFoundError(o.ID())
	case !o.IsNew() && existing.Version != o.Version():
		return order.NewConcurrentModificationError(o.ID())
	}

	snapshot := o.Snapshot()
	snapshot.Version++
	r.orders[o.ID()] = snapshot
	o.IncrementVersionForSave()
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	dto, ok := r.orders[id]
	if !ok {
		return nil, order.NewOrderNotFoundError(id)
	}
	return order.RebuildFromDTO(dto), nil
}

func (r *OrderRepository) FindByUserID(ctx context.Context, userID string) ([]*order.Order, error) {
	return r.FindBySpecification(ctx, order.NewByUserIDSpecification(userID))
}

func (r *OrderRepository) FindBySpecification(ctx context.Context, spec shared.Specification[*order.Order]) ([]*order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*order.Order, 0)
	for _, dto := range r.orders {
		o := order.RebuildFromDTO(dto)
		if spec.IsSatisfiedBy(ctx, o) {
			result = append(result, o)
		}
	}
	sortNewestFirst(result)
	return result, nil
}

func sortNewestFirst(orders []*order.Order) {
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].CreatedAt().Equal(orders[j].CreatedAt()) {
			return orders[i].ID() > orders[j].ID()
		}
		return orders[i].CreatedAt().After(orders[j].CreatedAt())
	})
}

var _ order.Repository = (*OrderRepository)(nil)
