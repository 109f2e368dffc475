package memory

import (
	"context"
	"sync"

	"storefront/domain/shared"
	"storefront/pkg/logger"

	"go.uber.org/zap"
)

// UnitOfWork 内存工作单元
// 没有真实事务：fn 成功后把已注册聚合的事件交给进程内事件总线
type UnitOfWork struct {
	publisher shared.EventPublisher

	mu         sync.Mutex
	aggregates []shared.AggregateRoot
}

func NewUnitOfWork(publisher shared.EventPublisher) *UnitOfWork {
	return &UnitOfWork{publisher: publisher}
}

func (u *UnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	u.mu.Lock()
	u.aggregates = nil
	u.mu.Unlock()

	if err := fn(ctx); err != nil {
		return err
	}

	u.mu.Lock()
	aggregates := u.aggregates
	u.aggregates = nil
	u.mu.Unlock()

	for _, agg := range aggregates {
		for _, event := range agg.PullEvents() {
			if u.publisher == nil {
				continue
			}
			// 事件投递失败不回滚已完成的业务写入
			if err := u.publisher.Publish(event); err != nil {
				logger.FromContext(ctx).Warn("event handler failed",
					zap.String("event", event.EventName()),
					zap.String("aggregate_id", agg.ID()),
					zap.Error(err))
			}
		}
	}
	return nil
}

func (u *UnitOfWork) RegisterNew(aggregate shared.AggregateRoot) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.aggregates = append(u.aggregates, aggregate)
}

func (u *UnitOfWork) RegisterDirty(aggregate shared.AggregateRoot) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.aggregates = append(u.aggregates, aggregate)
}

// UnitOfWorkFactory creates one UnitOfWork per business operation
type UnitOfWorkFactory struct {
	publisher shared.EventPublisher
}

func NewUnitOfWorkFactory(publisher shared.EventPublisher) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{publisher: publisher}
}

func (f *UnitOfWorkFactory) New() shared.UnitOfWork {
	return NewUnitOfWork(f.publisher)
}

var (
	_ shared.UnitOfWork        = (*UnitOfWork)(nil)
	_ shared.UnitOfWorkFactory = (*UnitOfWorkFactory)(nil)
)
