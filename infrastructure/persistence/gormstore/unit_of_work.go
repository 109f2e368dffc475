package gormstore

import (
	"context"
	"fmt"
	"sync"

	"storefront/domain/shared"
	"storefront/infrastructure/persistence"
	"storefront/infrastructure/persistence/retry"
	"storefront/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UnitOfWork implements the Unit of Work pattern with GORM
// It manages database transactions and writes collected domain events to the outbox
// in the same transaction as the aggregate changes.
type UnitOfWork struct {
	db               *gorm.DB
	outboxRepository *OutboxRepository
	retryConfig      retry.Config
	// notifier 提交成功后收到同一批事件（进程内订阅者，如实时订单推送）
	notifier shared.EventPublisher

	mu         sync.Mutex
	aggregates []shared.AggregateRoot
}

func NewUnitOfWork(db *gorm.DB) *UnitOfWork {
	return &UnitOfWork{
		db:               db,
		outboxRepository: NewOutboxRepository(db),
		retryConfig:      retry.DefaultConfig,
	}
}

// SetRetryConfig updates the retry configuration for this UnitOfWork
func (u *UnitOfWork) SetRetryConfig(config retry.Config) {
	u.retryConfig = config
}

// Execute runs fn inside a transaction, saves outbox events and commits.
// Deadlocks and lock timeouts are retried here. Optimistic lock conflicts
// are not: the caller must reload the aggregate before trying again.
//
// A retried attempt may see the same aggregate instance again (checkout and
// signup build theirs outside fn). Repositories defer version bumps to
// commit, and events pulled by a failed attempt are kept for the next one.
func (u *UnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	cfg := u.retryConfig
	cfg.RetryOnConcurrentModification = false

	pending := make(map[shared.AggregateRoot][]shared.DomainEvent)
	var committed []shared.DomainEvent
	executeOnce := func(ctx context.Context) error {
		committed = nil
		u.mu.Lock()
		u.aggregates = nil
		u.mu.Unlock()

		tx := u.db.WithContext(ctx).Begin()
		if tx.Error != nil {
			return fmt.Errorf("failed to begin transaction: %w", tx.Error)
		}
		txCtx, hooks := persistence.ContextWithCommitHooks(persistence.ContextWithTx(ctx, tx))

		if err := fn(txCtx); err != nil {
			tx.Rollback()
			return err
		}

		u.mu.Lock()
		aggregates := u.aggregates
		u.mu.Unlock()
		var batch []shared.DomainEvent
		seen := make(map[shared.AggregateRoot]bool, len(aggregates))
		for _, agg := range aggregates {
			if seen[agg] {
				continue
			}
			seen[agg] = true
			events := append(pending[agg], agg.PullEvents()...)
			pending[agg] = events
			batch = append(batch, events...)
		}
		if err := u.outboxRepository.Append(txCtx, batch...); err != nil {
			tx.Rollback()
			return err
		}

		if err := tx.Commit().Error; err != nil {
			return fmt.Errorf("failed to commit transaction: %w", err)
		}
		hooks.Run()
		committed = batch
		return nil
	}

	if err := retry.ExecuteWithRetry(ctx, cfg, executeOnce); err != nil {
		return err
	}
	if u.notifier != nil {
		for _, event := range committed {
			if err := u.notifier.Publish(event); err != nil {
				logger.FromContext(ctx).Warn("in-process event handler failed",
					zap.String("event", event.EventName()), zap.Error(err))
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

type UnitOfWorkFactory struct {
	db          *gorm.DB
	retryConfig retry.Config
	notifier    shared.EventPublisher
}

// NewUnitOfWorkFactory notifier may be nil.
func NewUnitOfWorkFactory(db *gorm.DB, retryConfig retry.Config, notifier shared.EventPublisher) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{db: db, retryConfig: retryConfig, notifier: notifier}
}

func (f *UnitOfWorkFactory) New() shared.UnitOfWork {
	uow := NewUnitOfWork(f.db)
	uow.SetRetryConfig(f.retryConfig)
	uow.notifier = f.notifier
	return uow
}

var (
	_ shared.UnitOfWork        = (*UnitOfWork)(nil)
	_ shared.UnitOfWorkFactory = (*UnitOfWorkFactory)(nil)
)
