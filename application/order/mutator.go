package order

import (
	"context"

	"storefront/domain/order"
	"storefront/domain/shared"
	"storefront/infrastructure/persistence/retry"
	"storefront/pkg/logger"

	"go.uber.org/zap"
)

// Mutator applies one state change to a stored order.
//
// Each attempt reloads the order inside a fresh unit of work, so an
// optimistic-lock conflict is retried against the winner's state. A
// transition that was legal on the stale copy may therefore fail as
// InvalidOrderState on the retry; that error is returned as is.
type Mutator struct {
	orders      order.Repository
	uowFactory  shared.UnitOfWorkFactory
	retryConfig retry.Config
}

func NewMutator(orders order.Repository, uowFactory shared.UnitOfWorkFactory, retryConfig retry.Config) *Mutator {
	retryConfig.RetryOnConcurrentModification = true
	retryConfig.RetryOnDeadlock = false
	retryConfig.RetryOnLockTimeout = false
	return &Mutator{orders: orders, uowFactory: uowFactory, retryConfig: retryConfig}
}

// Apply loads orderID, runs change and saves the result.
func (m *Mutator) Apply(ctx context.Context, orderID string, change func(o *order.Order) error) (*order.Order, error) {
	var result *order.Order
	attempt := 0
	err := retry.ExecuteWithRetry(ctx, m.retryConfig, func(ctx context.Context) error {
		attempt++
		if attempt > 1 {
			logger.FromContext(ctx).Info("Retrying order update after concurrent modification",
				zap.String("order_id", orderID),
				zap.Int("attempt", attempt),
			)
		}

		uow := m.uowFactory.New()
		return uow.Execute(ctx, func(ctx context.Context) error {
			o, err := m.orders.FindByID(ctx, orderID)
			if err != nil {
				return err
			}
			if err := change(o); err != nil {
				return err
			}
			if err := m.orders.Save(ctx, o); err != nil {
				return err
			}
			uow.RegisterDirty(o)
			result = o
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
