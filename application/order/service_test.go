package order

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"storefront/domain/identity"
	"storefront/domain/order"
	"storefront/domain/payment"
	"storefront/infrastructure/persistence/memory"
	"storefront/infrastructure/persistence/retry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry() retry.Config {
	cfg := retry.DefaultConfig
	cfg.MaxAttempts = 5
	cfg.InitialDelay = time.Millisecond
	cfg.MaxDelay = 2 * time.Millisecond
	return cfg
}

func placeOrder(t *testing.T, repo *memory.OrderRepository, userID string) *order.Order {
	t.Helper()
	o, err := order.NewOrder(order.PostOptions{
		UserID:        userID,
		Items:         []order.ItemRequest{{ProductID: "1", Name: "클래식 베이스볼 캡", UnitPrice: 45000, Quantity: 1, Image: "/img/cap.jpg"}},
		Shipping:      order.ShippingInfo{Name: "홍길동", Phone: "010-1234-5678", Address: "서울", ZipCode: "06234"},
		PaymentMethod: "card",
	})
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), o))
	return o
}

func TestListAndGetMine(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewOrderRepository()
	mine := placeOrder(t, repo, "user-1")
	theirs := placeOrder(t, repo, "user-2")
	svc := NewApplicationService(repo)
	caller := identity.Identity{SubjectID: "user-1", Role: identity.RoleCustomer}

	list, err := svc.ListMine(ctx, caller)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, mine.ID(), list[0].ID)

	resp, err := svc.GetMine(ctx, caller, mine.ID())
	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, int64(45000), resp.TotalAmount)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "/img/cap.jpg", resp.Items[0].Image)
	assert.Equal(t, "06234", resp.ShippingInfo.ZipCode)
	require.Len(t, resp.StatusHistory, 1)
	assert.Nil(t, resp.PaidAt)
	assert.Nil(t, resp.PaymentResult)

	_, err = svc.GetMine(ctx, caller, theirs.ID())
	assert.ErrorIs(t, err, order.ErrNotOrderOwner)

	empty, err := svc.ListMine(ctx, identity.Identity{SubjectID: "user-3", Role: identity.RoleCustomer})
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestMutatorConcurrentTransitionsExactlyOneWins(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewOrderRepository()
	o := placeOrder(t, repo, "user-1")
	mutator := NewMutator(repo, memory.NewUnitOfWorkFactory(nil), fastRetry())

	record := payment.Normalize(payment.SourceClientVerify, "0000", nil).Record()
	changes := []func(*order.Order) error{
		func(o *order.Order) error { return o.MarkPaid(record, time.Now()) },
		func(o *order.Order) error { return o.MarkPaymentFailed(record, time.Now()) },
		func(o *order.Order) error { return o.Cancel("customer request") },
	}

	var (
		wg        sync.WaitGroup
		successes atomic.Int32
		rejected  atomic.Int32
	)
	for _, change := range changes {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := mutator.Apply(ctx, o.ID(), change)
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, order.ErrInvalidOrderState):
				rejected.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), successes.Load())
	assert.Equal(t, int32(2), rejected.Load())

	stored, err := repo.FindByID(ctx, o.ID())
	require.NoError(t, err)
	assert.Len(t, stored.History(), 2, "exactly one transition recorded")
}

func TestMutatorDoesNotSaveRejectedChange(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewOrderRepository()
	o := placeOrder(t, repo, "user-1")
	mutator := NewMutator(repo, memory.NewUnitOfWorkFactory(nil), fastRetry())

	_, err := mutator.Apply(ctx, o.ID(), func(o *order.Order) error {
		return o.Deliver("")
	})
	assert.ErrorIs(t, err, order.ErrInvalidOrderState)

	_, err = mutator.Apply(ctx, "ORDER_missing", func(*order.Order) error { return nil })
	assert.ErrorIs(t, err, order.ErrOrderNotFound)

	stored, err := repo.FindByID(ctx, o.ID())
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Version())
}
