package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"storefront/domain/order"
	"storefront/domain/shared"
	"storefront/domain/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrder(t *testing.T, userID string) *order.Order {
	t.Helper()
	o, err := order.NewOrder(order.PostOptions{
		UserID:   userID,
		Items:    []order.ItemRequest{{ProductID: "1", Name: "캡", UnitPrice: 45000, Quantity: 1}},
		Shipping: order.ShippingInfo{Name: "홍길동", Phone: "010", Address: "서울"},
	})
	require.NoError(t, err)
	return o
}

func TestOrderRepositoryStoresSnapshots(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository()
	o := newOrder(t, "u1")
	require.NoError(t, repo.Save(ctx, o))
	assert.Equal(t, 1, o.Version())

	loaded, err := repo.FindByID(ctx, o.ID())
	require.NoError(t, err)
	require.NoError(t, loaded.StartProcessing(""))

	again, err := repo.FindByID(ctx, o.ID())
	require.NoError(t, err)
	assert.Equal(t, order.StatusPending, again.Status(), "unsaved change must not leak")

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
}

func TestOrderRepositoryOptimisticLock(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository()
	o := newOrder(t, "u1")
	require.NoError(t, repo.Save(ctx, o))

	a, _ := repo.FindByID(ctx, o.ID())
	b, _ := repo.FindByID(ctx, o.ID())
	require.NoError(t, a.StartProcessing(""))
	require.NoError(t, b.Cancel("dup"))

	require.NoError(t, repo.Save(ctx, a))
	err := repo.Save(ctx, b)
	assert.ErrorIs(t, err, order.ErrConcurrentModification)

	stored, _ := repo.FindByID(ctx, o.ID())
	assert.Equal(t, order.StatusProcessing, stored.Status())
	assert.Len(t, stored.History(), 2)
}

func TestOrderRepositoryConcurrentTransitionsExactlyOneWins(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository()
	o := newOrder(t, "u1")
	require.NoError(t, repo.Save(ctx, o))

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			loaded, err := repo.FindByID(ctx, o.ID())
			if err != nil {
				return
			}
			if err := loaded.StartProcessing(""); err != nil {
				return
			}
			if repo.Save(ctx, loaded) == nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	stored, _ := repo.FindByID(ctx, o.ID())
	assert.Equal(t, int32(1), wins.Load())
	assert.Len(t, stored.History(), 2)
}

func TestOrderRepositoryListing(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository()
	for _, uid := range []string{"u1", "u2", "u1"} {
		require.NoError(t, repo.Save(ctx, newOrder(t, uid)))
	}

	mine, err := repo.FindByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, mine, 2)
	assert.False(t, mine[0].CreatedAt().Before(mine[1].CreatedAt()))

	all, err := repo.FindBySpecification(ctx, shared.All[*order.Order]{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestUserRepositoryEmailUniqueness(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	u1, err := user.NewUser(user.RegisterOptions{Email: "a@example.com", Name: "A", PasswordHash: "h"})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, u1))

	u2, err := user.NewUser(user.RegisterOptions{Email: "A@Example.com", Name: "B", PasswordHash: "h"})
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Save(ctx, u2), user.ErrEmailAlreadyExists)

	found, err := repo.FindByEmail(ctx, "A@EXAMPLE.COM")
	require.NoError(t, err)
	assert.Equal(t, u1.ID(), found.ID())

	n, _ := repo.Count(ctx)
	assert.Equal(t, 1, n)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) Publish(event shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event.EventName())
	return nil
}

func TestUnitOfWorkPublishesOnSuccessOnly(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	factory := NewUnitOfWorkFactory(pub)

	uow := factory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		uow.RegisterNew(newOrder(t, "u1"))
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)
	assert.Empty(t, pub.events)

	uow = factory.New()
	require.NoError(t, uow.Execute(ctx, func(ctx context.Context) error {
		uow.RegisterNew(newOrder(t, "u1"))
		return nil
	}))
	assert.Equal(t, []string{order.EventOrderPlaced}, pub.events)
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	users, orders := NewUserRepository(), NewOrderRepository()

	data, err := Seed(ctx, users, orders, "hash")
	require.NoError(t, err)
	require.Len(t, data.Users, 3)
	require.Len(t, data.Orders, 3)

	statuses := map[order.Status]bool{}
	for _, o := range data.Orders {
		statuses[o.Status()] = true
	}
	assert.True(t, statuses[order.StatusDelivered])
	assert.True(t, statuses[order.StatusShipped])
	assert.True(t, statuses[order.StatusProcessing])

	suspended, err := users.FindBySpecification(ctx, user.NewByStatusSpecification(user.StatusSuspended))
	require.NoError(t, err)
	require.Len(t, suspended, 1)
	assert.Equal(t, "이영희", suspended[0].Name())
}
