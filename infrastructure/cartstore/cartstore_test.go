package cartstore

import (
	"context"
	"testing"
	"time"

	"storefront/domain/cart"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, time.Hour), mr
}

func sampleCart() *cart.Cart {
	c := cart.New()
	c.AddItem(cart.Item{ProductID: "1", Name: "클래식 베이스볼 캡", Price: 45000, Quantity: 1, Color: "black"})
	c.AddItem(cart.Item{ProductID: "2", Name: "스냅백 캡", Price: 38000, Quantity: 2})
	return c
}

func TestStores(t *testing.T) {
	redisStore, _ := setupTestRedis(t)
	stores := map[string]cart.Store{
		"redis":  redisStore,
		"memory": NewMemoryStore(),
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := store.Get(ctx, "u1")
			assert.ErrorIs(t, err, cart.ErrCacheMiss)

			require.NoError(t, store.Set(ctx, "u1", sampleCart()))
			got, err := store.Get(ctx, "u1")
			require.NoError(t, err)
			assert.Equal(t, int64(121000), got.Total())
			assert.Equal(t, sampleCart().Items(), got.Items())

			got.Clear()
			again, _ := store.Get(ctx, "u1")
			assert.Equal(t, 3, again.ItemCount(), "returned carts are independent copies")

			require.NoError(t, store.Delete(ctx, "u1"))
			_, err = store.Get(ctx, "u1")
			assert.ErrorIs(t, err, cart.ErrCacheMiss)
		})
	}
}

func TestRedisStoreKeyAndTTL(t *testing.T) {
	store, mr := setupTestRedis(t)
	require.NoError(t, store.Set(context.Background(), "u42", sampleCart()))

	assert.True(t, mr.Exists("cart:u42"))
	ttl := mr.TTL("cart:u42")
	assert.GreaterOrEqual(t, ttl, time.Hour)
	assert.Less(t, ttl, time.Hour+5*time.Minute)

	mr.FastForward(2 * time.Hour)
	_, err := store.Get(context.Background(), "u42")
	assert.ErrorIs(t, err, cart.ErrCacheMiss)
}

func TestRedisStoreCorruptValue(t *testing.T) {
	store, mr := setupTestRedis(t)
	require.NoError(t, mr.Set("cart:u1", "{not json"))

	_, err := store.Get(context.Background(), "u1")
	assert.ErrorContains(t, err, "unmarshal cart failed")
}

func TestRedisStoreUnavailable(t *testing.T) {
	store, mr := setupTestRedis(t)
	mr.Close()

	err := store.Set(context.Background(), "u1", sampleCart())
	assert.ErrorContains(t, err, "redis set failed")
	assert.Error(t, store.Ping(context.Background()))
}
