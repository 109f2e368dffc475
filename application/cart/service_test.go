package cart

import (
	"context"
	"testing"

	"storefront/domain/identity"
	"storefront/infrastructure/cartstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartLifecycle(t *testing.T) {
	ctx := context.Background()
	store := cartstore.NewMemoryStore()
	svc := NewService(store)
	caller := identity.Identity{SubjectID: "user-1", Role: identity.RoleCustomer}

	resp, err := svc.Get(ctx, caller)
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
	assert.NotNil(t, resp.Items, "empty carts serialise as []")

	_, err = svc.AddItem(ctx, caller, AddItemRequest{ID: "1", Name: "캡", Price: 45000, Color: "black"})
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, caller, AddItemRequest{ID: "1", Name: "캡", Price: 45000, Quantity: 2, Color: "black"})
	require.NoError(t, err)
	resp, err = svc.AddItem(ctx, caller, AddItemRequest{ID: "1", Name: "캡", Price: 45000, Quantity: 1, Color: "white"})
	require.NoError(t, err)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, 3, resp.Items[0].Quantity)
	assert.Equal(t, 4, resp.ItemCount)
	assert.Equal(t, int64(180000), resp.Total)

	resp, err = svc.UpdateQuantity(ctx, caller, "1", 5)
	require.NoError(t, err)
	assert.Equal(t, 10, resp.ItemCount, "every variant of the product is updated")

	other := identity.Identity{SubjectID: "user-2", Role: identity.RoleCustomer}
	resp, err = svc.Get(ctx, other)
	require.NoError(t, err)
	assert.Empty(t, resp.Items, "carts are per owner")

	resp, err = svc.RemoveItem(ctx, caller, "1")
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
	_, err = store.Get(ctx, "user-1")
	assert.Error(t, err, "an emptied cart is dropped from the store")
}

func TestCartUpdateToZeroRemoves(t *testing.T) {
	ctx := context.Background()
	svc := NewService(cartstore.NewMemoryStore())
	caller := identity.Identity{SubjectID: "user-1", Role: identity.RoleCustomer}

	_, err := svc.AddItem(ctx, caller, AddItemRequest{ID: "1", Name: "캡", Price: 45000})
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, caller, AddItemRequest{ID: "2", Name: "햇", Price: 30000})
	require.NoError(t, err)

	resp, err := svc.UpdateQuantity(ctx, caller, "1", 0)
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "2", resp.Items[0].ProductID)

	require.NoError(t, svc.Clear(ctx, caller))
	resp, err = svc.Get(ctx, caller)
	require.NoError(t, err)
	assert.Zero(t, resp.Total)
}
