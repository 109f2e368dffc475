package payment

import (
	"testing"

	"storefront/domain/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		source Source
		code   string
		want   bool
	}{
		{SourceFormCallback, "3001", true},
		{SourceFormCallback, "0000", false},
		{SourceClientVerify, "0000", true},
		{SourceClientVerify, " 0000 ", true},
		{SourceClientVerify, "3001", false},
		{Source("other"), "0000", false},
		{SourceClientVerify, "", false},
	}
	for _, tt := range tests {
		r := Normalize(tt.source, tt.code, nil)
		assert.Equal(t, tt.want, r.Success, "%s/%q", tt.source, tt.code)
		assert.Equal(t, tt.source, r.Source)
	}
}

func TestTransactionIDAndCode(t *testing.T) {
	r := Normalize(SourceClientVerify, "0000", map[string]any{"TxTid": "nice-1", "resultCode": "0000"})
	assert.Equal(t, "nice-1", r.TransactionID())
	assert.Equal(t, "0000", CodeFrom(r.Raw))
	assert.Equal(t, "3001", CodeFrom(map[string]any{"ResultCode": "3001"}))
	assert.Empty(t, Normalize(SourceClientVerify, "0000", nil).TransactionID())
}

func TestConfirmation(t *testing.T) {
	c := Confirmation{ResultCode: "0000", Status: "paid", Amount: 45000, OrderID: "ORDER_1"}
	assert.True(t, c.Confirms("ORDER_1", 45000))
	assert.False(t, c.Confirms("ORDER_1", 45001))
	assert.False(t, c.Confirms("ORDER_2", 45000))

	c.Status = "ready"
	assert.False(t, c.Confirms("ORDER_1", 45000))
}

func TestNewRequest(t *testing.T) {
	o, err := order.NewOrder(order.PostOptions{
		UserID: "u1",
		Items: []order.ItemRequest{
			{ProductID: "a", Name: "스냅백 캡", UnitPrice: 38000, Quantity: 1},
			{ProductID: "b", Name: "버킷햇", UnitPrice: 42000, Quantity: 1},
			{ProductID: "c", Name: "클래식 베이스볼 캡", UnitPrice: 45000, Quantity: 1},
		},
		Shipping: order.ShippingInfo{Name: "이영희", Phone: "010-2222-3333", Address: "대구"},
	})
	require.NoError(t, err)

	req := NewRequest(o, "lee@example.com", "client", "http://localhost:3000/payment/return")
	assert.Equal(t, o.ID(), req.OrderID)
	assert.Equal(t, int64(125000), req.Amount)
	assert.Equal(t, "스냅백 캡 and 2 more", req.GoodsName)
	assert.Equal(t, "이영희", req.BuyerName)
	assert.Equal(t, "010-2222-3333", req.BuyerTel)
	assert.Equal(t, "client", req.ClientKey)
}

func TestUnconfirmedKeepsOriginalRaw(t *testing.T) {
	raw := map[string]any{"tid": "T1", "resultCode": "0000"}
	r := Normalize(SourceClientVerify, "0000", raw)
	require.True(t, r.Success)

	failed := r.Unconfirmed("amount mismatch")
	assert.False(t, failed.Success)
	assert.Equal(t, "amount mismatch", failed.Raw["confirmation"])
	assert.NotContains(t, raw, "confirmation")
	assert.Equal(t, "T1", failed.TransactionID())
}
