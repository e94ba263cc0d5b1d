package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(OrderStatusPending, OrderStatusProcessing))
	assert.True(t, CanTransition(OrderStatusPending, OrderStatusCancelled))
	assert.True(t, CanTransition(OrderStatusShipped, OrderStatusDelivered))
	assert.False(t, CanTransition(OrderStatusDelivered, OrderStatusCancelled))
	assert.False(t, CanTransition(OrderStatusPending, OrderStatusDelivered))
	assert.False(t, CanTransition(OrderStatus("lost"), OrderStatusPending))
}

func TestOrderStatusValid(t *testing.T) {
	assert.True(t, OrderStatusPending.Valid())
	assert.False(t, OrderStatus("PENDING").Valid())
}

func TestCheckoutItemSubtotal(t *testing.T) {
	item := CheckoutItem{ProductID: 1, Quantity: 3, Price: decimal.RequireFromString("19.99")}
	assert.Equal(t, "59.97", item.Subtotal().StringFixed(2))
}

func TestCheckoutItemJSONNumbers(t *testing.T) {
	var item CheckoutItem
	require.NoError(t, json.Unmarshal([]byte(`{"productId":2,"quantity":1,"price":29.99}`), &item))
	assert.True(t, item.Price.Equal(decimal.RequireFromString("29.99")))

	b, err := json.Marshal(item)
	require.NoError(t, err)
	assert.JSONEq(t, `{"productId":2,"quantity":1,"price":29.99}`, string(b))
}
