package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-grocery-delivery/internal/model"
)

func TestOrderValidator_Validate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	vendor := env.actor(t, "vendor@example.com", model.RoleAdmin)
	apples := env.product(t, vendor, "apples", 250, 5)
	milk := env.product(t, vendor, "milk", 199, 2)
	v := NewOrderValidator(env.Catalog)

	t.Run("valid cart resolves prices", func(t *testing.T) {
		items, err := v.Validate(ctx, []CartItem{
			{ProductID: apples.ID, Quantity: 3},
			{ProductID: milk.ID, Quantity: 1},
		}, 3*250+199)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, int64(250), items[0].UnitPrice)
		assert.Equal(t, 1, items[1].Quantity)
	})

	t.Run("empty cart", func(t *testing.T) {
		_, err := v.Validate(ctx, nil, 0)
		assert.ErrorIs(t, err, ErrEmptyCart)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("non positive quantity", func(t *testing.T) {
		_, err := v.Validate(ctx, []CartItem{{ProductID: apples.ID, Quantity: 0}}, 0)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})

	t.Run("unknown product", func(t *testing.T) {
		_, err := v.Validate(ctx, []CartItem{
			{ProductID: apples.ID, Quantity: 1},
			{ProductID: uuid.New(), Quantity: 1},
		}, 250)
		assert.ErrorIs(t, err, ErrProductNotFound)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("insufficient stock names the product", func(t *testing.T) {
		_, err := v.Validate(ctx, []CartItem{{ProductID: milk.ID, Quantity: 3}}, 3*199)
		require.ErrorIs(t, err, ErrInsufficientStock)

		var stockErr *StockError
		require.True(t, errors.As(err, &stockErr))
		assert.Equal(t, milk.ID, stockErr.ProductID)
		assert.Equal(t, 3, stockErr.Requested)
		assert.Equal(t, 2, stockErr.Available)
		assert.Contains(t, err.Error(), "milk")
	})

	t.Run("repeated lines are checked together", func(t *testing.T) {
		_, err := v.Validate(ctx, []CartItem{
			{ProductID: milk.ID, Quantity: 1},
			{ProductID: milk.ID, Quantity: 2},
		}, 3*199)
		assert.ErrorIs(t, err, ErrInsufficientStock)

		items, err := v.Validate(ctx, []CartItem{
			{ProductID: apples.ID, Quantity: 1},
			{ProductID: apples.ID, Quantity: 1},
		}, 500)
		require.NoError(t, err)
		assert.Len(t, items, 2)
	})

	t.Run("total mismatch by any amount", func(t *testing.T) {
		for _, claimed := range []int64{749, 751, 0, -750, 75000} {
			_, err := v.Validate(ctx, []CartItem{{ProductID: apples.ID, Quantity: 3}}, claimed)
			assert.ErrorIs(t, err, ErrTotalMismatch, "claimed %d", claimed)
			assert.ErrorIs(t, err, ErrConsistency)
		}
	})

	// nothing above may have touched stock
	assert.Equal(t, 5, env.stockOf(t, apples))
	assert.Equal(t, 2, env.stockOf(t, milk))
}

func TestPlaceOrderRequest_Precheck(t *testing.T) {
	item := CartItem{ProductID: uuid.New(), Quantity: 1}

	tests := []struct {
		name string
		req  PlaceOrderRequest
		want error
	}{
		{"no items", PlaceOrderRequest{Name: "a", Email: "a@b.co", Address: "x"}, ErrEmptyCart},
		{"missing name", PlaceOrderRequest{LineItems: []CartItem{item}, Email: "a@b.co", Address: "x"}, ErrEmptyCart},
		{"missing email", PlaceOrderRequest{LineItems: []CartItem{item}, Name: "a", Address: "x"}, ErrEmptyCart},
		{"blank address", PlaceOrderRequest{LineItems: []CartItem{item}, Name: "a", Email: "a@b.co", Address: "  "}, ErrEmptyCart},
		{"bad email", PlaceOrderRequest{LineItems: []CartItem{item}, Name: "a", Email: "nope", Address: "x"}, ErrValidation},
		{"legacy products field", PlaceOrderRequest{Products: []CartItem{item}, Name: "a", Email: "a@b.co", Address: "x"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.precheck()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
