package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/retail-inventory/internal/adapter/storage/memory"
	"github.com/rl1809/retail-inventory/internal/core/domain"
)

func newOrderStore(t *testing.T) *OrderStore {
	t.Helper()
	s := NewOrderStore(memory.NewOrderStore(), nil)
	ctx := context.Background()
	require.NoError(t, s.CreateRetailer(ctx, domain.Retailer{ID: "R1", Name: "Corner Shop"}))
	require.NoError(t, s.CreateRetailer(ctx, domain.Retailer{ID: "R2", Name: "Market"}))
	return s
}

func TestCreateOrder(t *testing.T) {
	s := newOrderStore(t)
	ctx := context.Background()

	order, err := s.CreateOrder(ctx, "O1", "R1")
	require.NoError(t, err)
	assert.Equal(t, "R1", order.RetailerID)
	assert.False(t, order.OrderDate.IsZero())

	_, err = s.CreateOrder(ctx, "O1", "R1")
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	_, err = s.CreateOrder(ctx, "O2", "nobody")
	assert.ErrorIs(t, err, domain.ErrRetailerNotFound)

	ok, err := s.OrderExists(ctx, "O2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUpdateOrder(t *testing.T) {
	s := newOrderStore(t)
	ctx := context.Background()

	_, err := s.CreateOrder(ctx, "O1", "R1")
	require.NoError(t, err)

	order, err := s.UpdateOrder(ctx, "O1", "")
	require.NoError(t, err)
	assert.Equal(t, "R1", order.RetailerID)

	_, err = s.UpdateOrder(ctx, "O1", "nobody")
	assert.ErrorIs(t, err, domain.ErrRetailerNotFound)

	order, err = s.UpdateOrder(ctx, "O1", "R2")
	require.NoError(t, err)
	assert.Equal(t, "R2", order.RetailerID)

	got, err := s.GetOrder(ctx, "O1")
	require.NoError(t, err)
	assert.Equal(t, "R2", got.RetailerID)

	_, err = s.UpdateOrder(ctx, "missing", "R2")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestDeleteOrder(t *testing.T) {
	s := newOrderStore(t)
	ctx := context.Background()

	_, err := s.CreateOrder(ctx, "O1", "R1")
	require.NoError(t, err)
	require.NoError(t, s.DeleteOrder(ctx, "O1"))
	assert.ErrorIs(t, s.DeleteOrder(ctx, "O1"), domain.ErrOrderNotFound)

	orders, err := s.ListOrders(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestRetailerCRUD(t *testing.T) {
	s := newOrderStore(t)
	ctx := context.Background()

	assert.ErrorIs(t, s.CreateRetailer(ctx, domain.Retailer{ID: "R3"}), domain.ErrInvalidInput)
	assert.ErrorIs(t, s.CreateRetailer(ctx, domain.Retailer{ID: "R1", Name: "Again"}), domain.ErrAlreadyExists)

	assert.ErrorIs(t, s.UpdateRetailer(ctx, "R1", domain.RetailerUpdate{}), domain.ErrNoUpdates)

	loc := "Harbour St"
	require.NoError(t, s.UpdateRetailer(ctx, "R1", domain.RetailerUpdate{Location: &loc}))
	r, err := s.GetRetailer(ctx, "R1")
	require.NoError(t, err)
	assert.Equal(t, "Harbour St", r.Location)
	assert.Equal(t, "Corner Shop", r.Name)

	assert.ErrorIs(t, s.UpdateRetailer(ctx, "nobody", domain.RetailerUpdate{Location: &loc}), domain.ErrRetailerNotFound)

	require.NoError(t, s.DeleteRetailer(ctx, "R2"))
	_, err = s.GetRetailer(ctx, "R2")
	assert.ErrorIs(t, err, domain.ErrRetailerNotFound)

	list, err := s.ListRetailers(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "R1", list[0].ID)
}
