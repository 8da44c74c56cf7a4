package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/retail-inventory/internal/core/domain"
)

func TestInventoryStore_ReturnsCopies(t *testing.T) {
	s := NewInventoryStore()
	ctx := context.Background()
	require.NoError(t, s.Insert(ctx, domain.Inventory{ID: "INV1", ProductID: "P1", Quantity: 5}))

	got, err := s.Get(ctx, "INV1")
	require.NoError(t, err)
	got.Quantity = 99

	again, err := s.GetByProduct(ctx, "P1")
	require.NoError(t, err)
	assert.Equal(t, 5, again.Quantity)
}

func TestInventoryStore_DecrementIncrement(t *testing.T) {
	s := NewInventoryStore()
	ctx := context.Background()
	require.NoError(t, s.Insert(ctx, domain.Inventory{ID: "INV1", ProductID: "P1", Quantity: 5}))

	_, err := s.Decrement(ctx, "P1", 6)
	assert.ErrorIs(t, err, domain.ErrInsufficientQuantity)

	inv, err := s.Decrement(ctx, "P1", 5)
	require.NoError(t, err)
	assert.Equal(t, 0, inv.Quantity)

	inv, err = s.Increment(ctx, "P1", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, inv.Quantity)

	_, err = s.Increment(ctx, "P2", 1)
	assert.ErrorIs(t, err, domain.ErrInventoryNotFound)
}

func TestInventoryStore_DeleteFreesProduct(t *testing.T) {
	s := NewInventoryStore()
	ctx := context.Background()
	require.NoError(t, s.Insert(ctx, domain.Inventory{ID: "INV1", ProductID: "P1"}))
	assert.ErrorIs(t, s.Insert(ctx, domain.Inventory{ID: "INV2", ProductID: "P1"}), domain.ErrAlreadyExists)

	deleted, err := s.Delete(ctx, "INV1")
	require.NoError(t, err)
	assert.Equal(t, "P1", deleted.ProductID)

	require.NoError(t, s.Insert(ctx, domain.Inventory{ID: "INV2", ProductID: "P1"}))
}

func TestJournal_ListByProductKeepsOrder(t *testing.T) {
	j := NewJournal()
	ctx := context.Background()
	for _, kind := range []domain.MovementKind{domain.MovementCreate, domain.MovementDebit, domain.MovementCredit} {
		require.NoError(t, j.Record(ctx, domain.Movement{ProductID: "P1", Kind: kind}))
	}
	require.NoError(t, j.Record(ctx, domain.Movement{ProductID: "P2", Kind: domain.MovementCreate}))

	moves, err := j.ListByProduct(ctx, "P1")
	require.NoError(t, err)
	require.Len(t, moves, 3)
	assert.Equal(t, domain.MovementCredit, moves[2].Kind)
}
