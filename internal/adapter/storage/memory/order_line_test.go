package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/retail-inventory/internal/core/domain"
)

func TestOrderLineStore_ConditionalWrites(t *testing.T) {
	s := NewOrderLineStore()
	ctx := context.Background()
	require.NoError(t, s.Insert(ctx, domain.OrderLine{OrderID: "O1", ProductID: "P1", Quantity: 4}))

	ok, err := s.SetQuantity(ctx, "O1", "P1", 4, 7)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.SetQuantity(ctx, "O1", "P1", 4, 5)
	assert.ErrorIs(t, err, domain.ErrLineChanged)
	assert.False(t, ok)

	ok, err = s.Delete(ctx, "O1", "P1", 4)
	assert.ErrorIs(t, err, domain.ErrLineChanged)
	assert.False(t, ok)

	line, err := s.Get(ctx, "O1", "P1")
	require.NoError(t, err)
	assert.Equal(t, 7, line.Quantity)

	ok, err = s.Delete(ctx, "O1", "P1", 7)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.SetQuantity(ctx, "O1", "P1", 7, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}
