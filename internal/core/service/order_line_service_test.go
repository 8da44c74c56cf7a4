package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/retail-inventory/internal/core/domain"
)

func TestCreate_Success(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()

	line, err := f.svc.Create(ctx, "O1", "P1", 4)
	require.NoError(t, err)
	assert.Equal(t, 4, line.Quantity)
	assert.Equal(t, 6, f.stock(t, "P1"))
	assert.Equal(t, 4, f.lineQuantity(t, "O1", "P1"))
}

func TestCreate_InsufficientInventory(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, "O1", "P1", 5)
	assert.ErrorIs(t, err, domain.ErrInsufficientInventory)
	assert.Equal(t, 2, f.stock(t, "P1"))

	_, err = f.svc.Retrieve(ctx, "O1", "P1")
	assert.ErrorIs(t, err, domain.ErrOrderLineNotFound)
}

func TestCreate_NoInventoryForProduct(t *testing.T) {
	f := newFixture(t, 10)

	_, err := f.svc.Create(context.Background(), "O1", "P2", 1)
	assert.ErrorIs(t, err, domain.ErrInsufficientInventory)
}

func TestCreate_OrderNotFound(t *testing.T) {
	f := newFixture(t, 10)

	_, err := f.svc.Create(context.Background(), "missing", "P1", 1)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
	assert.Equal(t, 10, f.stock(t, "P1"))
}

func TestCreate_InvalidQuantity(t *testing.T) {
	f := newFixture(t, 10)

	for _, q := range []int{0, -3} {
		_, err := f.svc.Create(context.Background(), "O1", "P1", q)
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity, "quantity %d", q)
	}
	assert.Equal(t, 10, f.stock(t, "P1"))
}

func TestCreate_DuplicateLine(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, "O1", "P1", 3)
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, "O1", "P1", 2)
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
	assert.Equal(t, 7, f.stock(t, "P1"))
	assert.Equal(t, 3, f.lineQuantity(t, "O1", "P1"))
}

func TestCreate_InsertFailureIsCompensated(t *testing.T) {
	f := newFixture(t, 10)
	f.lines.insertErr = errStoreDown

	_, err := f.svc.Create(context.Background(), "O1", "P1", 4)
	require.Error(t, err)
	assert.ErrorIs(t, err, errStoreDown)
	assert.NotEqual(t, domain.KindPartiallyApplied, domain.KindOf(err))
	assert.Equal(t, 10, f.stock(t, "P1"))
}

func TestCreate_FailedCompensationIsPartiallyApplied(t *testing.T) {
	f := newFixture(t, 10)
	f.lines.insertErr = errStoreDown
	f.inventory.incrementErr = errStoreDown

	_, err := f.svc.Create(context.Background(), "O1", "P1", 4)

	var pe *domain.PartiallyAppliedError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "create order line", pe.Op)
	assert.Equal(t, "inventory debit", pe.Committed)
	assert.Equal(t, domain.KindPartiallyApplied, domain.KindOf(err))
	assert.Equal(t, 6, f.stock(t, "P1"))
}

func TestCreate_ThenDeleteRestoresInventory(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, "O1", "P1", 10)
	require.NoError(t, err)
	assert.Equal(t, 0, f.stock(t, "P1"))

	require.NoError(t, f.svc.Delete(ctx, "O1", "P1"))
	assert.Equal(t, 10, f.stock(t, "P1"))

	_, err = f.svc.Retrieve(ctx, "O1", "P1")
	assert.ErrorIs(t, err, domain.ErrOrderLineNotFound)
}

func TestUpdate_Scenario(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, "O1", "P1", 4)
	require.NoError(t, err)
	assert.Equal(t, 6, f.stock(t, "P1"))

	line, err := f.svc.Update(ctx, "O1", "P1", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, line.Quantity)
	assert.Equal(t, 3, f.stock(t, "P1"))

	line, err = f.svc.Update(ctx, "O1", "P1", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, line.Quantity)
	assert.Equal(t, 8, f.stock(t, "P1"))

	require.NoError(t, f.svc.Delete(ctx, "O1", "P1"))
	assert.Equal(t, 10, f.stock(t, "P1"))
}

func TestUpdate_SameQuantityIsNoop(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, "O1", "P1", 4)
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, "O1", "P1", 4)
	require.NoError(t, err)
	assert.Equal(t, 6, f.stock(t, "P1"))
	assert.Equal(t, 4, f.lineQuantity(t, "O1", "P1"))
}

func TestUpdate_InsufficientInventory(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, "O1", "P1", 3)
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, "O1", "P1", 11)
	assert.ErrorIs(t, err, domain.ErrInsufficientInventory)
	assert.Equal(t, 7, f.stock(t, "P1"))
	assert.Equal(t, 3, f.lineQuantity(t, "O1", "P1"))

	// Taking every remaining unit is allowed.
	_, err = f.svc.Update(ctx, "O1", "P1", 10)
	require.NoError(t, err)
	assert.Equal(t, 0, f.stock(t, "P1"))
}

func TestUpdate_Errors(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()

	_, err := f.svc.Update(ctx, "O1", "P1", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = f.svc.Update(ctx, "O1", "P1", 2)
	assert.ErrorIs(t, err, domain.ErrOrderLineNotFound)

	_, err = f.svc.Create(ctx, "O1", "P1", 2)
	require.NoError(t, err)
	require.NoError(t, f.ledger.Delete(ctx, "INV1"))

	_, err = f.svc.Update(ctx, "O1", "P1", 5)
	assert.ErrorIs(t, err, domain.ErrInventoryNotFound)
	assert.Equal(t, 2, f.lineQuantity(t, "O1", "P1"))
}

func TestUpdate_LineWriteFailureIsCompensated(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, "O1", "P1", 4)
	require.NoError(t, err)

	f.lines.setErr = errStoreDown
	_, err = f.svc.Update(ctx, "O1", "P1", 9)
	assert.ErrorIs(t, err, errStoreDown)
	assert.NotEqual(t, domain.KindPartiallyApplied, domain.KindOf(err))
	assert.Equal(t, 6, f.stock(t, "P1"))

	_, err = f.svc.Update(ctx, "O1", "P1", 1)
	assert.ErrorIs(t, err, errStoreDown)
	assert.Equal(t, 6, f.stock(t, "P1"))
	assert.Equal(t, 4, f.lineQuantity(t, "O1", "P1"))
}

func TestUpdate_FailedCompensationIsPartiallyApplied(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, "O1", "P1", 4)
	require.NoError(t, err)

	f.lines.setErr = errStoreDown
	f.inventory.incrementErr = errStoreDown
	_, err = f.svc.Update(ctx, "O1", "P1", 6)

	var pe *domain.PartiallyAppliedError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "update order line", pe.Op)
	assert.Equal(t, 4, f.stock(t, "P1"))
}

func TestDelete_NotFound(t *testing.T) {
	f := newFixture(t, 10)

	err := f.svc.Delete(context.Background(), "O1", "P1")
	assert.ErrorIs(t, err, domain.ErrOrderLineNotFound)
}

func TestDelete_LineRemovalFailureIsCompensated(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, "O1", "P1", 4)
	require.NoError(t, err)

	f.lines.deleteErr = errStoreDown
	err = f.svc.Delete(ctx, "O1", "P1")
	assert.ErrorIs(t, err, errStoreDown)
	assert.Equal(t, 6, f.stock(t, "P1"))
	assert.Equal(t, 4, f.lineQuantity(t, "O1", "P1"))
}

func TestDelete_FailedCompensationIsPartiallyApplied(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, "O1", "P1", 4)
	require.NoError(t, err)

	f.lines.deleteErr = errStoreDown
	f.inventory.decrementErr = errStoreDown
	err = f.svc.Delete(ctx, "O1", "P1")

	var pe *domain.PartiallyAppliedError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "inventory credit", pe.Committed)
	assert.Equal(t, "order line delete", pe.Failed)
	assert.Equal(t, 10, f.stock(t, "P1"))
}

func TestCompensation_SurvivesCancelledContext(t *testing.T) {
	t.Run("create", func(t *testing.T) {
		f := newFixture(t, 10)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		f.lines.cancel = cancel

		_, err := f.svc.Create(ctx, "O1", "P1", 4)
		assert.ErrorIs(t, err, context.Canceled)
		assert.NotEqual(t, domain.KindPartiallyApplied, domain.KindOf(err))
		assert.Equal(t, 10, f.stock(t, "P1"))
	})

	t.Run("update", func(t *testing.T) {
		f := newFixture(t, 10)
		_, err := f.svc.Create(context.Background(), "O1", "P1", 4)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		f.lines.cancel = cancel

		_, err = f.svc.Update(ctx, "O1", "P1", 9)
		assert.ErrorIs(t, err, context.Canceled)
		assert.NotEqual(t, domain.KindPartiallyApplied, domain.KindOf(err))
		assert.Equal(t, 6, f.stock(t, "P1"))
		assert.Equal(t, 4, f.lineQuantity(t, "O1", "P1"))
	})

	t.Run("delete", func(t *testing.T) {
		f := newFixture(t, 10)
		_, err := f.svc.Create(context.Background(), "O1", "P1", 4)
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(context.Background(), time.Hour)
		defer cancel()
		f.lines.cancel = cancel

		err = f.svc.Delete(ctx, "O1", "P1")
		assert.ErrorIs(t, err, context.Canceled)
		assert.NotEqual(t, domain.KindPartiallyApplied, domain.KindOf(err))
		assert.Equal(t, 6, f.stock(t, "P1"))
		assert.Equal(t, 4, f.lineQuantity(t, "O1", "P1"))
	})
}

func TestUpdate_ConcurrentOnSameLine(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, "O1", "P1", 4)
	require.NoError(t, err)

	// Both updates adjust inventory from the same observed quantity before
	// either writes the line.
	f.lines.beforeWrite = barrier(2)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i, q := range []int{7, 5} {
		wg.Add(1)
		go func(i, q int) {
			defer wg.Done()
			_, errs[i] = f.svc.Update(ctx, "O1", "P1", q)
		}(i, q)
	}
	wg.Wait()
	f.lines.beforeWrite = nil

	var won int
	for _, err := range errs {
		if err == nil {
			won++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrLineChanged)
		assert.Equal(t, domain.KindConflict, domain.KindOf(err))
	}
	assert.Equal(t, 1, won)
	assert.Equal(t, 10, f.stock(t, "P1")+f.lineQuantity(t, "O1", "P1"))
}

func TestUpdateAndDelete_ConcurrentOnSameLine(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, "O1", "P1", 4)
	require.NoError(t, err)
	f.lines.beforeWrite = barrier(2)

	var updateErr, deleteErr error
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, updateErr = f.svc.Update(ctx, "O1", "P1", 7)
	}()
	go func() {
		defer wg.Done()
		deleteErr = f.svc.Delete(ctx, "O1", "P1")
	}()
	wg.Wait()
	f.lines.beforeWrite = nil

	held := 0
	if line, err := f.svc.Retrieve(ctx, "O1", "P1"); err == nil {
		held = line.Quantity
	}
	assert.True(t, (updateErr == nil) != (deleteErr == nil), "update=%v delete=%v", updateErr, deleteErr)
	assert.Equal(t, 10, f.stock(t, "P1")+held)
}

func TestCreate_Concurrent(t *testing.T) {
	const (
		stock    = 20
		requests = 50
	)
	f := newFixture(t, stock)
	ctx := context.Background()

	for i := 0; i < requests; i++ {
		_, err := f.orders.CreateOrder(ctx, fmt.Sprintf("C%d", i), "R1")
		require.NoError(t, err)
	}

	var success, insufficient atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < requests; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := f.svc.Create(ctx, fmt.Sprintf("C%d", n), "P1", 1)
			switch {
			case err == nil:
				success.Add(1)
			case errors.Is(err, domain.ErrInsufficientInventory):
				insufficient.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(stock), success.Load())
	assert.Equal(t, int32(requests-stock), insufficient.Load())
	assert.Equal(t, 0, f.stock(t, "P1"))

	lines, err := f.svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, lines, stock)
}

func TestOrderLines_ConserveInventory(t *testing.T) {
	const stock = 15
	f := newFixture(t, stock)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := f.orders.CreateOrder(ctx, fmt.Sprintf("K%d", i), "R1")
		require.NoError(t, err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			orderID := fmt.Sprintf("K%d", n)
			for round := 0; round < 20; round++ {
				f.svc.Create(ctx, orderID, "P1", 1+round%4)
				f.svc.Update(ctx, orderID, "P1", 1+(round+n)%5)
				if round%3 == 0 {
					f.svc.Delete(ctx, orderID, "P1")
				}
			}
		}(i)
	}
	wg.Wait()

	lines, err := f.svc.List(ctx)
	require.NoError(t, err)
	held := 0
	for _, l := range lines {
		held += l.Quantity
	}
	remaining := f.stock(t, "P1")
	assert.GreaterOrEqual(t, remaining, 0)
	assert.Equal(t, stock, remaining+held)
}

func TestOrderLines_SameLineConservesInventory(t *testing.T) {
	const stock = 12
	f := newFixture(t, stock)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for round := 0; round < 25; round++ {
				f.svc.Create(ctx, "O1", "P1", 1+round%3)
				f.svc.Update(ctx, "O1", "P1", 1+(round+n)%6)
				if (round+n)%4 == 0 {
					f.svc.Delete(ctx, "O1", "P1")
				}
			}
		}(i)
	}
	wg.Wait()

	held := 0
	if line, err := f.svc.Retrieve(ctx, "O1", "P1"); err == nil {
		held = line.Quantity
	}
	remaining := f.stock(t, "P1")
	assert.GreaterOrEqual(t, remaining, 0)
	assert.Equal(t, stock, remaining+held)
}

func TestListByOrder(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()

	_, err := f.ledger.Create(ctx, "INV2", "P2", 5, "Dock B")
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, "O1", "P1", 1)
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, "O1", "P2", 2)
	require.NoError(t, err)

	lines, err := f.svc.ListByOrder(ctx, "O1")
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "P1", lines[0].ProductID)
	assert.Equal(t, "P2", lines[1].ProductID)
}
