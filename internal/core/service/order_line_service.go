package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rl1809/retail-inventory/internal/core/domain"
	"github.com/rl1809/retail-inventory/internal/port"
)

// Ledger is the part of InventoryLedger that order lines move stock through.
type Ledger interface {
	GetByProduct(ctx context.Context, productID string) (*domain.Inventory, error)
	Debit(ctx context.Context, productID string, amount int, reference string) (*domain.Inventory, error)
	Credit(ctx context.Context, productID string, amount int, reference string) (*domain.Inventory, error)
}

// OrderChecker reports whether an order exists.
type OrderChecker interface {
	OrderExists(ctx context.Context, orderID string) (bool, error)
}

// compensationTimeout bounds an undo. Undo runs detached from the caller's
// context so that a cancelled request still restores inventory.
const compensationTimeout = 5 * time.Second

// OrderLineService couples order lines to inventory. Each operation writes to
// the ledger first and the line second; when the second write fails the
// first is undone inline before returning. Only a failed undo leaves the two
// out of step, and that is reported as a *domain.PartiallyAppliedError.
type OrderLineService struct {
	lines  port.OrderLineRepository
	ledger Ledger
	orders OrderChecker
	logger *zap.Logger
	now    func() time.Time
}

func NewOrderLineService(lines port.OrderLineRepository, ledger Ledger, orders OrderChecker, logger *zap.Logger) *OrderLineService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderLineService{
		lines:  lines,
		ledger: ledger,
		orders: orders,
		logger: logger.Named("order_lines"),
		now:    time.Now,
	}
}

func (s *OrderLineService) Create(ctx context.Context, orderID, productID string, quantity int) (*domain.OrderLine, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	ok, err := s.orders.OrderExists(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("check order %s: %w", orderID, err)
	}
	if !ok {
		return nil, domain.ErrOrderNotFound
	}

	existing, err := s.lines.Get(ctx, orderID, productID)
	if err != nil {
		return nil, fmt.Errorf("check order line: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("order line %s/%s: %w", orderID, productID, domain.ErrAlreadyExists)
	}

	inv, err := s.ledger.GetByProduct(ctx, productID)
	if errors.Is(err, domain.ErrInventoryNotFound) {
		return nil, domain.ErrInsufficientInventory
	}
	if err != nil {
		return nil, err
	}
	if inv.Quantity < quantity {
		return nil, domain.ErrInsufficientInventory
	}

	if _, err := s.ledger.Debit(ctx, productID, quantity, orderID); err != nil {
		// Lost a race for the stock after the check above; nothing was applied.
		if errors.Is(err, domain.ErrInsufficientQuantity) || errors.Is(err, domain.ErrInventoryNotFound) {
			return nil, domain.ErrInsufficientInventory
		}
		return nil, err
	}

	now := s.now()
	line := domain.OrderLine{
		OrderID:   orderID,
		ProductID: productID,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.lines.Insert(ctx, line); err != nil {
		return nil, s.compensate(ctx, "create order line", "inventory debit", "order line insert", err,
			func(ctx context.Context) error {
				_, cerr := s.ledger.Credit(ctx, productID, quantity, orderID)
				return cerr
			},
			zap.String("order_id", orderID), zap.String("product_id", productID), zap.Int("quantity", quantity))
	}

	return &line, nil
}

// Update moves the line to newQuantity and the inventory by the difference.
// The line write only lands if the line still holds the quantity the
// difference was computed from; otherwise the adjustment is undone and
// domain.ErrLineChanged is returned.
func (s *OrderLineService) Update(ctx context.Context, orderID, productID string, newQuantity int) (*domain.OrderLine, error) {
	if newQuantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	line, err := s.Retrieve(ctx, orderID, productID)
	if err != nil {
		return nil, err
	}

	inv, err := s.ledger.GetByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	delta := newQuantity - line.Quantity
	if delta > 0 && delta > inv.Quantity {
		return nil, domain.ErrInsufficientInventory
	}

	var undo func(context.Context) error
	switch {
	case delta > 0:
		if _, err := s.ledger.Debit(ctx, productID, delta, orderID); err != nil {
			if errors.Is(err, domain.ErrInsufficientQuantity) {
				return nil, domain.ErrInsufficientInventory
			}
			return nil, err
		}
		undo = func(ctx context.Context) error {
			_, cerr := s.ledger.Credit(ctx, productID, delta, orderID)
			return cerr
		}
	case delta < 0:
		if _, err := s.ledger.Credit(ctx, productID, -delta, orderID); err != nil {
			return nil, err
		}
		undo = func(ctx context.Context) error {
			_, cerr := s.ledger.Debit(ctx, productID, -delta, orderID)
			return cerr
		}
	default:
		undo = func(context.Context) error { return nil }
	}

	ok, err := s.lines.SetQuantity(ctx, orderID, productID, line.Quantity, newQuantity)
	if err == nil && !ok {
		err = domain.ErrOrderLineNotFound
	}
	if err != nil {
		return nil, s.compensate(ctx, "update order line", "inventory adjustment", "order line update", err, undo,
			zap.String("order_id", orderID), zap.String("product_id", productID), zap.Int("delta", delta))
	}

	line.Quantity = newQuantity
	line.UpdatedAt = s.now()
	return line, nil
}

// Delete returns the line's quantity to inventory and removes the line. A line
// changed between the read and the delete fails with domain.ErrLineChanged.
func (s *OrderLineService) Delete(ctx context.Context, orderID, productID string) error {
	line, err := s.Retrieve(ctx, orderID, productID)
	if err != nil {
		return err
	}

	if _, err := s.ledger.GetByProduct(ctx, productID); err != nil {
		return err
	}

	if _, err := s.ledger.Credit(ctx, productID, line.Quantity, orderID); err != nil {
		return err
	}

	ok, err := s.lines.Delete(ctx, orderID, productID, line.Quantity)
	if err == nil && !ok {
		err = domain.ErrOrderLineNotFound
	}
	if err != nil {
		return s.compensate(ctx, "delete order line", "inventory credit", "order line delete", err,
			func(ctx context.Context) error {
				_, cerr := s.ledger.Debit(ctx, productID, line.Quantity, orderID)
				return cerr
			},
			zap.String("order_id", orderID), zap.String("product_id", productID), zap.Int("quantity", line.Quantity))
	}
	return nil
}

func (s *OrderLineService) Retrieve(ctx context.Context, orderID, productID string) (*domain.OrderLine, error) {
	line, err := s.lines.Get(ctx, orderID, productID)
	if err != nil {
		return nil, fmt.Errorf("get order line %s/%s: %w", orderID, productID, err)
	}
	if line == nil {
		return nil, domain.ErrOrderLineNotFound
	}
	return line, nil
}

func (s *OrderLineService) ListByOrder(ctx context.Context, orderID string) ([]domain.OrderLine, error) {
	return s.lines.ListByOrder(ctx, orderID)
}

func (s *OrderLineService) List(ctx context.Context) ([]domain.OrderLine, error) {
	return s.lines.List(ctx)
}

// compensate runs undo after a failed second step. The caller sees cause when
// the undo held, and a PartiallyAppliedError when it did not.
func (s *OrderLineService) compensate(ctx context.Context, op, committed, failed string, cause error, undo func(context.Context) error, fields ...zap.Field) error {
	uctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
	defer cancel()

	uerr := undo(uctx)
	if uerr == nil {
		s.logger.Warn(op+": compensated", append(fields, zap.Error(cause))...)
		return fmt.Errorf("%s: %w", op, cause)
	}

	s.logger.Error(op+": compensation failed, manual reconciliation required",
		append(fields, zap.Error(cause), zap.NamedError("compensation_error", uerr))...)
	return &domain.PartiallyAppliedError{
		Op:        op,
		Committed: committed,
		Failed:    failed,
		Err:       errors.Join(cause, uerr),
	}
}
