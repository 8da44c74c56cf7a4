package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rl1809/retail-inventory/internal/core/domain"
	"github.com/rl1809/retail-inventory/internal/port"
)

// ProductChecker is the only view of the catalog the ledger needs.
type ProductChecker interface {
	ProductExists(ctx context.Context, productID string) (bool, error)
}

// InventoryLedger owns quantity on hand per product. Debit and credit are
// single atomic writes in the repository; the ledger never reads, checks and
// writes back.
type InventoryLedger struct {
	repo    port.InventoryRepository
	catalog ProductChecker
	journal port.JournalRepository
	logger  *zap.Logger
	now     func() time.Time
}

func NewInventoryLedger(repo port.InventoryRepository, catalog ProductChecker, journal port.JournalRepository, logger *zap.Logger) *InventoryLedger {
	if journal == nil {
		journal = NopJournal{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryLedger{
		repo:    repo,
		catalog: catalog,
		journal: journal,
		logger:  logger.Named("ledger"),
		now:     time.Now,
	}
}

func (l *InventoryLedger) Create(ctx context.Context, inventoryID, productID string, quantity int, location string) (*domain.Inventory, error) {
	if inventoryID == "" || productID == "" {
		return nil, domain.ErrInvalidInput
	}
	if quantity < 0 {
		return nil, domain.ErrInvalidQuantity
	}

	ok, err := l.catalog.ProductExists(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("check product %s: %w", productID, err)
	}
	if !ok {
		return nil, domain.ErrProductNotFound
	}

	now := l.now()
	inv := domain.Inventory{
		ID:        inventoryID,
		ProductID: productID,
		Quantity:  quantity,
		Location:  location,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := l.repo.Insert(ctx, inv); err != nil {
		return nil, fmt.Errorf("create inventory %s: %w", inventoryID, err)
	}

	l.record(ctx, &inv, domain.MovementCreate, quantity, "")
	return &inv, nil
}

func (l *InventoryLedger) Get(ctx context.Context, inventoryID string) (*domain.Inventory, error) {
	inv, err := l.repo.Get(ctx, inventoryID)
	if err != nil {
		return nil, fmt.Errorf("get inventory %s: %w", inventoryID, err)
	}
	if inv == nil {
		return nil, domain.ErrInventoryNotFound
	}
	return inv, nil
}

func (l *InventoryLedger) GetByProduct(ctx context.Context, productID string) (*domain.Inventory, error) {
	inv, err := l.repo.GetByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get inventory for product %s: %w", productID, err)
	}
	if inv == nil {
		return nil, domain.ErrInventoryNotFound
	}
	return inv, nil
}

func (l *InventoryLedger) List(ctx context.Context) ([]domain.Inventory, error) {
	return l.repo.List(ctx)
}

// SetQuantity is an administrative overwrite. It does not reconcile against
// order lines; the new value becomes the baseline for later movements.
func (l *InventoryLedger) SetQuantity(ctx context.Context, inventoryID string, quantity int) (*domain.Inventory, error) {
	if quantity < 0 {
		return nil, domain.ErrInvalidQuantity
	}
	inv, err := l.repo.SetQuantity(ctx, inventoryID, quantity)
	if err != nil {
		return nil, fmt.Errorf("set quantity of %s: %w", inventoryID, err)
	}
	if inv == nil {
		return nil, domain.ErrInventoryNotFound
	}

	l.record(ctx, inv, domain.MovementSet, quantity, "")
	return inv, nil
}

// Debit removes amount from the product's inventory. reference names the
// cause of the movement (usually an order id) for the journal.
func (l *InventoryLedger) Debit(ctx context.Context, productID string, amount int, reference string) (*domain.Inventory, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	inv, err := l.repo.Decrement(ctx, productID, amount)
	if err != nil {
		return nil, fmt.Errorf("debit %d from %s: %w", amount, productID, err)
	}

	l.record(ctx, inv, domain.MovementDebit, -amount, reference)
	return inv, nil
}

// Credit returns amount to the product's inventory. It only fails when the
// record is missing or the store is unreachable.
func (l *InventoryLedger) Credit(ctx context.Context, productID string, amount int, reference string) (*domain.Inventory, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	inv, err := l.repo.Increment(ctx, productID, amount)
	if err != nil {
		return nil, fmt.Errorf("credit %d to %s: %w", amount, productID, err)
	}

	l.record(ctx, inv, domain.MovementCredit, amount, reference)
	return inv, nil
}

func (l *InventoryLedger) Delete(ctx context.Context, inventoryID string) error {
	inv, err := l.repo.Delete(ctx, inventoryID)
	if err != nil {
		return fmt.Errorf("delete inventory %s: %w", inventoryID, err)
	}
	if inv == nil {
		return domain.ErrInventoryNotFound
	}

	l.record(ctx, inv, domain.MovementDelete, -inv.Quantity, "")
	return nil
}

// Movements returns the journal entries of a product, oldest first.
func (l *InventoryLedger) Movements(ctx context.Context, productID string) ([]domain.Movement, error) {
	return l.journal.ListByProduct(ctx, productID)
}

// record appends to the journal. A journal outage never fails the movement
// that already committed in the document store.
func (l *InventoryLedger) record(ctx context.Context, inv *domain.Inventory, kind domain.MovementKind, delta int, reference string) {
	m := domain.Movement{
		ID:            uuid.NewString(),
		InventoryID:   inv.ID,
		ProductID:     inv.ProductID,
		Kind:          kind,
		Delta:         delta,
		QuantityAfter: inv.Quantity,
		Reference:     reference,
		OccurredAt:    l.now(),
	}
	if kind == domain.MovementDelete {
		m.QuantityAfter = 0
	}
	if err := l.journal.Record(ctx, m); err != nil {
		l.logger.Warn("journal write failed",
			zap.String("product_id", inv.ProductID),
			zap.String("kind", string(kind)),
			zap.Int("delta", delta),
			zap.Error(err),
		)
	}
}

// NopJournal discards movements. Used when no journal store is configured.
type NopJournal struct{}

func (NopJournal) Record(context.Context, domain.Movement) error { return nil }

func (NopJournal) ListByProduct(context.Context, string) ([]domain.Movement, error) {
	return nil, nil
}
