package port

import (
	"context"

	"github.com/rl1809/retail-inventory/internal/core/domain"
)

// JournalRepository keeps the append-only history of inventory movements.
type JournalRepository interface {
	Record(ctx context.Context, movement domain.Movement) error
	ListByProduct(ctx context.Context, productID string) ([]domain.Movement, error)
}
