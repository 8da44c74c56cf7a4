package memory

import (
	"context"
	"sync"

	"github.com/rl1809/retail-inventory/internal/core/domain"
	"github.com/rl1809/retail-inventory/internal/port"
)

type Journal struct {
	mu        sync.Mutex
	movements []domain.Movement
}

func NewJournal() *Journal {
	return &Journal{}
}

var _ port.JournalRepository = (*Journal)(nil)

func (j *Journal) Record(ctx context.Context, movement domain.Movement) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.movements = append(j.movements, movement)
	return nil
}

func (j *Journal) ListByProduct(ctx context.Context, productID string) ([]domain.Movement, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	out := make([]domain.Movement, 0)
	for _, m := range j.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}
