package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rl1809/retail-inventory/internal/core/domain"
	"github.com/rl1809/retail-inventory/internal/port"
)

type lineKey struct {
	orderID   string
	productID string
}

type OrderLineStore struct {
	mu    sync.RWMutex
	lines map[lineKey]domain.OrderLine
}

func NewOrderLineStore() *OrderLineStore {
	return &OrderLineStore{lines: make(map[lineKey]domain.OrderLine)}
}

var _ port.OrderLineRepository = (*OrderLineStore)(nil)

func (s *OrderLineStore) Insert(ctx context.Context, line domain.OrderLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := lineKey{line.OrderID, line.ProductID}
	if _, ok := s.lines[k]; ok {
		return domain.ErrAlreadyExists
	}
	s.lines[k] = line
	return nil
}

func (s *OrderLineStore) Get(ctx context.Context, orderID, productID string) (*domain.OrderLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	line, ok := s.lines[lineKey{orderID, productID}]
	if !ok {
		return nil, nil
	}
	return &line, nil
}

func (s *OrderLineStore) SetQuantity(ctx context.Context, orderID, productID string, expected, quantity int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := lineKey{orderID, productID}
	line, ok := s.lines[k]
	if !ok {
		return false, nil
	}
	if line.Quantity != expected {
		return false, domain.ErrLineChanged
	}
	line.Quantity = quantity
	line.UpdatedAt = time.Now()
	s.lines[k] = line
	return true, nil
}

func (s *OrderLineStore) Delete(ctx context.Context, orderID, productID string, expected int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := lineKey{orderID, productID}
	line, ok := s.lines[k]
	if !ok {
		return false, nil
	}
	if line.Quantity != expected {
		return false, domain.ErrLineChanged
	}
	delete(s.lines, k)
	return true, nil
}

func (s *OrderLineStore) ListByOrder(ctx context.Context, orderID string) ([]domain.OrderLine, error) {
	return s.list(func(l domain.OrderLine) bool { return l.OrderID == orderID }), nil
}

func (s *OrderLineStore) List(ctx context.Context) ([]domain.OrderLine, error) {
	return s.list(func(domain.OrderLine) bool { return true }), nil
}

func (s *OrderLineStore) list(keep func(domain.OrderLine) bool) []domain.OrderLine {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.OrderLine, 0)
	for _, l := range s.lines {
		if keep(l) {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].OrderID != out[j].OrderID {
			return out[i].OrderID < out[j].OrderID
		}
		return out[i].ProductID < out[j].ProductID
	})
	return out
}
