package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/rl1809/retail-inventory/internal/core/domain"
	"github.com/rl1809/retail-inventory/internal/port"
)

type OrderStore struct {
	mu        sync.RWMutex
	orders    map[string]domain.Order
	retailers map[string]domain.Retailer
}

func NewOrderStore() *OrderStore {
	return &OrderStore{
		orders:    make(map[string]domain.Order),
		retailers: make(map[string]domain.Retailer),
	}
}

var _ port.OrderRepository = (*OrderStore)(nil)

func (s *OrderStore) InsertRetailer(ctx context.Context, retailer domain.Retailer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.retailers[retailer.ID]; ok {
		return domain.ErrAlreadyExists
	}
	s.retailers[retailer.ID] = retailer
	return nil
}

func (s *OrderStore) GetRetailer(ctx context.Context, retailerID string) (*domain.Retailer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.retailers[retailerID]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (s *OrderStore) UpdateRetailer(ctx context.Context, retailerID string, update domain.RetailerUpdate) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.retailers[retailerID]
	if !ok {
		return false, nil
	}
	if update.Name != nil {
		r.Name = *update.Name
	}
	if update.Location != nil {
		r.Location = *update.Location
	}
	if update.Contact != nil {
		r.Contact = *update.Contact
	}
	s.retailers[retailerID] = r
	return true, nil
}

func (s *OrderStore) DeleteRetailer(ctx context.Context, retailerID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.retailers[retailerID]; !ok {
		return false, nil
	}
	delete(s.retailers, retailerID)
	return true, nil
}

func (s *OrderStore) ListRetailers(ctx context.Context) ([]domain.Retailer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Retailer, 0, len(s.retailers))
	for _, r := range s.retailers {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *OrderStore) InsertOrder(ctx context.Context, order domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[order.ID]; ok {
		return domain.ErrAlreadyExists
	}
	s.orders[order.ID] = order
	return nil
}

func (s *OrderStore) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[orderID]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (s *OrderStore) SetOrderRetailer(ctx context.Context, orderID, retailerID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[orderID]
	if !ok {
		return false, nil
	}
	o.RetailerID = retailerID
	s.orders[orderID] = o
	return true, nil
}

func (s *OrderStore) DeleteOrder(ctx context.Context, orderID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[orderID]; !ok {
		return false, nil
	}
	delete(s.orders, orderID)
	return true, nil
}

func (s *OrderStore) ListOrders(ctx context.Context) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
