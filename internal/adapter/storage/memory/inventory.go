// Package memory holds in-process implementations of the storage ports. Each
// store serializes writes behind one mutex, which gives debit and credit the
// same single-record atomicity the document store provides.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rl1809/retail-inventory/internal/core/domain"
	"github.com/rl1809/retail-inventory/internal/port"
)

type InventoryStore struct {
	mu        sync.Mutex
	byID      map[string]*domain.Inventory
	byProduct map[string]string
}

func NewInventoryStore() *InventoryStore {
	return &InventoryStore{
		byID:      make(map[string]*domain.Inventory),
		byProduct: make(map[string]string),
	}
}

var _ port.InventoryRepository = (*InventoryStore)(nil)

func (s *InventoryStore) Insert(ctx context.Context, inv domain.Inventory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[inv.ID]; ok {
		return domain.ErrAlreadyExists
	}
	if _, ok := s.byProduct[inv.ProductID]; ok {
		return domain.ErrAlreadyExists
	}
	s.byID[inv.ID] = &inv
	s.byProduct[inv.ProductID] = inv.ID
	return nil
}

func (s *InventoryStore) Get(ctx context.Context, inventoryID string) (*domain.Inventory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.byID[inventoryID]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (s *InventoryStore) GetByProduct(ctx context.Context, productID string) (*domain.Inventory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv := s.lookupProduct(productID)
	if inv == nil {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (s *InventoryStore) List(ctx context.Context) ([]domain.Inventory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Inventory, 0, len(s.byID))
	for _, inv := range s.byID {
		out = append(out, *inv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *InventoryStore) SetQuantity(ctx context.Context, inventoryID string, quantity int) (*domain.Inventory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.byID[inventoryID]
	if !ok {
		return nil, nil
	}
	inv.Quantity = quantity
	inv.UpdatedAt = time.Now()
	cp := *inv
	return &cp, nil
}

func (s *InventoryStore) Decrement(ctx context.Context, productID string, amount int) (*domain.Inventory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv := s.lookupProduct(productID)
	if inv == nil {
		return nil, domain.ErrInventoryNotFound
	}
	if inv.Quantity < amount {
		return nil, domain.ErrInsufficientQuantity
	}
	inv.Quantity -= amount
	inv.UpdatedAt = time.Now()
	cp := *inv
	return &cp, nil
}

func (s *InventoryStore) Increment(ctx context.Context, productID string, amount int) (*domain.Inventory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv := s.lookupProduct(productID)
	if inv == nil {
		return nil, domain.ErrInventoryNotFound
	}
	inv.Quantity += amount
	inv.UpdatedAt = time.Now()
	cp := *inv
	return &cp, nil
}

func (s *InventoryStore) Delete(ctx context.Context, inventoryID string) (*domain.Inventory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.byID[inventoryID]
	if !ok {
		return nil, nil
	}
	delete(s.byID, inventoryID)
	delete(s.byProduct, inv.ProductID)
	return inv, nil
}

func (s *InventoryStore) lookupProduct(productID string) *domain.Inventory {
	id, ok := s.byProduct[productID]
	if !ok {
		return nil
	}
	return s.byID[id]
}
