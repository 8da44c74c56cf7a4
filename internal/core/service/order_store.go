package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rl1809/retail-inventory/internal/core/domain"
	"github.com/rl1809/retail-inventory/internal/port"
)

// OrderStore is CRUD over orders and retailers. An order's retailer must
// exist when the link is made; after that the link is only changed through
// UpdateOrder.
type OrderStore struct {
	repo   port.OrderRepository
	logger *zap.Logger
	now    func() time.Time
}

func NewOrderStore(repo port.OrderRepository, logger *zap.Logger) *OrderStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderStore{
		repo:   repo,
		logger: logger.Named("orders"),
		now:    time.Now,
	}
}

func (s *OrderStore) CreateRetailer(ctx context.Context, retailer domain.Retailer) error {
	if retailer.ID == "" || retailer.Name == "" {
		return domain.ErrInvalidInput
	}
	if err := s.repo.InsertRetailer(ctx, retailer); err != nil {
		return fmt.Errorf("create retailer %s: %w", retailer.ID, err)
	}
	return nil
}

func (s *OrderStore) GetRetailer(ctx context.Context, retailerID string) (*domain.Retailer, error) {
	r, err := s.repo.GetRetailer(ctx, retailerID)
	if err != nil {
		return nil, fmt.Errorf("get retailer %s: %w", retailerID, err)
	}
	if r == nil {
		return nil, domain.ErrRetailerNotFound
	}
	return r, nil
}

func (s *OrderStore) UpdateRetailer(ctx context.Context, retailerID string, update domain.RetailerUpdate) error {
	if update.Empty() {
		return domain.ErrNoUpdates
	}
	ok, err := s.repo.UpdateRetailer(ctx, retailerID, update)
	if err != nil {
		return fmt.Errorf("update retailer %s: %w", retailerID, err)
	}
	if !ok {
		return domain.ErrRetailerNotFound
	}
	return nil
}

// DeleteRetailer removes the retailer. Orders keep their retailer id.
func (s *OrderStore) DeleteRetailer(ctx context.Context, retailerID string) error {
	ok, err := s.repo.DeleteRetailer(ctx, retailerID)
	if err != nil {
		return fmt.Errorf("delete retailer %s: %w", retailerID, err)
	}
	if !ok {
		return domain.ErrRetailerNotFound
	}
	return nil
}

func (s *OrderStore) ListRetailers(ctx context.Context) ([]domain.Retailer, error) {
	return s.repo.ListRetailers(ctx)
}

func (s *OrderStore) RetailerExists(ctx context.Context, retailerID string) (bool, error) {
	r, err := s.repo.GetRetailer(ctx, retailerID)
	if err != nil {
		return false, err
	}
	return r != nil, nil
}

func (s *OrderStore) CreateOrder(ctx context.Context, orderID, retailerID string) (*domain.Order, error) {
	if orderID == "" || retailerID == "" {
		return nil, domain.ErrInvalidInput
	}
	ok, err := s.RetailerExists(ctx, retailerID)
	if err != nil {
		return nil, fmt.Errorf("check retailer %s: %w", retailerID, err)
	}
	if !ok {
		return nil, domain.ErrRetailerNotFound
	}

	order := domain.Order{
		ID:         orderID,
		RetailerID: retailerID,
		OrderDate:  s.now().UTC(),
	}
	if err := s.repo.InsertOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("create order %s: %w", orderID, err)
	}

	s.logger.Debug("order created", zap.String("order_id", orderID), zap.String("retailer_id", retailerID))
	return &order, nil
}

func (s *OrderStore) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	o, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order %s: %w", orderID, err)
	}
	if o == nil {
		return nil, domain.ErrOrderNotFound
	}
	return o, nil
}

func (s *OrderStore) OrderExists(ctx context.Context, orderID string) (bool, error) {
	o, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return false, err
	}
	return o != nil, nil
}

// UpdateOrder reassigns the order to newRetailerID. An empty id leaves the
// order unchanged.
func (s *OrderStore) UpdateOrder(ctx context.Context, orderID, newRetailerID string) (*domain.Order, error) {
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if newRetailerID == "" || newRetailerID == order.RetailerID {
		return order, nil
	}

	ok, err := s.RetailerExists(ctx, newRetailerID)
	if err != nil {
		return nil, fmt.Errorf("check retailer %s: %w", newRetailerID, err)
	}
	if !ok {
		return nil, domain.ErrRetailerNotFound
	}

	ok, err = s.repo.SetOrderRetailer(ctx, orderID, newRetailerID)
	if err != nil {
		return nil, fmt.Errorf("update order %s: %w", orderID, err)
	}
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	order.RetailerID = newRetailerID
	return order, nil
}

// DeleteOrder removes the order document only. Its lines, and the inventory
// they hold, are left to OrderLineService.
func (s *OrderStore) DeleteOrder(ctx context.Context, orderID string) error {
	ok, err := s.repo.DeleteOrder(ctx, orderID)
	if err != nil {
		return fmt.Errorf("delete order %s: %w", orderID, err)
	}
	if !ok {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (s *OrderStore) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return s.repo.ListOrders(ctx)
}
