package port

import (
	"context"

	"github.com/rl1809/retail-inventory/internal/core/domain"
)

// InventoryRepository stores inventory records in the document store.
// Get methods return nil, nil when the record is absent.
type InventoryRepository interface {
	// Insert returns domain.ErrAlreadyExists if the id or product already has a record
	Insert(ctx context.Context, inv domain.Inventory) error
	Get(ctx context.Context, inventoryID string) (*domain.Inventory, error)
	GetByProduct(ctx context.Context, productID string) (*domain.Inventory, error)
	List(ctx context.Context) ([]domain.Inventory, error)

	// SetQuantity overwrites the quantity, returns nil if the record is absent
	SetQuantity(ctx context.Context, inventoryID string, quantity int) (*domain.Inventory, error)

	// Decrement atomically subtracts amount when quantity >= amount.
	// Returns domain.ErrInventoryNotFound or domain.ErrInsufficientQuantity.
	Decrement(ctx context.Context, productID string, amount int) (*domain.Inventory, error)

	// Increment atomically adds amount, returns domain.ErrInventoryNotFound if absent
	Increment(ctx context.Context, productID string, amount int) (*domain.Inventory, error)

	// Delete removes the record and returns it, nil if it was absent
	Delete(ctx context.Context, inventoryID string) (*domain.Inventory, error)
}

// OrderRepository stores orders and retailers in the document store.
type OrderRepository interface {
	// InsertRetailer returns domain.ErrAlreadyExists on a duplicate id
	InsertRetailer(ctx context.Context, retailer domain.Retailer) error
	GetRetailer(ctx context.Context, retailerID string) (*domain.Retailer, error)
	UpdateRetailer(ctx context.Context, retailerID string, update domain.RetailerUpdate) (bool, error)
	DeleteRetailer(ctx context.Context, retailerID string) (bool, error)
	ListRetailers(ctx context.Context) ([]domain.Retailer, error)

	// InsertOrder returns domain.ErrAlreadyExists on a duplicate id
	InsertOrder(ctx context.Context, order domain.Order) error
	GetOrder(ctx context.Context, orderID string) (*domain.Order, error)
	SetOrderRetailer(ctx context.Context, orderID, retailerID string) (bool, error)
	DeleteOrder(ctx context.Context, orderID string) (bool, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
}

// OrderLineRepository stores order lines keyed by (order, product).
type OrderLineRepository interface {
	// Insert returns domain.ErrAlreadyExists if the pair already has a line
	Insert(ctx context.Context, line domain.OrderLine) error
	Get(ctx context.Context, orderID, productID string) (*domain.OrderLine, error)
	// SetQuantity writes quantity only while the line still holds expected.
	// It returns false if the line is absent and domain.ErrLineChanged if the
	// line holds another quantity.
	SetQuantity(ctx context.Context, orderID, productID string, expected, quantity int) (bool, error)
	// Delete removes the line only while it still holds expected, with the
	// same results as SetQuantity.
	Delete(ctx context.Context, orderID, productID string, expected int) (bool, error)
	ListByOrder(ctx context.Context, orderID string) ([]domain.OrderLine, error)
	List(ctx context.Context) ([]domain.OrderLine, error)
}
