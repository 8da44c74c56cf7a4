package port

import (
	"context"

	"github.com/rl1809/retail-inventory/internal/core/domain"
)

// CatalogRepository stores products and suppliers in the key-value store.
// Get methods return nil, nil when the entity is absent.
type CatalogRepository interface {
	// CreateSupplier inserts the supplier, returns false if the id is taken
	CreateSupplier(ctx context.Context, supplier domain.Supplier) (bool, error)
	GetSupplier(ctx context.Context, supplierID string) (*domain.Supplier, error)
	// UpdateSupplier applies the set fields, returns false if the supplier is absent
	UpdateSupplier(ctx context.Context, supplierID string, update domain.SupplierUpdate) (bool, error)
	DeleteSupplier(ctx context.Context, supplierID string) (bool, error)
	ListSuppliers(ctx context.Context) ([]domain.Supplier, error)
	SupplierExists(ctx context.Context, supplierID string) (bool, error)

	// CreateProduct inserts the product only if its supplier exists and the id is free
	CreateProduct(ctx context.Context, product domain.Product) (ProductCreateResult, error)
	GetProduct(ctx context.Context, productID string) (*domain.Product, error)
	UpdateProduct(ctx context.Context, productID string, update domain.ProductUpdate) (bool, error)
	DeleteProduct(ctx context.Context, productID string) (bool, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ProductExists(ctx context.Context, productID string) (bool, error)
}

type ProductCreateResult int

const (
	ProductCreated ProductCreateResult = iota
	ProductSupplierMissing
	ProductDuplicate
)
