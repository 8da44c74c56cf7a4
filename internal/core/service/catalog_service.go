package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rl1809/retail-inventory/internal/core/domain"
	"github.com/rl1809/retail-inventory/internal/port"
)

// ProductCatalog manages products and suppliers. A product may only be
// created for a supplier that already exists.
type ProductCatalog struct {
	repo   port.CatalogRepository
	logger *zap.Logger
}

func NewProductCatalog(repo port.CatalogRepository, logger *zap.Logger) *ProductCatalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductCatalog{repo: repo, logger: logger.Named("catalog")}
}

func (c *ProductCatalog) CreateSupplier(ctx context.Context, supplier domain.Supplier) error {
	if supplier.ID == "" || supplier.Name == "" {
		return domain.ErrInvalidInput
	}
	ok, err := c.repo.CreateSupplier(ctx, supplier)
	if err != nil {
		return fmt.Errorf("create supplier %s: %w", supplier.ID, err)
	}
	if !ok {
		return fmt.Errorf("supplier %s: %w", supplier.ID, domain.ErrAlreadyExists)
	}
	return nil
}

func (c *ProductCatalog) GetSupplier(ctx context.Context, supplierID string) (*domain.Supplier, error) {
	s, err := c.repo.GetSupplier(ctx, supplierID)
	if err != nil {
		return nil, fmt.Errorf("get supplier %s: %w", supplierID, err)
	}
	if s == nil {
		return nil, domain.ErrSupplierNotFound
	}
	return s, nil
}

func (c *ProductCatalog) UpdateSupplier(ctx context.Context, supplierID string, update domain.SupplierUpdate) error {
	if update.Empty() {
		return domain.ErrNoUpdates
	}
	ok, err := c.repo.UpdateSupplier(ctx, supplierID, update)
	if err != nil {
		return fmt.Errorf("update supplier %s: %w", supplierID, err)
	}
	if !ok {
		return domain.ErrSupplierNotFound
	}
	return nil
}

// DeleteSupplier does not cascade; products keep the dangling supplier id.
func (c *ProductCatalog) DeleteSupplier(ctx context.Context, supplierID string) error {
	ok, err := c.repo.DeleteSupplier(ctx, supplierID)
	if err != nil {
		return fmt.Errorf("delete supplier %s: %w", supplierID, err)
	}
	if !ok {
		return domain.ErrSupplierNotFound
	}
	return nil
}

func (c *ProductCatalog) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	return c.repo.ListSuppliers(ctx)
}

func (c *ProductCatalog) SupplierExists(ctx context.Context, supplierID string) (bool, error) {
	return c.repo.SupplierExists(ctx, supplierID)
}

func (c *ProductCatalog) CreateProduct(ctx context.Context, product domain.Product) error {
	if product.ID == "" || product.Name == "" || product.SupplierID == "" {
		return domain.ErrInvalidInput
	}
	if product.Price < 0 {
		return fmt.Errorf("price must not be negative: %w", domain.ErrInvalidInput)
	}

	res, err := c.repo.CreateProduct(ctx, product)
	if err != nil {
		return fmt.Errorf("create product %s: %w", product.ID, err)
	}
	switch res {
	case port.ProductSupplierMissing:
		return domain.ErrSupplierNotFound
	case port.ProductDuplicate:
		return fmt.Errorf("product %s: %w", product.ID, domain.ErrAlreadyExists)
	}
	return nil
}

func (c *ProductCatalog) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	p, err := c.repo.GetProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get product %s: %w", productID, err)
	}
	if p == nil {
		return nil, domain.ErrProductNotFound
	}
	return p, nil
}

func (c *ProductCatalog) UpdateProduct(ctx context.Context, productID string, update domain.ProductUpdate) error {
	if update.Empty() {
		return domain.ErrNoUpdates
	}
	if update.Price != nil && *update.Price < 0 {
		return fmt.Errorf("price must not be negative: %w", domain.ErrInvalidInput)
	}
	ok, err := c.repo.UpdateProduct(ctx, productID, update)
	if err != nil {
		return fmt.Errorf("update product %s: %w", productID, err)
	}
	if !ok {
		return domain.ErrProductNotFound
	}
	return nil
}

// DeleteProduct removes the catalog entry. Inventory that references it is
// untouched; the reference was only checked at inventory creation.
func (c *ProductCatalog) DeleteProduct(ctx context.Context, productID string) error {
	ok, err := c.repo.DeleteProduct(ctx, productID)
	if err != nil {
		return fmt.Errorf("delete product %s: %w", productID, err)
	}
	if !ok {
		return domain.ErrProductNotFound
	}
	return nil
}

func (c *ProductCatalog) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return c.repo.ListProducts(ctx)
}

func (c *ProductCatalog) ProductExists(ctx context.Context, productID string) (bool, error) {
	return c.repo.ProductExists(ctx, productID)
}
