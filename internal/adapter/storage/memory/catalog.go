package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/rl1809/retail-inventory/internal/core/domain"
	"github.com/rl1809/retail-inventory/internal/port"
)

type Catalog struct {
	mu        sync.RWMutex
	products  map[string]domain.Product
	suppliers map[string]domain.Supplier
}

func NewCatalog() *Catalog {
	return &Catalog{
		products:  make(map[string]domain.Product),
		suppliers: make(map[string]domain.Supplier),
	}
}

var _ port.CatalogRepository = (*Catalog)(nil)

func (c *Catalog) CreateSupplier(ctx context.Context, supplier domain.Supplier) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.suppliers[supplier.ID]; ok {
		return false, nil
	}
	c.suppliers[supplier.ID] = supplier
	return true, nil
}

func (c *Catalog) GetSupplier(ctx context.Context, supplierID string) (*domain.Supplier, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s, ok := c.suppliers[supplierID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (c *Catalog) UpdateSupplier(ctx context.Context, supplierID string, update domain.SupplierUpdate) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.suppliers[supplierID]
	if !ok {
		return false, nil
	}
	if update.Name != nil {
		s.Name = *update.Name
	}
	if update.Location != nil {
		s.Location = *update.Location
	}
	if update.Contact != nil {
		s.Contact = *update.Contact
	}
	c.suppliers[supplierID] = s
	return true, nil
}

func (c *Catalog) DeleteSupplier(ctx context.Context, supplierID string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.suppliers[supplierID]; !ok {
		return false, nil
	}
	delete(c.suppliers, supplierID)
	return true, nil
}

func (c *Catalog) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.Supplier, 0, len(c.suppliers))
	for _, s := range c.suppliers {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (c *Catalog) SupplierExists(ctx context.Context, supplierID string) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.suppliers[supplierID]
	return ok, nil
}

func (c *Catalog) CreateProduct(ctx context.Context, product domain.Product) (port.ProductCreateResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.suppliers[product.SupplierID]; !ok {
		return port.ProductSupplierMissing, nil
	}
	if _, ok := c.products[product.ID]; ok {
		return port.ProductDuplicate, nil
	}
	c.products[product.ID] = product
	return port.ProductCreated, nil
}

func (c *Catalog) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.products[productID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (c *Catalog) UpdateProduct(ctx context.Context, productID string, update domain.ProductUpdate) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.products[productID]
	if !ok {
		return false, nil
	}
	if update.Name != nil {
		p.Name = *update.Name
	}
	if update.Description != nil {
		p.Description = *update.Description
	}
	if update.Price != nil {
		p.Price = *update.Price
	}
	c.products[productID] = p
	return true, nil
}

func (c *Catalog) DeleteProduct(ctx context.Context, productID string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.products[productID]; !ok {
		return false, nil
	}
	delete(c.products, productID)
	return true, nil
}

func (c *Catalog) ListProducts(ctx context.Context) ([]domain.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.Product, 0, len(c.products))
	for _, p := range c.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (c *Catalog) ProductExists(ctx context.Context, productID string) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.products[productID]
	return ok, nil
}
