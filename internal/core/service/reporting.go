package service

import (
	"context"
	"sort"

	"github.com/rl1809/retail-inventory/internal/core/domain"
)

// ProductLister lists the whole catalog.
type ProductLister interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

// Reporting runs read-only scans over the catalog.
type Reporting struct {
	products ProductLister
}

func NewReporting(products ProductLister) *Reporting {
	return &Reporting{products: products}
}

// PriciestProduct is the result of MostExpensiveProduct.
type PriciestProduct struct {
	SupplierID string  `json:"supplier_id"`
	ProductID  string  `json:"product_id"`
	Price      float64 `json:"price"`
}

// ProductsBySupplier returns the names of the supplier's products, sorted.
func (r *Reporting) ProductsBySupplier(ctx context.Context, supplierID string) ([]string, error) {
	products, err := r.products.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0)
	for _, p := range products {
		if p.SupplierID == supplierID {
			names = append(names, p.Name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// MostExpensiveProduct returns the highest-priced product and its supplier.
// Ties go to the lowest product id so the answer is stable across scans.
func (r *Reporting) MostExpensiveProduct(ctx context.Context) (*PriciestProduct, error) {
	products, err := r.products.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	var best *PriciestProduct
	for _, p := range products {
		if best == nil || p.Price > best.Price || (p.Price == best.Price && p.ID < best.ProductID) {
			best = &PriciestProduct{SupplierID: p.SupplierID, ProductID: p.ID, Price: p.Price}
		}
	}
	if best == nil {
		return nil, domain.ErrProductNotFound
	}
	return best, nil
}
