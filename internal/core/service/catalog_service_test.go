package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/retail-inventory/internal/adapter/storage/memory"
	"github.com/rl1809/retail-inventory/internal/core/domain"
)

func TestCatalogSuppliers(t *testing.T) {
	c := NewProductCatalog(memory.NewCatalog(), nil)
	ctx := context.Background()

	require.NoError(t, c.CreateSupplier(ctx, domain.Supplier{ID: "S1", Name: "Acme", Location: "Lyon"}))
	assert.ErrorIs(t, c.CreateSupplier(ctx, domain.Supplier{ID: "S1", Name: "Acme"}), domain.ErrAlreadyExists)
	assert.ErrorIs(t, c.CreateSupplier(ctx, domain.Supplier{Name: "No id"}), domain.ErrInvalidInput)

	name := "Acme Corp"
	require.NoError(t, c.UpdateSupplier(ctx, "S1", domain.SupplierUpdate{Name: &name}))
	s, err := c.GetSupplier(ctx, "S1")
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", s.Name)
	assert.Equal(t, "Lyon", s.Location)

	assert.ErrorIs(t, c.UpdateSupplier(ctx, "S1", domain.SupplierUpdate{}), domain.ErrNoUpdates)
	assert.ErrorIs(t, c.UpdateSupplier(ctx, "S9", domain.SupplierUpdate{Name: &name}), domain.ErrSupplierNotFound)

	require.NoError(t, c.DeleteSupplier(ctx, "S1"))
	assert.ErrorIs(t, c.DeleteSupplier(ctx, "S1"), domain.ErrSupplierNotFound)
}

func TestCatalogProducts(t *testing.T) {
	c := NewProductCatalog(memory.NewCatalog(), nil)
	ctx := context.Background()

	p := domain.Product{ID: "P1", Name: "Widget", Price: 2.5, SupplierID: "S1"}
	assert.ErrorIs(t, c.CreateProduct(ctx, p), domain.ErrSupplierNotFound)

	require.NoError(t, c.CreateSupplier(ctx, domain.Supplier{ID: "S1", Name: "Acme"}))
	require.NoError(t, c.CreateProduct(ctx, p))
	assert.ErrorIs(t, c.CreateProduct(ctx, p), domain.ErrAlreadyExists)

	neg := p
	neg.ID, neg.Price = "P2", -1
	assert.ErrorIs(t, c.CreateProduct(ctx, neg), domain.ErrInvalidInput)

	ok, err := c.ProductExists(ctx, "P1")
	require.NoError(t, err)
	assert.True(t, ok)

	price := 4.25
	require.NoError(t, c.UpdateProduct(ctx, "P1", domain.ProductUpdate{Price: &price}))
	got, err := c.GetProduct(ctx, "P1")
	require.NoError(t, err)
	assert.Equal(t, 4.25, got.Price)
	assert.Equal(t, "Widget", got.Name)

	bad := -2.0
	assert.ErrorIs(t, c.UpdateProduct(ctx, "P1", domain.ProductUpdate{Price: &bad}), domain.ErrInvalidInput)
	assert.ErrorIs(t, c.UpdateProduct(ctx, "P1", domain.ProductUpdate{}), domain.ErrNoUpdates)
	assert.ErrorIs(t, c.UpdateProduct(ctx, "P9", domain.ProductUpdate{Price: &price}), domain.ErrProductNotFound)

	require.NoError(t, c.DeleteProduct(ctx, "P1"))
	_, err = c.GetProduct(ctx, "P1")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}
