package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rl1809/retail-inventory/internal/core/domain"
)

func (h *HTTPHandler) CreateSupplier(w http.ResponseWriter, r *http.Request) {
	var req domain.Supplier
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.svc.Catalog.CreateSupplier(r.Context(), req); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusCreated, "supplier created", req)
}

func (h *HTTPHandler) GetSupplier(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.Catalog.GetSupplier(r.Context(), chi.URLParam(r, "supplierID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, "supplier found", s)
}

func (h *HTTPHandler) UpdateSupplier(w http.ResponseWriter, r *http.Request) {
	var req domain.SupplierUpdate
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.svc.Catalog.UpdateSupplier(r.Context(), chi.URLParam(r, "supplierID"), req); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, "supplier updated", nil)
}

func (h *HTTPHandler) DeleteSupplier(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Catalog.DeleteSupplier(r.Context(), chi.URLParam(r, "supplierID")); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, "supplier deleted", nil)
}

func (h *HTTPHandler) ListSuppliers(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.Catalog.ListSuppliers(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, "suppliers", list)
}

func (h *HTTPHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req domain.Product
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.svc.Catalog.CreateProduct(r.Context(), req); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusCreated, "product created", req)
}

func (h *HTTPHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Catalog.GetProduct(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, "product found", p)
}

func (h *HTTPHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req domain.ProductUpdate
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.svc.Catalog.UpdateProduct(r.Context(), chi.URLParam(r, "productID"), req); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, "product updated", nil)
}

func (h *HTTPHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Catalog.DeleteProduct(r.Context(), chi.URLParam(r, "productID")); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, "product deleted", nil)
}

func (h *HTTPHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.Catalog.ListProducts(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, "products", list)
}

func (h *HTTPHandler) ProductsBySupplier(w http.ResponseWriter, r *http.Request) {
	names, err := h.svc.Reporting.ProductsBySupplier(r.Context(), chi.URLParam(r, "supplierID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, "products by supplier", names)
}

func (h *HTTPHandler) MostExpensiveProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Reporting.MostExpensiveProduct(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, "most expensive product", p)
}
