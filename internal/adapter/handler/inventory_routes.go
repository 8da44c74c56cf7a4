package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type createInventoryRequest struct {
	InventoryID string `json:"inventory_id"`
	ProductID   string `json:"product_id"`
	Quantity    int    `json:"quantity"`
	Location    string `json:"location"`
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *HTTPHandler) CreateInventory(w http.ResponseWriter, r *http.Request) {
	var req createInventoryRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	inv, err := h.svc.Ledger.Create(r.Context(), req.InventoryID, req.ProductID, req.Quantity, req.Location)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusCreated, "inventory item created", inv)
}

func (h *HTTPHandler) GetInventory(w http.ResponseWriter, r *http.Request) {
	inv, err := h.svc.Ledger.Get(r.Context(), chi.URLParam(r, "inventoryID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, "inventory item found", inv)
}

func (h *HTTPHandler) SetInventoryQuantity(w http.ResponseWriter, r *http.Request) {
	var req quantityRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	inv, err := h.svc.Ledger.SetQuantity(r.Context(), chi.URLParam(r, "inventoryID"), req.Quantity)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, "inventory item updated", inv)
}

func (h *HTTPHandler) DeleteInventory(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Ledger.Delete(r.Context(), chi.URLParam(r, "inventoryID")); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, "inventory item deleted", nil)
}

func (h *HTTPHandler) ListInventory(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.Ledger.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, "inventory", list)
}

func (h *HTTPHandler) ListMovements(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.Ledger.Movements(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, "movements", list)
}
