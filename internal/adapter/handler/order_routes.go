package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rl1809/retail-inventory/internal/core/domain"
)

type createOrderRequest struct {
	OrderID    string `json:"order_id"`
	RetailerID string `json:"retailer_id"`
}

type updateOrderRequest struct {
	RetailerID string `json:"retailer_id"`
}

type createOrderLineRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func (h *HTTPHandler) CreateRetailer(w http.ResponseWriter, r *http.Request) {
	var req domain.Retailer
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.svc.Orders.CreateRetailer(r.Context(), req); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusCreated, "retailer created", req)
}

func (h *HTTPHandler) GetRetailer(w http.ResponseWriter, r *http.Request) {
	ret, err := h.svc.Orders.GetRetailer(r.Context(), chi.URLParam(r, "retailerID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, "retailer found", ret)
}

func (h *HTTPHandler) UpdateRetailer(w http.ResponseWriter, r *http.Request) {
	var req domain.RetailerUpdate
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.svc.Orders.UpdateRetailer(r.Context(), chi.URLParam(r, "retailerID"), req); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, "retailer updated", nil)
}

func (h *HTTPHandler) DeleteRetailer(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Orders.DeleteRetailer(r.Context(), chi.URLParam(r, "retailerID")); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, "retailer deleted", nil)
}

func (h *HTTPHandler) ListRetailers(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.Orders.ListRetailers(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, "retailers", list)
}

func (h *HTTPHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	order, err := h.svc.Orders.CreateOrder(r.Context(), req.OrderID, req.RetailerID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusCreated, "order created", order)
}

func (h *HTTPHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.svc.Orders.GetOrder(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, "order found", order)
}

func (h *HTTPHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	var req updateOrderRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	order, err := h.svc.Orders.UpdateOrder(r.Context(), chi.URLParam(r, "orderID"), req.RetailerID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, "order updated", order)
}

func (h *HTTPHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Orders.DeleteOrder(r.Context(), chi.URLParam(r, "orderID")); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, "order deleted", nil)
}

func (h *HTTPHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.Orders.ListOrders(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, "orders", list)
}

func (h *HTTPHandler) CreateOrderLine(w http.ResponseWriter, r *http.Request) {
	var req createOrderLineRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	line, err := h.svc.OrderLines.Create(r.Context(), chi.URLParam(r, "orderID"), req.ProductID, req.Quantity)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusCreated, "order line added", line)
}

func (h *HTTPHandler) GetOrderLine(w http.ResponseWriter, r *http.Request) {
	line, err := h.svc.OrderLines.Retrieve(r.Context(), chi.URLParam(r, "orderID"), chi.URLParam(r, "productID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, "order line found", line)
}

func (h *HTTPHandler) UpdateOrderLine(w http.ResponseWriter, r *http.Request) {
	var req quantityRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	line, err := h.svc.OrderLines.Update(r.Context(), chi.URLParam(r, "orderID"), chi.URLParam(r, "productID"), req.Quantity)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, "order line and inventory updated", line)
}

func (h *HTTPHandler) DeleteOrderLine(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.OrderLines.Delete(r.Context(), chi.URLParam(r, "orderID"), chi.URLParam(r, "productID")); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, "order line deleted and inventory restored", nil)
}

func (h *HTTPHandler) ListOrderLines(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.OrderLines.ListByOrder(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, "order lines", list)
}

func (h *HTTPHandler) ListAllOrderLines(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.OrderLines.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, http.StatusOK, "order lines", list)
}
