package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/rl1809/retail-inventory/internal/core/domain"
	"github.com/rl1809/retail-inventory/internal/core/service"
)

type Services struct {
	Ledger     *service.InventoryLedger
	Orders     *service.OrderStore
	OrderLines *service.OrderLineService
	Catalog    *service.ProductCatalog
	Reporting  *service.Reporting
}

type HTTPHandler struct {
	svc     Services
	timeout time.Duration
	logger  *zap.Logger
}

// Response is the envelope of every reply. Kind is set on failures.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Kind    string      `json:"kind,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// NewHTTPHandler builds the REST handler. A positive timeout bounds every
// request's context.
func NewHTTPHandler(svc Services, timeout time.Duration, logger *zap.Logger) *HTTPHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPHandler{svc: svc, timeout: timeout, logger: logger.Named("http")}
}

func (h *HTTPHandler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	if h.timeout > 0 {
		r.Use(middleware.Timeout(h.timeout))
	}

	r.Get("/health", h.HealthCheck)

	r.Route("/suppliers", func(r chi.Router) {
		r.Get("/", h.ListSuppliers)
		r.Post("/", h.CreateSupplier)
		r.Get("/{supplierID}", h.GetSupplier)
		r.Patch("/{supplierID}", h.UpdateSupplier)
		r.Delete("/{supplierID}", h.DeleteSupplier)
	})
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Post("/", h.CreateProduct)
		r.Get("/{productID}", h.GetProduct)
		r.Patch("/{productID}", h.UpdateProduct)
		r.Delete("/{productID}", h.DeleteProduct)
		r.Get("/{productID}/movements", h.ListMovements)
	})
	r.Route("/inventory", func(r chi.Router) {
		r.Get("/", h.ListInventory)
		r.Post("/", h.CreateInventory)
		r.Get("/{inventoryID}", h.GetInventory)
		r.Put("/{inventoryID}/quantity", h.SetInventoryQuantity)
		r.Delete("/{inventoryID}", h.DeleteInventory)
	})
	r.Route("/retailers", func(r chi.Router) {
		r.Get("/", h.ListRetailers)
		r.Post("/", h.CreateRetailer)
		r.Get("/{retailerID}", h.GetRetailer)
		r.Patch("/{retailerID}", h.UpdateRetailer)
		r.Delete("/{retailerID}", h.DeleteRetailer)
	})
	r.Route("/orders", func(r chi.Router) {
		r.Get("/", h.ListOrders)
		r.Post("/", h.CreateOrder)
		r.Get("/{orderID}", h.GetOrder)
		r.Patch("/{orderID}", h.UpdateOrder)
		r.Delete("/{orderID}", h.DeleteOrder)

		r.Get("/{orderID}/lines", h.ListOrderLines)
		r.Post("/{orderID}/lines", h.CreateOrderLine)
		r.Get("/{orderID}/lines/{productID}", h.GetOrderLine)
		r.Put("/{orderID}/lines/{productID}", h.UpdateOrderLine)
		r.Delete("/{orderID}/lines/{productID}", h.DeleteOrderLine)
	})
	r.Get("/order-lines", h.ListAllOrderLines)
	r.Route("/reports", func(r chi.Router) {
		r.Get("/suppliers/{supplierID}/products", h.ProductsBySupplier)
		r.Get("/most-expensive-product", h.MostExpensiveProduct)
	})

	return r
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decode reads the JSON body into dst. Unknown fields and values of the
// wrong type (a fractional quantity, for one) are rejected.
func decode(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return &domain.Error{Kind: domain.KindInvalidInput, Message: "invalid request body", Err: err}
	}
	return nil
}

func (h *HTTPHandler) ok(w http.ResponseWriter, status int, message string, data interface{}) {
	writeJSON(w, status, Response{Success: true, Message: message, Data: data})
}

func (h *HTTPHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	kind := domain.KindOf(err)
	status := statusFor(kind)

	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("kind", kind.String()),
			zap.Error(err),
		)
	}

	message := err.Error()
	if kind == domain.KindUnknown {
		message = "internal error"
	}
	var pe *domain.PartiallyAppliedError
	if errors.As(err, &pe) {
		message = pe.Op + " partially applied; reconciliation required"
	}

	writeJSON(w, status, Response{Success: false, Message: message, Kind: kind.String()})
}

func statusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindInvalidInput, domain.KindNoUpdates:
		return http.StatusBadRequest
	case domain.KindInsufficientInventory, domain.KindAlreadyExists, domain.KindConflict:
		return http.StatusConflict
	case domain.KindDependencyUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
