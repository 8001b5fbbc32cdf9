// Package handler exposes the storefront HTTP API: public catalog and order
// intake endpoints, and session-gated admin endpoints for order management,
// notification resend, and site settings.
package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/inkpaper/atelier-api/internal/domain/order"
	"github.com/inkpaper/atelier-api/internal/domain/product"
	"github.com/inkpaper/atelier-api/internal/domain/settings"
	"github.com/inkpaper/atelier-api/internal/notify"
	"github.com/inkpaper/atelier-api/pkg/httpmiddleware"
)

// Dispatcher triggers an order notification and reports the outcome. It is
// the seam the admin resend endpoint shares with the intake pipeline.
type Dispatcher interface {
	Dispatch(ctx context.Context, orderID string) (*notify.Result, error)
}

// Handler implements the storefront HTTP API, delegating business logic to
// the injected domain dependencies.
type Handler struct {
	products     product.Repository
	orderService *order.Service
	orders       order.Repository
	settings     settings.Repository
	dispatcher   Dispatcher
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	products product.Repository,
	orderService *order.Service,
	orders order.Repository,
	settings settings.Repository,
	dispatcher Dispatcher,
) *Handler {
	return &Handler{
		products:     products,
		orderService: orderService,
		orders:       orders,
		settings:     settings,
		dispatcher:   dispatcher,
	}
}

// Register mounts all API routes on mux. Admin routes are wrapped with the
// given session gate.
func (h *Handler) Register(mux *http.ServeMux, gate httpmiddleware.Middleware) {
	mux.HandleFunc("POST /api/orders", h.createOrder)
	mux.HandleFunc("GET /api/products", h.listProducts)
	mux.HandleFunc("GET /api/products/{id}", h.getProduct)
	mux.HandleFunc("GET /api/settings", h.getSettings)

	mux.Handle("POST /api/orders/notify", gate(http.HandlerFunc(h.dispatchNotification)))
	mux.Handle("GET /api/admin/orders", gate(http.HandlerFunc(h.listOrders)))
	mux.Handle("PATCH /api/admin/orders/{id}", gate(http.HandlerFunc(h.updateOrderStatus)))
	mux.Handle("PUT /api/admin/settings", gate(http.HandlerFunc(h.updateSettings)))
}

// errorResponse is the JSON error envelope shared by all endpoints.
type errorResponse struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Code: status, Message: message})
}

func writeValidationError(w http.ResponseWriter, vErr *order.ValidationError) {
	writeJSON(w, http.StatusBadRequest, errorResponse{
		Code:    http.StatusBadRequest,
		Message: "validation failed",
		Fields:  vErr.Fields,
	})
}

// writeInternalError logs the unexpected error and responds with a generic
// 500 so internals never leak to clients.
func writeInternalError(w http.ResponseWriter, r *http.Request, err error) {
	zctx.From(r.Context()).Error("Request failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal server error")
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}
