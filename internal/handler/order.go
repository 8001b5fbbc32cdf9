package handler

import (
	"net/http"
	"time"

	"github.com/go-faster/errors"

	"github.com/inkpaper/atelier-api/internal/domain/order"
	"github.com/inkpaper/atelier-api/internal/domain/product"
	"github.com/inkpaper/atelier-api/internal/notify"
)

type createOrderRequest struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Name      string  `json:"name"`
	Contact   string  `json:"contact"`
	Message   *string `json:"message,omitempty"`
}

type orderResponse struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Contact          string  `json:"contact"`
	Message          *string `json:"message,omitempty"`
	ProductID        *string `json:"productId,omitempty"`
	ProductName      string  `json:"productName"`
	Quantity         int     `json:"quantity"`
	TotalPrice       string  `json:"totalPrice"`
	Status           string  `json:"status"`
	NotificationSent bool    `json:"notificationSent"`
	CreatedAt        string  `json:"createdAt"`
	UpdatedAt        string  `json:"updatedAt"`
}

func toOrderResponse(o *order.Order) orderResponse {
	return orderResponse{
		ID:               o.ID,
		Name:             o.CustomerName,
		Contact:          o.CustomerContact,
		Message:          o.Message,
		ProductID:        o.ProductID,
		ProductName:      o.ProductName,
		Quantity:         o.Quantity,
		TotalPrice:       o.TotalPrice.StringFixed(2),
		Status:           string(o.Status),
		NotificationSent: o.NotificationSent,
		CreatedAt:        o.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:        o.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// createOrder resolves the product server-side so the catalog snapshot in the
// order (name, unit price) can never be forged by the client.
func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if !decodeBody(w, r, &req) {
		return
	}

	p, err := h.products.GetByID(r.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		writeInternalError(w, r, err)
		return
	}
	if !p.IsAvailable {
		writeError(w, http.StatusUnprocessableEntity, "product is not available")
		return
	}

	o, err := h.orderService.PlaceOrder(r.Context(), order.PlaceOrderRequest{
		CustomerName: req.Name,
		Contact:      req.Contact,
		Message:      req.Message,
		ProductID:    p.ID,
		ProductName:  p.Name,
		Quantity:     req.Quantity,
		UnitPrice:    p.Price,
	})
	if err != nil {
		var vErr *order.ValidationError
		if errors.As(err, &vErr) {
			writeValidationError(w, vErr)
			return
		}
		writeInternalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toOrderResponse(o))
}

type notifyRequest struct {
	OrderID string `json:"orderId"`
}

// dispatchNotification re-runs the notification pipeline for an order. Every
// call re-sends; an already-notified order simply gets a second message.
func (h *Handler) dispatchNotification(w http.ResponseWriter, r *http.Request) {
	var req notifyRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.OrderID == "" {
		writeError(w, http.StatusBadRequest, "Missing orderId")
		return
	}

	res, err := h.dispatcher.Dispatch(r.Context(), req.OrderID)
	if err != nil {
		var notFound *notify.OrderNotFoundError
		var delivery *notify.DeliveryError
		switch {
		case errors.As(err, &notFound):
			writeError(w, http.StatusNotFound, "Order not found")
		case errors.As(err, &delivery):
			writeError(w, http.StatusBadGateway, "failed to send notification")
		default:
			writeInternalError(w, r, err)
		}
		return
	}

	if res.Status == notify.StatusNotConfigured {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Telegram not configured"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
