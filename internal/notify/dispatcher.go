// Package notify implements the order notification pipeline: load an order,
// format a human-readable summary, and deliver it to the configured Telegram
// chat, preferring an image message and falling back to plain text.
package notify

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/inkpaper/atelier-api/internal/domain/order"
	"github.com/inkpaper/atelier-api/internal/domain/product"
	"github.com/inkpaper/atelier-api/internal/domain/settings"
)

// Messenger abstracts the outbound messaging endpoint. Credentials travel per
// call because they come from the site settings record, not from process
// configuration.
type Messenger interface {
	SendMessage(ctx context.Context, botToken, chatID, text string) error
	SendPhoto(ctx context.Context, botToken, chatID, photoURL, caption string) error
}

// Status describes the outcome of a dispatch that did not error.
type Status string

const (
	// StatusDelivered means the notification reached the messaging endpoint.
	StatusDelivered Status = "delivered"
	// StatusNotConfigured means messaging credentials are absent and the
	// dispatch was a deliberate no-op.
	StatusNotConfigured Status = "not_configured"
)

// Result reports a successful (non-error) dispatch outcome.
type Result struct {
	Status Status
	// FellBack is true when the image attempt failed and delivery succeeded
	// via the plain text fallback.
	FellBack bool
}

// OrderNotFoundError indicates the dispatched order ID does not exist.
// No network call is made in that case.
type OrderNotFoundError struct {
	OrderID string
}

func (e *OrderNotFoundError) Error() string {
	return fmt.Sprintf("order %s not found", e.OrderID)
}

// DeliveryError indicates every delivery attempt failed. The order itself is
// unaffected and its notification flag stays false.
type DeliveryError struct {
	// ImageErr is the failed image attempt, nil when no image was tried.
	ImageErr error
	// TextErr is the failed plain text attempt.
	TextErr error
}

func (e *DeliveryError) Error() string {
	if e.ImageErr != nil {
		return fmt.Sprintf("notification delivery failed: image: %v; text: %v", e.ImageErr, e.TextErr)
	}
	return fmt.Sprintf("notification delivery failed: %v", e.TextErr)
}

func (e *DeliveryError) Unwrap() error { return e.TextErr }

// Dispatcher loads an order with its product and site configuration, formats
// the notification message, and attempts delivery.
type Dispatcher struct {
	orders    order.Repository
	products  product.Repository
	settings  settings.Repository
	messenger Messenger
}

// NewDispatcher creates a Dispatcher with the required dependencies.
func NewDispatcher(
	orders order.Repository,
	products product.Repository,
	settings settings.Repository,
	messenger Messenger,
) *Dispatcher {
	return &Dispatcher{
		orders:    orders,
		products:  products,
		settings:  settings,
		messenger: messenger,
	}
}

// Dispatch sends the notification for the given order.
//
// Dispatch is idempotent-unsafe on purpose: every invocation re-sends, so a
// manual resend for an already-notified order produces a second message.
// Exactly one fallback attempt (image to text) is the whole retry budget.
func (d *Dispatcher) Dispatch(ctx context.Context, orderID string) (*Result, error) {
	lg := zctx.From(ctx).With(zap.String("order_id", orderID))

	o, err := d.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			return nil, &OrderNotFoundError{OrderID: orderID}
		}
		return nil, errors.Wrap(err, "load order")
	}

	// Product details are best-effort: the product may have been deleted
	// since the order was placed, and the notification is still useful
	// without it.
	var p *product.Product
	if o.ProductID != nil {
		p, err = d.products.GetByID(ctx, *o.ProductID)
		if err != nil {
			lg.Debug("Product lookup failed, sending without product details", zap.Error(err))
			p = nil
		}
	}

	cfg, err := d.settings.Get(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load site settings")
	}
	if !cfg.TelegramConfigured() {
		lg.Info("Telegram not configured, skipping notification")
		return &Result{Status: StatusNotConfigured}, nil
	}
	token, chatID := *cfg.TelegramBotToken, *cfg.TelegramChatID

	text := FormatOrderMessage(o, p)

	var imageErr error
	fellBack := false
	delivered := false

	if p != nil && p.ImageURL != nil && *p.ImageURL != "" {
		imageErr = d.messenger.SendPhoto(ctx, token, chatID, *p.ImageURL, text)
		if imageErr == nil {
			delivered = true
		} else {
			lg.Warn("Image notification failed, falling back to text", zap.Error(imageErr))
			fellBack = true
		}
	}

	if !delivered {
		if textErr := d.messenger.SendMessage(ctx, token, chatID, text); textErr != nil {
			return nil, &DeliveryError{ImageErr: imageErr, TextErr: textErr}
		}
	}

	// The message is already out; a failed flag update must not turn a
	// delivered notification into an error.
	if err := d.orders.SetNotificationSent(ctx, o.ID, true); err != nil {
		lg.Warn("Failed to mark order as notified", zap.Error(err))
	}

	lg.Info("Order notification sent", zap.Bool("fallback", fellBack))
	return &Result{Status: StatusDelivered, FellBack: fellBack}, nil
}

// NotifyOrderCreated adapts Dispatch to the order intake's Notifier seam.
func (d *Dispatcher) NotifyOrderCreated(ctx context.Context, orderID string) error {
	_, err := d.Dispatch(ctx, orderID)
	return err
}
