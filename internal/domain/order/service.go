package order

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Validation limits for intake fields.
const (
	MaxNameLen    = 100
	MaxContactLen = 255
	MaxMessageLen = 1000
)

// ValidationError reports intake validation failures keyed by field name.
// No order is persisted when validation fails.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("invalid order request:")
	for _, k := range keys {
		fmt.Fprintf(&b, " %s: %s;", k, e.Fields[k])
	}
	return strings.TrimSuffix(b.String(), ";")
}

// Notifier delivers an out-of-band notification for a freshly created order.
// The sniping-engine style seam keeps the intake service unaware of the
// messaging transport.
type Notifier interface {
	NotifyOrderCreated(ctx context.Context, orderID string) error
}

// PlaceOrderRequest holds the input for placing an order. ProductName and
// UnitPrice are the catalog values at the moment of intake; the computed
// total is snapshotted from them and never recomputed.
type PlaceOrderRequest struct {
	CustomerName string
	Contact      string
	Message      *string
	ProductID    string
	ProductName  string
	Quantity     int
	UnitPrice    decimal.Decimal
}

// Validate checks the request against the intake limits and returns a
// field-keyed ValidationError when any check fails.
func (r *PlaceOrderRequest) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(r.CustomerName) == "" {
		fields["name"] = "Name is required"
	} else if len(r.CustomerName) > MaxNameLen {
		fields["name"] = "Name too long"
	}

	if strings.TrimSpace(r.Contact) == "" {
		fields["contact"] = "Contact is required"
	} else if len(r.Contact) > MaxContactLen {
		fields["contact"] = "Contact too long"
	}

	if r.Message != nil && len(*r.Message) > MaxMessageLen {
		fields["message"] = "Message too long"
	}

	if r.Quantity <= 0 {
		fields["quantity"] = "Quantity must be greater than 0"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Service encapsulates order intake business logic.
type Service struct {
	orders          Repository
	notifier        Notifier
	dispatchTimeout time.Duration
}

// NewService creates an order Service. dispatchTimeout bounds the detached
// notification dispatch spawned after each successful intake.
func NewService(orders Repository, notifier Notifier, dispatchTimeout time.Duration) *Service {
	return &Service{
		orders:          orders,
		notifier:        notifier,
		dispatchTimeout: dispatchTimeout,
	}
}

// PlaceOrder validates the request, persists a new pending order, and spawns
// a fire-and-forget notification dispatch. The returned order reflects only
// the persistence outcome: dispatch failures are logged inside the detached
// task and never surface to the caller.
func (s *Service) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	productID := req.ProductID
	o := &Order{
		ID:              uuid.New().String(),
		CustomerName:    strings.TrimSpace(req.CustomerName),
		CustomerContact: strings.TrimSpace(req.Contact),
		Message:         req.Message,
		ProductID:       &productID,
		ProductName:     req.ProductName,
		Quantity:        req.Quantity,
		TotalPrice:      req.UnitPrice.Mul(decimal.NewFromInt(int64(req.Quantity))).Round(2),
		Status:          StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	// Stock is deliberately not decremented here: fulfillment is manual and
	// the original system never tracked live stock against orders.
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.dispatchAsync(ctx, o.ID)

	return o, nil
}

// dispatchAsync triggers the order notification in a detached goroutine.
// The request context's cancellation must not kill the dispatch, so the
// task runs on a WithoutCancel derivation (values, including the request
// logger, are preserved) with its own timeout.
func (s *Service) dispatchAsync(ctx context.Context, orderID string) {
	detached := context.WithoutCancel(ctx)
	go func() {
		dctx, cancel := context.WithTimeout(detached, s.dispatchTimeout)
		defer cancel()

		if err := s.notifier.NotifyOrderCreated(dctx, orderID); err != nil {
			zctx.From(dctx).Warn("Order notification failed",
				zap.String("order_id", orderID),
				zap.Error(err),
			)
		}
	}()
}
