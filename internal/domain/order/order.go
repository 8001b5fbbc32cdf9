package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested order does not exist.
var ErrNotFound = errors.New("order not found")

// Status is the fulfillment state of an order.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusShipped   Status = "shipped"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s is one of the known order statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusShipped, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Order represents one customer purchase request.
//
// TotalPrice is snapshotted at creation (unit price x quantity) and is never
// recomputed, even if the product's price changes later. ProductID may become
// nil if the product is deleted; ProductName is denormalized so the order
// stays readable.
type Order struct {
	ID               string
	CustomerName     string
	CustomerContact  string
	Message          *string
	ProductID        *string
	ProductName      string
	Quantity         int
	TotalPrice       decimal.Decimal
	Status           Status
	NotificationSent bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Repository defines persistence operations for orders. Orders are never
// deleted: cancellation is a status change.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	// List returns all orders, newest first.
	List(ctx context.Context) ([]Order, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	SetNotificationSent(ctx context.Context, id string, sent bool) error
}
