package product

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product represents a catalog item available for purchase. Size and
// PaperType only apply to some categories and are nil when not set.
type Product struct {
	ID            string
	Name          string
	Description   string
	Price         decimal.Decimal
	Category      string
	Size          *string
	PaperType     *string
	ImageURL      *string
	StockQuantity int
	IsAvailable   bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Repository defines read operations for the product catalog.
type Repository interface {
	// List returns available products ordered by creation time, newest first.
	List(ctx context.Context) ([]Product, error)
	// ListAll returns every product regardless of availability.
	ListAll(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
}
