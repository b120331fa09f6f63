package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested order does not exist.
var ErrNotFound = errors.New("order not found")

// Order is an immutable record of a completed checkout. Email and Name are
// captured from the user at placement time, not referenced live.
type Order struct {
	ID              string
	TrackingID      string
	UserID          string
	Email           string
	Name            string
	ProductIDs      []string
	Items           []Item
	Price           decimal.Decimal
	Discount        decimal.Decimal
	DeliveryCharges decimal.Decimal
	FinalTotal      decimal.Decimal
	Address         string
	Date            string
	Time            string
	CreatedAt       time.Time
}

// Item is a single ordered product reference with its quantity.
type Item struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Repository defines persistence operations for orders.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
}
