package coupon

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when a coupon code is unknown.
	ErrNotFound = errors.New("invalid coupon code")
	// ErrExpired is returned when the current time is strictly after the
	// coupon's expiry instant.
	ErrExpired = errors.New("coupon has expired")
	// ErrAlreadyExists is returned when creating a coupon whose code is taken.
	ErrAlreadyExists = errors.New("coupon code already exists")
)

// Coupon is a time-bounded percentage discount code. It is independent of the
// order-placement delivery/discount rule.
type Coupon struct {
	Code               string
	DiscountPercentage decimal.Decimal
	ExpiryDate         time.Time
	CreatedAt          time.Time
}

// Applied holds the result of applying a coupon to a cart total.
type Applied struct {
	Discount   decimal.Decimal
	FinalTotal decimal.Decimal
}

// Repository defines persistence operations for coupons.
type Repository interface {
	FindByCode(ctx context.Context, code string) (*Coupon, error)
	List(ctx context.Context) ([]Coupon, error)
	Save(ctx context.Context, c *Coupon) error
	Delete(ctx context.Context, code string) error
}
