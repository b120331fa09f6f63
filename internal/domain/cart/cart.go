package cart

import (
	"context"

	"github.com/go-faster/errors"
)

var (
	// ErrNotFound is returned when a user has no cart.
	ErrNotFound = errors.New("cart not found")
	// ErrItemNotFound is returned when a product is not in the cart.
	ErrItemNotFound = errors.New("product not found in the cart")
)

// Cart is the per-user ordered list of pending product selections.
// At most one cart exists per user.
type Cart struct {
	UserID string
	Items  []Entry
}

// Entry is a (product, quantity) selection. Entries are not validated against
// live inventory at mutation time.
type Entry struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Repository defines persistence operations for carts. Save replaces the
// whole cart row atomically; there is no cross-row coordination.
type Repository interface {
	GetByUser(ctx context.Context, userID string) (*Cart, error)
	Save(ctx context.Context, c *Cart) error
}
