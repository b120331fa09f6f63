package product

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Visibility values for a catalog product.
const (
	VisibilityOn  = "on"
	VisibilityOff = "off"
)

// Product represents a catalog item available for purchase.
type Product struct {
	ID             string
	Name           string
	Price          decimal.Decimal
	Images         []string
	Category       string
	Rating         decimal.Decimal
	InStockValue   int
	SoldStockValue int
	Visibility     string
	Description    string
}

// Repository defines persistence operations for the product catalog.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]Product, error)
	Create(ctx context.Context, p *Product) error
	UpdateDescription(ctx context.Context, id, description string) error
}
