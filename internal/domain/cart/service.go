package cart

import (
	"context"

	"github.com/go-faster/errors"
)

// Service implements cart mutation on top of a Repository.
type Service struct {
	carts Repository
}

// NewService creates a cart Service.
func NewService(carts Repository) *Service {
	return &Service{carts: carts}
}

// Get returns the user's cart, or ErrNotFound when none exists.
func (s *Service) Get(ctx context.Context, userID string) (*Cart, error) {
	return s.carts.GetByUser(ctx, userID)
}

// AddItem appends the entry to the user's cart, creating the cart when the
// user has none. Repeated adds of the same product append a second entry,
// matching the storefront's historical behaviour.
func (s *Service) AddItem(ctx context.Context, userID string, entry Entry) (*Cart, error) {
	c, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return nil, errors.Wrapf(err, "get cart for user %s", userID)
		}
		c = &Cart{UserID: userID}
	}

	c.Items = append(c.Items, entry)
	if err := s.carts.Save(ctx, c); err != nil {
		return nil, errors.Wrapf(err, "save cart for user %s", userID)
	}
	return c, nil
}

// UpdateQuantity replaces the quantity of the given product in place.
// Returns ErrNotFound when the user has no cart and ErrItemNotFound when the
// product is not in it.
func (s *Service) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) error {
	c, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		return err
	}

	found := false
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity = quantity
			found = true
		}
	}
	if !found {
		return ErrItemNotFound
	}

	return s.carts.Save(ctx, c)
}

// RemoveItem deletes all entries for the given product from the user's cart.
// Returns ErrItemNotFound when nothing was removed.
func (s *Service) RemoveItem(ctx context.Context, userID, productID string) error {
	c, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		return err
	}

	kept := c.Items[:0]
	for _, e := range c.Items {
		if e.ProductID != productID {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(c.Items) {
		return ErrItemNotFound
	}
	c.Items = kept

	return s.carts.Save(ctx, c)
}
