package order

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/pecommerce/storefront/internal/domain/product"
	"github.com/pecommerce/storefront/internal/domain/user"
	"github.com/pecommerce/storefront/internal/mail"
)

// ErrMissingFields is returned when the placement request lacks a user,
// a declared price, or ordered products.
var ErrMissingFields = errors.New("missing required fields")

// PlaceOrderRequest holds the input for placing an order. Price is the
// declared pre-discount total for the ordered products.
type PlaceOrderRequest struct {
	UserID  string
	Date    string
	Time    string
	Address string
	Price   decimal.Decimal
	Items   []Item
}

// PlaceOrderResult holds the output of a successfully placed order. Products
// carries the catalog records that resolved for the ordered identifiers;
// unresolved identifiers are simply absent.
type PlaceOrderResult struct {
	Order    *Order
	Products []product.Product
}

// Service implements order pricing and placement. The success boundary is the
// persisted order row; the confirmation email is a best-effort side effect
// whose failure is observable only in logs.
type Service struct {
	users    user.Repository
	products product.Repository
	orders   Repository
	mailer   mail.Sender
	lg       *zap.Logger

	placed metric.Int64Counter
}

// NewService creates an order Service with the required collaborators.
func NewService(
	users user.Repository,
	products product.Repository,
	orders Repository,
	mailer mail.Sender,
	lg *zap.Logger,
) *Service {
	return &Service{
		users:    users,
		products: products,
		orders:   orders,
		mailer:   mailer,
		lg:       lg,
	}
}

// InstrumentPlaced sets the counter incremented once per persisted order.
// Without it placements are simply not counted.
func (s *Service) InstrumentPlaced(c metric.Int64Counter) {
	s.placed = c
}

// PlaceOrder validates the request, resolves the user snapshot, computes the
// pricing quote, persists the order, and sends the confirmation email.
func (s *Service) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*PlaceOrderResult, error) {
	if req.UserID == "" || !req.Price.IsPositive() || len(req.Items) == 0 {
		return nil, ErrMissingFields
	}

	u, err := s.users.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get user %s", req.UserID)
	}

	ids := make([]string, len(req.Items))
	for i, item := range req.Items {
		ids[i] = item.ProductID
	}

	// Best-effort catalog lookup: a missing or unresolvable product does not
	// abort the order.
	resolved, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		s.lg.Warn("Product lookup failed, placing order without enrichment",
			zap.Strings("product_ids", ids),
			zap.Error(err),
		)
		resolved = nil
	}

	q := PriceQuote(req.Price)

	o := &Order{
		ID:              NewOrderID(),
		TrackingID:      NewTrackingID(),
		UserID:          u.ID,
		Email:           u.Email,
		Name:            u.Name,
		ProductIDs:      ids,
		Items:           req.Items,
		Price:           q.Price,
		Discount:        q.Discount,
		DeliveryCharges: q.DeliveryCharges,
		FinalTotal:      q.FinalTotal,
		Address:         req.Address,
		Date:            req.Date,
		Time:            req.Time,
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "create order")
	}
	if s.placed != nil {
		s.placed.Add(ctx, 1)
	}

	msg := mail.OrderConfirmation(u.Email, u.Name, o.ID, o.TrackingID,
		o.Price, o.Discount, o.DeliveryCharges, o.FinalTotal)
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.lg.Error("Order confirmation email failed",
			zap.String("order_id", o.ID),
			zap.String("to", u.Email),
			zap.Error(err),
		)
	}

	return &PlaceOrderResult{Order: o, Products: resolved}, nil
}
