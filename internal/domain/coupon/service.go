package coupon

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pecommerce/storefront/internal/domain/user"
	"github.com/pecommerce/storefront/internal/mail"
)

var hundred = decimal.NewFromInt(100)

// announceConcurrency bounds the parallel mail fan-out when broadcasting
// coupon changes to every user.
const announceConcurrency = 8

// Service implements coupon management and application.
type Service struct {
	coupons Repository
	users   user.Repository
	mailer  mail.Sender
	lg      *zap.Logger
	now     func() time.Time
}

// NewService creates a coupon Service with the required collaborators.
func NewService(coupons Repository, users user.Repository, mailer mail.Sender, lg *zap.Logger) *Service {
	return &Service{
		coupons: coupons,
		users:   users,
		mailer:  mailer,
		lg:      lg,
		now:     time.Now,
	}
}

// Apply computes the discount the given code yields on cartTotal.
// The expiry instant itself is still valid; only strictly-later times fail.
func (s *Service) Apply(ctx context.Context, code string, cartTotal decimal.Decimal) (*Applied, error) {
	c, err := s.coupons.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if s.now().After(c.ExpiryDate) {
		return nil, ErrExpired
	}

	discount := cartTotal.Mul(c.DiscountPercentage).Div(hundred).Round(2)
	return &Applied{
		Discount:   discount,
		FinalTotal: cartTotal.Sub(discount),
	}, nil
}

// Verify returns the coupon for the given code without checking expiry.
func (s *Service) Verify(ctx context.Context, code string) (*Coupon, error) {
	return s.coupons.FindByCode(ctx, code)
}

// List returns all stored coupons.
func (s *Service) List(ctx context.Context) ([]Coupon, error) {
	return s.coupons.List(ctx)
}

// Create stores a new coupon and announces it to every user by email.
// The announcement is best-effort; per-recipient failures are logged only.
func (s *Service) Create(ctx context.Context, c *Coupon) error {
	if _, err := s.coupons.FindByCode(ctx, c.Code); err == nil {
		return ErrAlreadyExists
	} else if !errors.Is(err, ErrNotFound) {
		return errors.Wrapf(err, "check coupon %s", c.Code)
	}

	if err := s.coupons.Save(ctx, c); err != nil {
		return errors.Wrapf(err, "save coupon %s", c.Code)
	}

	s.announce(ctx, func(email string) mail.Message {
		return mail.CouponAnnouncement(email, c.Code, c.DiscountPercentage,
			c.ExpiryDate.Format(time.RFC1123))
	})
	return nil
}

// Delete removes a coupon and announces the removal to every user by email.
func (s *Service) Delete(ctx context.Context, code string) error {
	if err := s.coupons.Delete(ctx, code); err != nil {
		return err
	}

	s.announce(ctx, func(email string) mail.Message {
		return mail.CouponRemoved(email, code)
	})
	return nil
}

// announce sends build(email) to every user, bounded by announceConcurrency.
func (s *Service) announce(ctx context.Context, build func(email string) mail.Message) {
	emails, err := s.users.ListEmails(ctx)
	if err != nil {
		s.lg.Error("Coupon announcement: listing user emails failed", zap.Error(err))
		return
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(announceConcurrency)
	for _, email := range emails {
		g.Go(func() error {
			if err := s.mailer.Send(ctx, build(email)); err != nil {
				s.lg.Error("Coupon announcement email failed",
					zap.String("to", email),
					zap.Error(err),
				)
			}
			return nil
		})
	}
	_ = g.Wait()
}
