package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pecommerce/storefront/internal/domain/coupon"
)

const (
	getCouponByCodeSQL = `SELECT code, discount_percentage, expiry_date, created_at
		FROM coupons WHERE code = $1`

	listCouponsSQL = `SELECT code, discount_percentage, expiry_date, created_at
		FROM coupons ORDER BY created_at`

	saveCouponSQL = `INSERT INTO coupons (code, discount_percentage, expiry_date)
		VALUES ($1, $2, $3)`

	upsertCouponSQL = `INSERT INTO coupons (code, discount_percentage, expiry_date)
		VALUES ($1, $2, $3)
		ON CONFLICT (code) DO UPDATE
		SET discount_percentage = EXCLUDED.discount_percentage, expiry_date = EXCLUDED.expiry_date`

	deleteCouponSQL = `DELETE FROM coupons WHERE code = $1`
)

// uniqueViolation is the PostgreSQL error code for duplicate keys.
const uniqueViolation = "23505"

var _ coupon.Repository = (*CouponRepository)(nil)

// CouponRepository implements coupon.Repository backed by PostgreSQL.
type CouponRepository struct {
	pool *pgxpool.Pool
}

// NewCouponRepository returns a CouponRepository that uses the given pool.
func NewCouponRepository(pool *pgxpool.Pool) *CouponRepository {
	return &CouponRepository{pool: pool}
}

// FindByCode looks up a coupon by its code.
// Returns coupon.ErrNotFound when no such coupon exists.
func (r *CouponRepository) FindByCode(ctx context.Context, code string) (*coupon.Coupon, error) {
	var c coupon.Coupon
	err := r.pool.QueryRow(ctx, getCouponByCodeSQL, code).Scan(
		&c.Code, &c.DiscountPercentage, &c.ExpiryDate, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, coupon.ErrNotFound
		}
		return nil, fmt.Errorf("finding coupon by code %q: %w", code, err)
	}
	return &c, nil
}

// List returns all coupons ordered by creation time.
func (r *CouponRepository) List(ctx context.Context) ([]coupon.Coupon, error) {
	rows, err := r.pool.Query(ctx, listCouponsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing coupons: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (coupon.Coupon, error) {
		var c coupon.Coupon
		err := row.Scan(&c.Code, &c.DiscountPercentage, &c.ExpiryDate, &c.CreatedAt)
		return c, err
	})
}

// Save inserts a new coupon. A concurrent insert of the same code surfaces as
// coupon.ErrAlreadyExists via the unique constraint.
func (r *CouponRepository) Save(ctx context.Context, c *coupon.Coupon) error {
	_, err := r.pool.Exec(ctx, saveCouponSQL, c.Code, c.DiscountPercentage, c.ExpiryDate)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return coupon.ErrAlreadyExists
		}
		return fmt.Errorf("saving coupon %q: %w", c.Code, err)
	}
	return nil
}

// Upsert inserts or replaces a coupon. Used by the bulk import tool.
func (r *CouponRepository) Upsert(ctx context.Context, c *coupon.Coupon) error {
	_, err := r.pool.Exec(ctx, upsertCouponSQL, c.Code, c.DiscountPercentage, c.ExpiryDate)
	if err != nil {
		return fmt.Errorf("upserting coupon %q: %w", c.Code, err)
	}
	return nil
}

// Delete removes the coupon with the given code.
// Returns coupon.ErrNotFound when nothing was deleted.
func (r *CouponRepository) Delete(ctx context.Context, code string) error {
	tag, err := r.pool.Exec(ctx, deleteCouponSQL, code)
	if err != nil {
		return fmt.Errorf("deleting coupon %q: %w", code, err)
	}
	if tag.RowsAffected() == 0 {
		return coupon.ErrNotFound
	}
	return nil
}
