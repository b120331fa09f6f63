package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pecommerce/storefront/internal/domain/order"
)

const (
	createOrderSQL = `INSERT INTO orders (order_id, tracking_id, user_id, email, name, product_ids,
		items, price, discount, delivery_charges, final_total, address, order_date, order_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	getOrderByIDSQL = `SELECT order_id, tracking_id, user_id, email, name, product_ids,
		items, price, discount, delivery_charges, final_total, address, order_date, order_time, created_at
		FROM orders WHERE order_id = $1`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists a new order. The line items are serialized to JSON for the
// JSONB column. A duplicate order id fails on the primary key; callers treat
// that as a storage error rather than retrying silently.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	_, err := r.pool.Exec(ctx, createOrderSQL,
		o.ID, o.TrackingID, o.UserID, o.Email, o.Name, o.ProductIDs,
		encodeOrderItems(o.Items), o.Price, o.Discount, o.DeliveryCharges, o.FinalTotal,
		o.Address, o.Date, o.Time,
	)
	if err != nil {
		return fmt.Errorf("creating order %q: %w", o.ID, err)
	}
	return nil
}

// GetByID returns the order with the given identifier.
// Returns order.ErrNotFound when no such order exists.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*order.Order, error) {
	var (
		o     order.Order
		items []byte
	)
	err := r.pool.QueryRow(ctx, getOrderByIDSQL, id).Scan(
		&o.ID, &o.TrackingID, &o.UserID, &o.Email, &o.Name, &o.ProductIDs,
		&items, &o.Price, &o.Discount, &o.DeliveryCharges, &o.FinalTotal,
		&o.Address, &o.Date, &o.Time, &o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}

	o.Items, err = decodeOrderItems(items)
	if err != nil {
		return nil, fmt.Errorf("decoding items for order %q: %w", id, err)
	}
	return &o, nil
}

func encodeOrderItems(items []order.Item) []byte {
	var e jx.Encoder
	e.ArrStart()
	for _, it := range items {
		e.ObjStart()
		e.FieldStart("product_id")
		e.Str(it.ProductID)
		e.FieldStart("quantity")
		e.Int(it.Quantity)
		e.ObjEnd()
	}
	e.ArrEnd()
	return e.Bytes()
}

func decodeOrderItems(data []byte) ([]order.Item, error) {
	var items []order.Item
	d := jx.DecodeBytes(data)
	if err := d.Arr(func(d *jx.Decoder) error {
		var it order.Item
		if err := d.Obj(func(d *jx.Decoder, key string) error {
			switch key {
			case "product_id":
				v, err := d.Str()
				it.ProductID = v
				return err
			case "quantity":
				v, err := d.Int()
				it.Quantity = v
				return err
			default:
				return d.Skip()
			}
		}); err != nil {
			return err
		}
		items = append(items, it)
		return nil
	}); err != nil {
		return nil, err
	}
	return items, nil
}
