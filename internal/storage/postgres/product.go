package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pecommerce/storefront/internal/domain/product"
)

const (
	productColumns = `product_id, name, price, images, category, rating,
		in_stock_value, sold_stock_value, visibility, description`

	listProductsSQL = `SELECT ` + productColumns + ` FROM products
		WHERE visibility = 'on' ORDER BY product_id`

	getProductByIDSQL = `SELECT ` + productColumns + ` FROM products WHERE product_id = $1`

	getProductsByIDsSQL = `SELECT ` + productColumns + ` FROM products WHERE product_id = ANY($1)`

	createProductSQL = `INSERT INTO products (product_id, name, price, images, category, rating,
		in_stock_value, sold_stock_value, visibility, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	updateProductDescriptionSQL = `UPDATE products SET description = $2 WHERE product_id = $1`

	upsertProductSQL = createProductSQL + ` ON CONFLICT (product_id) DO UPDATE SET
		name = EXCLUDED.name, price = EXCLUDED.price, images = EXCLUDED.images,
		category = EXCLUDED.category, rating = EXCLUDED.rating,
		in_stock_value = EXCLUDED.in_stock_value, sold_stock_value = EXCLUDED.sold_stock_value,
		visibility = EXCLUDED.visibility`
)

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository implements product.Repository backed by PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// List returns all visible products ordered by ID.
func (r *ProductRepository) List(ctx context.Context) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx, listProductsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// GetByID returns a single product by its identifier.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*product.Product, error) {
	rows, err := r.pool.Query(ctx, getProductByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting product %q: %w", id, err)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, fmt.Errorf("getting product %q: %w", id, err)
	}
	return &p, nil
}

// GetByIDs returns products matching any of the given IDs. Missing IDs are
// simply absent from the result.
func (r *ProductRepository) GetByIDs(ctx context.Context, ids []string) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx, getProductsByIDsSQL, ids)
	if err != nil {
		return nil, fmt.Errorf("getting products by ids: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// Create persists a new catalog product.
func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	_, err := r.pool.Exec(ctx, createProductSQL,
		p.ID, p.Name, p.Price, p.Images, p.Category, p.Rating,
		p.InStockValue, p.SoldStockValue, p.Visibility, p.Description,
	)
	if err != nil {
		return fmt.Errorf("creating product %q: %w", p.ID, err)
	}
	return nil
}

// Upsert inserts or refreshes a catalog product. Used by the seed tool so
// reruns do not fail on existing rows. The description column is left alone
// on conflict since sellers edit it through the API.
func (r *ProductRepository) Upsert(ctx context.Context, p *product.Product) error {
	_, err := r.pool.Exec(ctx, upsertProductSQL,
		p.ID, p.Name, p.Price, p.Images, p.Category, p.Rating,
		p.InStockValue, p.SoldStockValue, p.Visibility, p.Description,
	)
	if err != nil {
		return fmt.Errorf("upserting product %q: %w", p.ID, err)
	}
	return nil
}

// UpdateDescription sets the product's description.
// Returns product.ErrNotFound when the product does not exist.
func (r *ProductRepository) UpdateDescription(ctx context.Context, id, description string) error {
	tag, err := r.pool.Exec(ctx, updateProductDescriptionSQL, id, description)
	if err != nil {
		return fmt.Errorf("updating description for product %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.CollectableRow) (product.Product, error) {
	var p product.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Price, &p.Images, &p.Category, &p.Rating,
		&p.InStockValue, &p.SoldStockValue, &p.Visibility, &p.Description,
	)
	return p, err
}
