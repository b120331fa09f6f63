package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pecommerce/storefront/internal/domain/seller"
)

const (
	sellerColumns = `seller_id, name, email, password_hash, phone_number,
		email_verified, phone_verified, business_name, business_address, business_type,
		COALESCE(verification_token, ''), logged_in, account_status`

	getSellerByIDSQL = `SELECT ` + sellerColumns + ` FROM sellers WHERE seller_id = $1`

	getSellerByEmailSQL = `SELECT ` + sellerColumns + ` FROM sellers WHERE email = $1`

	getSellerByIDAndContactSQL = `SELECT ` + sellerColumns + ` FROM sellers
		WHERE seller_id = $1 AND (email = $2 OR phone_number = $2)`

	getSellerByTokenSQL = `SELECT ` + sellerColumns + ` FROM sellers WHERE verification_token = $1`

	listSellersSQL = `SELECT ` + sellerColumns + ` FROM sellers ORDER BY seller_id`

	createSellerSQL = `INSERT INTO sellers (seller_id, name, email, password_hash, phone_number,
		email_verified, phone_verified, business_name, business_address, business_type,
		verification_token, logged_in, account_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NULLIF($11, ''), $12, $13)`

	updateSellerSQL = `UPDATE sellers SET name = $2, email = $3, password_hash = $4,
		phone_number = $5, email_verified = $6, phone_verified = $7, business_name = $8,
		business_address = $9, business_type = $10, verification_token = NULLIF($11, ''),
		logged_in = $12, account_status = $13
		WHERE seller_id = $1`

	deleteSellerSQL = `DELETE FROM sellers WHERE seller_id = $1`
)

var _ seller.Repository = (*SellerRepository)(nil)

// SellerRepository implements seller.Repository backed by PostgreSQL.
type SellerRepository struct {
	pool *pgxpool.Pool
}

// NewSellerRepository returns a SellerRepository that uses the given pool.
func NewSellerRepository(pool *pgxpool.Pool) *SellerRepository {
	return &SellerRepository{pool: pool}
}

// FindByID returns the seller with the given id.
func (r *SellerRepository) FindByID(ctx context.Context, sellerID string) (*seller.Seller, error) {
	return r.findOne(ctx, getSellerByIDSQL, sellerID)
}

// FindByEmail returns the seller registered with the given email.
func (r *SellerRepository) FindByEmail(ctx context.Context, email string) (*seller.Seller, error) {
	return r.findOne(ctx, getSellerByEmailSQL, email)
}

// FindByIDAndContact matches a seller by id plus either email or phone number.
func (r *SellerRepository) FindByIDAndContact(ctx context.Context, sellerID, emailOrPhone string) (*seller.Seller, error) {
	return r.findOne(ctx, getSellerByIDAndContactSQL, sellerID, emailOrPhone)
}

// FindByVerificationToken returns the seller holding the given pending token.
func (r *SellerRepository) FindByVerificationToken(ctx context.Context, token string) (*seller.Seller, error) {
	return r.findOne(ctx, getSellerByTokenSQL, token)
}

// List returns all seller accounts ordered by id.
func (r *SellerRepository) List(ctx context.Context) ([]seller.Seller, error) {
	rows, err := r.pool.Query(ctx, listSellersSQL)
	if err != nil {
		return nil, fmt.Errorf("listing sellers: %w", err)
	}
	return pgx.CollectRows(rows, scanSeller)
}

// Create persists a new seller account.
func (r *SellerRepository) Create(ctx context.Context, s *seller.Seller) error {
	_, err := r.pool.Exec(ctx, createSellerSQL,
		s.ID, s.Name, s.Email, s.PasswordHash, s.PhoneNumber,
		s.EmailVerified, s.PhoneVerified, s.BusinessName, s.BusinessAddress, s.BusinessType,
		s.VerificationToken, s.LoggedIn, s.AccountStatus,
	)
	if err != nil {
		return fmt.Errorf("creating seller %q: %w", s.ID, err)
	}
	return nil
}

// Update replaces all mutable fields of the seller row.
func (r *SellerRepository) Update(ctx context.Context, s *seller.Seller) error {
	tag, err := r.pool.Exec(ctx, updateSellerSQL,
		s.ID, s.Name, s.Email, s.PasswordHash, s.PhoneNumber,
		s.EmailVerified, s.PhoneVerified, s.BusinessName, s.BusinessAddress, s.BusinessType,
		s.VerificationToken, s.LoggedIn, s.AccountStatus,
	)
	if err != nil {
		return fmt.Errorf("updating seller %q: %w", s.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return seller.ErrNotFound
	}
	return nil
}

// Delete removes the seller account.
// Returns seller.ErrNotFound when nothing was deleted.
func (r *SellerRepository) Delete(ctx context.Context, sellerID string) error {
	tag, err := r.pool.Exec(ctx, deleteSellerSQL, sellerID)
	if err != nil {
		return fmt.Errorf("deleting seller %q: %w", sellerID, err)
	}
	if tag.RowsAffected() == 0 {
		return seller.ErrNotFound
	}
	return nil
}

func (r *SellerRepository) findOne(ctx context.Context, sql string, args ...any) (*seller.Seller, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("querying seller: %w", err)
	}

	s, err := pgx.CollectExactlyOneRow(rows, scanSeller)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, seller.ErrNotFound
		}
		return nil, fmt.Errorf("querying seller: %w", err)
	}
	return &s, nil
}

func scanSeller(row pgx.CollectableRow) (seller.Seller, error) {
	var s seller.Seller
	err := row.Scan(
		&s.ID, &s.Name, &s.Email, &s.PasswordHash, &s.PhoneNumber,
		&s.EmailVerified, &s.PhoneVerified, &s.BusinessName, &s.BusinessAddress, &s.BusinessType,
		&s.VerificationToken, &s.LoggedIn, &s.AccountStatus,
	)
	return s, err
}
