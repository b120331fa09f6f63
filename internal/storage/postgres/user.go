package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pecommerce/storefront/internal/domain/user"
)

const (
	getUserByIDSQL = `SELECT user_id, name, email, password_hash, account_status, phone, is_admin
		FROM users WHERE user_id = $1`

	listUserEmailsSQL = `SELECT email FROM users ORDER BY email`

	createUserSQL = `INSERT INTO users (user_id, name, email, password_hash, account_status, phone, is_admin)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	upsertUserSQL = createUserSQL + ` ON CONFLICT (user_id) DO NOTHING`
)

var _ user.Repository = (*UserRepository)(nil)

// UserRepository implements user.Repository backed by PostgreSQL.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a UserRepository that uses the given pool.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// GetByID returns the user with the given identifier.
// Returns user.ErrNotFound when no such user exists.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	var u user.User
	err := r.pool.QueryRow(ctx, getUserByIDSQL, id).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.AccountStatus, &u.Phone, &u.IsAdmin,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("getting user %q: %w", id, err)
	}
	return &u, nil
}

// ListEmails returns every registered user email address.
func (r *UserRepository) ListEmails(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, listUserEmailsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing user emails: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// Create persists a new user account.
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	_, err := r.pool.Exec(ctx, createUserSQL,
		u.ID, u.Name, u.Email, u.PasswordHash, u.AccountStatus, u.Phone, u.IsAdmin,
	)
	if err != nil {
		return fmt.Errorf("creating user %q: %w", u.ID, err)
	}
	return nil
}

// Upsert inserts the user, leaving an existing row untouched. Used by the
// seed tool.
func (r *UserRepository) Upsert(ctx context.Context, u *user.User) error {
	_, err := r.pool.Exec(ctx, upsertUserSQL,
		u.ID, u.Name, u.Email, u.PasswordHash, u.AccountStatus, u.Phone, u.IsAdmin,
	)
	if err != nil {
		return fmt.Errorf("upserting user %q: %w", u.ID, err)
	}
	return nil
}
