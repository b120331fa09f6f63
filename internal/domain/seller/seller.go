package seller

import (
	"context"

	"github.com/go-faster/errors"
)

var (
	// ErrNotFound is returned when a referenced seller does not exist.
	ErrNotFound = errors.New("seller not found")
	// ErrAlreadyExists is returned when signing up with a taken email.
	ErrAlreadyExists = errors.New("seller already exists")
	// ErrInvalidCredentials is returned on a failed login attempt.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotVerified is returned when logging in before email or phone verification.
	ErrNotVerified = errors.New("account not verified")
	// ErrInvalidToken is returned for unknown or already-used verification tokens.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Login-state and account-status values.
const (
	LoggedIn  = "loggedin"
	LoggedOut = "loggedout"

	StatusActive  = "active"
	StatusBlocked = "blocked"
)

// Seller is a merchant account. New accounts start unverified with a pending
// email verification token; the token is cleared once verified.
type Seller struct {
	ID                string
	Name              string
	Email             string
	PasswordHash      string
	PhoneNumber       string
	EmailVerified     bool
	PhoneVerified     bool
	BusinessName      string
	BusinessAddress   string
	BusinessType      string
	VerificationToken string
	LoggedIn          string
	AccountStatus     string
}

// Repository defines persistence operations for seller accounts.
type Repository interface {
	FindByID(ctx context.Context, sellerID string) (*Seller, error)
	FindByEmail(ctx context.Context, email string) (*Seller, error)
	// FindByIDAndContact matches a seller by id plus either email or phone.
	FindByIDAndContact(ctx context.Context, sellerID, emailOrPhone string) (*Seller, error)
	FindByVerificationToken(ctx context.Context, token string) (*Seller, error)
	List(ctx context.Context) ([]Seller, error)
	Create(ctx context.Context, s *Seller) error
	Update(ctx context.Context, s *Seller) error
	Delete(ctx context.Context, sellerID string) error
}
