package user

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a referenced user does not exist.
var ErrNotFound = errors.New("user not found")

// User represents a customer account. Orders snapshot the Name and Email
// fields at placement time rather than referencing the account.
type User struct {
	ID            string
	Name          string
	Email         string
	PasswordHash  string
	AccountStatus string
	Phone         string
	IsAdmin       bool
}

// Repository defines persistence operations for user accounts.
type Repository interface {
	GetByID(ctx context.Context, id string) (*User, error)
	ListEmails(ctx context.Context) ([]string, error)
	Create(ctx context.Context, u *User) error
}
