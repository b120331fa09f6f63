package seller

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	mrand "math/rand/v2"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/pecommerce/storefront/internal/mail"
)

// sellerIDAttempts bounds the retry loop for generating an unused seller id.
const sellerIDAttempts = 10

// Service implements seller account management.
type Service struct {
	sellers Repository
	mailer  mail.Sender
	lg      *zap.Logger

	// verifyBaseURL is the public base URL for verification links,
	// e.g. "https://store.example.com".
	verifyBaseURL string
}

// NewService creates a seller Service.
func NewService(sellers Repository, mailer mail.Sender, verifyBaseURL string, lg *zap.Logger) *Service {
	return &Service{
		sellers:       sellers,
		mailer:        mailer,
		verifyBaseURL: verifyBaseURL,
		lg:            lg,
	}
}

// Signup registers a new seller and sends the verification email. It returns
// the generated seller id. The email is best-effort; a failed send is logged
// and the account still exists with its pending token.
func (s *Service) Signup(ctx context.Context, phoneNumber, email, password string) (string, error) {
	if _, err := s.sellers.FindByEmail(ctx, email); err == nil {
		return "", ErrAlreadyExists
	} else if !errors.Is(err, ErrNotFound) {
		return "", errors.Wrap(err, "check existing seller")
	}

	id, err := s.newSellerID(ctx)
	if err != nil {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "hash password")
	}

	token, err := newVerificationToken()
	if err != nil {
		return "", err
	}

	sl := &Seller{
		ID:                id,
		Email:             email,
		PasswordHash:      string(hash),
		PhoneNumber:       phoneNumber,
		Name:              "Not Available",
		BusinessName:      "Not Available",
		BusinessAddress:   "Not Available",
		BusinessType:      "Not Available",
		VerificationToken: token,
		LoggedIn:          LoggedOut,
		AccountStatus:     StatusActive,
	}
	if err := s.sellers.Create(ctx, sl); err != nil {
		return "", errors.Wrap(err, "create seller")
	}

	link := fmt.Sprintf("%s/verify-email?token=%s", s.verifyBaseURL, token)
	if err := s.mailer.Send(ctx, mail.SellerVerification(email, link)); err != nil {
		s.lg.Error("Verification email failed",
			zap.String("seller_id", id),
			zap.String("to", email),
			zap.Error(err),
		)
	}

	return id, nil
}

// VerifyEmail marks the seller holding the given token as email-verified and
// clears the token so it cannot be replayed.
func (s *Service) VerifyEmail(ctx context.Context, token string) error {
	sl, err := s.sellers.FindByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrInvalidToken
		}
		return errors.Wrap(err, "find seller by token")
	}

	sl.EmailVerified = true
	sl.VerificationToken = ""
	return s.sellers.Update(ctx, sl)
}

// Login authenticates a seller by id plus email-or-phone and password, and
// marks the account logged in.
func (s *Service) Login(ctx context.Context, sellerID, emailOrPhone, password string) error {
	sl, err := s.sellers.FindByIDAndContact(ctx, sellerID, emailOrPhone)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrInvalidCredentials
		}
		return errors.Wrap(err, "find seller")
	}

	if !sl.EmailVerified && !sl.PhoneVerified {
		return ErrNotVerified
	}

	if bcrypt.CompareHashAndPassword([]byte(sl.PasswordHash), []byte(password)) != nil {
		return ErrInvalidCredentials
	}

	sl.LoggedIn = LoggedIn
	return s.sellers.Update(ctx, sl)
}

// Get returns the seller with the given id.
func (s *Service) Get(ctx context.Context, sellerID string) (*Seller, error) {
	return s.sellers.FindByID(ctx, sellerID)
}

// Logout marks the seller logged out.
func (s *Service) Logout(ctx context.Context, sellerID string) error {
	sl, err := s.sellers.FindByID(ctx, sellerID)
	if err != nil {
		return err
	}
	sl.LoggedIn = LoggedOut
	return s.sellers.Update(ctx, sl)
}

// List returns all seller accounts.
func (s *Service) List(ctx context.Context) ([]Seller, error) {
	return s.sellers.List(ctx)
}

// ToggleBlock flips the seller between active and blocked, returning the new
// account status.
func (s *Service) ToggleBlock(ctx context.Context, sellerID string) (string, error) {
	sl, err := s.sellers.FindByID(ctx, sellerID)
	if err != nil {
		return "", err
	}

	if sl.AccountStatus == StatusBlocked {
		sl.AccountStatus = StatusActive
	} else {
		sl.AccountStatus = StatusBlocked
	}
	if err := s.sellers.Update(ctx, sl); err != nil {
		return "", err
	}
	return sl.AccountStatus, nil
}

// Delete removes the seller account.
func (s *Service) Delete(ctx context.Context, sellerID string) error {
	return s.sellers.Delete(ctx, sellerID)
}

// newSellerID generates an unused MBSLR-prefixed 5-digit id, retrying on the
// rare collision with an existing account.
func (s *Service) newSellerID(ctx context.Context) (string, error) {
	for range sellerIDAttempts {
		id := fmt.Sprintf("MBSLR%d", 10000+mrand.IntN(90000))
		_, err := s.sellers.FindByID(ctx, id)
		if errors.Is(err, ErrNotFound) {
			return id, nil
		}
		if err != nil {
			return "", errors.Wrap(err, "check seller id")
		}
	}
	return "", errors.New("could not allocate unique seller id")
}

func newVerificationToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "generate verification token")
	}
	return hex.EncodeToString(buf), nil
}
