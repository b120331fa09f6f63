package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/pecommerce/storefront/internal/domain/cart"
	"github.com/pecommerce/storefront/internal/domain/coupon"
	"github.com/pecommerce/storefront/internal/domain/order"
	"github.com/pecommerce/storefront/internal/domain/product"
	"github.com/pecommerce/storefront/internal/domain/seller"
	"github.com/pecommerce/storefront/internal/domain/user"
)

// errorBody is the JSON shape for all failure responses.
type errorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// respondError writes the mapped status and body for err, logging unexpected
// (5xx) failures.
func respondError(w http.ResponseWriter, r *http.Request, err error, message string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		zctx.From(r.Context()).Error("Request failed",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	respondJSON(w, status, errorBody{
		Success: false,
		Message: message,
		Error:   err.Error(),
	})
}

func respondValidation(w http.ResponseWriter, message string) {
	respondJSON(w, http.StatusBadRequest, errorBody{Success: false, Message: message})
}

// decodeJSON decodes the request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.Wrap(err, "decode request body")
	}
	return nil
}

// statusFor maps domain errors to HTTP status codes. Unrecognized errors are
// treated as persistence failures.
func statusFor(err error) int {
	switch {
	case errors.Is(err, order.ErrMissingFields),
		errors.Is(err, coupon.ErrExpired),
		errors.Is(err, coupon.ErrAlreadyExists),
		errors.Is(err, seller.ErrAlreadyExists),
		errors.Is(err, seller.ErrInvalidCredentials),
		errors.Is(err, seller.ErrInvalidToken):
		return http.StatusBadRequest
	case errors.Is(err, seller.ErrNotVerified):
		return http.StatusUnauthorized
	case errors.Is(err, user.ErrNotFound),
		errors.Is(err, cart.ErrNotFound),
		errors.Is(err, cart.ErrItemNotFound),
		errors.Is(err, coupon.ErrNotFound),
		errors.Is(err, product.ErrNotFound),
		errors.Is(err, seller.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
