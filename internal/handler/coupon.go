package handler

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pecommerce/storefront/internal/domain/coupon"
)

type couponJSON struct {
	Code               string  `json:"code"`
	DiscountPercentage float64 `json:"discountPercentage"`
	ExpiryDate         string  `json:"expiryDate"`
}

func toCouponJSON(c *coupon.Coupon) couponJSON {
	return couponJSON{
		Code:               c.Code,
		DiscountPercentage: c.DiscountPercentage.InexactFloat64(),
		ExpiryDate:         c.ExpiryDate.Format(time.RFC3339),
	}
}

// ListCoupons returns every stored coupon.
func (h *Handler) ListCoupons(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.coupons.List(r.Context())
	if err != nil {
		respondError(w, r, err, "Error fetching coupons")
		return
	}

	out := make([]couponJSON, len(coupons))
	for i := range coupons {
		out[i] = toCouponJSON(&coupons[i])
	}
	respondJSON(w, http.StatusOK, struct {
		Success bool         `json:"success"`
		Coupons []couponJSON `json:"coupons"`
	}{true, out})
}

// SaveCoupon creates a new coupon and announces it to all users.
func (h *Handler) SaveCoupon(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code               string  `json:"code"`
		DiscountPercentage float64 `json:"discountPercentage"`
		ExpiryDate         string  `json:"expiryDate"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondValidation(w, "Invalid request body")
		return
	}
	if req.Code == "" || req.ExpiryDate == "" {
		respondValidation(w, "code and expiryDate are required.")
		return
	}

	expiry, err := time.Parse(time.RFC3339, req.ExpiryDate)
	if err != nil {
		respondValidation(w, "expiryDate must be an RFC 3339 timestamp.")
		return
	}

	c := &coupon.Coupon{
		Code:               req.Code,
		DiscountPercentage: decimal.NewFromFloat(req.DiscountPercentage),
		ExpiryDate:         expiry,
	}
	if err := h.coupons.Create(r.Context(), c); err != nil {
		respondError(w, r, err, "Error saving coupon")
		return
	}

	respondJSON(w, http.StatusCreated, struct {
		Success bool       `json:"success"`
		Message string     `json:"message"`
		Coupon  couponJSON `json:"coupon"`
	}{true, "Coupon saved successfully", toCouponJSON(c)})
}

// ApplyCoupon computes the discount a code yields on the given cart total.
func (h *Handler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code      string  `json:"code"`
		CartTotal float64 `json:"cartTotal"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondValidation(w, "Invalid request body")
		return
	}
	if req.Code == "" {
		respondValidation(w, "code is required.")
		return
	}

	applied, err := h.coupons.Apply(r.Context(), req.Code, decimal.NewFromFloat(req.CartTotal))
	if err != nil {
		respondError(w, r, err, "Error applying coupon")
		return
	}

	respondJSON(w, http.StatusOK, struct {
		Success    bool    `json:"success"`
		Discount   float64 `json:"discount"`
		FinalTotal float64 `json:"finalTotal"`
	}{true, applied.Discount.InexactFloat64(), applied.FinalTotal.InexactFloat64()})
}

// VerifyCoupon returns the coupon for a code without applying it.
func (h *Handler) VerifyCoupon(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondValidation(w, "Invalid request body")
		return
	}

	c, err := h.coupons.Verify(r.Context(), req.Code)
	if err != nil {
		respondError(w, r, err, "Invalid coupon code")
		return
	}

	respondJSON(w, http.StatusOK, struct {
		Success bool       `json:"success"`
		Coupon  couponJSON `json:"coupon"`
	}{true, toCouponJSON(c)})
}

// DeleteCoupon removes a coupon by code and announces the removal.
func (h *Handler) DeleteCoupon(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondValidation(w, "Invalid request body")
		return
	}

	if err := h.coupons.Delete(r.Context(), req.Code); err != nil {
		respondError(w, r, err, "Coupon not found")
		return
	}

	respondJSON(w, http.StatusOK, struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}{true, "Coupon deleted successfully"})
}
