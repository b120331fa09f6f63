// Package handler exposes the storefront's HTTP surface. Handlers decode the
// JSON contract, delegate to the domain services, and map domain errors onto
// the {success, message, error} body shape.
package handler

import (
	"net/http"

	"github.com/pecommerce/storefront/internal/domain/cart"
	"github.com/pecommerce/storefront/internal/domain/coupon"
	"github.com/pecommerce/storefront/internal/domain/order"
	"github.com/pecommerce/storefront/internal/domain/product"
	"github.com/pecommerce/storefront/internal/domain/seller"
)

// Handler holds the domain services behind the HTTP routes.
type Handler struct {
	orders   *order.Service
	carts    *cart.Service
	coupons  *coupon.Service
	sellers  *seller.Service
	products product.Repository

	admin *SecurityHandler
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	orders *order.Service,
	carts *cart.Service,
	coupons *coupon.Service,
	sellers *seller.Service,
	products product.Repository,
	admin *SecurityHandler,
) *Handler {
	return &Handler{
		orders:   orders,
		carts:    carts,
		coupons:  coupons,
		sellers:  sellers,
		products: products,
		admin:    admin,
	}
}

// Register attaches all storefront routes to the mux. Administrative routes
// are wrapped with the API-key guard.
func (h *Handler) Register(mux *http.ServeMux) {
	// Cart and checkout.
	mux.HandleFunc("POST /cart/addtocart", h.AddToCart)
	mux.HandleFunc("POST /cart/get-cart", h.GetCart)
	mux.HandleFunc("PUT /cart/update-quantity", h.UpdateQuantity)
	mux.HandleFunc("POST /cart/delete-items", h.DeleteItems)
	mux.HandleFunc("POST /cart/place-order", h.PlaceOrder)

	// Coupons.
	mux.HandleFunc("GET /coupon/get-coupon", h.ListCoupons)
	mux.HandleFunc("POST /coupon/apply-coupon", h.ApplyCoupon)
	mux.HandleFunc("POST /coupon/verify-coupon", h.VerifyCoupon)
	mux.Handle("POST /coupon/save-coupon", h.admin.Require(http.HandlerFunc(h.SaveCoupon)))
	mux.Handle("DELETE /coupon/delete-coupon", h.admin.Require(http.HandlerFunc(h.DeleteCoupon)))

	// Seller accounts.
	mux.HandleFunc("POST /auth/seller/signup", h.SellerSignup)
	mux.HandleFunc("GET /auth/verify-email", h.VerifyEmail)
	mux.HandleFunc("POST /auth/login", h.SellerLogin)
	mux.HandleFunc("POST /auth/verify-seller", h.VerifySeller)
	mux.HandleFunc("POST /auth/logout", h.SellerLogout)

	// Catalog.
	mux.HandleFunc("GET /products", h.ListProducts)
	mux.HandleFunc("POST /products/add-product-description", h.AddProductDescription)
	mux.Handle("POST /admin/add-product", h.admin.Require(http.HandlerFunc(h.AddProduct)))

	// Seller administration.
	mux.Handle("GET /admin/sellers", h.admin.Require(http.HandlerFunc(h.ListSellers)))
	mux.Handle("POST /admin/seller/{sellerId}/block", h.admin.Require(http.HandlerFunc(h.BlockSeller)))
	mux.Handle("DELETE /admin/seller/{sellerId}", h.admin.Require(http.HandlerFunc(h.DeleteSeller)))
}
