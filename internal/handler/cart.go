package handler

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/pecommerce/storefront/internal/domain/cart"
	"github.com/pecommerce/storefront/internal/domain/order"
)

type cartEntryJSON struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type cartJSON struct {
	UserID string          `json:"userId"`
	Items  []cartEntryJSON `json:"productsInCart"`
}

func toCartJSON(c *cart.Cart) cartJSON {
	items := make([]cartEntryJSON, len(c.Items))
	for i, e := range c.Items {
		items[i] = cartEntryJSON{ProductID: e.ProductID, Quantity: e.Quantity}
	}
	return cartJSON{UserID: c.UserID, Items: items}
}

// AddToCart appends a product selection to the user's cart, creating the cart
// when the user has none.
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID    string `json:"userId"`
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondValidation(w, "Invalid request body")
		return
	}
	if req.UserID == "" || req.ProductID == "" {
		respondValidation(w, "userId and productId are required.")
		return
	}

	c, err := h.carts.AddItem(r.Context(), req.UserID, cart.Entry{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		respondError(w, r, err, "Error adding product to cart")
		return
	}

	respondJSON(w, http.StatusOK, struct {
		Success bool     `json:"success"`
		Message string   `json:"message"`
		Cart    cartJSON `json:"cart"`
	}{true, "Product added to cart successfully", toCartJSON(c)})
}

// GetCart returns the user's cart.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"userId"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondValidation(w, "Invalid request body")
		return
	}

	c, err := h.carts.Get(r.Context(), req.UserID)
	if err != nil {
		respondError(w, r, err, "Cart not found for this user")
		return
	}

	respondJSON(w, http.StatusOK, struct {
		Success bool     `json:"success"`
		Cart    cartJSON `json:"cart"`
	}{true, toCartJSON(c)})
}

// UpdateQuantity replaces the quantity for a product already in the cart.
func (h *Handler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID    string `json:"userId"`
		ProductID string `json:"productId"`
		Quantity  *int   `json:"productQty"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondValidation(w, "Invalid request body")
		return
	}
	if req.UserID == "" || req.ProductID == "" || req.Quantity == nil {
		respondValidation(w, "userId, productId, and a valid productQty are required.")
		return
	}

	if err := h.carts.UpdateQuantity(r.Context(), req.UserID, req.ProductID, *req.Quantity); err != nil {
		respondError(w, r, err, "An error occurred while updating the quantity.")
		return
	}

	respondJSON(w, http.StatusOK, struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}{true, "Quantity updated successfully."})
}

// DeleteItems removes a product from the user's cart.
func (h *Handler) DeleteItems(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID    string `json:"userId"`
		ProductID string `json:"productId"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondValidation(w, "Invalid request body")
		return
	}
	if req.UserID == "" || req.ProductID == "" {
		respondValidation(w, "userId and productId are required.")
		return
	}

	if err := h.carts.RemoveItem(r.Context(), req.UserID, req.ProductID); err != nil {
		respondError(w, r, err, "Item not found in the cart.")
		return
	}

	respondJSON(w, http.StatusOK, struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}{true, "Item deleted successfully."})
}

// PlaceOrder prices the declared total, persists the order, and returns the
// generated identifiers with the computed final total.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID  string          `json:"userId"`
		Date    string          `json:"date"`
		Time    string          `json:"time"`
		Address string          `json:"address"`
		Price   float64         `json:"price"`
		Items   []cartEntryJSON `json:"productsOrdered"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondValidation(w, "Invalid request body")
		return
	}

	items := make([]order.Item, len(req.Items))
	for i, it := range req.Items {
		items[i] = order.Item{ProductID: it.ProductID, Quantity: it.Quantity}
	}

	result, err := h.orders.PlaceOrder(r.Context(), order.PlaceOrderRequest{
		UserID:  req.UserID,
		Date:    req.Date,
		Time:    req.Time,
		Address: req.Address,
		Price:   decimal.NewFromFloat(req.Price),
		Items:   items,
	})
	if err != nil {
		respondError(w, r, err, "Error placing order")
		return
	}

	respondJSON(w, http.StatusOK, struct {
		Success    bool    `json:"success"`
		Message    string  `json:"message"`
		OrderID    string  `json:"orderId"`
		TrackingID string  `json:"trackingId"`
		FinalTotal float64 `json:"finalTotal"`
	}{
		Success:    true,
		Message:    "Order placed successfully",
		OrderID:    result.Order.ID,
		TrackingID: result.Order.TrackingID,
		FinalTotal: result.Order.FinalTotal.InexactFloat64(),
	})
}
