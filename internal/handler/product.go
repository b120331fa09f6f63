package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pecommerce/storefront/internal/domain/product"
)

type productJSON struct {
	ProductID   string   `json:"productId"`
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Images      []string `json:"img"`
	Category    string   `json:"category"`
	Rating      float64  `json:"rating"`
	InStock     int      `json:"inStockValue"`
	SoldStock   int      `json:"soldStockValue"`
	Visibility  string   `json:"visibility"`
	Description string   `json:"description"`
}

func toProductJSON(p *product.Product) productJSON {
	return productJSON{
		ProductID:   p.ID,
		Name:        p.Name,
		Price:       p.Price.InexactFloat64(),
		Images:      p.Images,
		Category:    p.Category,
		Rating:      p.Rating.InexactFloat64(),
		InStock:     p.InStockValue,
		SoldStock:   p.SoldStockValue,
		Visibility:  p.Visibility,
		Description: p.Description,
	}
}

// ListProducts returns the visible catalog.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		respondError(w, r, err, "Error fetching products")
		return
	}

	out := make([]productJSON, len(products))
	for i := range products {
		out[i] = toProductJSON(&products[i])
	}
	respondJSON(w, http.StatusOK, struct {
		Success  bool          `json:"success"`
		Products []productJSON `json:"products"`
	}{true, out})
}

// AddProduct creates a catalog product. Image handling stays external; the
// request carries already-hosted image URLs.
func (h *Handler) AddProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         string   `json:"name"`
		Price        float64  `json:"price"`
		Category     string   `json:"category"`
		Description  string   `json:"description"`
		InStockValue int      `json:"inStockValue"`
		Images       []string `json:"img"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondValidation(w, "Invalid request body")
		return
	}
	if req.Name == "" || req.Price <= 0 {
		respondValidation(w, "name and a positive price are required.")
		return
	}

	p := &product.Product{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Price:        decimal.NewFromFloat(req.Price),
		Images:       req.Images,
		Category:     req.Category,
		Rating:       decimal.Zero,
		InStockValue: req.InStockValue,
		Visibility:   product.VisibilityOn,
		Description:  req.Description,
	}
	if err := h.products.Create(r.Context(), p); err != nil {
		respondError(w, r, err, "Error adding product")
		return
	}

	respondJSON(w, http.StatusCreated, struct {
		Success bool        `json:"success"`
		Product productJSON `json:"product"`
	}{true, toProductJSON(p)})
}

// AddProductDescription sets the description on an existing product.
func (h *Handler) AddProductDescription(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID   string `json:"productId"`
		Description string `json:"description"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondValidation(w, "Invalid request body")
		return
	}
	if req.ProductID == "" || req.Description == "" {
		respondValidation(w, "Product ID and description are required.")
		return
	}

	if err := h.products.UpdateDescription(r.Context(), req.ProductID, req.Description); err != nil {
		respondError(w, r, err, "Error adding product description.")
		return
	}

	respondJSON(w, http.StatusOK, struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}{true, "Product description added successfully."})
}
