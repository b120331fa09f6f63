package handler

import "net/http"

type sellerJSON struct {
	SellerID      string `json:"sellerId"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	PhoneNumber   string `json:"phoneNumber"`
	EmailVerified bool   `json:"emailVerified"`
	BusinessName  string `json:"businessName"`
	LoggedIn      string `json:"loggedIn"`
	AccountStatus string `json:"accountStatus"`
}

// ListSellers returns all seller accounts without credential fields.
func (h *Handler) ListSellers(w http.ResponseWriter, r *http.Request) {
	sellers, err := h.sellers.List(r.Context())
	if err != nil {
		respondError(w, r, err, "Error fetching sellers")
		return
	}

	out := make([]sellerJSON, len(sellers))
	for i, s := range sellers {
		out[i] = sellerJSON{
			SellerID:      s.ID,
			Name:          s.Name,
			Email:         s.Email,
			PhoneNumber:   s.PhoneNumber,
			EmailVerified: s.EmailVerified,
			BusinessName:  s.BusinessName,
			LoggedIn:      s.LoggedIn,
			AccountStatus: s.AccountStatus,
		}
	}
	respondJSON(w, http.StatusOK, struct {
		Success bool         `json:"success"`
		Sellers []sellerJSON `json:"sellers"`
	}{true, out})
}

// BlockSeller toggles a seller between blocked and active.
func (h *Handler) BlockSeller(w http.ResponseWriter, r *http.Request) {
	sellerID := r.PathValue("sellerId")

	status, err := h.sellers.ToggleBlock(r.Context(), sellerID)
	if err != nil {
		respondError(w, r, err, "Error updating seller status")
		return
	}

	respondJSON(w, http.StatusOK, struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}{true, "Seller " + status})
}

// DeleteSeller removes a seller account.
func (h *Handler) DeleteSeller(w http.ResponseWriter, r *http.Request) {
	sellerID := r.PathValue("sellerId")

	if err := h.sellers.Delete(r.Context(), sellerID); err != nil {
		respondError(w, r, err, "Error deleting seller")
		return
	}

	respondJSON(w, http.StatusOK, struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}{true, "Seller account deleted"})
}
