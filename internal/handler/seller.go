package handler

import "net/http"

// SellerSignup registers a new seller account and sends the verification email.
func (h *Handler) SellerSignup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PhoneNumber string `json:"phoneNumber"`
		EmailID     string `json:"emailId"`
		Password    string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondValidation(w, "Invalid request body")
		return
	}
	if req.EmailID == "" || req.Password == "" {
		respondValidation(w, "emailId and password are required.")
		return
	}

	sellerID, err := h.sellers.Signup(r.Context(), req.PhoneNumber, req.EmailID, req.Password)
	if err != nil {
		respondError(w, r, err, "Error registering seller")
		return
	}

	respondJSON(w, http.StatusCreated, struct {
		Success  bool   `json:"success"`
		Message  string `json:"message"`
		SellerID string `json:"sellerId"`
	}{true, "Seller registered successfully. Verify your email.", sellerID})
}

// VerifyEmail confirms a seller's email from the emailed token link.
func (h *Handler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		respondValidation(w, "token is required.")
		return
	}

	if err := h.sellers.VerifyEmail(r.Context(), token); err != nil {
		respondError(w, r, err, "Verification failed")
		return
	}

	respondJSON(w, http.StatusOK, struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}{true, "Email verified successfully"})
}

// SellerLogin authenticates a seller and marks the account logged in.
func (h *Handler) SellerLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SellerID     string `json:"sellerId"`
		EmailOrPhone string `json:"emailOrPhone"`
		Password     string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondValidation(w, "Invalid request body")
		return
	}
	if req.SellerID == "" || req.EmailOrPhone == "" || req.Password == "" {
		respondValidation(w, "Seller ID, email/phone, and password are required")
		return
	}

	if err := h.sellers.Login(r.Context(), req.SellerID, req.EmailOrPhone, req.Password); err != nil {
		respondError(w, r, err, "Error logging in")
		return
	}

	respondJSON(w, http.StatusOK, struct {
		Success  bool   `json:"success"`
		Message  string `json:"message"`
		SellerID string `json:"sellerId"`
	}{true, "Login successful", req.SellerID})
}

// VerifySeller reports whether a seller id exists and its login state.
func (h *Handler) VerifySeller(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SellerID string `json:"sellerId"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondValidation(w, "Invalid request body")
		return
	}
	if req.SellerID == "" {
		respondValidation(w, "Seller ID is required")
		return
	}

	sl, err := h.sellers.Get(r.Context(), req.SellerID)
	if err != nil {
		respondError(w, r, err, "Invalid seller ID")
		return
	}

	respondJSON(w, http.StatusOK, struct {
		Success  bool   `json:"success"`
		Message  string `json:"message"`
		LoggedIn string `json:"loggedIn"`
	}{true, "Valid seller ID", sl.LoggedIn})
}

// SellerLogout marks the seller logged out.
func (h *Handler) SellerLogout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SellerID string `json:"sellerId"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondValidation(w, "Invalid request body")
		return
	}
	if req.SellerID == "" {
		respondValidation(w, "Seller ID is required")
		return
	}

	if err := h.sellers.Logout(r.Context(), req.SellerID); err != nil {
		respondError(w, r, err, "Error logging out")
		return
	}

	respondJSON(w, http.StatusOK, struct {
		Success  bool   `json:"success"`
		Message  string `json:"message"`
		LoggedIn string `json:"loggedIn"`
	}{true, "Seller logged out successfully", "loggedout"})
}
