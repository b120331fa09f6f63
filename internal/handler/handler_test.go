package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/pecommerce/storefront/internal/domain/auth"
	"github.com/pecommerce/storefront/internal/domain/cart"
	"github.com/pecommerce/storefront/internal/domain/coupon"
	"github.com/pecommerce/storefront/internal/domain/order"
	"github.com/pecommerce/storefront/internal/domain/product"
	"github.com/pecommerce/storefront/internal/domain/seller"
	"github.com/pecommerce/storefront/internal/domain/user"
	"github.com/pecommerce/storefront/internal/mail"
)

// --- In-memory repositories ---

type memUsers struct {
	byID map[string]*user.User
}

func (m *memUsers) GetByID(_ context.Context, id string) (*user.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (m *memUsers) ListEmails(_ context.Context) ([]string, error) {
	out := make([]string, 0, len(m.byID))
	for _, u := range m.byID {
		out = append(out, u.Email)
	}
	return out, nil
}

func (m *memUsers) Create(_ context.Context, u *user.User) error {
	m.byID[u.ID] = u
	return nil
}

type memProducts struct {
	byID map[string]*product.Product
}

func (m *memProducts) List(_ context.Context) ([]product.Product, error) {
	var out []product.Product
	for _, p := range m.byID {
		if p.Visibility == product.VisibilityOn {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memProducts) GetByID(_ context.Context, id string) (*product.Product, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	return p, nil
}

func (m *memProducts) GetByIDs(_ context.Context, ids []string) ([]product.Product, error) {
	var out []product.Product
	for _, id := range ids {
		if p, ok := m.byID[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memProducts) Create(_ context.Context, p *product.Product) error {
	m.byID[p.ID] = p
	return nil
}

func (m *memProducts) UpdateDescription(_ context.Context, id, description string) error {
	p, ok := m.byID[id]
	if !ok {
		return product.ErrNotFound
	}
	p.Description = description
	return nil
}

type memOrders struct {
	byID map[string]*order.Order
}

func (m *memOrders) Create(_ context.Context, o *order.Order) error {
	m.byID[o.ID] = o
	return nil
}

func (m *memOrders) GetByID(_ context.Context, id string) (*order.Order, error) {
	o, ok := m.byID[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	return o, nil
}

type memCarts struct {
	byUser map[string]*cart.Cart
}

func (m *memCarts) GetByUser(_ context.Context, userID string) (*cart.Cart, error) {
	c, ok := m.byUser[userID]
	if !ok {
		return nil, cart.ErrNotFound
	}
	return c, nil
}

func (m *memCarts) Save(_ context.Context, c *cart.Cart) error {
	m.byUser[c.UserID] = c
	return nil
}

type memCoupons struct {
	byCode map[string]*coupon.Coupon
}

func (m *memCoupons) FindByCode(_ context.Context, code string) (*coupon.Coupon, error) {
	c, ok := m.byCode[code]
	if !ok {
		return nil, coupon.ErrNotFound
	}
	return c, nil
}

func (m *memCoupons) List(_ context.Context) ([]coupon.Coupon, error) {
	var out []coupon.Coupon
	for _, c := range m.byCode {
		out = append(out, *c)
	}
	return out, nil
}

func (m *memCoupons) Save(_ context.Context, c *coupon.Coupon) error {
	if _, ok := m.byCode[c.Code]; ok {
		return coupon.ErrAlreadyExists
	}
	m.byCode[c.Code] = c
	return nil
}

func (m *memCoupons) Delete(_ context.Context, code string) error {
	if _, ok := m.byCode[code]; !ok {
		return coupon.ErrNotFound
	}
	delete(m.byCode, code)
	return nil
}

type memSellers struct {
	byID map[string]*seller.Seller
}

func (m *memSellers) FindByID(_ context.Context, id string) (*seller.Seller, error) {
	s, ok := m.byID[id]
	if !ok {
		return nil, seller.ErrNotFound
	}
	return s, nil
}

func (m *memSellers) FindByEmail(_ context.Context, email string) (*seller.Seller, error) {
	for _, s := range m.byID {
		if s.Email == email {
			return s, nil
		}
	}
	return nil, seller.ErrNotFound
}

func (m *memSellers) FindByIDAndContact(_ context.Context, id, contact string) (*seller.Seller, error) {
	s, ok := m.byID[id]
	if !ok || (s.Email != contact && s.PhoneNumber != contact) {
		return nil, seller.ErrNotFound
	}
	return s, nil
}

func (m *memSellers) FindByVerificationToken(_ context.Context, token string) (*seller.Seller, error) {
	for _, s := range m.byID {
		if s.VerificationToken != "" && s.VerificationToken == token {
			return s, nil
		}
	}
	return nil, seller.ErrNotFound
}

func (m *memSellers) List(_ context.Context) ([]seller.Seller, error) {
	var out []seller.Seller
	for _, s := range m.byID {
		out = append(out, *s)
	}
	return out, nil
}

func (m *memSellers) Create(_ context.Context, s *seller.Seller) error {
	m.byID[s.ID] = s
	return nil
}

func (m *memSellers) Update(_ context.Context, s *seller.Seller) error {
	m.byID[s.ID] = s
	return nil
}

func (m *memSellers) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return seller.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

type memAPIKeys struct {
	byHash map[string]*auth.APIKeyInfo
}

func (m *memAPIKeys) FindByHash(_ context.Context, hash string) (*auth.APIKeyInfo, error) {
	info, ok := m.byHash[hash]
	if !ok {
		return nil, errors.New("api key not found")
	}
	return info, nil
}

// --- Harness ---

const (
	testPepper   = "test-pepper"
	testAdminKey = "sk-admin-test"
)

type fixture struct {
	mux      *http.ServeMux
	users    *memUsers
	products *memProducts
	orders   *memOrders
	carts    *memCarts
	coupons  *memCoupons
	sellers  *memSellers
}

func newFixture() *fixture {
	f := &fixture{
		users:    &memUsers{byID: map[string]*user.User{}},
		products: &memProducts{byID: map[string]*product.Product{}},
		orders:   &memOrders{byID: map[string]*order.Order{}},
		carts:    &memCarts{byUser: map[string]*cart.Cart{}},
		coupons:  &memCoupons{byCode: map[string]*coupon.Coupon{}},
		sellers:  &memSellers{byID: map[string]*seller.Seller{}},
	}

	keys := &memAPIKeys{byHash: map[string]*auth.APIKeyInfo{}}
	adminHash := HashKey([]byte(testPepper), testAdminKey)
	keys.byHash[adminHash] = &auth.APIKeyInfo{
		ID:      "admin",
		KeyHash: adminHash,
		Scopes:  []string{auth.ScopeAdmin},
	}
	readerHash := HashKey([]byte(testPepper), "sk-reader")
	keys.byHash[readerHash] = &auth.APIKeyInfo{
		ID:      "reader",
		KeyHash: readerHash,
		Scopes:  []string{"read"},
	}

	lg := zap.NewNop()
	h := NewHandler(
		order.NewService(f.users, f.products, f.orders, mail.Discard, lg),
		cart.NewService(f.carts),
		coupon.NewService(f.coupons, f.users, mail.Discard, lg),
		seller.NewService(f.sellers, mail.Discard, "https://store.example.com", lg),
		f.products,
		NewSecurityHandler(keys, []byte(testPepper)),
	)

	f.mux = http.NewServeMux()
	h.Register(f.mux)
	return f
}

func (f *fixture) do(t *testing.T, method, path string, body any, headers map[string]string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	f.mux.ServeHTTP(w, req)

	var decoded map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.NewDecoder(w.Body).Decode(&decoded))
	}
	return w, decoded
}

func adminHeaders() map[string]string {
	return map[string]string{APIKeyHeader: testAdminKey}
}

func (f *fixture) seedUser() {
	f.users.byID["u1"] = &user.User{ID: "u1", Name: "Priya", Email: "priya@example.com"}
}

// --- Order placement ---

func TestPlaceOrderEndpoint(t *testing.T) {
	f := newFixture()
	f.seedUser()

	w, body := f.do(t, http.MethodPost, "/cart/place-order", map[string]any{
		"userId":  "u1",
		"address": "12 MG Road",
		"price":   600,
		"productsOrdered": []map[string]any{
			{"productId": "p1", "quantity": 2},
		},
	}, nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
	assert.Regexp(t, `^\d{6}$`, body["orderId"])
	assert.Regexp(t, `^[0-9A-Z]{12}$`, body["trackingId"])
	assert.InDelta(t, 540.0, body["finalTotal"], 0.001)

	orderID := body["orderId"].(string)
	stored, err := f.orders.GetByID(context.Background(), orderID)
	require.NoError(t, err)
	assert.Equal(t, "priya@example.com", stored.Email)
}

func TestPlaceOrderEndpoint_BoundaryPrice(t *testing.T) {
	f := newFixture()
	f.seedUser()

	w, body := f.do(t, http.MethodPost, "/cart/place-order", map[string]any{
		"userId": "u1",
		"price":  499,
		"productsOrdered": []map[string]any{
			{"productId": "p1", "quantity": 1},
		},
	}, nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.InDelta(t, 549.0, body["finalTotal"], 0.001)
}

func TestPlaceOrderEndpoint_MissingFields(t *testing.T) {
	f := newFixture()
	f.seedUser()

	w, body := f.do(t, http.MethodPost, "/cart/place-order", map[string]any{
		"userId": "u1",
		"price":  600,
	}, nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, body["success"])
}

func TestPlaceOrderEndpoint_UnknownUser(t *testing.T) {
	f := newFixture()

	w, _ := f.do(t, http.MethodPost, "/cart/place-order", map[string]any{
		"userId": "ghost",
		"price":  600,
		"productsOrdered": []map[string]any{
			{"productId": "p1", "quantity": 1},
		},
	}, nil)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, f.orders.byID)
}

// --- Cart ---

func TestCartFlow(t *testing.T) {
	f := newFixture()

	w, body := f.do(t, http.MethodPost, "/cart/addtocart", map[string]any{
		"userId": "u1", "productId": "p1", "quantity": 2,
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])

	w, body = f.do(t, http.MethodPost, "/cart/get-cart", map[string]any{"userId": "u1"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	cartBody := body["cart"].(map[string]any)
	items := cartBody["productsInCart"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].(map[string]any)["productId"])

	w, _ = f.do(t, http.MethodPut, "/cart/update-quantity", map[string]any{
		"userId": "u1", "productId": "p1", "productQty": 5,
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, f.carts.byUser["u1"].Items[0].Quantity)

	w, _ = f.do(t, http.MethodPost, "/cart/delete-items", map[string]any{
		"userId": "u1", "productId": "p1",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, f.carts.byUser["u1"].Items)
}

func TestGetCart_Unknown(t *testing.T) {
	f := newFixture()

	w, _ := f.do(t, http.MethodPost, "/cart/get-cart", map[string]any{"userId": "nobody"}, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateQuantity_MissingQty(t *testing.T) {
	f := newFixture()

	w, _ := f.do(t, http.MethodPut, "/cart/update-quantity", map[string]any{
		"userId": "u1", "productId": "p1",
	}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Coupons ---

func (f *fixture) seedCoupon(code string, pct int64, expiry time.Time) {
	f.coupons.byCode[code] = &coupon.Coupon{
		Code:               code,
		DiscountPercentage: decimal.NewFromInt(pct),
		ExpiryDate:         expiry,
	}
}

func TestApplyCoupon(t *testing.T) {
	f := newFixture()
	f.seedCoupon("SAVE20", 20, time.Now().Add(24*time.Hour))

	w, body := f.do(t, http.MethodPost, "/coupon/apply-coupon", map[string]any{
		"code": "SAVE20", "cartTotal": 1000,
	}, nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.InDelta(t, 200.0, body["discount"], 0.001)
	assert.InDelta(t, 800.0, body["finalTotal"], 0.001)
}

func TestApplyCoupon_Expired(t *testing.T) {
	f := newFixture()
	f.seedCoupon("OLD", 20, time.Now().Add(-time.Hour))

	w, body := f.do(t, http.MethodPost, "/coupon/apply-coupon", map[string]any{
		"code": "OLD", "cartTotal": 1000,
	}, nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, body["success"])
}

func TestApplyCoupon_Unknown(t *testing.T) {
	f := newFixture()

	w, _ := f.do(t, http.MethodPost, "/coupon/apply-coupon", map[string]any{
		"code": "NOPE", "cartTotal": 1000,
	}, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestSaveCoupon_RequiresAdminKey(t *testing.T) {
	f := newFixture()
	payload := map[string]any{
		"code":               "NEW10",
		"discountPercentage": 10,
		"expiryDate":         time.Now().Add(24 * time.Hour).Format(time.RFC3339),
	}

	w, body := f.do(t, http.MethodPost, "/coupon/save-coupon", payload, nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Access denied. Admins only.", body["message"])

	w, _ = f.do(t, http.MethodPost, "/coupon/save-coupon", payload, map[string]string{APIKeyHeader: "wrong"})
	require.Equal(t, http.StatusForbidden, w.Code)

	// A valid key without the admin scope is still rejected.
	w, _ = f.do(t, http.MethodPost, "/coupon/save-coupon", payload, map[string]string{APIKeyHeader: "sk-reader"})
	require.Equal(t, http.StatusForbidden, w.Code)

	w, body = f.do(t, http.MethodPost, "/coupon/save-coupon", payload, adminHeaders())
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, true, body["success"])

	// Duplicate code.
	w, _ = f.do(t, http.MethodPost, "/coupon/save-coupon", payload, adminHeaders())
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSaveCoupon_BadExpiry(t *testing.T) {
	f := newFixture()

	w, _ := f.do(t, http.MethodPost, "/coupon/save-coupon", map[string]any{
		"code":       "NEW10",
		"expiryDate": "next tuesday",
	}, adminHeaders())
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteCoupon(t *testing.T) {
	f := newFixture()
	f.seedCoupon("GONE", 10, time.Now().Add(24*time.Hour))

	w, _ := f.do(t, http.MethodDelete, "/coupon/delete-coupon", map[string]any{"code": "GONE"}, adminHeaders())
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = f.do(t, http.MethodPost, "/coupon/verify-coupon", map[string]any{"code": "GONE"}, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

// --- Sellers ---

func TestSellerLifecycle(t *testing.T) {
	f := newFixture()

	w, body := f.do(t, http.MethodPost, "/auth/seller/signup", map[string]any{
		"phoneNumber": "9876543210",
		"emailId":     "shop@example.com",
		"password":    "hunter2",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	sellerID := body["sellerId"].(string)
	assert.Regexp(t, `^MBSLR\d{5}$`, sellerID)

	token := f.sellers.byID[sellerID].VerificationToken
	require.NotEmpty(t, token)

	w, _ = f.do(t, http.MethodGet, "/auth/verify-email?token="+token, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = f.do(t, http.MethodPost, "/auth/login", map[string]any{
		"sellerId":     sellerID,
		"emailOrPhone": "shop@example.com",
		"password":     "hunter2",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, body = f.do(t, http.MethodPost, "/auth/verify-seller", map[string]any{"sellerId": sellerID}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "loggedin", body["loggedIn"])

	w, body = f.do(t, http.MethodPost, "/auth/logout", map[string]any{"sellerId": sellerID}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "loggedout", body["loggedIn"])
}

func TestSellerLogin_BeforeVerification(t *testing.T) {
	f := newFixture()

	w, body := f.do(t, http.MethodPost, "/auth/seller/signup", map[string]any{
		"emailId":  "shop@example.com",
		"password": "hunter2",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w, _ = f.do(t, http.MethodPost, "/auth/login", map[string]any{
		"sellerId":     body["sellerId"],
		"emailOrPhone": "shop@example.com",
		"password":     "hunter2",
	}, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBlockSeller(t *testing.T) {
	f := newFixture()
	f.sellers.byID["MBSLR12345"] = &seller.Seller{
		ID:            "MBSLR12345",
		AccountStatus: seller.StatusActive,
	}

	w, body := f.do(t, http.MethodPost, "/admin/seller/MBSLR12345/block", nil, adminHeaders())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Seller blocked", body["message"])

	w, body = f.do(t, http.MethodPost, "/admin/seller/MBSLR12345/block", nil, adminHeaders())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Seller active", body["message"])
}

func TestListSellers_OmitsCredentials(t *testing.T) {
	f := newFixture()
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	f.sellers.byID["MBSLR12345"] = &seller.Seller{
		ID:           "MBSLR12345",
		Email:        "shop@example.com",
		PasswordHash: string(hash),
	}

	w, body := f.do(t, http.MethodGet, "/admin/sellers", nil, adminHeaders())
	require.Equal(t, http.StatusOK, w.Code)

	sellers := body["sellers"].([]any)
	require.Len(t, sellers, 1)
	_, hasHash := sellers[0].(map[string]any)["passwordHash"]
	assert.False(t, hasHash)
}

func TestDeleteSeller(t *testing.T) {
	f := newFixture()
	f.sellers.byID["MBSLR12345"] = &seller.Seller{ID: "MBSLR12345"}

	w, _ := f.do(t, http.MethodDelete, "/admin/seller/MBSLR12345", nil, adminHeaders())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, f.sellers.byID)
}

// --- Products ---

func TestAddProductAndDescription(t *testing.T) {
	f := newFixture()

	w, body := f.do(t, http.MethodPost, "/admin/add-product", map[string]any{
		"name":         "Clay Vase",
		"price":        249.50,
		"category":     "decor",
		"inStockValue": 12,
		"img":          []string{"https://cdn.example.com/vase.jpg"},
	}, adminHeaders())
	require.Equal(t, http.StatusCreated, w.Code)

	created := body["product"].(map[string]any)
	productID := created["productId"].(string)
	require.NotEmpty(t, productID)

	w, _ = f.do(t, http.MethodPost, "/products/add-product-description", map[string]any{
		"productId":   productID,
		"description": "Hand-thrown terracotta vase.",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Hand-thrown terracotta vase.", f.products.byID[productID].Description)

	w, body = f.do(t, http.MethodGet, "/products", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	products := body["products"].([]any)
	require.Len(t, products, 1)
	assert.Equal(t, "Clay Vase", products[0].(map[string]any)["name"])
}

func TestAddProduct_Validation(t *testing.T) {
	f := newFixture()

	w, _ := f.do(t, http.MethodPost, "/admin/add-product", map[string]any{
		"name": "Freebie", "price": 0,
	}, adminHeaders())
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListProducts_HidesInvisible(t *testing.T) {
	f := newFixture()
	f.products.byID["p1"] = &product.Product{ID: "p1", Name: "Visible", Visibility: product.VisibilityOn}
	f.products.byID["p2"] = &product.Product{ID: "p2", Name: "Hidden", Visibility: product.VisibilityOff}

	w, body := f.do(t, http.MethodGet, "/products", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	products := body["products"].([]any)
	require.Len(t, products, 1)
	assert.Equal(t, "Visible", products[0].(map[string]any)["name"])
}
