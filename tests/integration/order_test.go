//go:build integration

package integration

import (
	"context"
	"net/http"
	"regexp"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/pecommerce/storefront/internal/domain/user"
)

var (
	orderIDPattern    = regexp.MustCompile(`^\d{6}$`)
	trackingIDPattern = regexp.MustCompile(`^[0-9A-Z]{12}$`)
)

type placeOrderResponse struct {
	Success    bool    `json:"success"`
	Message    string  `json:"message"`
	OrderID    string  `json:"orderId"`
	TrackingID string  `json:"trackingId"`
	FinalTotal float64 `json:"finalTotal"`
}

func seedUser(t *testing.T, id, name, email string) {
	t.Helper()

	err := userRepo.Upsert(context.Background(), &user.User{
		ID:            id,
		Name:          name,
		Email:         email,
		AccountStatus: "open",
		Phone:         "not available",
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
}

func TestPlaceOrder_HighValueGetsDiscount(t *testing.T) {
	seedUser(t, "order-user-1", "Priya", "priya@example.com")

	resp := doPost(t, "/cart/place-order", map[string]any{
		"userId":  "order-user-1",
		"address": "12 MG Road",
		"price":   600,
		"productsOrdered": []map[string]any{
			{"productId": "p1", "quantity": 2},
		},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decodeJSON[placeOrderResponse](t, resp)
	if !orderIDPattern.MatchString(body.OrderID) {
		t.Errorf("order id %q does not match pattern", body.OrderID)
	}
	if !trackingIDPattern.MatchString(body.TrackingID) {
		t.Errorf("tracking id %q does not match pattern", body.TrackingID)
	}
	if body.FinalTotal != 540 {
		t.Errorf("expected final total 540, got %v", body.FinalTotal)
	}

	stored, err := orderRepo.GetByID(context.Background(), body.OrderID)
	if err != nil {
		t.Fatalf("load stored order: %v", err)
	}
	if stored.Email != "priya@example.com" {
		t.Errorf("stored email = %q", stored.Email)
	}
	if !stored.FinalTotal.Equal(decimal.NewFromInt(540)) {
		t.Errorf("stored final total = %s", stored.FinalTotal)
	}
	if !stored.Discount.Equal(decimal.NewFromInt(60)) {
		t.Errorf("stored discount = %s", stored.Discount)
	}
	if !stored.DeliveryCharges.IsZero() {
		t.Errorf("stored delivery charges = %s", stored.DeliveryCharges)
	}
	if len(stored.Items) != 1 || stored.Items[0].ProductID != "p1" || stored.Items[0].Quantity != 2 {
		t.Errorf("stored items = %+v", stored.Items)
	}
}

func TestPlaceOrder_ThresholdPricePaysDelivery(t *testing.T) {
	seedUser(t, "order-user-2", "Arun", "arun@example.com")

	resp := doPost(t, "/cart/place-order", map[string]any{
		"userId": "order-user-2",
		"price":  499,
		"productsOrdered": []map[string]any{
			{"productId": "p1", "quantity": 1},
		},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decodeJSON[placeOrderResponse](t, resp)
	if body.FinalTotal != 549 {
		t.Errorf("expected final total 549, got %v", body.FinalTotal)
	}
}

func TestPlaceOrder_MissingItems(t *testing.T) {
	seedUser(t, "order-user-3", "Meena", "meena@example.com")

	resp := doPost(t, "/cart/place-order", map[string]any{
		"userId": "order-user-3",
		"price":  600,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestPlaceOrder_UnknownUser(t *testing.T) {
	resp := doPost(t, "/cart/place-order", map[string]any{
		"userId": "no-such-user",
		"price":  600,
		"productsOrdered": []map[string]any{
			{"productId": "p1", "quantity": 1},
		},
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}
