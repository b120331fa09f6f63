//go:build integration

package integration

import (
	"context"
	"net/http"
	"testing"
)

type cartResponse struct {
	Success bool `json:"success"`
	Cart    struct {
		UserID string `json:"userId"`
		Items  []struct {
			ProductID string `json:"productId"`
			Quantity  int    `json:"quantity"`
		} `json:"productsInCart"`
	} `json:"cart"`
}

func TestCart_FullLifecycle(t *testing.T) {
	const userID = "cart-user-1"

	resp := doPost(t, "/cart/addtocart", map[string]any{
		"userId": userID, "productId": "p1", "quantity": 2,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("addtocart: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doPost(t, "/cart/addtocart", map[string]any{
		"userId": userID, "productId": "p2", "quantity": 1,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("addtocart: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doPost(t, "/cart/get-cart", map[string]any{"userId": userID})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get-cart: expected 200, got %d", resp.StatusCode)
	}
	body := decodeJSON[cartResponse](t, resp)
	if len(body.Cart.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(body.Cart.Items))
	}

	resp = do(t, http.MethodPut, "/cart/update-quantity", map[string]any{
		"userId": userID, "productId": "p1", "productQty": 5,
	}, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update-quantity: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// The quantity change must survive the JSONB round trip.
	stored, err := cartRepo.GetByUser(context.Background(), userID)
	if err != nil {
		t.Fatalf("load stored cart: %v", err)
	}
	for _, it := range stored.Items {
		if it.ProductID == "p1" && it.Quantity != 5 {
			t.Errorf("stored quantity for p1 = %d, want 5", it.Quantity)
		}
	}

	resp = doPost(t, "/cart/delete-items", map[string]any{
		"userId": userID, "productId": "p1",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete-items: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	stored, err = cartRepo.GetByUser(context.Background(), userID)
	if err != nil {
		t.Fatalf("load stored cart: %v", err)
	}
	if len(stored.Items) != 1 || stored.Items[0].ProductID != "p2" {
		t.Errorf("stored items after delete = %+v", stored.Items)
	}
}

func TestCart_GetUnknownUser(t *testing.T) {
	resp := doPost(t, "/cart/get-cart", map[string]any{"userId": "cart-ghost"})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestCart_UpdateQuantityWithoutValue(t *testing.T) {
	resp := do(t, http.MethodPut, "/cart/update-quantity", map[string]any{
		"userId": "cart-user-1", "productId": "p2",
	}, "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}
