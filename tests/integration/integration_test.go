//go:build integration

// Package integration spins up a real PostgreSQL instance with testcontainers
// and drives the full HTTP stack against it.
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"go.uber.org/zap"

	"github.com/pecommerce/storefront/internal/domain/auth"
	"github.com/pecommerce/storefront/internal/domain/cart"
	"github.com/pecommerce/storefront/internal/domain/coupon"
	"github.com/pecommerce/storefront/internal/domain/order"
	"github.com/pecommerce/storefront/internal/domain/seller"
	"github.com/pecommerce/storefront/internal/handler"
	"github.com/pecommerce/storefront/internal/mail"
	"github.com/pecommerce/storefront/internal/storage/postgres"
)

const (
	adminAPIKey = "integration-admin-key"
	keyPepper   = "integration-pepper"
)

var (
	baseURL    string
	httpClient *http.Client
	pool       *pgxpool.Pool

	userRepo   *postgres.UserRepository
	orderRepo  *postgres.OrderRepository
	cartRepo   *postgres.CartRepository
	sellerRepo *postgres.SellerRepository
)

func TestMain(m *testing.M) {
	os.Exit(testMain(m))
}

func testMain(m *testing.M) int {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pg, err := tcpostgres.Run(ctx, "postgres:17-alpine",
		tcpostgres.WithDatabase("storefront"),
		tcpostgres.WithUsername("storefront"),
		tcpostgres.WithPassword("storefront"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		log.Fatalf("start postgres: %v", err)
	}
	defer func() {
		if err := pg.Terminate(context.Background()); err != nil {
			log.Printf("terminate postgres: %v", err)
		}
	}()

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		log.Fatalf("connection string: %v", err)
	}

	pool, err = postgres.NewPool(ctx, dsn)
	if err != nil {
		log.Fatalf("create pool: %v", err)
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	userRepo = postgres.NewUserRepository(pool)
	orderRepo = postgres.NewOrderRepository(pool)
	cartRepo = postgres.NewCartRepository(pool)
	sellerRepo = postgres.NewSellerRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	couponRepo := postgres.NewCouponRepository(pool)
	apikeyRepo := postgres.NewAPIKeyRepository(pool)

	if err := apikeyRepo.Upsert(ctx, &auth.APIKeyInfo{
		ID:      "admin",
		KeyHash: handler.HashKey([]byte(keyPepper), adminAPIKey),
		Name:    "Integration admin key",
		Scopes:  []string{auth.ScopeAdmin},
	}); err != nil {
		log.Fatalf("seed api key: %v", err)
	}

	lg := zap.NewNop()
	h := handler.NewHandler(
		order.NewService(userRepo, productRepo, orderRepo, mail.Discard, lg),
		cart.NewService(cartRepo),
		coupon.NewService(couponRepo, userRepo, mail.Discard, lg),
		seller.NewService(sellerRepo, mail.Discard, "http://localhost:8080", lg),
		productRepo,
		handler.NewSecurityHandler(apikeyRepo, []byte(keyPepper)),
	)

	mux := http.NewServeMux()
	h.Register(mux)

	srv := httptest.NewServer(mux)
	defer srv.Close()

	baseURL = srv.URL
	httpClient = &http.Client{Timeout: 10 * time.Second}

	return m.Run()
}

// HTTP helpers.

func do(t *testing.T, method, path string, body any, apiKey string) *http.Response {
	t.Helper()

	var data []byte
	if body != nil {
		var err error
		data, err = json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
	}

	req, err := http.NewRequestWithContext(context.Background(), method, baseURL+path, bytes.NewReader(data))
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set(handler.APIKeyHeader, apiKey)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func doPost(t *testing.T, path string, body any) *http.Response {
	t.Helper()
	return do(t, http.MethodPost, path, body, "")
}

func doGet(t *testing.T, path string) *http.Response {
	t.Helper()
	return do(t, http.MethodGet, path, nil, "")
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}
