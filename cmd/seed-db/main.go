// Command seed-db loads the product catalog, demo user accounts, and the
// administrative API key into PostgreSQL. It is idempotent: rerunning it
// upserts rather than duplicates.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/go-faster/errors"
	"github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/pecommerce/storefront/internal/domain/auth"
	"github.com/pecommerce/storefront/internal/domain/product"
	"github.com/pecommerce/storefront/internal/domain/user"
	"github.com/pecommerce/storefront/internal/handler"
	"github.com/pecommerce/storefront/internal/storage/postgres"
)

type productJSON struct {
	ID       string          `json:"productId"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Images   []string        `json:"img"`
	Category string          `json:"category"`
	Rating   decimal.Decimal `json:"rating"`
	InStock  int             `json:"inStockValue"`
	Sold     int             `json:"soldStockValue"`
}

type userJSON struct {
	ID       string `json:"userId"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func main() {
	var (
		databaseURL  string
		productsFile string
		usersFile    string
		apiKey       string
		apiKeyPepper string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&productsFile, "products-file", "db/seed/products.json", "path to products JSON file (plain or .gz)")
	flag.StringVar(&usersFile, "users-file", "", "optional path to demo users JSON file")
	flag.StringVar(&apiKey, "api-key", "", "admin API key to seed (or STORE_SEED_API_KEY env)")
	flag.StringVar(&apiKeyPepper, "api-key-pepper", "", "HMAC pepper for API key hashing (or STORE_API_KEY_PEPPER env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if apiKey == "" {
		apiKey = os.Getenv("STORE_SEED_API_KEY")
	}
	if apiKey == "" {
		slog.Error("API key is required: set --api-key or STORE_SEED_API_KEY")
		os.Exit(1)
	}
	if apiKeyPepper == "" {
		apiKeyPepper = os.Getenv("STORE_API_KEY_PEPPER")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, productsFile, usersFile, apiKey, apiKeyPepper); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, productsFile, usersFile, apiKey, pepper string) error {
	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedProducts(ctx, postgres.NewProductRepository(pool), productsFile); err != nil {
		return errors.Wrap(err, "seed products")
	}

	if usersFile != "" {
		if err := seedUsers(ctx, postgres.NewUserRepository(pool), usersFile); err != nil {
			return errors.Wrap(err, "seed users")
		}
	}

	if err := seedAPIKey(ctx, postgres.NewAPIKeyRepository(pool), apiKey, pepper); err != nil {
		return errors.Wrap(err, "seed api key")
	}

	return nil
}

// openSeedFile opens path for reading, transparently decompressing .gz dumps.
func openSeedFile(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}
	zr, err := pgzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, errors.Wrap(err, "open gzip reader")
	}
	return struct {
		io.Reader
		io.Closer
	}{zr, f}, nil
}

func seedProducts(ctx context.Context, repo *postgres.ProductRepository, path string) error {
	slog.Info("reading products file", slog.String("path", path))

	r, err := openSeedFile(path)
	if err != nil {
		return errors.Wrap(err, "open products file")
	}
	defer r.Close()

	var products []productJSON
	if err := json.NewDecoder(r).Decode(&products); err != nil {
		return errors.Wrap(err, "parse products JSON")
	}

	slog.Info("upserting products", slog.Int("count", len(products)))

	for _, p := range products {
		err := repo.Upsert(ctx, &product.Product{
			ID:             p.ID,
			Name:           p.Name,
			Price:          p.Price,
			Images:         p.Images,
			Category:       p.Category,
			Rating:         p.Rating,
			InStockValue:   p.InStock,
			SoldStockValue: p.Sold,
			Visibility:     product.VisibilityOn,
		})
		if err != nil {
			return errors.Wrapf(err, "upsert product %s", p.ID)
		}

		slog.Info("upserted product", slog.String("id", p.ID), slog.String("name", p.Name))
	}

	return nil
}

func seedUsers(ctx context.Context, repo *postgres.UserRepository, path string) error {
	slog.Info("reading users file", slog.String("path", path))

	r, err := openSeedFile(path)
	if err != nil {
		return errors.Wrap(err, "open users file")
	}
	defer r.Close()

	var users []userJSON
	if err := json.NewDecoder(r).Decode(&users); err != nil {
		return errors.Wrap(err, "parse users JSON")
	}

	slog.Info("upserting demo users", slog.Int("count", len(users)))

	for _, u := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return errors.Wrapf(err, "hash password for user %s", u.ID)
		}

		err = repo.Upsert(ctx, &user.User{
			ID:            u.ID,
			Name:          u.Name,
			Email:         u.Email,
			PasswordHash:  string(hash),
			AccountStatus: "open",
			Phone:         "not available",
		})
		if err != nil {
			return errors.Wrapf(err, "create user %s", u.ID)
		}

		slog.Info("upserted user", slog.String("id", u.ID), slog.String("email", u.Email))
	}

	return nil
}

func seedAPIKey(ctx context.Context, repo *postgres.APIKeyRepository, apiKey, pepper string) error {
	slog.Info("seeding admin API key")

	err := repo.Upsert(ctx, &auth.APIKeyInfo{
		ID:      "admin",
		KeyHash: handler.HashKey([]byte(pepper), apiKey),
		Name:    "Admin key",
		Scopes:  []string{auth.ScopeAdmin},
	})
	if err != nil {
		return errors.Wrap(err, "upsert admin API key")
	}

	slog.Info("upserted API key", slog.String("id", "admin"))

	return nil
}
