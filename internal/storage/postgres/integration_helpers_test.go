package postgres

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/myshop/internal/storage/storagetest"
)

func openPostgresStoreForIntegrationTest(t *testing.T) *Store {
	t.Helper()

	store := openRawPostgresStoreForIntegrationTest(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := store.MigrateUp(ctx, 0); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
	storagetest.TruncateShopTables(t, store.DB())

	return store
}

func openRawPostgresStoreForIntegrationTest(t *testing.T) *Store {
	t.Helper()

	candidates := storagetest.PostgresDSNCandidates()
	if dsn, err := (ConnConfig{
		URL:      os.Getenv("SHOP_DB_URL"),
		User:     os.Getenv("SHOP_DB_USER"),
		Password: os.Getenv("SHOP_DB_PASSWORD"),
	}).DSN(); err == nil {
		candidates = append([]string{dsn}, candidates...)
	}

	seen := map[string]struct{}{}
	var openErrs []string
	for _, dsn := range candidates {
		if _, ok := seen[dsn]; ok {
			continue
		}
		seen[dsn] = struct{}{}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		store, err := Open(ctx, dsn)
		cancel()
		if err == nil {
			t.Cleanup(func() {
				_ = store.Close()
			})
			return store
		}
		openErrs = append(openErrs, fmt.Sprintf("candidate %d: %v", len(seen), err))
	}

	t.Skipf("postgres is not available for integration tests: %s", strings.Join(openErrs, " | "))
	return nil
}
