package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/vladislavdragonenkov/myshop/internal/storage/postgres"
)

const defaultTimeout = 30 * time.Second

const directionStatus = "status"

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fail("load .env: %v", err)
	}
	if err := run(os.Args[1:], os.LookupEnv, os.Stdout); err != nil {
		fail("%v", err)
	}
}

// run разбирает флаги и выполняет миграции; подключение берётся из SHOP_DB_*.
func run(args []string, lookup func(string) (string, bool), out io.Writer) error {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	direction := fs.String("direction", "up", "migration direction: up|down|status")
	steps := fs.Int("steps", 0, "number of migrations to apply/rollback (0=all for up, 1 for down)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *steps < 0 {
		return fmt.Errorf("steps must be >= 0, got %d", *steps)
	}

	mode := strings.ToLower(strings.TrimSpace(*direction))
	var parsed postgres.Direction
	if mode != directionStatus {
		d, err := postgres.ParseDirection(mode)
		if err != nil {
			return err
		}
		parsed = d
	}

	env := func(key string) string {
		v, _ := lookup(key)
		return v
	}
	dsn, err := postgres.ConnConfig{
		URL:      env("SHOP_DB_URL"),
		User:     env("SHOP_DB_USER"),
		Password: env("SHOP_DB_PASSWORD"),
	}.DSN()
	if err != nil {
		return fmt.Errorf("SHOP_DB_URL: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	store, err := postgres.Open(ctx, dsn)
	if err != nil {
		return fmt.Errorf("open postgres store: %w", err)
	}
	defer store.Close()

	if mode != directionStatus {
		n := *steps
		if parsed == postgres.DirectionDown && n == 0 {
			n = 1
		}
		if err := store.Migrate(ctx, parsed, n); err != nil {
			return fmt.Errorf("migrate %s failed: %w", parsed, err)
		}
	}

	version, count, err := store.MigrationStatus(ctx)
	if err != nil {
		return fmt.Errorf("migration status failed: %w", err)
	}
	_, _ = fmt.Fprintf(out, "migrate %s ok: version=%d applied=%d\n", mode, version, count)
	return nil
}

func fail(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
