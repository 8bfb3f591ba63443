package app

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/myshop/internal/domain"
	"github.com/vladislavdragonenkov/myshop/internal/health"
)

func testLogger() *log.Entry {
	logger := log.New()
	logger.SetLevel(log.PanicLevel)
	return logger.WithField("test", "app")
}

func TestNewDependencies_MemoryPlacesOrder(t *testing.T) {
	ctx := context.Background()
	deps, err := NewDependencies(ctx, DefaultConfig(), testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, deps.Close()) })

	require.Nil(t, deps.Publisher)

	user, err := deps.Repos.Users.Create(ctx, domain.User{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)
	product, err := deps.Repos.Products.Create(ctx, domain.Product{Name: "Lamp", Price: decimal.RequireFromString("19.99")})
	require.NoError(t, err)
	require.NoError(t, deps.Repos.Carts.AddProduct(ctx, user.ID, product.ID, 2))

	order, err := deps.Orders.PlaceOrder(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, order.TotalAmount.Equal(decimal.RequireFromString("39.98")))

	require.Equal(t, health.StatusHealthy, deps.Health.Run(ctx).Status)
}

func TestNewDependencies_SQLDriversConnectLazily(t *testing.T) {
	for _, driver := range []string{StorageDriverPostgres, StorageDriverORM} {
		driver := driver
		t.Run(driver, func(t *testing.T) {
			ctx := context.Background()
			cfg := DefaultConfig()
			cfg.StorageDriver = driver

			deps, err := NewDependencies(ctx, cfg, testLogger())
			require.NoError(t, err)
			t.Cleanup(func() { _ = deps.Close() })

			_, err = deps.Orders.PlaceOrder(ctx, 1)
			require.True(t, domain.IsStorageFailure(err), "unexpected error: %v", err)

			report := deps.Health.Run(ctx)
			require.Equal(t, health.StatusUnhealthy, report.Status)
			require.Equal(t, health.StatusUnhealthy, report.Checks["storage"].Status)
		})
	}
}

func TestNewDependencies_UnsupportedDrivers(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StorageDriver = "sqlite"
	_, err := NewDependencies(context.Background(), cfg, testLogger())
	require.ErrorContains(t, err, "unsupported storage driver")

	cfg = DefaultConfig()
	cfg.EventsDriver = "nats"
	_, err = NewDependencies(context.Background(), cfg, testLogger())
	require.ErrorContains(t, err, "unsupported events driver")
}

func TestNewDependencies_BrokerFailureDisablesEvents(t *testing.T) {
	for _, driver := range []string{EventsDriverKafka, EventsDriverAMQP} {
		cfg := DefaultConfig()
		cfg.EventsDriver = driver

		deps, err := NewDependencies(context.Background(), cfg, testLogger())
		require.NoError(t, err, driver)
		require.Nil(t, deps.Publisher, driver)
		require.NoError(t, deps.Close())
	}
}

func TestDependencies_CloseNil(t *testing.T) {
	var deps *Dependencies
	require.NoError(t, deps.Close())
}
