package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/myshop/internal/domain"
	"github.com/vladislavdragonenkov/myshop/internal/messaging"
)

func TestDefaultConfig_Values(t *testing.T) {
	cfg := DefaultConfig()

	require.Equal(t, ":9090", cfg.MetricsAddr)
	require.Equal(t, StorageDriverMemory, cfg.StorageDriver)
	require.Equal(t, EventsDriverNone, cfg.EventsDriver)
	require.True(t, cfg.AutoMigrate)
	require.Positive(t, cfg.HealthCheckTimeout)
	require.Positive(t, cfg.ShutdownTimeout)
	require.Empty(t, cfg.DB.URL)
}

func TestSplitList(t *testing.T) {
	require.Equal(t, []string{"a:9092", "b:9092"}, splitList(" a:9092, ,b:9092 "))
	require.Empty(t, splitList(""))
}

func TestWithRetryWrapsPublisher(t *testing.T) {
	publisher := withRetry(nopPublisher{}, testLogger())
	_, ok := publisher.(*messaging.RetryingPublisher)
	require.True(t, ok)
	require.NoError(t, publisher.Close())
}

type nopPublisher struct{}

func (nopPublisher) PublishOrderPlaced(context.Context, domain.OrderPlacedEvent) error { return nil }
func (nopPublisher) Close() error                                                     { return nil }
