package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func TestNewShopMetrics_RegistersOnceIdempotently(t *testing.T) {
	reg := prometheus.NewRegistry()

	first := NewShopMetricsWithRegisterer(reg)
	second := NewShopMetricsWithRegisterer(reg)

	first.RecordOrderPlaced(100)
	second.RecordOrderPlaced(50)

	require.Equal(t, 2.0, counterValue(t, first.ordersPlaced))
	require.Same(t, first.placementFailures, second.placementFailures)
}

func TestShopMetrics_RecordsFailuresByStage(t *testing.T) {
	m := NewShopMetricsWithRegisterer(prometheus.NewRegistry())

	m.RecordPlacementFailure(StageResolveProduct)
	m.RecordPlacementFailure(StageResolveProduct)
	m.RecordPlacementFailure(StageClearCart)
	m.RecordCartNotCleared()

	require.Equal(t, 2.0, counterValue(t, m.placementFailures.WithLabelValues(StageResolveProduct)))
	require.Equal(t, 1.0, counterValue(t, m.placementFailures.WithLabelValues(StageClearCart)))
	require.Equal(t, 0.0, counterValue(t, m.placementFailures.WithLabelValues(StageLoadCart)))
	require.Equal(t, 1.0, counterValue(t, m.cartNotCleared))
}

func TestShopMetrics_PlacementTiming(t *testing.T) {
	m := NewShopMetricsWithRegisterer(prometheus.NewRegistry())

	done := m.PlacementStarted()
	require.Equal(t, 1.0, gaugeValue(t, m.inFlight))
	done()
	require.Equal(t, 0.0, gaugeValue(t, m.inFlight))

	var metric dto.Metric
	require.NoError(t, m.placementDuration.Write(&metric))
	require.Equal(t, uint64(1), metric.GetHistogram().GetSampleCount())
}

func TestShopMetrics_EventsPublished(t *testing.T) {
	m := NewShopMetricsWithRegisterer(prometheus.NewRegistry())

	m.RecordEventPublished(PublishSucceeded)
	m.RecordEventPublished(PublishFailed)
	m.RecordEventPublished(PublishFailed)

	require.Equal(t, 1.0, counterValue(t, m.eventsPublished.WithLabelValues(PublishSucceeded)))
	require.Equal(t, 2.0, counterValue(t, m.eventsPublished.WithLabelValues(PublishFailed)))
}

func TestRegister_PanicsOnTypeMismatch(t *testing.T) {
	reg := prometheus.NewRegistry()
	register(reg, "myshop_conflict", prometheus.NewCounter(prometheus.CounterOpts{Name: "myshop_conflict", Help: "c"}))

	require.Panics(t, func() {
		register(reg, "myshop_conflict", prometheus.NewGauge(prometheus.GaugeOpts{Name: "myshop_conflict", Help: "c"}))
	})
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var metric dto.Metric
	require.NoError(t, c.Write(&metric))
	return metric.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var metric dto.Metric
	require.NoError(t, g.Write(&metric))
	return metric.GetGauge().GetValue()
}
