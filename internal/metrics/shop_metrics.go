package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Этапы оформления заказа, на которых возможен отказ.
const (
	StageLoadCart       = "load_cart"
	StageResolveProduct = "resolve_product"
	StageSaveOrder      = "save_order"
	StageClearCart      = "clear_cart"
)

// Результаты публикации событий.
const (
	PublishSucceeded = "success"
	PublishFailed    = "failure"
)

// ShopMetrics содержит метрики оформления заказов и публикации событий.
type ShopMetrics struct {
	ordersPlaced      prometheus.Counter
	placementFailures *prometheus.CounterVec
	cartNotCleared    prometheus.Counter
	placementDuration prometheus.Histogram
	orderAmount       prometheus.Histogram
	eventsPublished   *prometheus.CounterVec
	inFlight          prometheus.Gauge
}

// NewShopMetrics регистрирует метрики в реестре по умолчанию.
func NewShopMetrics() *ShopMetrics {
	return NewShopMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

// NewShopMetricsWithRegisterer регистрирует метрики в переданном реестре.
// Повторная регистрация возвращает уже существующие коллекторы.
func NewShopMetricsWithRegisterer(registerer prometheus.Registerer) *ShopMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &ShopMetrics{
		ordersPlaced: register(registerer, "myshop_orders_placed_total", prometheus.NewCounter(prometheus.CounterOpts{
			Name: "myshop_orders_placed_total",
			Help: "Total number of orders placed successfully",
		})),
		placementFailures: register(registerer, "myshop_order_placement_failures_total", prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "myshop_order_placement_failures_total",
			Help: "Total number of failed order placements by workflow stage",
		}, []string{"stage"})),
		cartNotCleared: register(registerer, "myshop_cart_not_cleared_total", prometheus.NewCounter(prometheus.CounterOpts{
			Name: "myshop_cart_not_cleared_total",
			Help: "Orders persisted whose cart could not be cleared afterwards",
		})),
		placementDuration: register(registerer, "myshop_order_placement_duration_seconds", prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "myshop_order_placement_duration_seconds",
			Help:    "Duration of order placement in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		})),
		orderAmount: register(registerer, "myshop_order_amount", prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "myshop_order_amount",
			Help:    "Total amount of placed orders",
			Buckets: []float64{0, 10, 50, 100, 250, 500, 1000, 5000, 10000},
		})),
		eventsPublished: register(registerer, "myshop_order_events_published_total", prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "myshop_order_events_published_total",
			Help: "Order events handed to the broker by result",
		}, []string{"result"})),
		inFlight: register(registerer, "myshop_order_placements_in_flight", prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "myshop_order_placements_in_flight",
			Help: "Number of order placements currently running",
		})),
	}
}

func register[C prometheus.Collector](registerer prometheus.Registerer, name string, collector C) C {
	err := registerer.Register(collector)
	if err == nil {
		return collector
	}

	var alreadyRegistered prometheus.AlreadyRegisteredError
	if errors.As(err, &alreadyRegistered) {
		existing, ok := alreadyRegistered.ExistingCollector.(C)
		if !ok {
			panic(fmt.Sprintf("collector %q already registered with unexpected type", name))
		}
		return existing
	}
	panic(fmt.Sprintf("register collector %q: %v", name, err))
}

// PlacementStarted отмечает начало оформления и возвращает функцию завершения.
func (m *ShopMetrics) PlacementStarted() func() {
	start := time.Now()
	m.inFlight.Inc()
	return func() {
		m.inFlight.Dec()
		m.placementDuration.Observe(time.Since(start).Seconds())
	}
}

// RecordOrderPlaced учитывает успешно оформленный заказ.
func (m *ShopMetrics) RecordOrderPlaced(amount float64) {
	m.ordersPlaced.Inc()
	m.orderAmount.Observe(amount)
}

// RecordPlacementFailure учитывает отказ на этапе stage.
func (m *ShopMetrics) RecordPlacementFailure(stage string) {
	m.placementFailures.WithLabelValues(stage).Inc()
}

// RecordCartNotCleared учитывает частичный успех: заказ сохранён, корзина нет.
func (m *ShopMetrics) RecordCartNotCleared() {
	m.cartNotCleared.Inc()
}

// RecordEventPublished учитывает результат публикации события.
func (m *ShopMetrics) RecordEventPublished(result string) {
	m.eventsPublished.WithLabelValues(result).Inc()
}
