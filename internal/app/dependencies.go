package app

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/myshop/internal/domain"
	"github.com/vladislavdragonenkov/myshop/internal/health"
	"github.com/vladislavdragonenkov/myshop/internal/metrics"
	"github.com/vladislavdragonenkov/myshop/internal/service/order"
	"github.com/vladislavdragonenkov/myshop/internal/version"
)

// Dependencies содержит все зависимости приложения.
type Dependencies struct {
	Repos     domain.Repositories
	Publisher domain.EventPublisher
	Metrics   *metrics.ShopMetrics
	Orders    *order.Service
	Health    *health.Handler
	Logger    *log.Entry

	closeStorage func() error
}

// NewDependencies собирает хранилище, публикатор событий и сервис заказов по конфигурации.
func NewDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	storage, err := initStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	publisher, err := initPublisher(cfg, logger)
	if err != nil {
		_ = storage.close()
		return nil, err
	}

	shopMetrics := metrics.NewShopMetrics()
	healthHandler := health.NewHandler(version.GetVersion()).WithTimeout(cfg.HealthCheckTimeout)
	healthHandler.Register("storage", storage.pinger)

	return &Dependencies{
		Repos:        storage.repos,
		Publisher:    publisher,
		Metrics:      shopMetrics,
		Orders:       order.NewService(storage.repos, publisher, shopMetrics, logger.WithField("component", "order-service")),
		Health:       healthHandler,
		Logger:       logger,
		closeStorage: storage.close,
	}, nil
}

// Close освобождает брокер и пул соединений.
func (d *Dependencies) Close() error {
	if d == nil {
		return nil
	}
	var errs []error
	if d.Publisher != nil {
		if err := d.Publisher.Close(); err != nil {
			d.Logger.WithError(err).Warn("failed to close event publisher")
			errs = append(errs, err)
		} else {
			d.Logger.Info("event publisher closed")
		}
	}
	if d.closeStorage != nil {
		if err := d.closeStorage(); err != nil {
			d.Logger.WithError(err).Warn("failed to close storage")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
