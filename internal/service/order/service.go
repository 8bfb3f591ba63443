// Package order реализует оформление заказа из корзины пользователя.
package order

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/myshop/internal/domain"
	"github.com/vladislavdragonenkov/myshop/internal/metrics"
)

// Service превращает корзину пользователя в сохранённый заказ.
// Между репозиториями нет общей транзакции: шаги выполняются последовательно.
type Service struct {
	carts     domain.CartRepository
	products  domain.ProductRepository
	orders    domain.OrderRepository
	publisher domain.EventPublisher
	metrics   *metrics.ShopMetrics
	logger    *log.Entry
}

// NewService создаёт сервис оформления заказов.
// publisher и m могут быть nil: тогда события не публикуются, а метрики не пишутся.
func NewService(repos domain.Repositories, publisher domain.EventPublisher, m *metrics.ShopMetrics, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "order-service")
	}
	return &Service{
		carts:     repos.Carts,
		products:  repos.Products,
		orders:    repos.Orders,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
	}
}

// PlaceOrder оформляет заказ из текущей корзины пользователя и очищает её.
//
// Если заказ сохранён, но корзину очистить не удалось, возвращается сохранённый заказ
// вместе с ошибкой, которой соответствуют и ErrCartNotCleared, и исходный сбой хранилища.
func (s *Service) PlaceOrder(ctx context.Context, userID int64) (domain.Order, error) {
	if err := domain.RequireID("user id", userID); err != nil {
		return domain.Order{}, err
	}
	if s.metrics != nil {
		defer s.metrics.PlacementStarted()()
	}
	logger := s.logger.WithField("user_id", userID)

	lines, err := s.carts.FindByUserID(ctx, userID)
	if err != nil {
		s.fail(logger, metrics.StageLoadCart, err)
		return domain.Order{}, err
	}

	total := decimal.Zero
	names := make([]string, 0, len(lines))
	for _, line := range lines {
		product, ok, err := s.products.FindByID(ctx, line.ProductID)
		if err == nil && !ok {
			err = domain.NotFoundError(fmt.Sprintf("resolve product %d", line.ProductID))
		}
		if err != nil {
			s.fail(logger.WithField("product_id", line.ProductID), metrics.StageResolveProduct, err)
			return domain.Order{}, err
		}
		total = total.Add(product.Price.Mul(decimal.NewFromInt32(line.Quantity)))
		names = append(names, product.Name)
	}

	order, err := s.orders.Create(ctx, domain.Order{
		UserID:          userID,
		OrderedProducts: strings.Join(names, domain.OrderedProductsSeparator),
		TotalAmount:     total,
	})
	if err != nil {
		s.fail(logger, metrics.StageSaveOrder, err)
		return domain.Order{}, err
	}
	logger = logger.WithField("order_id", order.ID)

	if err := s.carts.Clear(ctx, userID); err != nil {
		s.fail(logger, metrics.StageClearCart, err)
		if s.metrics != nil {
			s.metrics.RecordCartNotCleared()
		}
		return order, errors.Join(domain.ErrCartNotCleared, err)
	}

	if s.metrics != nil {
		amount, _ := order.TotalAmount.Float64()
		s.metrics.RecordOrderPlaced(amount)
	}
	logger.WithFields(log.Fields{
		"total_amount": order.TotalAmount.StringFixed(domain.MoneyScale),
		"lines":        len(lines),
	}).Info("order placed")

	s.publishPlaced(ctx, logger, order)
	return order, nil
}

// OrdersOfUser возвращает заказы пользователя в порядке оформления.
func (s *Service) OrdersOfUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	return s.orders.FindByUserID(ctx, userID)
}

func (s *Service) fail(logger *log.Entry, stage string, err error) {
	if s.metrics != nil {
		s.metrics.RecordPlacementFailure(stage)
	}
	entry := logger.WithField("stage", stage).WithError(err)
	if domain.IsNotFound(err) {
		entry.Warn("order placement failed")
		return
	}
	entry.Error("order placement failed")
}

// publishPlaced не влияет на результат: заказ к этому моменту уже сохранён.
func (s *Service) publishPlaced(ctx context.Context, logger *log.Entry, order domain.Order) {
	if s.publisher == nil {
		return
	}

	event := domain.NewOrderPlacedEvent(order)
	if err := s.publisher.PublishOrderPlaced(ctx, event); err != nil {
		logger.WithError(err).WithField("event_id", event.EventID).Warn("failed to publish order placed event")
		if s.metrics != nil {
			s.metrics.RecordEventPublished(metrics.PublishFailed)
		}
		return
	}
	if s.metrics != nil {
		s.metrics.RecordEventPublished(metrics.PublishSucceeded)
	}
	logger.WithField("event_id", event.EventID).Debug("order placed event published")
}
