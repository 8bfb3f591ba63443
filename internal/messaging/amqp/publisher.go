// Package amqp публикует события заказов в RabbitMQ.
package amqp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	amqp "github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/myshop/internal/domain"
)

// DefaultExchange: topic exchange событий заказов.
const DefaultExchange = "myshop.orders"

// Config описывает подключение к брокеру.
type Config struct {
	URL      string
	Exchange string
}

// channel: часть *amqp.Channel, которой пользуется Publisher.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher отправляет события в exchange с ключом маршрутизации, равным типу события.
type Publisher struct {
	ch       channel
	conn     io.Closer
	exchange string
	logger   *log.Entry
}

// Dial подключается к RabbitMQ и объявляет durable topic exchange.
func Dial(cfg Config, logger *log.Entry) (*Publisher, error) {
	if cfg.URL == "" {
		return nil, errors.New("amqp url is not configured")
	}
	exchange := cfg.Exchange
	if exchange == "" {
		exchange = DefaultExchange
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}
	if err := ch.ExchangeDeclare(
		exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // autoDelete
		false, // internal
		false, // noWait
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %q: %w", exchange, err)
	}

	publisher := NewPublisherWithChannel(ch, exchange, logger)
	publisher.conn = conn
	return publisher, nil
}

// NewPublisherWithChannel оборачивает уже открытый канал.
func NewPublisherWithChannel(ch channel, exchange string, logger *log.Entry) *Publisher {
	if exchange == "" {
		exchange = DefaultExchange
	}
	if logger == nil {
		logger = log.New().WithField("component", "amqp-publisher")
	}
	return &Publisher{ch: ch, exchange: exchange, logger: logger}
}

func (p *Publisher) PublishOrderPlaced(ctx context.Context, event domain.OrderPlacedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := p.ch.PublishWithContext(ctx, p.exchange, event.EventType, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.EventID,
		Type:         event.EventType,
		Timestamp:    event.Timestamp,
		Body:         body,
	}); err != nil {
		p.logger.WithError(err).WithFields(log.Fields{
			"exchange": p.exchange,
			"event_id": event.EventID,
		}).Error("failed to publish message to rabbitmq")
		return fmt.Errorf("publish to rabbitmq: %w", err)
	}

	p.logger.WithFields(log.Fields{
		"exchange": p.exchange,
		"event_id": event.EventID,
		"order_id": event.OrderID,
	}).Debug("message published to rabbitmq")
	return nil
}

// Close закрывает канал и соединение.
func (p *Publisher) Close() error {
	err := p.ch.Close()
	if p.conn != nil {
		err = errors.Join(err, p.conn.Close())
	}
	if err != nil {
		return fmt.Errorf("close rabbitmq publisher: %w", err)
	}
	return nil
}

var _ domain.EventPublisher = (*Publisher)(nil)
