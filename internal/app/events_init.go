package app

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/myshop/internal/domain"
	"github.com/vladislavdragonenkov/myshop/internal/messaging"
	"github.com/vladislavdragonenkov/myshop/internal/messaging/amqp"
	"github.com/vladislavdragonenkov/myshop/internal/messaging/kafka"
)

// initPublisher создаёт публикатор событий.
// Брокер необязателен: при ошибке подключения магазин работает без событий.
func initPublisher(cfg Config, logger *log.Entry) (domain.EventPublisher, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.EventsDriver)) {
	case "", EventsDriverNone:
		return nil, nil
	case EventsDriverKafka:
		brokers := splitList(cfg.KafkaBrokers)
		producer, err := kafka.NewProducer(kafka.Config{Brokers: brokers, Topic: cfg.KafkaTopic}, logger.WithField("component", "kafka-producer"))
		if err != nil {
			logger.WithError(err).Warn("failed to create kafka producer, continuing without events")
			return nil, nil
		}
		logger.WithField("brokers", brokers).Info("kafka producer initialized")
		return withRetry(producer, logger), nil
	case EventsDriverAMQP:
		publisher, err := amqp.Dial(amqp.Config{URL: cfg.AMQPURL, Exchange: cfg.AMQPExchange}, logger.WithField("component", "amqp-publisher"))
		if err != nil {
			logger.WithError(err).Warn("failed to connect to rabbitmq, continuing without events")
			return nil, nil
		}
		logger.Info("rabbitmq publisher initialized")
		return withRetry(publisher, logger), nil
	default:
		return nil, fmt.Errorf("unsupported events driver %q (use none|kafka|amqp)", cfg.EventsDriver)
	}
}

func withRetry(publisher domain.EventPublisher, logger *log.Entry) domain.EventPublisher {
	return messaging.NewRetryingPublisher(publisher, messaging.DefaultRetryConfig(), logger.WithField("component", "retrying-publisher"))
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
