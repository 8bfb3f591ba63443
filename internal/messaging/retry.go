// Package messaging содержит обёртки над публикаторами событий, общие для всех брокеров.
package messaging

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/myshop/internal/domain"
)

// RetryConfig задаёт экспоненциальную задержку между попытками публикации.
type RetryConfig struct {
	MaxAttempts   int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      2 * time.Second,
		BackoffFactor: 2.0,
	}
}

// RetryingPublisher повторяет публикацию при временных ошибках брокера.
type RetryingPublisher struct {
	inner  domain.EventPublisher
	config RetryConfig
	logger *log.Entry
}

func NewRetryingPublisher(inner domain.EventPublisher, config RetryConfig, logger *log.Entry) *RetryingPublisher {
	if logger == nil {
		logger = log.New().WithField("component", "retrying-publisher")
	}
	if config.MaxAttempts < 1 {
		config.MaxAttempts = 1
	}
	if config.BackoffFactor < 1 {
		config.BackoffFactor = 1
	}
	return &RetryingPublisher{inner: inner, config: config, logger: logger}
}

func (p *RetryingPublisher) PublishOrderPlaced(ctx context.Context, event domain.OrderPlacedEvent) error {
	logger := p.logger.WithFields(log.Fields{"event_id": event.EventID, "order_id": event.OrderID})
	delay := p.config.InitialDelay

	var lastErr error
	for attempt := 1; attempt <= p.config.MaxAttempts; attempt++ {
		err := p.inner.PublishOrderPlaced(ctx, event)
		if err == nil {
			if attempt > 1 {
				logger.WithField("attempt", attempt).Info("event published after retry")
			}
			return nil
		}
		lastErr = err

		if !shouldRetry(err) || attempt == p.config.MaxAttempts {
			break
		}
		logger.WithError(err).WithFields(log.Fields{
			"attempt": attempt,
			"delay":   delay,
		}).Warn("event publish failed, retrying")

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return errors.Join(lastErr, ctx.Err())
		case <-timer.C:
		}

		delay = time.Duration(float64(delay) * p.config.BackoffFactor)
		if p.config.MaxDelay > 0 && delay > p.config.MaxDelay {
			delay = p.config.MaxDelay
		}
	}
	return lastErr
}

func (p *RetryingPublisher) Close() error {
	return p.inner.Close()
}

// shouldRetry: отмену и дедлайн вызывающего повторять бессмысленно.
func shouldRetry(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

var _ domain.EventPublisher = (*RetryingPublisher)(nil)
