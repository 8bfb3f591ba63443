package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventTypeOrderPlaced: тип события об оформленном заказе.
const EventTypeOrderPlaced = "order.placed"

// OrderPlacedEvent публикуется после успешного оформления заказа.
type OrderPlacedEvent struct {
	EventID         string          `json:"event_id"`
	EventType       string          `json:"event_type"`
	OrderID         int64           `json:"order_id"`
	UserID          int64           `json:"user_id"`
	OrderedProducts string          `json:"ordered_products"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Timestamp       time.Time       `json:"timestamp"`
}

// NewOrderPlacedEvent создаёт событие по сохранённому заказу.
func NewOrderPlacedEvent(order Order) OrderPlacedEvent {
	return OrderPlacedEvent{
		EventID:         uuid.NewString(),
		EventType:       EventTypeOrderPlaced,
		OrderID:         order.ID,
		UserID:          order.UserID,
		OrderedProducts: order.OrderedProducts,
		TotalAmount:     RoundMoney(order.TotalAmount),
		Timestamp:       time.Now().UTC(),
	}
}

// EventPublisher доставляет события заказов во внешний брокер.
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, event OrderPlacedEvent) error
	Close() error
}
