package queue

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tabletop-pos/api/internal/database"
	"github.com/tabletop-pos/api/internal/enum"
	"github.com/tabletop-pos/api/internal/service"
)

// publishTimeout bounds a single publish so a stalled broker cannot hold up
// the request that triggered it.
const publishTimeout = 5 * time.Second

// OrderEvent is the message body written to QueueOrderEvents.
type OrderEvent struct {
	ID             uuid.UUID `json:"id"`
	Type           string    `json:"type"`
	OccurredAt     time.Time `json:"occurred_at"`
	OrderID        int64     `json:"order_id,omitempty"`
	WeekNumber     int32     `json:"week_number,omitempty"`
	Status         string    `json:"status,omitempty"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	LineCount      int64     `json:"line_count,omitempty"`
	Total          string    `json:"total,omitempty"`
	Reason         string    `json:"reason,omitempty"`
	Ingredients    []string  `json:"ingredients,omitempty"`
}

// OrderEventPublisher forwards order activity to the broker. Publish
// failures are logged and swallowed; the order is already committed.
type OrderEventPublisher struct {
	broker Broker
	logger *zap.SugaredLogger
	now    func() time.Time
}

var _ service.OrderObserver = (*OrderEventPublisher)(nil)

func NewOrderEventPublisher(broker Broker, logger *zap.SugaredLogger) *OrderEventPublisher {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &OrderEventPublisher{broker: broker, logger: logger, now: time.Now}
}

func (p *OrderEventPublisher) OrderCreated(ctx context.Context, result *service.CheckoutResult) {
	p.publish(ctx, OrderEvent{
		Type:       enum.EventOrderCreated,
		OrderID:    result.Order.ID,
		WeekNumber: result.Order.WeekNumber,
		Status:     string(result.Order.Status),
		LineCount:  result.LineCount,
		Total:      result.Total.StringFixed(2),
	})
}

func (p *OrderEventPublisher) OrderStatusChanged(ctx context.Context, order database.Order, previous database.OrderStatus) {
	p.publish(ctx, OrderEvent{
		Type:           enum.EventOrderStatusChanged,
		OrderID:        order.ID,
		WeekNumber:     order.WeekNumber,
		Status:         string(order.Status),
		PreviousStatus: string(previous),
	})
}

func (p *OrderEventPublisher) CheckoutRejected(ctx context.Context, req service.CheckoutRequest, err error) {
	ev := OrderEvent{Type: enum.EventCheckoutRejected, Reason: err.Error()}
	var stockErr *service.InsufficientStockError
	if errors.As(err, &stockErr) {
		ev.Ingredients = stockErr.Ingredients
	}
	p.publish(ctx, ev)
}

func (p *OrderEventPublisher) publish(ctx context.Context, ev OrderEvent) {
	ev.ID = uuid.New()
	ev.OccurredAt = p.now().UTC()

	body, err := json.Marshal(ev)
	if err != nil {
		p.logger.Errorw("marshal order event", "type", ev.Type, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := p.broker.Publish(ctx, QueueOrderEvents, body); err != nil {
		p.logger.Errorw("publish order event",
			"type", ev.Type,
			"event_id", ev.ID,
			"order_id", ev.OrderID,
			"error", err,
		)
		return
	}
	p.logger.Debugw("order event published", "type", ev.Type, "event_id", ev.ID, "order_id", ev.OrderID)
}
