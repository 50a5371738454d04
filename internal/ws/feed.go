package ws

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/tabletop-pos/api/internal/database"
	"github.com/tabletop-pos/api/internal/enum"
	"github.com/tabletop-pos/api/internal/service"
)

// Feed pushes order activity to websocket subscribers. It implements
// service.OrderObserver.
type Feed struct {
	hub *Hub
}

var _ service.OrderObserver = (*Feed)(nil)

func NewFeed(hub *Hub) *Feed {
	return &Feed{hub: hub}
}

type orderLinePayload struct {
	ID    int32  `json:"id"`
	Type  string `json:"type"`
	Name  string `json:"name"`
	Count int32  `json:"count"`
}

type orderCreatedPayload struct {
	OrderID     int64              `json:"order_id"`
	WeekNumber  int32              `json:"week_number"`
	Status      string             `json:"status"`
	TimeOrdered time.Time          `json:"time_ordered"`
	Items       []orderLinePayload `json:"items"`
}

type statusChangedPayload struct {
	OrderID        int64  `json:"order_id"`
	Status         string `json:"status"`
	PreviousStatus string `json:"previous_status"`
}

type checkoutRejectedPayload struct {
	Reason      string   `json:"reason"`
	Ingredients []string `json:"ingredients,omitempty"`
}

func (f *Feed) OrderCreated(ctx context.Context, result *service.CheckoutResult) {
	items := make([]orderLinePayload, len(result.Items))
	for i, it := range result.Items {
		items[i] = orderLinePayload{
			ID:    it.Item.ID,
			Type:  it.Item.Kind.String(),
			Name:  it.Name,
			Count: it.Quantity,
		}
	}
	f.publish(TopicKitchen, enum.EventOrderCreated, orderCreatedPayload{
		OrderID:     result.Order.ID,
		WeekNumber:  result.Order.WeekNumber,
		Status:      string(result.Order.Status),
		TimeOrdered: result.Order.TimeOrdered,
		Items:       items,
	})
}

func (f *Feed) OrderStatusChanged(ctx context.Context, order database.Order, previous database.OrderStatus) {
	f.publish(TopicKitchen, enum.EventOrderStatusChanged, statusChangedPayload{
		OrderID:        order.ID,
		Status:         string(order.Status),
		PreviousStatus: string(previous),
	})
}

// CheckoutRejected only reports shortages; malformed carts are not news.
func (f *Feed) CheckoutRejected(ctx context.Context, req service.CheckoutRequest, err error) {
	var stockErr *service.InsufficientStockError
	if !errors.As(err, &stockErr) {
		return
	}
	f.publish(TopicStock, enum.EventCheckoutRejected, checkoutRejectedPayload{
		Reason:      service.ErrInsufficientStock.Error(),
		Ingredients: stockErr.Ingredients,
	})
}

func (f *Feed) publish(topic, eventType string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		f.hub.logger.Errorw("marshal ws payload", "type", eventType, "error", err)
		return
	}
	f.hub.Broadcast(topic, Event{Type: eventType, Payload: data})
}
