package service

import (
	"context"

	"github.com/tabletop-pos/api/internal/database"
)

// OrderObserver is told about committed order changes and rejected
// checkouts. Calls happen after the transaction has finished, so an
// observer never sees an order that was rolled back.
type OrderObserver interface {
	OrderCreated(ctx context.Context, result *CheckoutResult)
	CheckoutRejected(ctx context.Context, req CheckoutRequest, err error)
	OrderStatusChanged(ctx context.Context, order database.Order, previous database.OrderStatus)
}

// Observers fans every notification out to each observer in order.
type Observers []OrderObserver

func (o Observers) OrderCreated(ctx context.Context, result *CheckoutResult) {
	for _, obs := range o {
		obs.OrderCreated(ctx, result)
	}
}

func (o Observers) CheckoutRejected(ctx context.Context, req CheckoutRequest, err error) {
	for _, obs := range o {
		obs.CheckoutRejected(ctx, req, err)
	}
}

func (o Observers) OrderStatusChanged(ctx context.Context, order database.Order, previous database.OrderStatus) {
	for _, obs := range o {
		obs.OrderStatusChanged(ctx, order, previous)
	}
}
