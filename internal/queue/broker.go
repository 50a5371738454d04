package queue

import (
	"context"
)

// Broker publishes messages to named queues.
type Broker interface {
	Publish(ctx context.Context, queueName string, message []byte) error
	Close() error
}

const (
	QueueOrderEvents = "order-events"
)
