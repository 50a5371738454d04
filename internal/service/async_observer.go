package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/tabletop-pos/api/internal/database"
)

// AsyncObserver hands notifications to a background goroutine so a slow
// observer (a broker or a remote store) never holds up a committed checkout.
// When the queue is full the notification is dropped and logged.
type AsyncObserver struct {
	name   string
	next   OrderObserver
	queue  chan func()
	done   chan struct{}
	logger *zap.SugaredLogger
}

// NewAsyncObserver wraps next with a queue of the given size. Run must be
// started for anything to be delivered.
func NewAsyncObserver(name string, next OrderObserver, size int, logger *zap.SugaredLogger) *AsyncObserver {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if size < 1 {
		size = 1
	}
	return &AsyncObserver{
		name:   name,
		next:   next,
		queue:  make(chan func(), size),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Run delivers queued notifications in order until ctx is done, then flushes
// whatever is still queued and returns.
// This should be called as a goroutine: go obs.Run(ctx)
func (a *AsyncObserver) Run(ctx context.Context) {
	defer close(a.done)
	for {
		select {
		case fn := <-a.queue:
			fn()
		case <-ctx.Done():
			for {
				select {
				case fn := <-a.queue:
					fn()
				default:
					return
				}
			}
		}
	}
}

// Done is closed once Run has returned.
func (a *AsyncObserver) Done() <-chan struct{} {
	return a.done
}

func (a *AsyncObserver) OrderCreated(ctx context.Context, result *CheckoutResult) {
	a.enqueue("order created", func() { a.next.OrderCreated(ctx, result) })
}

func (a *AsyncObserver) CheckoutRejected(ctx context.Context, req CheckoutRequest, err error) {
	a.enqueue("checkout rejected", func() { a.next.CheckoutRejected(ctx, req, err) })
}

func (a *AsyncObserver) OrderStatusChanged(ctx context.Context, order database.Order, previous database.OrderStatus) {
	a.enqueue("order status changed", func() { a.next.OrderStatusChanged(ctx, order, previous) })
}

func (a *AsyncObserver) enqueue(what string, fn func()) {
	select {
	case a.queue <- fn:
	default:
		a.logger.Warnw("observer queue full, notification dropped", "observer", a.name, "event", what)
	}
}
