package mongo

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/tabletop-pos/api/internal/database"
	"github.com/tabletop-pos/api/internal/service"
)

type auditWriter interface {
	Create(ctx context.Context, audit *CheckoutAudit) error
}

// AuditObserver writes every checkout attempt to the audit trail.
type AuditObserver struct {
	repo   auditWriter
	logger *zap.SugaredLogger
	now    func() time.Time
}

var _ service.OrderObserver = (*AuditObserver)(nil)

func NewAuditObserver(repo auditWriter, logger *zap.SugaredLogger) *AuditObserver {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &AuditObserver{repo: repo, logger: logger, now: time.Now}
}

func (o *AuditObserver) OrderCreated(ctx context.Context, result *service.CheckoutResult) {
	lines := make([]AuditLine, len(result.Items))
	for i, it := range result.Items {
		lines[i] = AuditLine{Type: it.Item.Kind.String(), ID: it.Item.ID, Count: it.Quantity}
	}
	o.write(ctx, &CheckoutAudit{
		Outcome:    OutcomeAccepted,
		OrderID:    result.Order.ID,
		WeekNumber: result.Order.WeekNumber,
		Lines:      lines,
		Total:      result.Total.StringFixed(2),
	})
}

func (o *AuditObserver) CheckoutRejected(ctx context.Context, req service.CheckoutRequest, err error) {
	audit := &CheckoutAudit{
		Outcome: OutcomeRejected,
		Lines:   auditLines(req.Lines),
		Error:   err.Error(),
	}
	var stockErr *service.InsufficientStockError
	if errors.As(err, &stockErr) {
		audit.Ingredients = stockErr.Ingredients
	}
	o.write(ctx, audit)
}

// OrderStatusChanged is not part of the checkout trail.
func (o *AuditObserver) OrderStatusChanged(ctx context.Context, order database.Order, previous database.OrderStatus) {
}

func (o *AuditObserver) write(ctx context.Context, audit *CheckoutAudit) {
	audit.Timestamp = o.now().UTC()
	if err := o.repo.Create(ctx, audit); err != nil {
		o.logger.Errorw("write checkout audit", "outcome", audit.Outcome, "order_id", audit.OrderID, "error", err)
	}
}

func auditLines(lines []service.CheckoutLine) []AuditLine {
	out := make([]AuditLine, len(lines))
	for i, l := range lines {
		out[i] = AuditLine{Type: l.Item.Kind.String(), ID: l.Item.ID, Count: l.Quantity}
	}
	return out
}
