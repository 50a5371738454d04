package mongo

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/tabletop-pos/api/internal/database"
	"github.com/tabletop-pos/api/internal/service"
)

type mockAuditWriter struct {
	audits []*CheckoutAudit
	err    error
}

func (m *mockAuditWriter) Create(ctx context.Context, audit *CheckoutAudit) error {
	if m.err != nil {
		return m.err
	}
	m.audits = append(m.audits, audit)
	return nil
}

var auditNow = time.Date(2026, 4, 2, 18, 30, 0, 0, time.UTC)

func newTestAuditObserver(w auditWriter, logger *zap.SugaredLogger) *AuditObserver {
	o := NewAuditObserver(w, logger)
	o.now = func() time.Time { return auditNow }
	return o
}

func TestAuditObserver_Accepted(t *testing.T) {
	w := &mockAuditWriter{}
	o := newTestAuditObserver(w, nil)

	o.OrderCreated(context.Background(), &service.CheckoutResult{
		Order: database.Order{ID: 3, WeekNumber: 1},
		Items: []service.OrderedItem{
			{Item: service.RegularItem(1), Quantity: 2},
			{Item: service.SeasonalItem(4), Quantity: 1},
		},
		Total: decimal.RequireFromString("14"),
	})

	if len(w.audits) != 1 {
		t.Fatalf("expected 1 audit, got %d", len(w.audits))
	}
	a := w.audits[0]
	if a.Outcome != OutcomeAccepted || a.OrderID != 3 || a.Total != "14.00" || !a.Timestamp.Equal(auditNow) {
		t.Errorf("audit: %+v", a)
	}
	want := []AuditLine{{"regular", 1, 2}, {"seasonal", 4, 1}}
	if fmt.Sprint(a.Lines) != fmt.Sprint(want) {
		t.Errorf("lines: got %v, want %v", a.Lines, want)
	}
}

func TestAuditObserver_Rejected(t *testing.T) {
	w := &mockAuditWriter{}
	o := newTestAuditObserver(w, nil)

	req := service.CheckoutRequest{Lines: []service.CheckoutLine{{Item: service.RegularItem(1), Quantity: 9}}}
	err := fmt.Errorf("line[0]: %w", &service.InsufficientStockError{Ingredients: []string{"Bun"}})
	o.CheckoutRejected(context.Background(), req, err)

	if len(w.audits) != 1 {
		t.Fatalf("expected 1 audit, got %d", len(w.audits))
	}
	a := w.audits[0]
	if a.Outcome != OutcomeRejected || a.OrderID != 0 || a.Error != err.Error() {
		t.Errorf("audit: %+v", a)
	}
	if len(a.Ingredients) != 1 || a.Ingredients[0] != "Bun" {
		t.Errorf("ingredients: %v", a.Ingredients)
	}
	if len(a.Lines) != 1 || a.Lines[0].Count != 9 {
		t.Errorf("lines: %v", a.Lines)
	}
}

func TestAuditObserver_WriteFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	o := newTestAuditObserver(&mockAuditWriter{err: errors.New("no primary")}, zap.New(core).Sugar())

	o.CheckoutRejected(context.Background(), service.CheckoutRequest{}, service.ErrEmptyOrder)

	if logs.FilterMessage("write checkout audit").Len() != 1 {
		t.Fatalf("expected the failure to be logged, got %v", logs.All())
	}
}
