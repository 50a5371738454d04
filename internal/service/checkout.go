package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/tabletop-pos/api/internal/database"
)

// MaxLineQuantity caps a single line; every unit becomes its own row.
const MaxLineQuantity = 999

const tracerName = "github.com/tabletop-pos/api/internal/service"

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// CheckoutStore defines the DB methods one checkout transaction needs.
// Satisfied by *database.Queries (and its WithTx variant).
type CheckoutStore interface {
	RecipeStore
	LedgerStore
	FirstOrderStore
	GetMenuItemForOrder(ctx context.Context, id int32) (database.GetMenuItemForOrderRow, error)
	GetSeasonalItemForOrder(ctx context.Context, id int32) (database.GetSeasonalItemForOrderRow, error)
	CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error)
	CreateOrderLines(ctx context.Context, arg []database.CreateOrderLinesParams) (int64, error)
}

var _ CheckoutStore = (*database.Queries)(nil)

// NewCheckoutStore creates a CheckoutStore bound to a transaction.
type NewCheckoutStore func(db database.DBTX) CheckoutStore

// CheckoutLine is one submitted cart line.
type CheckoutLine struct {
	Item     ItemRef
	Quantity int32
}

// CheckoutRequest is the validated input for a checkout.
type CheckoutRequest struct {
	Lines []CheckoutLine
}

// OrderedItem is a priced cart line as it was accepted.
type OrderedItem struct {
	Item      ItemRef
	Name      string
	Quantity  int32
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

// CheckoutResult describes a committed order.
type CheckoutResult struct {
	Order               database.Order
	Items               []OrderedItem
	LineCount           int64
	DaysSinceFirstOrder int
	Total               decimal.Decimal
}

// CheckoutService turns a cart into an order and consumes the ingredients
// it needs, all inside one transaction.
type CheckoutService struct {
	pool      TxBeginner
	newStore  NewCheckoutStore
	policy    StockPolicy
	timeout   time.Duration
	observers Observers
	logger    *zap.SugaredLogger
	now       func() time.Time
	tracer    trace.Tracer
}

type CheckoutOption func(*CheckoutService)

func WithStockPolicy(p StockPolicy) CheckoutOption {
	return func(s *CheckoutService) { s.policy = p }
}

// WithTimeout bounds the whole checkout transaction. Zero disables it.
func WithTimeout(d time.Duration) CheckoutOption {
	return func(s *CheckoutService) { s.timeout = d }
}

func WithObservers(obs ...OrderObserver) CheckoutOption {
	return func(s *CheckoutService) { s.observers = append(s.observers, obs...) }
}

func WithLogger(l *zap.SugaredLogger) CheckoutOption {
	return func(s *CheckoutService) { s.logger = l }
}

func WithClock(now func() time.Time) CheckoutOption {
	return func(s *CheckoutService) { s.now = now }
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(pool TxBeginner, newStore NewCheckoutStore, opts ...CheckoutOption) *CheckoutService {
	s := &CheckoutService{
		pool:     pool,
		newStore: newStore,
		policy:   PolicyGuarded,
		logger:   zap.NewNop().Sugar(),
		now:      time.Now,
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Policy reports the stock policy in force.
func (s *CheckoutService) Policy() StockPolicy {
	return s.policy
}

// Checkout validates the cart, records the order with one line row per unit
// and consumes stock. Either everything commits or nothing does.
func (s *CheckoutService) Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	ctx, span := s.tracer.Start(ctx, "CheckoutService.Checkout", trace.WithAttributes(
		attribute.Int("checkout.lines", len(req.Lines)),
		attribute.String("checkout.stock_policy", s.policy.String()),
	))
	defer span.End()

	result, err := s.checkout(ctx, req)

	// Observers run after the transaction is over, even if the caller left.
	notifyCtx := context.WithoutCancel(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Warnw("checkout rejected", "error", err, "lines", len(req.Lines))
		s.observers.CheckoutRejected(notifyCtx, req, err)
		return nil, err
	}

	span.SetAttributes(
		attribute.Int64("order.id", result.Order.ID),
		attribute.Int("order.week_number", int(result.Order.WeekNumber)),
	)
	s.logger.Infow("checkout completed",
		"order_id", result.Order.ID,
		"week_number", result.Order.WeekNumber,
		"line_count", result.LineCount,
		"total", result.Total.StringFixed(2),
	)
	s.observers.OrderCreated(notifyCtx, result)
	return result, nil
}

func (s *CheckoutService) checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	if err := validateLines(req.Lines); err != nil {
		return nil, err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	result, err := s.checkoutTx(ctx, req.Lines)
	if err != nil {
		return nil, classifyStoreError(err)
	}
	return result, nil
}

func validateLines(lines []CheckoutLine) error {
	if len(lines) == 0 {
		return ErrEmptyOrder
	}
	for i, line := range lines {
		if line.Item.Kind != ItemKindRegular && line.Item.Kind != ItemKindSeasonal {
			return fmt.Errorf("line[%d]: %w", i, ErrInvalidItemKind)
		}
		if line.Item.ID <= 0 {
			return fmt.Errorf("line[%d]: %w", i, ErrInvalidItemID)
		}
		if line.Quantity <= 0 || line.Quantity > MaxLineQuantity {
			return fmt.Errorf("line[%d]: %w", i, ErrInvalidQuantity)
		}
	}
	return nil
}

// checkoutTx executes the full checkout in a single transaction.
func (s *CheckoutService) checkoutTx(ctx context.Context, lines []CheckoutLine) (*CheckoutResult, error) {
	// --- Begin transaction ---
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	// Rollback has to reach the server even after ctx expired.
	defer tx.Rollback(context.WithoutCancel(ctx)) //nolint:errcheck

	store := s.newStore(tx)
	now := s.now()

	// --- Look up and price menu entries ---
	items, total, err := priceLines(ctx, store, lines, now)
	if err != nil {
		return nil, err
	}

	// --- Week bucket ---
	first, err := FirstOrderTimestamp(ctx, store, now)
	if err != nil {
		return nil, err
	}
	days := DaysBetween(first, now)

	// --- Insert order header ---
	order, err := store.CreateOrder(ctx, database.CreateOrderParams{
		TimeOrdered: now,
		WeekNumber:  WeekNumberFor(now, first),
		Status:      database.OrderStatusIncomplete,
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	// --- Insert one line row per unit ---
	rows := expandLines(order.ID, lines)
	copied, err := store.CreateOrderLines(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("create order lines: %w", err)
	}
	if copied != int64(len(rows)) {
		return nil, fmt.Errorf("create order lines: copied %d of %d rows", copied, len(rows))
	}

	// --- Consume stock ---
	if err := s.consumeStock(ctx, store, lines, items); err != nil {
		return nil, err
	}

	// --- Commit ---
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &CheckoutResult{
		Order:               order,
		Items:               items,
		LineCount:           copied,
		DaysSinceFirstOrder: days,
		Total:               total,
	}, nil
}

// priceLines checks every line points at an orderable item and prices it.
func priceLines(ctx context.Context, store CheckoutStore, lines []CheckoutLine, now time.Time) ([]OrderedItem, decimal.Decimal, error) {
	today := civilDate(now)
	total := decimal.Zero
	items := make([]OrderedItem, 0, len(lines))

	for i, line := range lines {
		var (
			name  string
			price decimal.Decimal
		)
		switch line.Item.Kind {
		case ItemKindRegular:
			item, err := store.GetMenuItemForOrder(ctx, line.Item.ID)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return nil, decimal.Zero, fmt.Errorf("line[%d]: %s: %w", i, line.Item, ErrItemNotFound)
				}
				return nil, decimal.Zero, fmt.Errorf("line[%d]: get menu item: %w", i, err)
			}
			name, price = item.Name, NumericToDecimal(item.Price)
		case ItemKindSeasonal:
			item, err := store.GetSeasonalItemForOrder(ctx, line.Item.ID)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return nil, decimal.Zero, fmt.Errorf("line[%d]: %s: %w", i, line.Item, ErrItemNotFound)
				}
				return nil, decimal.Zero, fmt.Errorf("line[%d]: get seasonal item: %w", i, err)
			}
			if !item.StartDate.Valid || !item.EndDate.Valid ||
				today.Before(item.StartDate.Time) || today.After(item.EndDate.Time) {
				return nil, decimal.Zero, fmt.Errorf("line[%d]: %s: %w", i, item.Name, ErrItemNotOrderable)
			}
			name, price = item.Name, NumericToDecimal(item.Price)
		}

		subtotal := price.Mul(decimal.NewFromInt32(line.Quantity))
		total = total.Add(subtotal)
		items = append(items, OrderedItem{
			Item:      line.Item,
			Name:      name,
			Quantity:  line.Quantity,
			UnitPrice: price,
			Subtotal:  subtotal,
		})
	}
	return items, total, nil
}

// expandLines turns each cart line into Quantity single-unit rows.
func expandLines(orderID int64, lines []CheckoutLine) []database.CreateOrderLinesParams {
	var n int
	for _, line := range lines {
		n += int(line.Quantity)
	}
	rows := make([]database.CreateOrderLinesParams, 0, n)
	for _, line := range lines {
		for u := int32(0); u < line.Quantity; u++ {
			rows = append(rows, line.Item.orderLine(orderID))
		}
	}
	return rows
}

// consumeStock resolves every line's recipe and applies the stock policy.
func (s *CheckoutService) consumeStock(ctx context.Context, store CheckoutStore, lines []CheckoutLine, items []OrderedItem) error {
	recipes := make([][]int32, len(lines))
	for i, line := range lines {
		ids, err := ResolveIngredients(ctx, store, line.Item)
		if err != nil {
			return fmt.Errorf("line[%d]: %w", i, err)
		}
		if len(ids) == 0 {
			return fmt.Errorf("line[%d]: %s: %w", i, items[i].Name, ErrNoIngredientsConfigured)
		}
		recipes[i] = ids
	}

	if s.policy == PolicyDecrementThenCheck {
		return decrementThenCheck(ctx, store, lines, recipes)
	}
	return guardedConsume(ctx, store, lines, recipes)
}

// guardedConsume locks all touched ingredients up front, rejects the order
// if any would drop below zero, and only then writes.
func guardedConsume(ctx context.Context, store LedgerStore, lines []CheckoutLine, recipes [][]int32) error {
	demand := make(map[int32]int32)
	var ids []int32
	for i, recipe := range recipes {
		for _, id := range sortedIDs(recipe) {
			if _, ok := demand[id]; !ok {
				ids = append(ids, id)
			}
			demand[id] += lines[i].Quantity
		}
	}

	levels, err := LockStock(ctx, store, ids)
	if err != nil {
		return err
	}

	var short []string
	for _, lvl := range levels {
		if lvl.CurrentStock-demand[lvl.IngredientID] < 0 {
			short = append(short, lvl.Name)
		}
	}
	if len(short) > 0 {
		return &InsufficientStockError{Ingredients: short}
	}

	for i, recipe := range recipes {
		if _, err := DecrementStock(ctx, store, recipe, lines[i].Quantity); err != nil {
			return fmt.Errorf("line[%d]: %w", i, err)
		}
	}
	return nil
}

// decrementThenCheck writes each line's decrement and inspects the result.
// The union of touched rows is locked first, in id order, so two orders whose
// lines reach the same ingredients in a different order cannot deadlock.
func decrementThenCheck(ctx context.Context, store LedgerStore, lines []CheckoutLine, recipes [][]int32) error {
	var ids []int32
	for _, recipe := range recipes {
		ids = append(ids, recipe...)
	}
	if _, err := LockStock(ctx, store, ids); err != nil {
		return err
	}

	for i, recipe := range recipes {
		levels, err := DecrementStock(ctx, store, recipe, lines[i].Quantity)
		if err != nil {
			return fmt.Errorf("line[%d]: %w", i, err)
		}
		var short []string
		for _, lvl := range levels {
			if lvl.CurrentStock <= 0 {
				short = append(short, lvl.Name)
			}
		}
		if len(short) > 0 {
			return fmt.Errorf("line[%d]: %w", i, &InsufficientStockError{Ingredients: short})
		}
	}
	return nil
}

// civilDate is the UTC calendar day of t, as a midnight UTC timestamp.
func civilDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
