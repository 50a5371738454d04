package service

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tabletop-pos/api/internal/database"
)

// =====================
// In-memory transactional store
// =====================
//
// memDB holds its mutex for the whole life of a transaction, so concurrent
// checkouts run one after another exactly like two transactions contending
// for the same ingredient row locks. Each transaction works on a copy of the
// mutable state which is only published on Commit.

type memState struct {
	stock       map[int32]int32
	orders      []database.Order
	lines       []database.OrderLine
	nextOrderID int64
	nextLineID  int64
}

func (s *memState) clone() *memState {
	c := &memState{
		stock:       make(map[int32]int32, len(s.stock)),
		orders:      append([]database.Order(nil), s.orders...),
		lines:       append([]database.OrderLine(nil), s.lines...),
		nextOrderID: s.nextOrderID,
		nextLineID:  s.nextLineID,
	}
	for k, v := range s.stock {
		c.stock[k] = v
	}
	return c
}

// memHooks inject failures or delays into single store calls.
type memHooks struct {
	createOrder      func(ctx context.Context) error
	createOrderLines func(ctx context.Context, rows []database.CreateOrderLinesParams) error
	lockIngredients  func(ctx context.Context) error
	commit           func() error
}

type memDB struct {
	mu    sync.Mutex
	state *memState
	hooks memHooks

	// static catalogue, never mutated by a checkout
	names           map[int32]string
	menu            map[int32]database.GetMenuItemForOrderRow
	seasonal        map[int32]database.GetSeasonalItemForOrderRow
	itemRecipes     map[int32][]int32
	seasonalRecipes map[int32][]int32

	beginCalls int
	commits    int
	rollbacks  int
}

func newMemDB() *memDB {
	return &memDB{
		state:           &memState{stock: map[int32]int32{}},
		names:           map[int32]string{},
		menu:            map[int32]database.GetMenuItemForOrderRow{},
		seasonal:        map[int32]database.GetSeasonalItemForOrderRow{},
		itemRecipes:     map[int32][]int32{},
		seasonalRecipes: map[int32][]int32{},
	}
}

func (db *memDB) addIngredient(id int32, name string, stock int32) {
	db.names[id] = name
	db.state.stock[id] = stock
}

func (db *memDB) addMenuItem(id int32, name, price string, ingredientIDs ...int32) {
	db.menu[id] = database.GetMenuItemForOrderRow{ID: id, Name: name, Price: makeNumeric(price)}
	if len(ingredientIDs) > 0 {
		db.itemRecipes[id] = ingredientIDs
	}
}

func (db *memDB) addSeasonalItem(id int32, name, price string, start, end time.Time, ingredientIDs ...int32) {
	db.seasonal[id] = database.GetSeasonalItemForOrderRow{
		ID:        id,
		Name:      name,
		Price:     makeNumeric(price),
		StartDate: pgtype.Date{Time: civilDate(start), Valid: true},
		EndDate:   pgtype.Date{Time: civilDate(end), Valid: true},
	}
	if len(ingredientIDs) > 0 {
		db.seasonalRecipes[id] = ingredientIDs
	}
}

// addOrder records a pre-existing order outside of any checkout.
func (db *memDB) addOrder(placed time.Time) {
	db.state.nextOrderID++
	db.state.orders = append(db.state.orders, database.Order{
		ID:          db.state.nextOrderID,
		TimeOrdered: placed,
		WeekNumber:  1,
		Status:      database.OrderStatusCompleted,
	})
}

func (db *memDB) stockOf(id int32) int32 {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.state.stock[id]
}

func (db *memDB) committedOrders() []database.Order {
	db.mu.Lock()
	defer db.mu.Unlock()
	return append([]database.Order(nil), db.state.orders...)
}

func (db *memDB) committedLines() []database.OrderLine {
	db.mu.Lock()
	defer db.mu.Unlock()
	return append([]database.OrderLine(nil), db.state.lines...)
}

func (db *memDB) Begin(ctx context.Context) (pgx.Tx, error) {
	db.mu.Lock()
	db.beginCalls++
	return &memTx{db: db, state: db.state.clone()}, nil
}

func newMemService(db *memDB, opts ...CheckoutOption) *CheckoutService {
	newStore := func(tx database.DBTX) CheckoutStore { return &memStore{tx: tx.(*memTx)} }
	return NewCheckoutService(db, newStore, opts...)
}

// memTx implements pgx.Tx. Only Commit and Rollback are meaningful; the
// store reads and writes tx.state directly.
type memTx struct {
	db    *memDB
	state *memState
	done  bool
}

func (t *memTx) Commit(ctx context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	defer t.db.mu.Unlock()
	if t.db.hooks.commit != nil {
		if err := t.db.hooks.commit(); err != nil {
			t.db.rollbacks++
			return err
		}
	}
	t.db.state = t.state
	t.db.commits++
	return nil
}

func (t *memTx) Rollback(ctx context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	t.db.rollbacks++
	t.db.mu.Unlock()
	return nil
}

func (t *memTx) Begin(ctx context.Context) (pgx.Tx, error) { panic("not implemented") }
func (t *memTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	panic("not implemented")
}
func (t *memTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	panic("not implemented")
}
func (t *memTx) LargeObjects() pgx.LargeObjects { panic("not implemented") }
func (t *memTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	panic("not implemented")
}
func (t *memTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	panic("not implemented")
}
func (t *memTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	panic("not implemented")
}
func (t *memTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	panic("not implemented")
}
func (t *memTx) Conn() *pgx.Conn { panic("not implemented") }

// memStore implements CheckoutStore on top of a memTx.
type memStore struct {
	tx *memTx
}

func (s *memStore) GetFirstOrderTime(ctx context.Context) (time.Time, error) {
	if len(s.tx.state.orders) == 0 {
		return time.Time{}, pgx.ErrNoRows
	}
	return s.tx.state.orders[0].TimeOrdered, nil
}

func (s *memStore) GetMenuItemForOrder(ctx context.Context, id int32) (database.GetMenuItemForOrderRow, error) {
	row, ok := s.tx.db.menu[id]
	if !ok {
		return database.GetMenuItemForOrderRow{}, pgx.ErrNoRows
	}
	return row, nil
}

func (s *memStore) GetSeasonalItemForOrder(ctx context.Context, id int32) (database.GetSeasonalItemForOrderRow, error) {
	row, ok := s.tx.db.seasonal[id]
	if !ok {
		return database.GetSeasonalItemForOrderRow{}, pgx.ErrNoRows
	}
	return row, nil
}

func (s *memStore) ListItemIngredientIDs(ctx context.Context, itemID int32) ([]int32, error) {
	return append([]int32(nil), s.tx.db.itemRecipes[itemID]...), nil
}

func (s *memStore) ListSeasonalItemIngredientIDs(ctx context.Context, seasonalID int32) ([]int32, error) {
	return append([]int32(nil), s.tx.db.seasonalRecipes[seasonalID]...), nil
}

func (s *memStore) LockIngredients(ctx context.Context, ids []int32) ([]database.LockIngredientsRow, error) {
	if h := s.tx.db.hooks.lockIngredients; h != nil {
		if err := h(ctx); err != nil {
			return nil, err
		}
	}
	var rows []database.LockIngredientsRow
	for _, id := range ids {
		if stock, ok := s.tx.state.stock[id]; ok {
			rows = append(rows, database.LockIngredientsRow{ID: id, Name: s.tx.db.names[id], CurrentStock: stock})
		}
	}
	return rows, nil
}

func (s *memStore) DecrementIngredientStock(ctx context.Context, arg database.DecrementIngredientStockParams) ([]database.DecrementIngredientStockRow, error) {
	var rows []database.DecrementIngredientStockRow
	for _, id := range arg.Ids {
		stock, ok := s.tx.state.stock[id]
		if !ok {
			continue
		}
		stock -= arg.Amount
		s.tx.state.stock[id] = stock
		rows = append(rows, database.DecrementIngredientStockRow{ID: id, Name: s.tx.db.names[id], CurrentStock: stock})
	}
	return rows, nil
}

func (s *memStore) CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error) {
	if h := s.tx.db.hooks.createOrder; h != nil {
		if err := h(ctx); err != nil {
			return database.Order{}, err
		}
	}
	s.tx.state.nextOrderID++
	order := database.Order{
		ID:          s.tx.state.nextOrderID,
		TimeOrdered: arg.TimeOrdered,
		WeekNumber:  arg.WeekNumber,
		Status:      arg.Status,
	}
	s.tx.state.orders = append(s.tx.state.orders, order)
	return order, nil
}

func (s *memStore) CreateOrderLines(ctx context.Context, arg []database.CreateOrderLinesParams) (int64, error) {
	if h := s.tx.db.hooks.createOrderLines; h != nil {
		if err := h(ctx, arg); err != nil {
			return 0, err
		}
	}
	for _, p := range arg {
		s.tx.state.nextLineID++
		s.tx.state.lines = append(s.tx.state.lines, database.OrderLine{
			ID:         s.tx.state.nextLineID,
			OrderID:    p.OrderID,
			ItemID:     p.ItemID,
			SeasonalID: p.SeasonalID,
		})
	}
	return int64(len(arg)), nil
}

// --- Test helpers ---

func makeNumeric(val string) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(val)
	return n
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
