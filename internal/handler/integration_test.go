//go:build integration

package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/tabletop-pos/api/internal/auth"
	"github.com/tabletop-pos/api/internal/config"
	"github.com/tabletop-pos/api/internal/database"
	"github.com/tabletop-pos/api/internal/enum"
	"github.com/tabletop-pos/api/internal/router"
	"github.com/tabletop-pos/api/internal/service"
	"github.com/tabletop-pos/api/internal/ws"
)

const integrationSecret = "integration-test-secret"

type catalogue struct {
	bun, patty, potato int32
	burger, fries      int32
	expiredSeasonal    int32
}

// TestIntegrationFlow exercises checkout, order management and inventory
// reports against a real PostgreSQL database through the full router.
func TestIntegrationFlow(t *testing.T) {
	ctx := context.Background()

	connStr, cleanup := setupPostgresContainer(t, ctx)
	defer cleanup()

	if err := database.Migrate(connStr); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("create pool: %v", err)
	}
	defer pool.Close()

	queries := database.New(pool)
	cat := seedCatalogue(t, ctx, queries)

	server, stop := startServer(t, pool, queries)
	defer stop()

	kitchen := integrationToken(t, enum.UserRoleKitchen)
	manager := integrationToken(t, enum.UserRoleManager)

	// --- 1. Two burgers: Bun 5 -> 3, Patty 5 -> 3 ---
	status, body := httpJSON(t, server, http.MethodPost, "/checkout", checkoutBody(cat.burger, 2), "")
	if status != http.StatusCreated {
		t.Fatalf("checkout: status %d, body %v", status, body)
	}
	if body["total"] != "20.00" || body["week_number"] != float64(1) || body["line_count"] != float64(2) {
		t.Fatalf("checkout response: %v", body)
	}
	firstOrder := int64(body["order_id"].(float64))
	assertStock(t, ctx, queries, cat.bun, 3)
	assertStock(t, ctx, queries, cat.patty, 3)

	// --- 2. The recorded order has one grouped line of quantity 2 ---
	status, body = httpJSON(t, server, http.MethodGet, fmt.Sprintf("/orders/%d", firstOrder), nil, kitchen)
	if status != http.StatusOK {
		t.Fatalf("get order: status %d", status)
	}
	lines := body["lines"].([]interface{})
	if len(lines) != 1 || lines[0].(map[string]interface{})["quantity"] != float64(2) {
		t.Fatalf("order lines: %v", lines)
	}

	// --- 3. Rejected checkouts leave stock untouched ---
	status, body = httpJSON(t, server, http.MethodPost, "/checkout", checkoutBody(cat.burger, 4), "")
	if status != http.StatusConflict {
		t.Fatalf("oversell: status %d, body %v", status, body)
	}
	status, _ = httpJSON(t, server, http.MethodPost, "/checkout", map[string]interface{}{
		"order": []map[string]interface{}{
			{"id": cat.burger, "count": 1, "type": "regular"},
			{"id": cat.fries, "count": 1, "type": "regular"},
		},
	}, "")
	if status != http.StatusConflict {
		t.Fatalf("burger + out of stock fries: status %d", status)
	}
	status, _ = httpJSON(t, server, http.MethodPost, "/checkout", map[string]interface{}{
		"order": []map[string]interface{}{{"id": cat.expiredSeasonal, "count": 1, "type": "seasonal"}},
	}, "")
	if status != http.StatusBadRequest {
		t.Fatalf("expired seasonal: status %d", status)
	}
	assertStock(t, ctx, queries, cat.bun, 3)
	assertStock(t, ctx, queries, cat.patty, 3)

	// --- 4. Ten buyers race for three burgers ---
	const buyers = 10
	codes := make([]int, buyers)
	var wg sync.WaitGroup
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			codes[i] = postCheckout(server, checkoutBody(cat.burger, 1))
		}(i)
	}
	wg.Wait()

	accepted, rejected := 0, 0
	for _, c := range codes {
		switch c {
		case http.StatusCreated:
			accepted++
		case http.StatusConflict:
			rejected++
		default:
			t.Errorf("unexpected status under contention: %d", c)
		}
	}
	if accepted != 3 || rejected != buyers-3 {
		t.Fatalf("race: accepted=%d rejected=%d, want 3/%d", accepted, rejected, buyers-3)
	}
	assertStock(t, ctx, queries, cat.bun, 0)
	assertStock(t, ctx, queries, cat.patty, 0)

	// --- 5. Kitchen completes the first order; it cannot be reopened ---
	path := fmt.Sprintf("/orders/%d/status", firstOrder)
	status, body = httpJSON(t, server, http.MethodPatch, path, map[string]string{"status": "Completed"}, kitchen)
	if status != http.StatusOK || body["status"] != "Completed" {
		t.Fatalf("complete order: status %d, body %v", status, body)
	}
	status, _ = httpJSON(t, server, http.MethodPatch, path, map[string]string{"status": "Canceled"}, manager)
	if status != http.StatusConflict {
		t.Fatalf("cancel completed order: status %d", status)
	}

	// --- 6. Reports reflect the sales ---
	req, _ := http.NewRequest(http.MethodGet, server.URL+"/inventory/popular", nil)
	req.Header.Set("Authorization", "Bearer "+manager)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("popular: %v", err)
	}
	var popular []struct {
		Name      string `json:"name"`
		TotalSold int64  `json:"total_sold"`
	}
	json.NewDecoder(resp.Body).Decode(&popular) //nolint:errcheck
	resp.Body.Close()
	if len(popular) == 0 || popular[0].Name != "Burger" || popular[0].TotalSold != 5 {
		t.Fatalf("popular: %+v", popular)
	}

	status, body = httpJSON(t, server, http.MethodGet, "/menu/out-of-stock", nil, "")
	if status != http.StatusOK || len(body["items"].([]interface{})) != 2 {
		t.Fatalf("out of stock: status %d, body %v", status, body)
	}

	status, body = httpJSON(t, server, http.MethodGet, "/orders/latest", nil, kitchen)
	if status != http.StatusOK || int64(body["order_id"].(float64)) <= firstOrder {
		t.Fatalf("latest: status %d, body %v", status, body)
	}

	// --- 7. Deleting an order removes its lines ---
	status, _ = httpJSON(t, server, http.MethodDelete, fmt.Sprintf("/orders/%d", firstOrder), nil, manager)
	if status != http.StatusNoContent {
		t.Fatalf("delete order: status %d", status)
	}
	n, err := queries.CountOrderLines(ctx, firstOrder)
	if err != nil || n != 0 {
		t.Fatalf("lines after delete: n=%d err=%v", n, err)
	}

	// --- 8. An order line references exactly one kind of item ---
	latest, err := queries.GetLatestOrderID(ctx)
	if err != nil {
		t.Fatalf("latest order id: %v", err)
	}
	insertLine := `INSERT INTO order_lines (order_id, item_id, seasonal_id) VALUES ($1, $2, $3)`
	for name, args := range map[string][]interface{}{
		"both refs":    {latest, cat.fries, cat.expiredSeasonal},
		"neither refs": {latest, nil, nil},
	} {
		_, err := pool.Exec(ctx, insertLine, args...)
		var pgErr *pgconn.PgError
		if !errors.As(err, &pgErr) || pgErr.Code != "23514" {
			t.Fatalf("%s: got %v, want check violation 23514", name, err)
		}
	}

	// --- 9. Deleting a menu item removes its recipe and the order lines that sold it ---
	if n, err := queries.CountOrderLines(ctx, latest); err != nil || n == 0 {
		t.Fatalf("lines before item delete: n=%d err=%v", n, err)
	}
	status, _ = httpJSON(t, server, http.MethodDelete, fmt.Sprintf("/menu/items/%d", cat.burger), nil, manager)
	if status != http.StatusNoContent {
		t.Fatalf("delete menu item: status %d", status)
	}
	n, err = queries.CountOrderLines(ctx, latest)
	if err != nil || n != 0 {
		t.Fatalf("lines after item delete: n=%d err=%v", n, err)
	}
	assertRowCount(t, ctx, pool, `SELECT count(*) FROM order_lines WHERE item_id = $1`, cat.burger, 0)
	assertRowCount(t, ctx, pool, `SELECT count(*) FROM item_ingredients WHERE item_id = $1`, cat.burger, 0)

	// --- 10. Deleting a seasonal item removes its recipe ---
	status, _ = httpJSON(t, server, http.MethodDelete, fmt.Sprintf("/menu/seasonal/%d", cat.expiredSeasonal), nil, manager)
	if status != http.StatusNoContent {
		t.Fatalf("delete seasonal item: status %d", status)
	}
	assertRowCount(t, ctx, pool, `SELECT count(*) FROM seasonal_item_ingredients WHERE seasonal_id = $1`, cat.expiredSeasonal, 0)
}

// --- Helpers ---

func setupPostgresContainer(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("pos_test"),
		tcpostgres.WithUsername("pos"),
		tcpostgres.WithPassword("pos"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("get connection string: %v", err)
	}

	cleanup := func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	}
	return connStr, cleanup
}

func startServer(t *testing.T, pool *pgxpool.Pool, queries *database.Queries) (*httptest.Server, func()) {
	t.Helper()

	cfg := &config.Config{
		JWTSecret:      integrationSecret,
		AllowedOrigins: []string{"http://localhost:3000"},
	}

	ctx, cancel := context.WithCancel(context.Background())
	hub := ws.NewHub(nopLogger)
	go hub.Run(ctx)

	observer := service.Observers{ws.NewFeed(hub)}
	checkout := service.NewCheckoutService(pool,
		func(db database.DBTX) service.CheckoutStore { return database.New(db) },
		service.WithObservers(observer...),
		service.WithTimeout(10*time.Second),
		service.WithLogger(nopLogger),
	)

	server := httptest.NewServer(router.New(cfg, nopLogger, queries, checkout, observer, hub, nil))
	return server, func() {
		server.Close()
		cancel()
	}
}

func seedCatalogue(t *testing.T, ctx context.Context, q *database.Queries) catalogue {
	t.Helper()

	ingredient := func(name string, stock int32) int32 {
		in, err := q.CreateIngredient(ctx, database.CreateIngredientParams{
			Name:         name,
			InitialStock: stock,
			UnitPrice:    testNumeric("0.50"),
		})
		if err != nil {
			t.Fatalf("create ingredient %s: %v", name, err)
		}
		return in.ID
	}
	item := func(name, price string, ingredientIDs ...int32) int32 {
		m, err := q.CreateMenuItem(ctx, database.CreateMenuItemParams{
			Name:     name,
			Price:    testNumeric(price),
			Category: "Main",
		})
		if err != nil {
			t.Fatalf("create menu item %s: %v", name, err)
		}
		for _, id := range ingredientIDs {
			if err := q.AddItemIngredient(ctx, database.AddItemIngredientParams{ItemID: m.ID, IngredientID: id}); err != nil {
				t.Fatalf("link ingredient: %v", err)
			}
		}
		return m.ID
	}

	var c catalogue
	c.bun = ingredient("Bun", 5)
	c.patty = ingredient("Beef Patty", 5)
	c.potato = ingredient("Potato", 0)
	c.burger = item("Burger", "10.00", c.bun, c.patty)
	c.fries = item("Fries", "3.50", c.potato)

	lastYear := time.Now().UTC().AddDate(-1, 0, 0).Truncate(24 * time.Hour)
	s, err := q.CreateSeasonalItem(ctx, database.CreateSeasonalItemParams{
		Name:      "Pumpkin Pie",
		Price:     testNumeric("6.50"),
		StartDate: pgtypeDate(lastYear),
		EndDate:   pgtypeDate(lastYear.AddDate(0, 1, 0)),
	})
	if err != nil {
		t.Fatalf("create seasonal item: %v", err)
	}
	if err := q.AddSeasonalItemIngredient(ctx, database.AddSeasonalItemIngredientParams{SeasonalID: s.ID, IngredientID: c.bun}); err != nil {
		t.Fatalf("link seasonal ingredient: %v", err)
	}
	c.expiredSeasonal = s.ID
	return c
}

func assertStock(t *testing.T, ctx context.Context, q *database.Queries, ingredientID, want int32) {
	t.Helper()
	rows, err := q.ListIngredients(ctx)
	if err != nil {
		t.Fatalf("list ingredients: %v", err)
	}
	for _, row := range rows {
		if row.ID == ingredientID {
			if row.CurrentStock != want {
				t.Fatalf("%s stock: got %d, want %d", row.Name, row.CurrentStock, want)
			}
			return
		}
	}
	t.Fatalf("ingredient %d not found", ingredientID)
}

func assertRowCount(t *testing.T, ctx context.Context, pool *pgxpool.Pool, query string, id int32, want int64) {
	t.Helper()
	var got int64
	if err := pool.QueryRow(ctx, query, id).Scan(&got); err != nil {
		t.Fatalf("%s: %v", query, err)
	}
	if got != want {
		t.Fatalf("%s [%d]: got %d, want %d", query, id, got, want)
	}
}

func pgtypeDate(t time.Time) pgtype.Date {
	return pgtype.Date{Time: t, Valid: true}
}

func integrationToken(t *testing.T, role string) string {
	t.Helper()
	token, err := auth.GenerateToken(integrationSecret, uuid.New(), role, time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}

func checkoutBody(itemID int32, count int) map[string]interface{} {
	return map[string]interface{}{
		"order": []map[string]interface{}{{"id": itemID, "count": count, "type": "regular"}},
	}
}

// postCheckout is safe to call from any goroutine; it reports 0 on transport errors.
func postCheckout(server *httptest.Server, body interface{}) int {
	b, _ := json.Marshal(body)
	resp, err := http.Post(server.URL+"/checkout", "application/json", bytes.NewReader(b))
	if err != nil {
		return 0
	}
	resp.Body.Close()
	return resp.StatusCode
}

func httpJSON(t *testing.T, server *httptest.Server, method, path string, body interface{}, token string) (int, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, server.URL+path, reader)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	result := map[string]interface{}{}
	if resp.StatusCode != http.StatusNoContent {
		json.NewDecoder(resp.Body).Decode(&result) //nolint:errcheck
	}
	return resp.StatusCode, result
}
