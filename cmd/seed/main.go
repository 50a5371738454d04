package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/tabletop-pos/api/internal/auth"
	"github.com/tabletop-pos/api/internal/config"
	"github.com/tabletop-pos/api/internal/database"
	"github.com/tabletop-pos/api/internal/enum"
	"github.com/tabletop-pos/api/internal/logger"
)

type seedIngredient struct {
	name      string
	stock     int32
	unitPrice string
}

type seedItem struct {
	name        string
	price       string
	category    string
	calories    int32
	vegan       bool
	ingredients []string
}

var ingredients = []seedIngredient{
	{"Bun", 100, "0.40"},
	{"Beef Patty", 80, "1.50"},
	{"Cheese", 60, "0.30"},
	{"Lettuce", 50, "0.10"},
	{"Tomato", 50, "0.15"},
	{"Potato", 120, "0.20"},
	{"Pumpkin", 30, "0.80"},
	{"Cinnamon", 40, "0.05"},
}

var menuItems = []seedItem{
	{"Burger", "10.00", "Main", 650, false, []string{"Bun", "Beef Patty", "Lettuce", "Tomato"}},
	{"Cheeseburger", "11.50", "Main", 740, false, []string{"Bun", "Beef Patty", "Cheese", "Lettuce"}},
	{"Fries", "3.50", "Side", 320, true, []string{"Potato"}},
	{"Garden Salad", "7.00", "Side", 180, true, []string{"Lettuce", "Tomato"}},
}

var seasonalItems = []seedItem{
	{"Pumpkin Pie", "6.50", "Seasonal", 420, false, []string{"Pumpkin", "Cinnamon"}},
}

func main() {
	role := flag.String("role", enum.UserRoleManager, "Role for the printed staff token (MANAGER, CASHIER, KITCHEN)")
	ttl := flag.Duration("ttl", 12*time.Hour, "Lifetime of the printed staff token")
	tokenOnly := flag.Bool("token", false, "Print a staff token and exit without seeding")
	seasonDays := flag.Int("season-days", 60, "Length of the seeded seasonal window, starting today")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if *tokenOnly {
		printToken(log, cfg.JWTSecret, *role, *ttl)
		return
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalw("unable to connect to database", "error", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalw("unable to ping database", "error", err)
	}
	log.Info("connected to database")

	// Seed in a transaction: the whole catalogue or nothing
	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatalw("failed to begin transaction", "error", err)
	}
	defer tx.Rollback(ctx)

	ids, err := seedIngredients(ctx, tx, log)
	if err != nil {
		log.Fatalw("failed to seed ingredients", "error", err)
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	if err := seedMenu(ctx, tx, log, ids, today, *seasonDays); err != nil {
		log.Fatalw("failed to seed menu", "error", err)
	}

	if err := tx.Commit(ctx); err != nil {
		log.Fatalw("failed to commit", "error", err)
	}

	log.Info("seed completed successfully")
	printToken(log, cfg.JWTSecret, *role, *ttl)
}

func printToken(log *zap.SugaredLogger, secret, role string, ttl time.Duration) {
	switch role {
	case enum.UserRoleManager, enum.UserRoleCashier, enum.UserRoleKitchen:
	default:
		log.Fatalw("unknown role", "role", role)
	}

	token, err := auth.GenerateToken(secret, uuid.New(), role, ttl)
	if err != nil {
		log.Fatalw("failed to sign token", "error", err)
	}
	log.Infow("staff token issued", "role", role, "expires_in", ttl.String())
	fmt.Println(token)
}

// seedIngredients creates missing ingredients and returns every seeded id by name.
func seedIngredients(ctx context.Context, tx pgx.Tx, log *zap.SugaredLogger) (map[string]int32, error) {
	q := database.New(tx)
	ids := make(map[string]int32, len(ingredients))

	for _, in := range ingredients {
		id, err := lookupID(ctx, tx, `SELECT id FROM ingredients WHERE name = $1`, in.name)
		if err != nil {
			return nil, fmt.Errorf("check ingredient %s: %w", in.name, err)
		}
		if id != 0 {
			log.Infow("ingredient already exists, skipping", "name", in.name, "id", id)
			ids[in.name] = id
			continue
		}

		created, err := q.CreateIngredient(ctx, database.CreateIngredientParams{
			Name:         in.name,
			InitialStock: in.stock,
			UnitPrice:    numeric(in.unitPrice),
		})
		if err != nil {
			return nil, fmt.Errorf("insert ingredient %s: %w", in.name, err)
		}
		log.Infow("created ingredient", "name", in.name, "id", created.ID, "stock", in.stock)
		ids[in.name] = created.ID
	}
	return ids, nil
}

func seedMenu(ctx context.Context, tx pgx.Tx, log *zap.SugaredLogger, ingredientIDs map[string]int32, today time.Time, seasonDays int) error {
	q := database.New(tx)

	for _, m := range menuItems {
		id, err := lookupID(ctx, tx, `SELECT id FROM menu_items WHERE name = $1`, m.name)
		if err != nil {
			return fmt.Errorf("check menu item %s: %w", m.name, err)
		}
		if id != 0 {
			log.Infow("menu item already exists, skipping", "name", m.name, "id", id)
			continue
		}

		item, err := q.CreateMenuItem(ctx, database.CreateMenuItemParams{
			Name:     m.name,
			Price:    numeric(m.price),
			Category: m.category,
			Calories: m.calories,
			Vegan:    m.vegan,
		})
		if err != nil {
			return fmt.Errorf("insert menu item %s: %w", m.name, err)
		}
		for _, name := range m.ingredients {
			if err := q.AddItemIngredient(ctx, database.AddItemIngredientParams{
				ItemID:       item.ID,
				IngredientID: ingredientIDs[name],
			}); err != nil {
				return fmt.Errorf("link %s to %s: %w", name, m.name, err)
			}
		}
		log.Infow("created menu item", "name", m.name, "id", item.ID, "ingredients", len(m.ingredients))
	}

	for _, s := range seasonalItems {
		id, err := lookupID(ctx, tx, `SELECT id FROM seasonal_items WHERE name = $1`, s.name)
		if err != nil {
			return fmt.Errorf("check seasonal item %s: %w", s.name, err)
		}
		if id != 0 {
			log.Infow("seasonal item already exists, skipping", "name", s.name, "id", id)
			continue
		}

		item, err := q.CreateSeasonalItem(ctx, database.CreateSeasonalItemParams{
			Name:      s.name,
			Price:     numeric(s.price),
			Calories:  s.calories,
			Vegan:     s.vegan,
			StartDate: pgtype.Date{Time: today, Valid: true},
			EndDate:   pgtype.Date{Time: today.AddDate(0, 0, seasonDays), Valid: true},
		})
		if err != nil {
			return fmt.Errorf("insert seasonal item %s: %w", s.name, err)
		}
		for _, name := range s.ingredients {
			if err := q.AddSeasonalItemIngredient(ctx, database.AddSeasonalItemIngredientParams{
				SeasonalID:   item.ID,
				IngredientID: ingredientIDs[name],
			}); err != nil {
				return fmt.Errorf("link %s to %s: %w", name, s.name, err)
			}
		}
		log.Infow("created seasonal item", "name", s.name, "id", item.ID)
	}
	return nil
}

// lookupID returns 0 when no row matches.
func lookupID(ctx context.Context, tx pgx.Tx, query, name string) (int32, error) {
	var id int32
	err := tx.QueryRow(ctx, query, name).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	return id, err
}

func numeric(val string) pgtype.Numeric {
	var n pgtype.Numeric
	if err := n.Scan(val); err != nil {
		panic(fmt.Sprintf("invalid seed price %q: %v", val, err))
	}
	return n
}
