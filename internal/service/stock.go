package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/tabletop-pos/api/internal/database"
	"github.com/tabletop-pos/api/internal/enum"
)

// StockPolicy decides when consumed stock rejects a checkout.
type StockPolicy int

const (
	// PolicyGuarded locks every ingredient the order touches and rejects the
	// order before writing if any post-decrement stock would drop below zero.
	// Stock may end at exactly zero.
	PolicyGuarded StockPolicy = iota
	// PolicyDecrementThenCheck decrements first and rejects the order when a
	// post-decrement stock is zero or less. The surrounding transaction
	// undoes the write.
	PolicyDecrementThenCheck
)

func ParseStockPolicy(s string) (StockPolicy, error) {
	switch s {
	case enum.StockPolicyGuarded, "":
		return PolicyGuarded, nil
	case enum.StockPolicyDecrementThenCheck:
		return PolicyDecrementThenCheck, nil
	}
	return 0, fmt.Errorf("unknown stock policy %q", s)
}

func (p StockPolicy) String() string {
	if p == PolicyDecrementThenCheck {
		return enum.StockPolicyDecrementThenCheck
	}
	return enum.StockPolicyGuarded
}

// StockLevel is an ingredient's stock as seen inside the current transaction.
type StockLevel struct {
	IngredientID int32
	Name         string
	CurrentStock int32
}

// LedgerStore is the slice of the store that touches ingredient stock.
// Nothing else in the service writes ingredients.current_stock.
type LedgerStore interface {
	LockIngredients(ctx context.Context, ids []int32) ([]database.LockIngredientsRow, error)
	DecrementIngredientStock(ctx context.Context, arg database.DecrementIngredientStockParams) ([]database.DecrementIngredientStockRow, error)
}

// LockStock takes row locks on ids in ascending id order and returns their
// current stock.
func LockStock(ctx context.Context, store LedgerStore, ids []int32) ([]StockLevel, error) {
	rows, err := store.LockIngredients(ctx, sortedIDs(ids))
	if err != nil {
		return nil, fmt.Errorf("lock ingredients: %w", err)
	}
	levels := make([]StockLevel, len(rows))
	for i, r := range rows {
		levels[i] = StockLevel{IngredientID: r.ID, Name: r.Name, CurrentStock: r.CurrentStock}
	}
	return levels, nil
}

// DecrementStock subtracts amount from every ingredient in ids with a single
// UPDATE and returns the post-decrement values ordered by id. It never
// rejects; the caller applies the StockPolicy.
func DecrementStock(ctx context.Context, store LedgerStore, ids []int32, amount int32) ([]StockLevel, error) {
	rows, err := store.DecrementIngredientStock(ctx, database.DecrementIngredientStockParams{
		Amount: amount,
		Ids:    sortedIDs(ids),
	})
	if err != nil {
		return nil, fmt.Errorf("decrement ingredient stock: %w", err)
	}
	levels := make([]StockLevel, len(rows))
	for i, r := range rows {
		levels[i] = StockLevel{IngredientID: r.ID, Name: r.Name, CurrentStock: r.CurrentStock}
	}
	sort.Slice(levels, func(a, b int) bool { return levels[a].IngredientID < levels[b].IngredientID })
	return levels, nil
}

// sortedIDs returns a sorted copy of ids with duplicates removed.
func sortedIDs(ids []int32) []int32 {
	out := make([]int32, 0, len(ids))
	seen := make(map[int32]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(a, b int) bool { return out[a] < out[b] })
	return out
}
