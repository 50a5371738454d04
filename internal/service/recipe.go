package service

import (
	"context"
	"fmt"
)

// RecipeStore reads the two recipe relations.
type RecipeStore interface {
	ListItemIngredientIDs(ctx context.Context, itemID int32) ([]int32, error)
	ListSeasonalItemIngredientIDs(ctx context.Context, seasonalID int32) ([]int32, error)
}

// ResolveIngredients returns the ingredient ids one unit of ref consumes.
// An item without recipe rows yields an empty slice and no error.
func ResolveIngredients(ctx context.Context, store RecipeStore, ref ItemRef) ([]int32, error) {
	var (
		ids []int32
		err error
	)
	switch ref.Kind {
	case ItemKindRegular:
		ids, err = store.ListItemIngredientIDs(ctx, ref.ID)
	case ItemKindSeasonal:
		ids, err = store.ListSeasonalItemIngredientIDs(ctx, ref.ID)
	default:
		return nil, ErrInvalidItemKind
	}
	if err != nil {
		return nil, fmt.Errorf("list ingredients for %s: %w", ref, err)
	}
	if ids == nil {
		ids = []int32{}
	}
	return ids, nil
}

