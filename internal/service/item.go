package service

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tabletop-pos/api/internal/database"
	"github.com/tabletop-pos/api/internal/enum"
)

// ItemKind tells which menu an ItemRef points into.
type ItemKind uint8

const (
	ItemKindRegular ItemKind = iota + 1
	ItemKindSeasonal
)

// ParseItemKind maps the wire label ("regular" or "seasonal") to an ItemKind.
func ParseItemKind(s string) (ItemKind, error) {
	switch s {
	case enum.ItemKindRegular:
		return ItemKindRegular, nil
	case enum.ItemKindSeasonal:
		return ItemKindSeasonal, nil
	}
	return 0, fmt.Errorf("%w: got %q", ErrInvalidItemKind, s)
}

func (k ItemKind) String() string {
	switch k {
	case ItemKindRegular:
		return enum.ItemKindRegular
	case ItemKindSeasonal:
		return enum.ItemKindSeasonal
	}
	return fmt.Sprintf("ItemKind(%d)", uint8(k))
}

// ItemRef points at exactly one regular or seasonal menu item. The zero
// value is invalid.
type ItemRef struct {
	Kind ItemKind
	ID   int32
}

func RegularItem(id int32) ItemRef  { return ItemRef{Kind: ItemKindRegular, ID: id} }
func SeasonalItem(id int32) ItemRef { return ItemRef{Kind: ItemKindSeasonal, ID: id} }

func (r ItemRef) String() string {
	return fmt.Sprintf("%s item %d", r.Kind, r.ID)
}

// ItemRefFromColumns rebuilds a reference from an order_lines row. It
// reports false unless exactly one column is set.
func ItemRefFromColumns(itemID, seasonalID pgtype.Int4) (ItemRef, bool) {
	switch {
	case itemID.Valid && !seasonalID.Valid:
		return RegularItem(itemID.Int32), true
	case seasonalID.Valid && !itemID.Valid:
		return SeasonalItem(seasonalID.Int32), true
	}
	return ItemRef{}, false
}

// orderLine returns the order_lines row for one unit of r.
func (r ItemRef) orderLine(orderID int64) database.CreateOrderLinesParams {
	p := database.CreateOrderLinesParams{OrderID: orderID}
	switch r.Kind {
	case ItemKindRegular:
		p.ItemID = pgtype.Int4{Int32: r.ID, Valid: true}
	case ItemKindSeasonal:
		p.SeasonalID = pgtype.Int4{Int32: r.ID, Valid: true}
	}
	return p
}
