package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5"
)

// Order ids come from the orders.id sequence; this file only derives the
// week bucket.

type FirstOrderStore interface {
	GetFirstOrderTime(ctx context.Context) (time.Time, error)
}

// FirstOrderTimestamp returns when the lowest-numbered order was placed, or
// now when no order exists yet.
func FirstOrderTimestamp(ctx context.Context, store FirstOrderStore, now time.Time) (time.Time, error) {
	first, err := store.GetFirstOrderTime(ctx)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return now, nil
		}
		return time.Time{}, fmt.Errorf("get first order time: %w", err)
	}
	return first, nil
}

// DaysBetween is the absolute distance between a and b rounded to whole days.
// The absolute value keeps clock skew from producing negative buckets.
func DaysBetween(a, b time.Time) int {
	days := math.Round(b.Sub(a).Hours() / 24)
	return int(math.Abs(days))
}

// WeekNumberFor buckets ts into 1-based weeks counted from first.
func WeekNumberFor(ts, first time.Time) int32 {
	return int32(DaysBetween(first, ts)/7 + 1)
}
