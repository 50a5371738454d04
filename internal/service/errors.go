package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Errors returned by the checkout service. Every validation error wraps
// ErrInvalidOrder so callers can map the whole family at once.
var (
	ErrInvalidOrder     = errors.New("invalid order")
	ErrEmptyOrder       = fmt.Errorf("%w: order has no lines", ErrInvalidOrder)
	ErrInvalidQuantity  = fmt.Errorf("%w: count must be between 1 and %d", ErrInvalidOrder, MaxLineQuantity)
	ErrInvalidItemID    = fmt.Errorf("%w: invalid item id", ErrInvalidOrder)
	ErrInvalidItemKind  = fmt.Errorf("%w: type must be regular or seasonal", ErrInvalidOrder)
	ErrItemNotFound     = fmt.Errorf("%w: item not found", ErrInvalidOrder)
	ErrItemNotOrderable = fmt.Errorf("%w: seasonal item is not available today", ErrInvalidOrder)

	ErrNoIngredientsConfigured = errors.New("no ingredients configured for item")
	ErrInsufficientStock       = errors.New("insufficient stock")
	ErrStoreUnavailable        = errors.New("store unavailable")
)

// InsufficientStockError names every ingredient that could not cover the
// order. errors.Is(err, ErrInsufficientStock) matches it.
type InsufficientStockError struct {
	Ingredients []string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: current stock of %s is too low", strings.Join(e.Ingredients, ", "))
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// classifyStoreError leaves domain errors untouched and tags transient
// database failures with ErrStoreUnavailable.
func classifyStoreError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrInvalidOrder) ||
		errors.Is(err, ErrNoIngredientsConfigured) ||
		errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrStoreUnavailable) {
		return err
	}
	if isTransient(err) {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return err
}

func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", // serialization_failure
			"40P01", // deadlock_detected
			"57014", // query_canceled
			"57P01": // admin_shutdown
			return true
		}
		return strings.HasPrefix(pgErr.Code, "08") // connection exceptions
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	if pgconn.Timeout(err) || pgconn.SafeToRetry(err) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
