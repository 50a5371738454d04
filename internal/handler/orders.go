package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"go.uber.org/zap"

	"github.com/tabletop-pos/api/internal/database"
	"github.com/tabletop-pos/api/internal/enum"
	"github.com/tabletop-pos/api/internal/middleware"
	"github.com/tabletop-pos/api/internal/service"
)

// OrderStore defines the database methods needed by order read/update handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type OrderStore interface {
	GetOrder(ctx context.Context, id int64) (database.Order, error)
	GetLatestOrderID(ctx context.Context) (int64, error)
	ListOrders(ctx context.Context, arg database.ListOrdersParams) ([]database.Order, error)
	ListOrderLineSummary(ctx context.Context, orderID int64) ([]database.ListOrderLineSummaryRow, error)
	UpdateOrderStatus(ctx context.Context, arg database.UpdateOrderStatusParams) (database.Order, error)
	DeleteOrder(ctx context.Context, id int64) (int64, error)
}

// OrderHandler handles staff order endpoints.
type OrderHandler struct {
	store    OrderStore
	observer service.OrderObserver
	logger   *zap.SugaredLogger
}

// NewOrderHandler creates a new OrderHandler. observer may be nil.
func NewOrderHandler(store OrderStore, observer service.OrderObserver, logger *zap.SugaredLogger) *OrderHandler {
	if observer == nil {
		observer = service.Observers{}
	}
	return &OrderHandler{store: store, observer: observer, logger: logger}
}

// RegisterRoutes registers order endpoints on the given Chi router.
// Expected to be mounted behind Authenticate at /orders.
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/latest", h.Latest)
	r.Get("/{id}", h.Get)
	r.With(middleware.RequireRole(enum.UserRoleKitchen, enum.UserRoleManager)).Patch("/{id}/status", h.UpdateStatus)
	r.With(middleware.RequireRole(enum.UserRoleManager)).Delete("/{id}", h.Delete)
}

// --- Request / Response types ---

type orderResponse struct {
	ID          int64     `json:"id"`
	TimeOrdered time.Time `json:"time_ordered"`
	WeekNumber  int32     `json:"week_number"`
	Status      string    `json:"status"`
}

type orderLineSummaryResponse struct {
	ID       int32  `json:"id"`
	Type     string `json:"type"`
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
}

// orderDetailResponse extends orderResponse with the grouped lines.
type orderDetailResponse struct {
	orderResponse
	Lines []orderLineSummaryResponse `json:"lines"`
}

// orderListResponse wraps a list of orders with pagination metadata.
type orderListResponse struct {
	Orders []orderResponse `json:"orders"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// --- Handlers ---

// List handles GET /orders, newest first.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20, 1, 100)
	offset := queryInt(r, "offset", 0, 0, math.MaxInt32)

	params := database.ListOrdersParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	}

	if s := r.URL.Query().Get("status"); s != "" {
		status := database.OrderStatus(s)
		if !status.Valid() {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid status"})
			return
		}
		params.Status = database.NullOrderStatus{OrderStatus: status, Valid: true}
	}
	if s := r.URL.Query().Get("week"); s != "" {
		week, err := strconv.Atoi(s)
		if err != nil || week < 1 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "week must be a positive integer"})
			return
		}
		params.WeekNumber = pgtype.Int4{Int32: int32(week), Valid: true}
	}

	orders, err := h.store.ListOrders(r.Context(), params)
	if err != nil {
		h.logger.Errorw("list orders", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		resp[i] = toOrderResponse(o)
	}

	writeJSON(w, http.StatusOK, orderListResponse{
		Orders: resp,
		Limit:  limit,
		Offset: offset,
	})
}

// Latest handles GET /orders/latest.
func (h *OrderHandler) Latest(w http.ResponseWriter, r *http.Request) {
	id, err := h.store.GetLatestOrderID(r.Context())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no orders yet"})
			return
		}
		h.logger.Errorw("get latest order id", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"order_id": id})
}

// Get handles GET /orders/{id}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseOrderID(w, r)
	if !ok {
		return
	}

	order, err := h.store.GetOrder(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		h.logger.Errorw("get order", "order_id", orderID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	rows, err := h.store.ListOrderLineSummary(r.Context(), orderID)
	if err != nil {
		h.logger.Errorw("list order lines", "order_id", orderID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	lines := make([]orderLineSummaryResponse, 0, len(rows))
	for _, row := range rows {
		ref, ok := service.ItemRefFromColumns(row.ItemID, row.SeasonalID)
		if !ok {
			// the schema forbids this; skip rather than fail the read
			h.logger.Warnw("order line without a single item reference", "order_id", orderID)
			continue
		}
		lines = append(lines, orderLineSummaryResponse{
			ID:       ref.ID,
			Type:     ref.Kind.String(),
			Name:     row.ItemName,
			Quantity: row.Quantity,
		})
	}

	writeJSON(w, http.StatusOK, orderDetailResponse{
		orderResponse: toOrderResponse(order),
		Lines:         lines,
	})
}

// UpdateStatus handles PATCH /orders/{id}/status.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseOrderID(w, r)
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Status == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "status is required"})
		return
	}

	newStatus := database.OrderStatus(req.Status)
	if !newStatus.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid status"})
		return
	}

	current, err := h.store.GetOrder(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		h.logger.Errorw("get order for status update", "order_id", orderID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	if err := validateStatusTransition(current.Status, newStatus); err != nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}

	updated, err := h.store.UpdateOrderStatus(r.Context(), database.UpdateOrderStatusParams{
		NewStatus:     newStatus,
		ID:            orderID,
		CurrentStatus: current.Status,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// status changed between our read and write
			writeJSON(w, http.StatusConflict, map[string]string{"error": "order status changed, please retry"})
			return
		}
		h.logger.Errorw("update order status", "order_id", orderID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.observer.OrderStatusChanged(context.WithoutCancel(r.Context()), updated, current.Status)
	writeJSON(w, http.StatusOK, toOrderResponse(updated))
}

// Delete handles DELETE /orders/{id}. Lines go with it.
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseOrderID(w, r)
	if !ok {
		return
	}

	n, err := h.store.DeleteOrder(r.Context(), orderID)
	if err != nil {
		h.logger.Errorw("delete order", "order_id", orderID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	if n == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- Helpers ---

func parseOrderID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return 0, false
	}
	return id, true
}

func toOrderResponse(o database.Order) orderResponse {
	return orderResponse{
		ID:          o.ID,
		TimeOrdered: o.TimeOrdered,
		WeekNumber:  o.WeekNumber,
		Status:      string(o.Status),
	}
}

// allowedTransitions defines valid status transitions.
// Completed and Canceled are terminal.
var allowedTransitions = map[database.OrderStatus][]database.OrderStatus{
	database.OrderStatusIncomplete: {database.OrderStatusCompleted, database.OrderStatusCanceled},
}

func validateStatusTransition(from, to database.OrderStatus) error {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return nil
		}
	}
	return fmt.Errorf("cannot transition from %s to %s", from, to)
}
