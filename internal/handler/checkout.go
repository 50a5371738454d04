package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/tabletop-pos/api/internal/service"
)

// CheckoutServicer defines the service methods needed by the checkout handler.
// Satisfied by *service.CheckoutService; narrow interface for testability.
type CheckoutServicer interface {
	Checkout(ctx context.Context, req service.CheckoutRequest) (*service.CheckoutResult, error)
}

// CheckoutHandler handles the customer-facing checkout endpoint.
type CheckoutHandler struct {
	svc    CheckoutServicer
	logger *zap.SugaredLogger
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(svc CheckoutServicer, logger *zap.SugaredLogger) *CheckoutHandler {
	return &CheckoutHandler{svc: svc, logger: logger}
}

// RegisterRoutes registers checkout endpoints. Expected at /checkout.
func (h *CheckoutHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.Create)
}

// --- Request / Response types ---

type checkoutRequest struct {
	Order []checkoutLineRequest `json:"order"`
}

type checkoutLineRequest struct {
	ID    int32  `json:"id"`
	Count int32  `json:"count"`
	Type  string `json:"type"`
}

type checkoutResponse struct {
	OrderID             int64                 `json:"order_id"`
	WeekNumber          int32                 `json:"week_number"`
	Status              string                `json:"status"`
	TimeOrdered         time.Time             `json:"time_ordered"`
	DaysSinceFirstOrder int                   `json:"days_since_first_order"`
	LineCount           int64                 `json:"line_count"`
	Total               string                `json:"total"`
	Items               []orderedItemResponse `json:"items"`
	Message             string                `json:"message"`
}

type orderedItemResponse struct {
	ID        int32  `json:"id"`
	Type      string `json:"type"`
	Name      string `json:"name"`
	Count     int32  `json:"count"`
	UnitPrice string `json:"unit_price"`
	Subtotal  string `json:"subtotal"`
}

// --- Handlers ---

// Create handles POST /checkout.
func (h *CheckoutHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	lines := make([]service.CheckoutLine, len(req.Order))
	for i, l := range req.Order {
		kind, err := service.ParseItemKind(l.Type)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("line[%d]: %v", i, err)})
			return
		}
		lines[i] = service.CheckoutLine{
			Item:     service.ItemRef{Kind: kind, ID: l.ID},
			Quantity: l.Count,
		}
	}

	result, err := h.svc.Checkout(r.Context(), service.CheckoutRequest{Lines: lines})
	if err != nil {
		h.writeCheckoutError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toCheckoutResponse(result))
}

// writeCheckoutError maps service errors to HTTP status codes.
func (h *CheckoutHandler) writeCheckoutError(w http.ResponseWriter, err error) {
	var stockErr *service.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":       err.Error(),
			"ingredients": stockErr.Ingredients,
		})
	case errors.Is(err, service.ErrInvalidOrder):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrNoIngredientsConfigured):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrStoreUnavailable):
		h.logger.Warnw("checkout store unavailable", "error", err)
		w.Header().Set("Retry-After", "1")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "service temporarily unavailable, please retry"})
	default:
		h.logger.Errorw("checkout failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

func toCheckoutResponse(result *service.CheckoutResult) checkoutResponse {
	items := make([]orderedItemResponse, len(result.Items))
	for i, it := range result.Items {
		items[i] = orderedItemResponse{
			ID:        it.Item.ID,
			Type:      it.Item.Kind.String(),
			Name:      it.Name,
			Count:     it.Quantity,
			UnitPrice: it.UnitPrice.StringFixed(2),
			Subtotal:  it.Subtotal.StringFixed(2),
		}
	}
	return checkoutResponse{
		OrderID:             result.Order.ID,
		WeekNumber:          result.Order.WeekNumber,
		Status:              string(result.Order.Status),
		TimeOrdered:         result.Order.TimeOrdered,
		DaysSinceFirstOrder: result.DaysSinceFirstOrder,
		LineCount:           result.LineCount,
		Total:               result.Total.StringFixed(2),
		Items:               items,
		Message:             fmt.Sprintf("Order processed successfully. Days since first order: %d", result.DaysSinceFirstOrder),
	}
}
