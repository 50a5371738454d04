package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/tabletop-pos/api/internal/database"
	"github.com/tabletop-pos/api/internal/store/mongo"
)

// InventoryStore defines the database methods needed by inventory handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type InventoryStore interface {
	ListIngredients(ctx context.Context) ([]database.Ingredient, error)
	ListRestockIngredients(ctx context.Context) ([]database.Ingredient, error)
	ListPopularItems(ctx context.Context, limit int32) ([]database.ListPopularItemsRow, error)
}

// CheckoutAuditReader reads the checkout audit trail.
// Satisfied by *mongo.CheckoutAuditRepository.
type CheckoutAuditReader interface {
	ListRecent(ctx context.Context, outcome string, limit int) ([]mongo.CheckoutAudit, error)
}

// InventoryHandler handles manager stock and sales reports.
type InventoryHandler struct {
	store  InventoryStore
	audits CheckoutAuditReader
	logger *zap.SugaredLogger
}

// NewInventoryHandler creates a new InventoryHandler. audits may be nil when
// the audit trail is disabled.
func NewInventoryHandler(store InventoryStore, audits CheckoutAuditReader, logger *zap.SugaredLogger) *InventoryHandler {
	return &InventoryHandler{store: store, audits: audits, logger: logger}
}

// RegisterRoutes registers inventory endpoints.
// Expected to be mounted behind a MANAGER role check at /inventory.
func (h *InventoryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/ingredients", h.Ingredients)
	r.Get("/restock", h.Restock)
	r.Get("/popular", h.Popular)
	r.Get("/checkout-audit", h.CheckoutAudit)
}

// --- Response types ---

type ingredientResponse struct {
	ID           int32  `json:"id"`
	Name         string `json:"name"`
	InitialStock int32  `json:"initial_stock"`
	CurrentStock int32  `json:"current_stock"`
	UnitPrice    string `json:"unit_price"`
}

type popularItemResponse struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	TotalSold int64  `json:"total_sold"`
}

// --- Handlers ---

// Ingredients returns every ingredient with its stock level.
func (h *InventoryHandler) Ingredients(w http.ResponseWriter, r *http.Request) {
	rows, err := h.store.ListIngredients(r.Context())
	if err != nil {
		h.logger.Errorw("list ingredients", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, toIngredientResponses(rows))
}

// Restock returns ingredients below 20% of their initial stock.
func (h *InventoryHandler) Restock(w http.ResponseWriter, r *http.Request) {
	rows, err := h.store.ListRestockIngredients(r.Context())
	if err != nil {
		h.logger.Errorw("list restock ingredients", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, toIngredientResponses(rows))
}

// Popular returns the best selling items across both menus. Canceled orders
// do not count.
func (h *InventoryHandler) Popular(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 5, 1, 50)

	rows, err := h.store.ListPopularItems(r.Context(), int32(limit))
	if err != nil {
		h.logger.Errorw("list popular items", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]popularItemResponse, len(rows))
	for i, row := range rows {
		resp[i] = popularItemResponse{Name: row.ItemName, Type: row.Kind, TotalSold: row.TotalSold}
	}
	writeJSON(w, http.StatusOK, resp)
}

// CheckoutAudit returns recent checkout attempts, newest first.
// Optional ?outcome=accepted|rejected.
func (h *InventoryHandler) CheckoutAudit(w http.ResponseWriter, r *http.Request) {
	if h.audits == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "checkout audit trail is not enabled"})
		return
	}

	outcome := r.URL.Query().Get("outcome")
	if outcome != "" && outcome != mongo.OutcomeAccepted && outcome != mongo.OutcomeRejected {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "outcome must be accepted or rejected"})
		return
	}
	limit := queryInt(r, "limit", 50, 1, 500)

	audits, err := h.audits.ListRecent(r.Context(), outcome, limit)
	if err != nil {
		h.logger.Errorw("list checkout audits", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, audits)
}

func toIngredientResponses(rows []database.Ingredient) []ingredientResponse {
	resp := make([]ingredientResponse, len(rows))
	for i, row := range rows {
		resp[i] = ingredientResponse{
			ID:           row.ID,
			Name:         row.Name,
			InitialStock: row.InitialStock,
			CurrentStock: row.CurrentStock,
			UnitPrice:    numericToString(row.UnitPrice),
		}
	}
	return resp
}
