package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"go.uber.org/zap"

	"github.com/tabletop-pos/api/internal/database"
	"github.com/tabletop-pos/api/internal/enum"
	"github.com/tabletop-pos/api/internal/middleware"
)

// MenuStore defines the database methods needed by menu handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type MenuStore interface {
	ListMenuItems(ctx context.Context) ([]database.MenuItem, error)
	ListSeasonalItems(ctx context.Context) ([]database.SeasonalItem, error)
	ListActiveSeasonalItems(ctx context.Context, day pgtype.Date) ([]database.SeasonalItem, error)
	ListItemIngredients(ctx context.Context, itemID int32) ([]database.ListItemIngredientsRow, error)
	ListSeasonalItemIngredients(ctx context.Context, seasonalID int32) ([]database.ListSeasonalItemIngredientsRow, error)
	ListOutOfStockMenuItems(ctx context.Context) ([]database.MenuItem, error)
	ListOutOfStockSeasonalItems(ctx context.Context) ([]database.SeasonalItem, error)
	DeleteMenuItem(ctx context.Context, id int32) (int64, error)
	DeleteSeasonalItem(ctx context.Context, id int32) (int64, error)
}

// MenuHandler handles menu browsing and menu maintenance endpoints.
type MenuHandler struct {
	store  MenuStore
	logger *zap.SugaredLogger
	now    func() time.Time
}

// NewMenuHandler creates a new MenuHandler.
func NewMenuHandler(store MenuStore, logger *zap.SugaredLogger) *MenuHandler {
	return &MenuHandler{store: store, logger: logger, now: time.Now}
}

// RegisterRoutes registers the public menu reads. Expected at /menu.
func (h *MenuHandler) RegisterRoutes(r chi.Router) {
	r.Get("/items", h.ListItems)
	r.Get("/items/{id}/ingredients", h.ItemIngredients)
	r.Get("/seasonal", h.ListSeasonal)
	r.Get("/seasonal/{id}/ingredients", h.SeasonalIngredients)
	r.Get("/out-of-stock", h.OutOfStock)
}

// RegisterManagerRoutes registers menu maintenance. Must sit behind
// Authenticate; the role check happens here.
func (h *MenuHandler) RegisterManagerRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(enum.UserRoleManager))
		r.Delete("/items/{id}", h.DeleteItem)
		r.Delete("/seasonal/{id}", h.DeleteSeasonal)
	})
}

// --- Response types ---

type menuItemResponse struct {
	ID       int32  `json:"id"`
	Type     string `json:"type"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Category string `json:"category"`
	Calories int32  `json:"calories"`
	Vegan    bool   `json:"vegan"`
	Gluten   bool   `json:"gluten"`
	Peanut   bool   `json:"peanut"`
}

type seasonalItemResponse struct {
	menuItemResponse
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type recipeIngredientResponse struct {
	ID           int32  `json:"id"`
	Name         string `json:"name"`
	CurrentStock int32  `json:"current_stock"`
}

type outOfStockResponse struct {
	Items    []menuItemResponse     `json:"items"`
	Seasonal []seasonalItemResponse `json:"seasonal"`
}

// --- Handlers ---

// ListItems handles GET /menu/items.
func (h *MenuHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListMenuItems(r.Context())
	if err != nil {
		h.logger.Errorw("list menu items", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, toMenuItemResponses(items))
}

// ListSeasonal handles GET /menu/seasonal. Only items orderable today are
// listed unless all=true.
func (h *MenuHandler) ListSeasonal(w http.ResponseWriter, r *http.Request) {
	var (
		items []database.SeasonalItem
		err   error
	)
	if all, _ := strconv.ParseBool(r.URL.Query().Get("all")); all {
		items, err = h.store.ListSeasonalItems(r.Context())
	} else {
		now := h.now().UTC()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		items, err = h.store.ListActiveSeasonalItems(r.Context(), pgtype.Date{Time: today, Valid: true})
	}
	if err != nil {
		h.logger.Errorw("list seasonal items", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, toSeasonalItemResponses(items))
}

// ItemIngredients handles GET /menu/items/{id}/ingredients.
func (h *MenuHandler) ItemIngredients(w http.ResponseWriter, r *http.Request) {
	id, ok := parseMenuID(w, r)
	if !ok {
		return
	}
	rows, err := h.store.ListItemIngredients(r.Context(), id)
	if err != nil {
		h.logger.Errorw("list item ingredients", "item_id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]recipeIngredientResponse, len(rows))
	for i, row := range rows {
		resp[i] = recipeIngredientResponse{ID: row.ID, Name: row.Name, CurrentStock: row.CurrentStock}
	}
	writeJSON(w, http.StatusOK, resp)
}

// SeasonalIngredients handles GET /menu/seasonal/{id}/ingredients.
func (h *MenuHandler) SeasonalIngredients(w http.ResponseWriter, r *http.Request) {
	id, ok := parseMenuID(w, r)
	if !ok {
		return
	}
	rows, err := h.store.ListSeasonalItemIngredients(r.Context(), id)
	if err != nil {
		h.logger.Errorw("list seasonal item ingredients", "seasonal_id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]recipeIngredientResponse, len(rows))
	for i, row := range rows {
		resp[i] = recipeIngredientResponse{ID: row.ID, Name: row.Name, CurrentStock: row.CurrentStock}
	}
	writeJSON(w, http.StatusOK, resp)
}

// OutOfStock handles GET /menu/out-of-stock: items with at least one
// ingredient at or below zero.
func (h *MenuHandler) OutOfStock(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListOutOfStockMenuItems(r.Context())
	if err != nil {
		h.logger.Errorw("list out of stock items", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	seasonal, err := h.store.ListOutOfStockSeasonalItems(r.Context())
	if err != nil {
		h.logger.Errorw("list out of stock seasonal items", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, outOfStockResponse{
		Items:    toMenuItemResponses(items),
		Seasonal: toSeasonalItemResponses(seasonal),
	})
}

// DeleteItem handles DELETE /menu/items/{id}. Recipe rows and order lines
// referencing the item are removed with it.
func (h *MenuHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	h.delete(w, r, "menu item", h.store.DeleteMenuItem)
}

// DeleteSeasonal handles DELETE /menu/seasonal/{id}.
func (h *MenuHandler) DeleteSeasonal(w http.ResponseWriter, r *http.Request) {
	h.delete(w, r, "seasonal item", h.store.DeleteSeasonalItem)
}

func (h *MenuHandler) delete(w http.ResponseWriter, r *http.Request, what string, del func(context.Context, int32) (int64, error)) {
	id, ok := parseMenuID(w, r)
	if !ok {
		return
	}

	n, err := del(r.Context(), id)
	if err != nil {
		h.logger.Errorw("delete "+what, "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	if n == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": what + " not found"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- Helpers ---

func parseMenuID(w http.ResponseWriter, r *http.Request) (int32, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 32)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item ID"})
		return 0, false
	}
	return int32(id), true
}

func toMenuItemResponses(items []database.MenuItem) []menuItemResponse {
	resp := make([]menuItemResponse, len(items))
	for i, m := range items {
		resp[i] = menuItemResponse{
			ID:       m.ID,
			Type:     enum.ItemKindRegular,
			Name:     m.Name,
			Price:    numericToString(m.Price),
			Category: m.Category,
			Calories: m.Calories,
			Vegan:    m.Vegan,
			Gluten:   m.Gluten,
			Peanut:   m.Peanut,
		}
	}
	return resp
}

func toSeasonalItemResponses(items []database.SeasonalItem) []seasonalItemResponse {
	resp := make([]seasonalItemResponse, len(items))
	for i, s := range items {
		resp[i] = seasonalItemResponse{
			menuItemResponse: menuItemResponse{
				ID:       s.ID,
				Type:     enum.ItemKindSeasonal,
				Name:     s.Name,
				Price:    numericToString(s.Price),
				Category: s.Category,
				Calories: s.Calories,
				Vegan:    s.Vegan,
				Gluten:   s.Gluten,
				Peanut:   s.Peanut,
			},
			StartDate: formatDate(s.StartDate),
			EndDate:   formatDate(s.EndDate),
		}
	}
	return resp
}

func formatDate(d pgtype.Date) string {
	if !d.Valid {
		return ""
	}
	return d.Time.Format("2006-01-02")
}
