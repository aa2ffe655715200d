package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pearl-pos/api/internal/database"
	"github.com/pearl-pos/api/internal/service"
	"github.com/shopspring/decimal"
)

// MenuStore defines the database methods needed by the menu handlers.
// Satisfied by *database.Queries (and its WithTx variant).
type MenuStore interface {
	ListMenuItems(ctx context.Context) ([]database.MenuItem, error)
	UpsertMenuItem(ctx context.Context, arg database.UpsertMenuItemParams) (database.MenuItem, error)
	ListMenuRecipes(ctx context.Context) ([]database.MenuRecipeRow, error)
	DeleteMenuRecipe(ctx context.Context, menuItemID uuid.UUID) error
	CreateMenuRecipeEntry(ctx context.Context, arg database.CreateMenuRecipeEntryParams) error
}

// NewMenuStore creates a MenuStore from a DBTX (pool or tx).
type NewMenuStore func(db database.DBTX) MenuStore

// MenuHandler handles menu and recipe endpoints. Recipe replacement runs in a
// transaction so a menu item never serves with a half written ingredient set.
type MenuHandler struct {
	store    MenuStore
	pool     service.TxBeginner
	newStore NewMenuStore
}

// NewMenuHandler creates a new MenuHandler. store is pool-bound and serves
// the non-transactional endpoints.
func NewMenuHandler(store MenuStore, pool service.TxBeginner, newStore NewMenuStore) *MenuHandler {
	return &MenuHandler{store: store, pool: pool, newStore: newStore}
}

// RegisterRoutes registers the read endpoints available to all staff.
func (h *MenuHandler) RegisterRoutes(r chi.Router) {
	r.Get("/menu", h.List)
	r.Get("/menu/recipes", h.ListRecipes)
}

// RegisterManagerRoutes registers the write endpoints.
func (h *MenuHandler) RegisterManagerRoutes(r chi.Router) {
	r.Put("/menu/{id}", h.Upsert)
	r.Put("/menu/{id}/recipe", h.ReplaceRecipe)
}

// --- Request / Response types ---

type menuItemRequest struct {
	Name         string      `json:"name"`
	Category     string      `json:"category"`
	Price        json.Number `json:"price"`
	SizeUpcharge json.Number `json:"sizeUpcharge"`
	IsActive     *bool       `json:"isActive"`
}

type menuItemResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	Price        string    `json:"price"`
	SizeUpcharge string    `json:"sizeUpcharge"`
	IsActive     bool      `json:"isActive"`
}

func toMenuItemResponse(m database.MenuItem) menuItemResponse {
	return menuItemResponse{
		ID:           m.ID,
		Name:         m.Name,
		Category:     m.Category,
		Price:        database.NumericToString(m.Price),
		SizeUpcharge: database.NumericToString(m.SizeUpcharge),
		IsActive:     m.IsActive,
	}
}

type replaceRecipeRequest struct {
	IngredientIDs []string `json:"ingredientIds"`
}

// --- Handlers ---

// List handles GET /api/menu.
func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListMenuItems(r.Context())
	if err != nil {
		log.Printf("ERROR: list menu: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]menuItemResponse, len(items))
	for i, m := range items {
		resp[i] = toMenuItemResponse(m)
	}
	respondOK(w, http.StatusOK, envelope{"menu": resp})
}

// Upsert handles PUT /api/menu/{id}. The client supplies the id, so the same
// call creates a new item or edits an existing one.
func (h *MenuHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid menu item id")
		return
	}

	var req menuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" || req.Category == "" {
		respondError(w, http.StatusBadRequest, "name and category are required")
		return
	}
	price, err := decimal.NewFromString(req.Price.String())
	if err != nil || price.IsNegative() {
		respondError(w, http.StatusBadRequest, "invalid price")
		return
	}
	upcharge := decimal.Zero
	if req.SizeUpcharge != "" {
		upcharge, err = decimal.NewFromString(req.SizeUpcharge.String())
		if err != nil || upcharge.IsNegative() {
			respondError(w, http.StatusBadRequest, "invalid sizeUpcharge")
			return
		}
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	item, err := h.store.UpsertMenuItem(r.Context(), database.UpsertMenuItemParams{
		ID:           id,
		Name:         req.Name,
		Category:     req.Category,
		Price:        database.DecimalToNumeric(price),
		SizeUpcharge: database.DecimalToNumeric(upcharge),
		IsActive:     active,
	})
	if err != nil {
		log.Printf("ERROR: upsert menu item: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondOK(w, http.StatusOK, envelope{"item": toMenuItemResponse(item)})
}

// ListRecipes handles GET /api/menu/recipes.
func (h *MenuHandler) ListRecipes(w http.ResponseWriter, r *http.Request) {
	rows, err := h.store.ListMenuRecipes(r.Context())
	if err != nil {
		log.Printf("ERROR: list recipes: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	type recipeEntry struct {
		MenuItemID   uuid.UUID `json:"menuItemId"`
		MenuItemName string    `json:"menuItemName"`
		IngredientID uuid.UUID `json:"ingredientId"`
		Ingredient   string    `json:"ingredient"`
	}
	resp := make([]recipeEntry, len(rows))
	for i, row := range rows {
		resp[i] = recipeEntry{
			MenuItemID:   row.MenuItemID,
			MenuItemName: row.MenuItemName,
			IngredientID: row.IngredientID,
			Ingredient:   row.Ingredient,
		}
	}
	respondOK(w, http.StatusOK, envelope{"recipes": resp})
}

// ReplaceRecipe handles PUT /api/menu/{id}/recipe. The old ingredient set is
// deleted and the new one inserted in a single transaction.
func (h *MenuHandler) ReplaceRecipe(w http.ResponseWriter, r *http.Request) {
	menuItemID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid menu item id")
		return
	}

	var req replaceRecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ingredientIDs := make([]uuid.UUID, len(req.IngredientIDs))
	for i, raw := range req.IngredientIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid ingredient id %q", raw))
			return
		}
		ingredientIDs[i] = id
	}

	if err := h.replaceRecipe(r.Context(), menuItemID, ingredientIDs); err != nil {
		log.Printf("ERROR: replace recipe: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondOK(w, http.StatusOK, envelope{"menuItemId": menuItemID, "ingredientCount": len(ingredientIDs)})
}

func (h *MenuHandler) replaceRecipe(ctx context.Context, menuItemID uuid.UUID, ingredientIDs []uuid.UUID) error {
	tx, err := h.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := h.newStore(tx)
	if err := store.DeleteMenuRecipe(ctx, menuItemID); err != nil {
		return fmt.Errorf("clear recipe: %w", err)
	}
	for _, ingredientID := range ingredientIDs {
		err := store.CreateMenuRecipeEntry(ctx, database.CreateMenuRecipeEntryParams{
			MenuItemID:   menuItemID,
			IngredientID: ingredientID,
		})
		if err != nil {
			return fmt.Errorf("add ingredient %s: %w", ingredientID, err)
		}
	}

	return tx.Commit(ctx)
}
