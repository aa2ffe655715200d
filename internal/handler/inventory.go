package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pearl-pos/api/internal/database"
	"github.com/shopspring/decimal"
)

// InventoryStore defines the database methods needed by the inventory
// handlers. Satisfied by *database.Queries.
type InventoryStore interface {
	ListInventory(ctx context.Context) ([]database.InventoryItem, error)
	GetInventoryItem(ctx context.Context, id uuid.UUID) (database.InventoryItem, error)
	CreateInventoryItem(ctx context.Context, arg database.CreateInventoryItemParams) (database.InventoryItem, error)
	UpdateInventoryItem(ctx context.Context, arg database.UpdateInventoryItemParams) (database.InventoryItem, error)
	DeleteInventoryItem(ctx context.Context, id uuid.UUID) (int64, error)
	ListLowStock(ctx context.Context, threshold int32) ([]database.LowStockRow, error)
}

// InventoryHandler handles inventory endpoints.
type InventoryHandler struct {
	store InventoryStore
}

// NewInventoryHandler creates a new InventoryHandler.
func NewInventoryHandler(store InventoryStore) *InventoryHandler {
	return &InventoryHandler{store: store}
}

// RegisterRoutes registers the read endpoints available to all staff.
func (h *InventoryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/inventory", h.List)
	r.Get("/inventory/low-stock", h.LowStock)
	r.Get("/inventory/{id}", h.Get)
}

// RegisterManagerRoutes registers the write endpoints.
func (h *InventoryHandler) RegisterManagerRoutes(r chi.Router) {
	r.Post("/inventory", h.Create)
	r.Put("/inventory/{id}", h.Update)
	r.Delete("/inventory/{id}", h.Delete)
}

// --- Request / Response types ---

type inventoryItemRequest struct {
	Ingredient string      `json:"ingredient"`
	Quantity   int32       `json:"quantity"`
	UnitPrice  json.Number `json:"unitPrice"`
}

type inventoryItemResponse struct {
	ID         uuid.UUID `json:"id"`
	Ingredient string    `json:"ingredient"`
	Quantity   int32     `json:"quantity"`
	UnitPrice  string    `json:"unitPrice"`
}

func toInventoryItemResponse(it database.InventoryItem) inventoryItemResponse {
	return inventoryItemResponse{
		ID:         it.ID,
		Ingredient: it.Ingredient,
		Quantity:   it.Quantity,
		UnitPrice:  database.NumericToString(it.UnitPrice),
	}
}

func (req *inventoryItemRequest) validate() (decimal.Decimal, error) {
	if req.Ingredient == "" {
		return decimal.Zero, errors.New("ingredient is required")
	}
	if req.Quantity < 0 {
		return decimal.Zero, errors.New("quantity cannot be negative")
	}
	price, err := decimal.NewFromString(req.UnitPrice.String())
	if err != nil || price.IsNegative() {
		return decimal.Zero, errors.New("invalid unitPrice")
	}
	return price, nil
}

// --- Handlers ---

// List handles GET /api/inventory.
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListInventory(r.Context())
	if err != nil {
		log.Printf("ERROR: list inventory: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]inventoryItemResponse, len(items))
	for i, it := range items {
		resp[i] = toInventoryItemResponse(it)
	}
	respondOK(w, http.StatusOK, envelope{"inventory": resp})
}

// Get handles GET /api/inventory/{id}.
func (h *InventoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid inventory id")
		return
	}

	item, err := h.store.GetInventoryItem(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondError(w, http.StatusNotFound, "inventory item not found")
			return
		}
		log.Printf("ERROR: get inventory item: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondOK(w, http.StatusOK, envelope{"item": toInventoryItemResponse(item)})
}

// Create handles POST /api/inventory.
func (h *InventoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req inventoryItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	price, err := req.validate()
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.store.CreateInventoryItem(r.Context(), database.CreateInventoryItemParams{
		Ingredient: req.Ingredient,
		Quantity:   req.Quantity,
		UnitPrice:  database.DecimalToNumeric(price),
	})
	if err != nil {
		if database.IsUniqueViolation(err, "inventory_ingredient_key") {
			respondError(w, http.StatusBadRequest, "ingredient already exists")
			return
		}
		log.Printf("ERROR: create inventory item: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondOK(w, http.StatusCreated, envelope{"item": toInventoryItemResponse(item)})
}

// Update handles PUT /api/inventory/{id}.
func (h *InventoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid inventory id")
		return
	}

	var req inventoryItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	price, err := req.validate()
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.store.UpdateInventoryItem(r.Context(), database.UpdateInventoryItemParams{
		ID:         id,
		Ingredient: req.Ingredient,
		Quantity:   req.Quantity,
		UnitPrice:  database.DecimalToNumeric(price),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondError(w, http.StatusNotFound, "inventory item not found")
			return
		}
		log.Printf("ERROR: update inventory item: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondOK(w, http.StatusOK, envelope{"item": toInventoryItemResponse(item)})
}

// Delete handles DELETE /api/inventory/{id}.
func (h *InventoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid inventory id")
		return
	}

	deleted, err := h.store.DeleteInventoryItem(r.Context(), id)
	if err != nil {
		log.Printf("ERROR: delete inventory item: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if deleted == 0 {
		respondError(w, http.StatusNotFound, "inventory item not found")
		return
	}

	respondOK(w, http.StatusOK, envelope{"deleted": id})
}

// LowStock handles GET /api/inventory/low-stock.
func (h *InventoryHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	threshold := int32(10)
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "invalid threshold")
			return
		}
		threshold = int32(n)
	}

	rows, err := h.store.ListLowStock(r.Context(), threshold)
	if err != nil {
		log.Printf("ERROR: list low stock: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	type lowStockResponse struct {
		ID              uuid.UUID `json:"id"`
		Ingredient      string    `json:"ingredient"`
		Quantity        int32     `json:"quantity"`
		UnitPrice       string    `json:"unitPrice"`
		UsedInMenuItems int64     `json:"usedInMenuItems"`
	}
	resp := make([]lowStockResponse, len(rows))
	for i, row := range rows {
		resp[i] = lowStockResponse{
			ID:              row.ID,
			Ingredient:      row.Ingredient,
			Quantity:        row.Quantity,
			UnitPrice:       database.NumericToString(row.UnitPrice),
			UsedInMenuItems: row.UsedInMenuItems,
		}
	}
	respondOK(w, http.StatusOK, envelope{"threshold": threshold, "items": resp})
}
